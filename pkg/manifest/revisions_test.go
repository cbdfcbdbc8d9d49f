// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"slices"
	"testing"
)

func TestRevisionNumbers(t *testing.T) {
	t.Parallel()

	if got := RevisionNumbers(); !slices.Equal(got, []int{1, 2, 3, 4}) {
		t.Errorf("RevisionNumbers() = %v, want [1 2 3 4]", got)
	}
}

func TestRevisions_AllParse(t *testing.T) {
	t.Parallel()

	pkgs, err := Revisions()
	if err != nil {
		t.Fatalf("Revisions() error = %v", err)
	}
	if len(pkgs) != 4 {
		t.Fatalf("expected 4 revisions, got %d", len(pkgs))
	}
	for i, pkg := range pkgs {
		if pkg.Name != "cpp-utils" {
			t.Errorf("revision %d: Name = %q", i+1, pkg.Name)
		}
		if pkg.Revision != i+1 {
			t.Errorf("revision %d: Revision = %d", i+1, pkg.Revision)
		}
	}
}

func TestRevision_Contents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		revision     int
		modules      []string
		tests        int
		externalPkgs []string
		cxx          CxxStandard
		macOSMinimum string
	}{
		{1, []string{"objc-utils", "cpp-utils"}, 2, nil, "gnucxx20", "10.15"},
		{2, []string{"cpp-utils"}, 1, []string{"objc_utils"}, "gnucxx20", "10.15"},
		{3, []string{"objc-utils", "cpp-utils", "observing"}, 3, nil, "gnucxx2b", "10.15"},
		{4, []string{"objc-utils", "cpp-utils", "observing"}, 3, nil, "gnucxx2b", "14.0"},
	}

	for _, tt := range tests {
		pkg, err := Revision(tt.revision)
		if err != nil {
			t.Fatalf("Revision(%d) error = %v", tt.revision, err)
		}
		if got := pkg.ModuleNames(); !slices.Equal(got, tt.modules) {
			t.Errorf("revision %d: modules = %v, want %v", tt.revision, got, tt.modules)
		}
		if len(pkg.Tests) != tt.tests {
			t.Errorf("revision %d: %d tests, want %d", tt.revision, len(pkg.Tests), tt.tests)
		}
		var exts []string
		for _, e := range pkg.ExternalPackages {
			exts = append(exts, e.Name)
		}
		if !slices.Equal(exts, tt.externalPkgs) {
			t.Errorf("revision %d: external packages = %v, want %v", tt.revision, exts, tt.externalPkgs)
		}
		if pkg.LanguageStandards.Cxx != tt.cxx {
			t.Errorf("revision %d: cxx standard = %q, want %q", tt.revision, pkg.LanguageStandards.Cxx, tt.cxx)
		}
		if pl, _ := pkg.Platform(PlatformMacOS); pl.Minimum != tt.macOSMinimum {
			t.Errorf("revision %d: macOS minimum = %q, want %q", tt.revision, pl.Minimum, tt.macOSMinimum)
		}
	}
}

func TestRevision2_ExternalDependency(t *testing.T) {
	t.Parallel()

	pkg, err := Revision(2)
	if err != nil {
		t.Fatalf("Revision(2) error = %v", err)
	}
	dep := pkg.Modules[0].Dependencies[0]
	if dep.Name != "objc-utils" || dep.Package != "objc_utils" {
		t.Errorf("dependency = %+v", dep)
	}
	if dep.String() != "objc_utils/objc-utils" {
		t.Errorf("String() = %q", dep.String())
	}
	ext, ok := pkg.ExternalPackage("objc_utils")
	if !ok || ext.Version != ">=0.0.1, <1.0.0" {
		t.Errorf("ExternalPackage(objc_utils) = %+v, %v", ext, ok)
	}
}

func TestRevision4_AccelerateDefines(t *testing.T) {
	t.Parallel()

	pkg, err := Revision(4)
	if err != nil {
		t.Fatalf("Revision(4) error = %v", err)
	}
	cpp := pkg.Modules[1]
	var args []string
	for _, d := range cpp.Cxx.Defines {
		args = append(args, d.Argument())
	}
	want := []string{"-DACCELERATE_NEW_LAPACK=1", "-DACCELERATE_LAPACK_ILP64=1"}
	if !slices.Equal(args, want) {
		t.Errorf("defines = %v, want %v", args, want)
	}
	if !slices.Equal(cpp.Linker.Frameworks, []string{"Accelerate"}) {
		t.Errorf("frameworks = %v", cpp.Linker.Frameworks)
	}
}

func TestRevision_Unknown(t *testing.T) {
	t.Parallel()

	if _, err := Revision(9); !errors.Is(err, ErrUnknownRevision) {
		t.Errorf("expected ErrUnknownRevision, got %v", err)
	}
}

func TestRevision_ReturnsIndependentCopies(t *testing.T) {
	t.Parallel()

	a, err := Revision(3)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Revision(3)
	if err != nil {
		t.Fatal(err)
	}
	a.Modules[0].Name = "mutated"
	if b.Modules[0].Name != "objc-utils" {
		t.Errorf("revisions share state: %q", b.Modules[0].Name)
	}
}
