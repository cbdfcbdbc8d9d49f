// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cpputils/buildplan/pkg/buildgraph"
	"github.com/cpputils/buildplan/pkg/manifest"
)

func module(name string, deps ...string) manifest.Module {
	m := manifest.Module{Name: name, Kind: manifest.KindCxx}
	for _, d := range deps {
		m.Dependencies = append(m.Dependencies, manifest.Dependency{Name: d})
	}
	return m
}

func loadErr(t *testing.T, p *manifest.Package, opts ...buildgraph.Option) error {
	t.Helper()
	_, err := buildgraph.Load(p, opts...)
	if err == nil {
		t.Fatalf("Load(%s) succeeded, want an error", p.Name)
	}
	return err
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name       string
		err        func(t *testing.T) error
		id         Id
		suggestion string
	}{
		{
			name: "duplicate module",
			err: func(t *testing.T) error {
				return loadErr(t, &manifest.Package{Name: "dup", Modules: []manifest.Module{module("a"), module("a")}})
			},
			id:         DuplicateNameId,
			suggestion: `module declarations named "a"`,
		},
		{
			name: "cycle",
			err: func(t *testing.T) error {
				return loadErr(t, &manifest.Package{Name: "loop", Modules: []manifest.Module{module("A", "B"), module("B", "A")}})
			},
			id:         DependencyCycleId,
			suggestion: "A -> B -> A",
		},
		{
			name: "cycle members",
			err: func(t *testing.T) error {
				return loadErr(t, &manifest.Package{Name: "loop", Modules: []manifest.Module{module("A", "B"), module("B", "A")}})
			},
			id:         DependencyCycleId,
			suggestion: "shared by A, B into a module",
		},
		{
			name: "unresolved",
			err: func(t *testing.T) error {
				return loadErr(t, &manifest.Package{Name: "app", Modules: []manifest.Module{module("app", "ghost")}})
			},
			id:         UnresolvedDependencyId,
			suggestion: `Declare a module named "ghost"`,
		},
		{
			name: "product",
			err: func(t *testing.T) error {
				return loadErr(t, &manifest.Package{
					Name:     "app",
					Products: []manifest.Product{{Name: "lib", Modules: []string{"missing"}}},
					Modules:  []manifest.Module{module("app")},
				})
			},
			id:         InvalidProductReferenceId,
			suggestion: `Declare module "missing"`,
		},
		{
			name: "platform below minimum",
			err: func(t *testing.T) error {
				p, err := manifest.Revision(3)
				if err != nil {
					t.Fatal(err)
				}
				return loadErr(t, p, buildgraph.WithTarget(manifest.PlatformMacOS, "10.9"))
			},
			id:         UnsupportedPlatformId,
			suggestion: "--target-version 10.15 or later",
		},
		{
			name: "platform not declared",
			err: func(t *testing.T) error {
				p, err := manifest.Revision(3)
				if err != nil {
					t.Fatal(err)
				}
				return loadErr(t, p, buildgraph.WithTarget(manifest.PlatformTvOS, "17.0"))
			},
			id:         UnsupportedPlatformId,
			suggestion: "macOS, iOS, macCatalyst",
		},
		{
			name: "unknown revision",
			err: func(t *testing.T) error {
				_, err := manifest.Revision(99)
				return err
			},
			id:         UnknownRevisionId,
			suggestion: "buildplan revisions",
		},
		{
			name: "schema violation",
			err: func(t *testing.T) error {
				_, err := manifest.Parse([]byte(`name: "x", modules: [{name: "a", kind: "rust"}]`), "package.cue")
				return err
			},
			id:         ManifestParseErrorId,
			suggestion: "reported paths",
		},
		{
			name: "unsupported format",
			err: func(t *testing.T) error {
				_, err := manifest.Parse([]byte(`{}`), "package.ini")
				return err
			},
			id:         ManifestParseErrorId,
			suggestion: ".cue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := Suggest(tt.err(t), "load manifest", "package.cue")
			if ae.Issue != tt.id {
				t.Errorf("Issue = %d, want %d (err: %v)", ae.Issue, tt.id, ae.Cause)
			}
			joined := strings.Join(ae.Suggestions, "\n")
			if !strings.Contains(joined, tt.suggestion) {
				t.Errorf("Suggestions = %q, want one containing %q", ae.Suggestions, tt.suggestion)
			}
		})
	}
}

func TestSuggest_Nil(t *testing.T) {
	if Suggest(nil, "op", "res") != nil {
		t.Error("Suggest(nil) should return nil")
	}
}

func TestSuggest_UnclassifiedError(t *testing.T) {
	cause := errors.New("disk on fire")
	ae := Suggest(fmt.Errorf("read: %w", cause), "load manifest", "")
	if ae.Issue != 0 || ae.HasSuggestions() {
		t.Errorf("unclassified error got Issue %d Suggestions %v", ae.Issue, ae.Suggestions)
	}
	if !errors.Is(ae, cause) {
		t.Error("Suggest should keep the cause")
	}
}

func TestClassify_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("emit: %w", &buildgraph.UnknownModuleError{Package: "cpp-utils", Name: "ghost"})
	if got := Classify(err); got != UnknownModuleId {
		t.Errorf("Classify() = %d, want %d", got, UnknownModuleId)
	}
}
