// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/cpputils/buildplan/pkg/cueutil"
)

const minimalCUE = `
name: "demo"
platforms: [{name: "macOS", minimum: "14.0"}]
languageStandards: {c: "gnu18", cxx: "gnucxx20"}
products: [{name: "demo", modules: ["core"]}]
modules: [
	{name: "base", kind: "c"},
	{
		name: "core"
		kind: "cxx"
		dependencies: [{name: "base"}]
		cxx: defines: [{name: "DEMO", value: "1"}, {name: "FLAG"}]
	},
]
tests: [{name: "core-tests", dependency: "core"}]
`

func TestParse_CUE(t *testing.T) {
	t.Parallel()

	pkg, err := Parse([]byte(minimalCUE), "demo.cue")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if pkg.Name != "demo" {
		t.Errorf("Name = %q, want %q", pkg.Name, "demo")
	}
	if pkg.FilePath != "demo.cue" {
		t.Errorf("FilePath = %q, want %q", pkg.FilePath, "demo.cue")
	}
	if got := pkg.ModuleNames(); !slices.Equal(got, []string{"base", "core"}) {
		t.Errorf("ModuleNames() = %v", got)
	}
	if pkg.LanguageStandards.Cxx != "gnucxx20" {
		t.Errorf("LanguageStandards.Cxx = %q", pkg.LanguageStandards.Cxx)
	}
	core := pkg.Modules[1]
	if core.Kind != KindCxx {
		t.Errorf("core.Kind = %q, want %q", core.Kind, KindCxx)
	}
	if len(core.Dependencies) != 1 || core.Dependencies[0].Name != "base" || core.Dependencies[0].IsExternal() {
		t.Errorf("core.Dependencies = %+v", core.Dependencies)
	}
	wantDefines := []Define{{Name: "DEMO", Value: "1"}, {Name: "FLAG"}}
	if !slices.Equal(core.Cxx.Defines, wantDefines) {
		t.Errorf("core.Cxx.Defines = %+v, want %+v", core.Cxx.Defines, wantDefines)
	}
	if len(pkg.Tests) != 1 || pkg.Tests[0].Kind != KindObjCxx {
		t.Errorf("test module kind should default to objcxx, got %+v", pkg.Tests)
	}
}

func TestParse_AllFormatsAgree(t *testing.T) {
	t.Parallel()

	yamlSrc := `
name: demo
platforms:
  - name: macOS
    minimum: "14.0"
products:
  - name: demo
    modules: [core]
modules:
  - name: base
    kind: c
  - name: core
    kind: cxx
    dependencies:
      - name: base
    linker:
      frameworks: [Foundation]
`
	tomlSrc := `
name = "demo"

[[platforms]]
name = "macOS"
minimum = "14.0"

[[products]]
name = "demo"
modules = ["core"]

[[modules]]
name = "base"
kind = "c"

[[modules]]
name = "core"
kind = "cxx"
dependencies = [{ name = "base" }]
linker = { frameworks = ["Foundation"] }
`
	jsonSrc := `{
  "name": "demo",
  "platforms": [{"name": "macOS", "minimum": "14.0"}],
  "products": [{"name": "demo", "modules": ["core"]}],
  "modules": [
    {"name": "base", "kind": "c"},
    {"name": "core", "kind": "cxx", "dependencies": [{"name": "base"}], "linker": {"frameworks": ["Foundation"]}}
  ]
}`

	tests := []struct {
		name     string
		filename string
		src      string
	}{
		{"yaml", "demo.yaml", yamlSrc},
		{"yml", "demo.yml", yamlSrc},
		{"toml", "demo.toml", tomlSrc},
		{"json", "demo.json", jsonSrc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pkg, err := Parse([]byte(tt.src), tt.filename)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if pkg.Name != "demo" {
				t.Errorf("Name = %q", pkg.Name)
			}
			if pl, ok := pkg.Platform(PlatformMacOS); !ok || pl.Minimum != "14.0" {
				t.Errorf("Platform(macOS) = %+v, %v", pl, ok)
			}
			if got := pkg.ModuleNames(); !slices.Equal(got, []string{"base", "core"}) {
				t.Errorf("ModuleNames() = %v", got)
			}
			if got := pkg.Modules[1].Linker.Frameworks; !slices.Equal(got, []string{"Foundation"}) {
				t.Errorf("core frameworks = %v", got)
			}
		})
	}
}

func TestParse_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		wantSub string
	}{
		{
			name: "unknown module kind",
			src: `name: "x", platforms: [], products: []
modules: [{name: "a", kind: "swift"}]`,
			wantSub: "modules[0].kind",
		},
		{
			name: "unknown platform",
			src: `name: "x", products: [], modules: []
platforms: [{name: "windows", minimum: "10"}]`,
			wantSub: "platforms[0].name",
		},
		{
			name: "empty product",
			src: `name: "x", platforms: [], modules: []
products: [{name: "p", modules: []}]`,
			wantSub: "products[0].modules",
		},
		{
			name: "unknown field",
			src: `name: "x", platforms: [], products: [], modules: []
targets: []`,
			wantSub: "targets",
		},
		{
			name: "bad external url",
			src: `name: "x", platforms: [], products: [], modules: []
externalPackages: [{name: "e", url: "ftp://example.com/e", version: "1.0.0"}]`,
			wantSub: "externalPackages[0].url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.src), "bad.cue")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidManifest) {
				t.Errorf("error should match ErrInvalidManifest: %v", err)
			}
			if !errors.Is(err, cueutil.ErrSchemaViolation) {
				t.Errorf("error should match ErrSchemaViolation: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should mention %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestParse_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("{}"), "package.xml")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if !errors.Is(err, ErrInvalidManifest) {
		t.Errorf("expected ErrInvalidManifest, got %v", err)
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("name: [unterminated"), "bad.yaml")
	if !errors.Is(err, ErrInvalidManifest) {
		t.Fatalf("expected ErrInvalidManifest, got %v", err)
	}
	if !strings.Contains(err.Error(), "YAML") {
		t.Errorf("error should name the format: %v", err)
	}
}

func TestParse_FileTooLarge(t *testing.T) {
	t.Parallel()

	data := make([]byte, cueutil.DefaultMaxFileSize+1)
	_, err := Parse(data, "huge.cue")
	if !errors.Is(err, cueutil.ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "demo.cue")
	if err := os.WriteFile(path, []byte(minimalCUE), 0o644); err != nil {
		t.Fatal(err)
	}

	pkg, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if pkg.FilePath != path {
		t.Errorf("FilePath = %q, want %q", pkg.FilePath, path)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.cue")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPackage_Validate(t *testing.T) {
	t.Parallel()

	pkg := &Package{
		Name:      "demo",
		Platforms: []Platform{{Name: "beos", Minimum: "5"}},
		Modules: []Module{
			{Name: "a", Kind: "pascal"},
			{Name: "b", Kind: KindC, Settings: Settings{CxxStandard: "cxx42"}},
		},
		Tests: []TestModule{{Name: "t", Kind: KindObjCxx}},
	}

	err := pkg.Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	for _, sentinel := range []error{ErrInvalidPlatformName, ErrInvalidModuleKind, ErrInvalidLanguageStandard} {
		if !errors.Is(err, sentinel) {
			t.Errorf("expected %v in %v", sentinel, err)
		}
	}
	if !strings.Contains(err.Error(), `test module "t": dependency is required`) {
		t.Errorf("missing test dependency not reported: %v", err)
	}
}

func TestPackage_ValidateIdentifiersAndExternals(t *testing.T) {
	t.Parallel()

	valid := func() *Package {
		return &Package{
			Name:             "demo",
			ExternalPackages: []ExternalPackage{{Name: "objc_utils", URL: "https://example.com/objc_utils.git", Version: ">=0.0.1"}},
			Products:         []Product{{Name: "demo", Modules: []string{"core"}}},
			Modules: []Module{{
				Name:         "core",
				Kind:         KindCxx,
				Dependencies: []Dependency{{Name: "objc-utils", Package: "objc_utils"}},
			}},
			Tests: []TestModule{{Name: "core-tests", Dependency: "core"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(p *Package)
		wantErr string
	}{
		{"valid", func(*Package) {}, ""},
		{"empty dependency name", func(p *Package) { p.Modules[0].Dependencies[0].Name = "" }, `module "core": dependency name is required`},
		{"malformed dependency package", func(p *Package) { p.Modules[0].Dependencies[0].Package = "9lives" }, `invalid dependency package "9lives"`},
		{"malformed module name", func(p *Package) { p.Modules[0].Name = "core utils" }, `invalid module name "core utils"`},
		{"malformed product module", func(p *Package) { p.Products[0].Modules = []string{"-core"} }, `product "demo": invalid module name "-core"`},
		{"malformed package name", func(p *Package) { p.Name = "_demo" }, `invalid package name "_demo"`},
		{"external without url scheme", func(p *Package) { p.ExternalPackages[0].URL = "example.com/x" }, `url "example.com/x" must start with`},
		{"external without version", func(p *Package) { p.ExternalPackages[0].Version = "" }, `external package "objc_utils": version is required`},
		{"empty test dependency", func(p *Package) { p.Tests[0].Dependency = "" }, `test module "core-tests": dependency is required`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := valid()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestPackage_ValidateIdentifierSentinel(t *testing.T) {
	t.Parallel()

	p := &Package{Name: "demo", Modules: []Module{{Name: "core", Kind: KindC, Dependencies: []Dependency{{}}}}}
	err := p.Validate()
	if !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
	}
	var idErr *InvalidIdentifierError
	if !errors.As(err, &idErr) || idErr.Field != "dependency name" {
		t.Errorf("expected *InvalidIdentifierError for the dependency name, got %v", err)
	}
}

func TestFormatFromFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want Format
	}{
		{"package.cue", FormatCUE},
		{"package.json", FormatJSON},
		{"package.yaml", FormatYAML},
		{"PACKAGE.YML", FormatYAML},
		{"package.toml", FormatTOML},
	}
	for _, tt := range tests {
		got, err := FormatFromFilename(tt.name)
		if err != nil {
			t.Errorf("FormatFromFilename(%q) error = %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatFromFilename(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
