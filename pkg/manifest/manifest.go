// SPDX-License-Identifier: MPL-2.0

package manifest

import "slices"

type (
	// Package is one immutable revision of a package descriptor: platform
	// support, language-standard pins, modules, tests, products and the
	// external packages its modules may consume.
	Package struct {
		// Name is the package identity (e.g. "cpp-utils").
		Name string `json:"name"`
		// Revision numbers the descriptor within its history (optional).
		Revision int `json:"revision,omitempty"`
		// ToolsVersion is the manifest tools version the revision was written against (optional).
		ToolsVersion string `json:"toolsVersion,omitempty"`
		// Version is the package's own release version. External package
		// constraints are checked against it when the descriptor is materialized.
		Version string `json:"version,omitempty"`
		// Platforms declares the minimum OS version per supported platform.
		Platforms []Platform `json:"platforms"`
		// LanguageStandards are package-wide defaults that modules may override.
		LanguageStandards LanguageStandards `json:"languageStandards,omitempty"`
		// ExternalPackages declares packages whose products modules may depend on.
		ExternalPackages []ExternalPackage `json:"externalPackages,omitempty"`
		// Products are the externally visible module groupings.
		Products []Product `json:"products"`
		// Modules are the production compilation units in declaration order.
		Modules []Module `json:"modules"`
		// Tests are test modules, each bound to one production module.
		Tests []TestModule `json:"tests,omitempty"`
		// FilePath stores where this descriptor was loaded from (not in the manifest).
		FilePath string `json:"-"`
	}

	// Platform is one entry of the platform support matrix.
	Platform struct {
		Name    PlatformName `json:"name"`
		Minimum string       `json:"minimum"`
	}

	// LanguageStandards pins the C and C++ standards.
	LanguageStandards struct {
		C   CStandard   `json:"c,omitempty"`
		Cxx CxxStandard `json:"cxx,omitempty"`
	}

	// ExternalPackage references a package that lives outside this descriptor.
	ExternalPackage struct {
		Name string `json:"name"`
		// URL is where the package is fetched from. Fetching is not done here;
		// the URL is carried for the build plan.
		URL string `json:"url"`
		// Version is a semver constraint (e.g. "^0.0.1").
		Version string `json:"version"`
	}

	// Product groups modules into one linkable unit for consumers.
	Product struct {
		Name    string   `json:"name"`
		Modules []string `json:"modules"`
	}

	// Dependency is an edge from a module to a module of the same revision
	// (Package empty) or to a product of an external package.
	Dependency struct {
		Name    string `json:"name"`
		Package string `json:"package,omitempty"`
	}

	// Define is a preprocessor macro definition. An empty Value defines the
	// macro without a value.
	Define struct {
		Name  string `json:"name"`
		Value string `json:"value,omitempty"`
	}

	// ToolSettings holds per-language compiler settings of a module.
	ToolSettings struct {
		// UnsafeFlags are opaque compiler arguments passed through verbatim, in order.
		UnsafeFlags []string `json:"unsafeFlags,omitempty"`
		// Defines are macro definitions private to the declaring module.
		Defines []Define `json:"defines,omitempty"`
	}

	// LinkerSettings holds link-time requirements of a module.
	LinkerSettings struct {
		// Frameworks must be linked into every final consumer of the module.
		Frameworks []string `json:"frameworks,omitempty"`
		// UnsafeFlags are opaque linker arguments passed through verbatim.
		UnsafeFlags []string `json:"unsafeFlags,omitempty"`
	}

	// Settings is the compilation setting set shared by modules and test modules.
	Settings struct {
		CStandard   CStandard      `json:"cStandard,omitempty"`
		CxxStandard CxxStandard    `json:"cxxStandard,omitempty"`
		C           ToolSettings   `json:"c,omitempty"`
		Cxx         ToolSettings   `json:"cxx,omitempty"`
		Linker      LinkerSettings `json:"linker,omitempty"`
	}

	// Module is a production compilation unit.
	Module struct {
		Name         string       `json:"name"`
		Kind         ModuleKind   `json:"kind"`
		Dependencies []Dependency `json:"dependencies,omitempty"`
		Settings
	}

	// TestModule is a module that depends on exactly one production module.
	// It never appears in products and nothing depends on it.
	TestModule struct {
		Name       string     `json:"name"`
		Kind       ModuleKind `json:"kind"`
		Dependency string     `json:"dependency"`
		Settings
	}
)

// String renders the dependency as "name" or "package/name".
func (d Dependency) String() string {
	if d.Package != "" {
		return d.Package + "/" + d.Name
	}
	return d.Name
}

// IsExternal reports whether the dependency names a product of another package.
func (d Dependency) IsExternal() bool {
	return d.Package != ""
}

// Argument renders the define as a compiler argument (-DNAME or -DNAME=VALUE).
func (d Define) Argument() string {
	if d.Value == "" {
		return "-D" + d.Name
	}
	return "-D" + d.Name + "=" + d.Value
}

// EffectiveKind returns the test module's kind, defaulting to objcxx.
func (t TestModule) EffectiveKind() ModuleKind {
	if t.Kind == "" {
		return KindObjCxx
	}
	return t.Kind
}

// Platform returns the declared platform entry for name.
func (p *Package) Platform(name PlatformName) (Platform, bool) {
	for _, pl := range p.Platforms {
		if pl.Name == name {
			return pl, true
		}
	}
	return Platform{}, false
}

// ExternalPackage returns the declared external package called name.
func (p *Package) ExternalPackage(name string) (ExternalPackage, bool) {
	for _, ext := range p.ExternalPackages {
		if ext.Name == name {
			return ext, true
		}
	}
	return ExternalPackage{}, false
}

// ModuleNames returns the production module names in declaration order.
func (p *Package) ModuleNames() []string {
	names := make([]string, 0, len(p.Modules))
	for _, m := range p.Modules {
		names = append(names, m.Name)
	}
	return names
}

// HasProduct reports whether the package exports a product called name.
func (p *Package) HasProduct(name string) bool {
	return slices.ContainsFunc(p.Products, func(pr Product) bool { return pr.Name == name })
}

// Product returns the product called name.
func (p *Package) Product(name string) (Product, bool) {
	for _, pr := range p.Products {
		if pr.Name == name {
			return pr, true
		}
	}
	return Product{}, false
}
