// SPDX-License-Identifier: MPL-2.0

package buildgraph

import (
	"slices"

	"github.com/cpputils/buildplan/pkg/manifest"
)

type (
	// ModuleConfig is the resolved compilation configuration of one module,
	// ready for a compiler driver.
	//
	// Unsafe flags and macro definitions are the module's own; nothing is
	// inherited from dependencies. Link frameworks are the exception: a
	// module must link every framework its transitive dependencies require.
	ModuleConfig struct {
		Name        string               `json:"name" yaml:"name" toml:"name"`
		Kind        manifest.ModuleKind  `json:"kind" yaml:"kind" toml:"kind"`
		Test        bool                 `json:"test,omitempty" yaml:"test,omitempty" toml:"test,omitempty"`
		CStandard   manifest.CStandard   `json:"cStandard,omitempty" yaml:"cStandard,omitempty" toml:"cStandard,omitempty"`
		CxxStandard manifest.CxxStandard `json:"cxxStandard,omitempty" yaml:"cxxStandard,omitempty" toml:"cxxStandard,omitempty"`
		C           LanguageConfig       `json:"c" yaml:"c" toml:"c"`
		Cxx         LanguageConfig       `json:"cxx" yaml:"cxx" toml:"cxx"`
		Linker      LinkConfig           `json:"linker" yaml:"linker" toml:"linker"`
		// Dependencies are the direct dependencies as resolved, external
		// products spelled "package/product".
		Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
		// ExternalProducts are the external products the module links, directly or transitively.
		ExternalProducts []ExternalProduct `json:"externalProducts,omitempty" yaml:"externalProducts,omitempty" toml:"externalProducts,omitempty"`
		// ARCBoundaries are the direct dependencies compiled without automatic
		// reference counting. Calls into them follow manual retain/release rules.
		ARCBoundaries []string `json:"arcBoundaries,omitempty" yaml:"arcBoundaries,omitempty" toml:"arcBoundaries,omitempty"`
		// ManualReferenceCounting is set when the module itself disables ARC.
		ManualReferenceCounting bool `json:"manualReferenceCounting,omitempty" yaml:"manualReferenceCounting,omitempty" toml:"manualReferenceCounting,omitempty"`
	}

	// LanguageConfig is the per-language part of a ModuleConfig.
	LanguageConfig struct {
		// Standard is the -std= argument for the effective standard.
		Standard    string   `json:"standard,omitempty" yaml:"standard,omitempty" toml:"standard,omitempty"`
		Defines     []string `json:"defines,omitempty" yaml:"defines,omitempty" toml:"defines,omitempty"`
		UnsafeFlags []string `json:"unsafeFlags,omitempty" yaml:"unsafeFlags,omitempty" toml:"unsafeFlags,omitempty"`
		// Arguments is Standard, then Defines, then UnsafeFlags.
		Arguments []string `json:"arguments,omitempty" yaml:"arguments,omitempty" toml:"arguments,omitempty"`
	}

	// LinkConfig is the link-time part of a ModuleConfig.
	LinkConfig struct {
		// Frameworks lists the module's own frameworks, then those of its
		// transitive dependencies in build order, without repeats.
		Frameworks  []string `json:"frameworks,omitempty" yaml:"frameworks,omitempty" toml:"frameworks,omitempty"`
		UnsafeFlags []string `json:"unsafeFlags,omitempty" yaml:"unsafeFlags,omitempty" toml:"unsafeFlags,omitempty"`
		// Arguments is "-framework <name>" per framework, then UnsafeFlags.
		Arguments []string `json:"arguments,omitempty" yaml:"arguments,omitempty" toml:"arguments,omitempty"`
	}

	// ExternalProduct is a product of an external package reached by a module.
	ExternalProduct struct {
		Package string `json:"package" yaml:"package" toml:"package"`
		Product string `json:"product" yaml:"product" toml:"product"`
		URL     string `json:"url" yaml:"url" toml:"url"`
		Version string `json:"version" yaml:"version" toml:"version"`
		// Resolved is false when the package's descriptor was not materialized
		// and the product is left to the consumer.
		Resolved bool `json:"resolved" yaml:"resolved" toml:"resolved"`
	}

	linkSet struct {
		frameworks     []string
		seenFrameworks map[string]bool
		products       []ExternalProduct
		seenProducts   map[string]bool
	}
)

// Emit returns the configuration of the production or test module name.
func (g *Graph) Emit(name string) (*ModuleConfig, error) {
	var (
		kind     manifest.ModuleKind
		settings manifest.Settings
		test     bool
	)
	if m, ok := g.modules[name]; ok {
		kind, settings = m.Kind, m.Settings
	} else if t, ok := g.tests[name]; ok {
		kind, settings, test = t.EffectiveKind(), t.Settings, true
	} else {
		return nil, &UnknownModuleError{Package: g.pkg.Name, Name: name}
	}

	cStd := settings.CStandard
	if cStd == "" {
		cStd = g.pkg.LanguageStandards.C
	}
	cxxStd := settings.CxxStandard
	if cxxStd == "" {
		cxxStd = g.pkg.LanguageStandards.Cxx
	}

	cfg := &ModuleConfig{
		Name:                    name,
		Kind:                    kind,
		Test:                    test,
		CStandard:               cStd,
		CxxStandard:             cxxStd,
		C:                       languageConfig(cStd.Flag(), settings.C),
		Cxx:                     languageConfig(cxxStd.Flag(), settings.Cxx),
		ManualReferenceCounting: disablesARC(settings),
	}

	deps := g.deps[name]
	for _, rd := range deps {
		cfg.Dependencies = appendUnique(cfg.Dependencies, rd.String())
	}
	cfg.ARCBoundaries = g.arcBoundaries(deps)

	links := &linkSet{seenFrameworks: make(map[string]bool), seenProducts: make(map[string]bool)}
	links.addFrameworks(settings.Linker.Frameworks)
	g.collectLinks(deps, links)

	cfg.ExternalProducts = links.products
	cfg.Linker = LinkConfig{
		Frameworks:  links.frameworks,
		UnsafeFlags: slices.Clone(settings.Linker.UnsafeFlags),
	}
	for _, fw := range cfg.Linker.Frameworks {
		cfg.Linker.Arguments = append(cfg.Linker.Arguments, "-framework", fw)
	}
	cfg.Linker.Arguments = append(cfg.Linker.Arguments, cfg.Linker.UnsafeFlags...)

	return cfg, nil
}

// EmitConfiguration returns the configuration of module name in g.
func EmitConfiguration(name string, g *Graph) (*ModuleConfig, error) {
	return g.Emit(name)
}

func (rd resolvedDep) String() string {
	if rd.external != nil {
		return rd.external.Package.Name + "/" + rd.product
	}
	return rd.local
}

func languageConfig(standardFlag string, ts manifest.ToolSettings) LanguageConfig {
	lc := LanguageConfig{
		Standard:    standardFlag,
		UnsafeFlags: slices.Clone(ts.UnsafeFlags),
	}
	for _, d := range ts.Defines {
		lc.Defines = append(lc.Defines, d.Argument())
	}
	if standardFlag != "" {
		lc.Arguments = append(lc.Arguments, standardFlag)
	}
	lc.Arguments = append(lc.Arguments, lc.Defines...)
	lc.Arguments = append(lc.Arguments, lc.UnsafeFlags...)
	return lc
}

func disablesARC(s manifest.Settings) bool {
	return slices.Contains(s.C.UnsafeFlags, manifest.NoObjCARCFlag) ||
		slices.Contains(s.Cxx.UnsafeFlags, manifest.NoObjCARCFlag)
}

// arcBoundaries lists the direct dependencies that disable ARC. For an
// external product each module of the product is checked.
func (g *Graph) arcBoundaries(deps []resolvedDep) []string {
	var out []string
	for _, rd := range deps {
		if rd.local != "" {
			if disablesARC(g.modules[rd.local].Settings) {
				out = appendUnique(out, rd.local)
			}
			continue
		}
		sub := rd.external.Graph
		if sub == nil {
			continue
		}
		prod, _ := sub.pkg.Product(rd.product)
		for _, name := range prod.Modules {
			if disablesARC(sub.modules[name].Settings) {
				out = appendUnique(out, rd.external.Package.Name+"/"+name)
			}
		}
	}
	return out
}

// collectLinks adds the frameworks of every module reachable from roots,
// in build order, followed by the external products reached and, for
// materialized packages, the frameworks of the product's modules.
func (g *Graph) collectLinks(roots []resolvedDep, acc *linkSet) {
	reached := make(map[string]bool)
	var externals []resolvedDep

	var walk func(deps []resolvedDep)
	walk = func(deps []resolvedDep) {
		for _, rd := range deps {
			if rd.local == "" {
				externals = append(externals, rd)
				continue
			}
			if reached[rd.local] {
				continue
			}
			reached[rd.local] = true
			walk(g.deps[rd.local])
		}
	}
	walk(roots)

	for _, name := range g.order {
		if reached[name] {
			acc.addFrameworks(g.modules[name].Linker.Frameworks)
		}
	}

	for _, rd := range externals {
		key := rd.String()
		if acc.seenProducts[key] {
			continue
		}
		acc.seenProducts[key] = true

		ext := rd.external
		product := ExternalProduct{
			Package:  ext.Package.Name,
			Product:  rd.product,
			URL:      ext.Package.URL,
			Version:  ext.Package.Version,
			Resolved: ext.Resolved(),
		}
		acc.products = append(acc.products, product)

		if !ext.Resolved() {
			continue
		}
		prod, _ := ext.Graph.pkg.Product(rd.product)
		productRoots := make([]resolvedDep, 0, len(prod.Modules))
		for _, name := range prod.Modules {
			productRoots = append(productRoots, resolvedDep{local: name})
		}
		ext.Graph.collectLinks(productRoots, acc)
	}
}

func (s *linkSet) addFrameworks(frameworks []string) {
	for _, fw := range frameworks {
		if s.seenFrameworks[fw] {
			continue
		}
		s.seenFrameworks[fw] = true
		s.frameworks = append(s.frameworks, fw)
	}
}

func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}
