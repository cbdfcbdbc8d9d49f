// SPDX-License-Identifier: MPL-2.0

package buildgraph

type (
	// Plan is the complete build plan of a loaded graph.
	Plan struct {
		Package    string            `json:"package" yaml:"package" toml:"package"`
		Revision   int               `json:"revision,omitempty" yaml:"revision,omitempty" toml:"revision,omitempty"`
		Version    string            `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
		Target     *Target           `json:"target,omitempty" yaml:"target,omitempty" toml:"target,omitempty"`
		Platforms  []PlatformSupport `json:"platforms,omitempty" yaml:"platforms,omitempty" toml:"platforms,omitempty"`
		BuildOrder []string          `json:"buildOrder" yaml:"buildOrder" toml:"buildOrder"`
		TestOrder  []string          `json:"testOrder,omitempty" yaml:"testOrder,omitempty" toml:"testOrder,omitempty"`
		Modules    []ModuleConfig    `json:"modules" yaml:"modules" toml:"modules"`
		Tests      []ModuleConfig    `json:"tests,omitempty" yaml:"tests,omitempty" toml:"tests,omitempty"`
		Externals  []ExternalBinding `json:"externals,omitempty" yaml:"externals,omitempty" toml:"externals,omitempty"`
	}

	// PlatformSupport is one declared platform minimum.
	PlatformSupport struct {
		Name    string `json:"name" yaml:"name" toml:"name"`
		Minimum string `json:"minimum" yaml:"minimum" toml:"minimum"`
	}

	// ExternalBinding reports how a declared external package was resolved.
	ExternalBinding struct {
		Name       string `json:"name" yaml:"name" toml:"name"`
		URL        string `json:"url" yaml:"url" toml:"url"`
		Constraint string `json:"constraint" yaml:"constraint" toml:"constraint"`
		Resolved   bool   `json:"resolved" yaml:"resolved" toml:"resolved"`
		// Version is the version of the materialized descriptor.
		Version string `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
		// Plan is the external package's own plan when it was materialized.
		Plan *Plan `json:"plan,omitempty" yaml:"plan,omitempty" toml:"plan,omitempty"`
	}
)

// Plan emits the configuration of every module and test module, together
// with the build order and the resolution of each external package.
func (g *Graph) Plan() (*Plan, error) {
	p := &Plan{
		Package:    g.pkg.Name,
		Revision:   g.pkg.Revision,
		Version:    g.pkg.Version,
		Target:     g.target,
		BuildOrder: g.BuildOrder(),
		TestOrder:  g.TestOrder(),
		Modules:    make([]ModuleConfig, 0, len(g.order)),
	}
	if p.BuildOrder == nil {
		p.BuildOrder = []string{}
	}
	for _, pl := range g.pkg.Platforms {
		p.Platforms = append(p.Platforms, PlatformSupport{Name: string(pl.Name), Minimum: pl.Minimum})
	}

	for _, name := range g.order {
		cfg, err := g.Emit(name)
		if err != nil {
			return nil, err
		}
		p.Modules = append(p.Modules, *cfg)
	}
	for _, name := range g.testOrder {
		cfg, err := g.Emit(name)
		if err != nil {
			return nil, err
		}
		p.Tests = append(p.Tests, *cfg)
	}

	for _, ext := range g.externals {
		binding := ExternalBinding{
			Name:       ext.Package.Name,
			URL:        ext.Package.URL,
			Constraint: ext.Package.Version,
			Resolved:   ext.Resolved(),
		}
		if ext.Resolved() {
			sub, err := ext.Graph.Plan()
			if err != nil {
				return nil, err
			}
			binding.Version = ext.Graph.pkg.Version
			binding.Plan = sub
		}
		p.Externals = append(p.Externals, binding)
	}

	g.logger.Debug("plan emitted", "modules", len(p.Modules), "tests", len(p.Tests))
	return p, nil
}
