// SPDX-License-Identifier: MPL-2.0

package buildgraph

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/cpputils/buildplan/internal/dag"
	"github.com/cpputils/buildplan/pkg/manifest"
)

type (
	// Graph is a validated module graph for one descriptor. It is read-only
	// after Load and safe for concurrent use.
	Graph struct {
		pkg     *manifest.Package
		modules map[string]*manifest.Module
		tests   map[string]*manifest.TestModule
		// deps holds the resolved direct dependencies of every module and test module.
		deps           map[string][]resolvedDep
		order          []string
		testOrder      []string
		externals      []*External
		externalByName map[string]*External
		target         *Target
		logger         *log.Logger
	}

	// External is a declared external package and, when its descriptor was
	// materialized, the graph loaded from it.
	External struct {
		Package manifest.ExternalPackage
		// Graph is nil when the package is resolved out of band.
		Graph *Graph
	}

	resolvedDep struct {
		dep manifest.Dependency
		// local is set for edges to a module of the same descriptor.
		local string
		// external and product are set for edges to an external product.
		external *External
		product  string
	}
)

// Resolved reports whether the external package's descriptor was loaded.
func (e *External) Resolved() bool { return e.Graph != nil }

// Load validates pkg and builds its module graph. Checks run in a fixed
// order and the first failure is returned:
//
//  1. names are unique (modules and tests share one namespace)
//  2. external packages load from the package source, if any
//  3. every dependency resolves to a local module or an external product
//  4. the dependency graph is acyclic
//  5. products list only declared production modules
//  6. test module dependencies exist
//  7. the target platform, if any, is supported
//
// The descriptor must not be modified after Load returns.
func Load(pkg *manifest.Package, opts ...Option) (*Graph, error) {
	o := defaultLoadOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if pkg == nil {
		return nil, &InvalidDescriptorError{Err: errors.New("descriptor is nil")}
	}
	return load(pkg, o, nil)
}

// LoadRevision loads the bundled cpp-utils revision n.
func LoadRevision(n int, opts ...Option) (*Graph, error) {
	pkg, err := manifest.Revision(n)
	if err != nil {
		return nil, err
	}
	return Load(pkg, opts...)
}

// load builds the graph for pkg. chain holds the names of the packages whose
// loading led here, outermost first.
func load(pkg *manifest.Package, o loadOptions, chain []string) (*Graph, error) {
	logger := o.logger.With("package", pkg.Name)

	if err := pkg.Validate(); err != nil {
		return nil, &InvalidDescriptorError{Package: pkg.Name, Err: err}
	}

	g := &Graph{
		pkg:            pkg,
		modules:        make(map[string]*manifest.Module, len(pkg.Modules)),
		tests:          make(map[string]*manifest.TestModule, len(pkg.Tests)),
		deps:           make(map[string][]resolvedDep, len(pkg.Modules)+len(pkg.Tests)),
		externalByName: make(map[string]*External, len(pkg.ExternalPackages)),
		target:         o.target,
		logger:         logger,
	}

	if err := g.checkDuplicates(); err != nil {
		return nil, err
	}
	if err := g.loadExternals(o, append(slices.Clone(chain), pkg.Name)); err != nil {
		return nil, err
	}
	if err := g.resolveEdges(); err != nil {
		return nil, err
	}
	if err := g.sort(); err != nil {
		return nil, err
	}
	if err := g.checkProducts(); err != nil {
		return nil, err
	}
	if err := g.resolveTests(); err != nil {
		return nil, err
	}
	if err := g.checkTarget(); err != nil {
		return nil, err
	}

	logger.Debug("module graph loaded",
		"order", strings.Join(g.order, ","),
		"tests", len(g.testOrder),
		"externals", len(g.externals))
	return g, nil
}

func (g *Graph) checkDuplicates() error {
	dup := func(kind DuplicateKind, name string) error {
		return &DuplicateModuleError{Package: g.pkg.Name, Kind: kind, Name: name}
	}

	for i := range g.pkg.Modules {
		m := &g.pkg.Modules[i]
		if _, ok := g.modules[m.Name]; ok {
			return dup(KindModule, m.Name)
		}
		g.modules[m.Name] = m
	}
	for i := range g.pkg.Tests {
		t := &g.pkg.Tests[i]
		if _, ok := g.modules[t.Name]; ok {
			return dup(KindModule, t.Name)
		}
		if _, ok := g.tests[t.Name]; ok {
			return dup(KindModule, t.Name)
		}
		g.tests[t.Name] = t
	}

	products := make(map[string]bool, len(g.pkg.Products))
	for _, p := range g.pkg.Products {
		if products[p.Name] {
			return dup(KindProduct, p.Name)
		}
		products[p.Name] = true
	}

	externals := make(map[string]bool, len(g.pkg.ExternalPackages))
	for _, e := range g.pkg.ExternalPackages {
		if externals[e.Name] {
			return dup(KindExternalPackage, e.Name)
		}
		externals[e.Name] = true
	}

	platforms := make(map[manifest.PlatformName]bool, len(g.pkg.Platforms))
	for _, p := range g.pkg.Platforms {
		if platforms[p.Name] {
			return dup(KindPlatform, string(p.Name))
		}
		platforms[p.Name] = true
	}
	return nil
}

func (g *Graph) loadExternals(o loadOptions, chain []string) error {
	for _, decl := range g.pkg.ExternalPackages {
		ext := &External{Package: decl}
		g.externals = append(g.externals, ext)
		g.externalByName[decl.Name] = ext

		constraint, err := semver.NewConstraint(decl.Version)
		if err != nil {
			return &InvalidDescriptorError{
				Package: g.pkg.Name,
				Err:     fmt.Errorf("external package %q: invalid version constraint %q: %w", decl.Name, decl.Version, err),
			}
		}

		if o.source == nil {
			g.logger.Debug("external package resolved out of band", "external", decl.Name)
			continue
		}

		desc, err := o.source.Find(decl)
		if err != nil {
			return &InvalidDescriptorError{
				Package: g.pkg.Name,
				Err:     fmt.Errorf("external package %q: %w", decl.Name, err),
			}
		}
		if desc == nil {
			g.logger.Debug("external package not materialized; resolved out of band", "external", decl.Name)
			continue
		}

		if desc.Name != decl.Name {
			return &UnresolvedDependencyError{
				Package: g.pkg.Name,
				Target:  decl.Name,
				Reason:  fmt.Sprintf("descriptor found for it is named %q", desc.Name),
			}
		}
		if idx := slices.Index(chain, desc.Name); idx >= 0 {
			return &CyclicDependencyError{
				Package: g.pkg.Name,
				Cycle:   append(slices.Clone(chain[idx:]), desc.Name),
			}
		}
		if err := g.checkExternalVersion(decl, constraint, desc); err != nil {
			return err
		}

		sub, err := load(desc, o, chain)
		if err != nil {
			return err
		}
		ext.Graph = sub
		g.logger.Debug("external package loaded", "external", decl.Name, "version", desc.Version)
	}
	return nil
}

func (g *Graph) checkExternalVersion(decl manifest.ExternalPackage, constraint *semver.Constraints, desc *manifest.Package) error {
	if desc.Version == "" {
		g.logger.Debug("external descriptor has no version; constraint not checked",
			"external", decl.Name, "constraint", decl.Version)
		return nil
	}
	version, err := semver.NewVersion(desc.Version)
	if err != nil {
		return &InvalidDescriptorError{
			Package: desc.Name,
			Err:     fmt.Errorf("invalid package version %q: %w", desc.Version, err),
		}
	}
	if !constraint.Check(version) {
		return &UnresolvedDependencyError{
			Package: g.pkg.Name,
			Target:  decl.Name,
			Reason:  fmt.Sprintf("version %s does not satisfy %s", desc.Version, decl.Version),
		}
	}
	return nil
}

func (g *Graph) resolveEdges() error {
	for _, m := range g.pkg.Modules {
		resolved := make([]resolvedDep, 0, len(m.Dependencies))
		for _, dep := range m.Dependencies {
			rd, err := g.resolve(m.Name, dep)
			if err != nil {
				return err
			}
			resolved = append(resolved, rd)
		}
		g.deps[m.Name] = resolved
	}
	return nil
}

// resolve binds one dependency. A bare name binds a local production module
// first and otherwise the single materialized external package exporting a
// product of that name. A qualified name binds the declared external package.
func (g *Graph) resolve(from string, dep manifest.Dependency) (resolvedDep, error) {
	unresolved := func(reason string) error {
		return &UnresolvedDependencyError{Package: g.pkg.Name, Module: from, Target: dep.String(), Reason: reason}
	}

	if dep.IsExternal() {
		ext, ok := g.externalByName[dep.Package]
		if !ok {
			return resolvedDep{}, unresolved(fmt.Sprintf("external package %q is not declared", dep.Package))
		}
		if ext.Resolved() && !ext.Graph.pkg.HasProduct(dep.Name) {
			return resolvedDep{}, unresolved(fmt.Sprintf("package %q exports no product %q", dep.Package, dep.Name))
		}
		return resolvedDep{dep: dep, external: ext, product: dep.Name}, nil
	}

	if _, ok := g.modules[dep.Name]; ok {
		return resolvedDep{dep: dep, local: dep.Name}, nil
	}
	if _, ok := g.tests[dep.Name]; ok {
		return resolvedDep{}, unresolved("test modules cannot be dependencies")
	}

	var matches []*External
	for _, ext := range g.externals {
		if ext.Resolved() && ext.Graph.pkg.HasProduct(dep.Name) {
			matches = append(matches, ext)
		}
	}
	switch len(matches) {
	case 0:
		return resolvedDep{}, unresolved("")
	case 1:
		return resolvedDep{dep: dep, external: matches[0], product: dep.Name}, nil
	default:
		names := make([]string, len(matches))
		for i, ext := range matches {
			names[i] = ext.Package.Name
		}
		return resolvedDep{}, unresolved(fmt.Sprintf(
			"product is exported by several external packages (%s); name the package", strings.Join(names, ", ")))
	}
}

func (g *Graph) sort() error {
	d := dag.New()
	for _, m := range g.pkg.Modules {
		d.AddNode(m.Name)
	}
	for _, m := range g.pkg.Modules {
		for _, rd := range g.deps[m.Name] {
			if rd.local != "" {
				d.AddEdge(rd.local, m.Name)
			}
		}
	}

	order, err := d.TopologicalSort()
	if err != nil {
		var cycleErr *dag.CycleError
		if errors.As(err, &cycleErr) {
			return &CyclicDependencyError{Package: g.pkg.Name, Cycle: cycleErr.Cycle}
		}
		return &InvalidDescriptorError{Package: g.pkg.Name, Err: err}
	}
	g.order = order
	return nil
}

func (g *Graph) checkProducts() error {
	for _, p := range g.pkg.Products {
		for _, name := range p.Modules {
			if _, ok := g.modules[name]; ok {
				continue
			}
			_, isTest := g.tests[name]
			return &InvalidProductReferenceError{Package: g.pkg.Name, Product: p.Name, Module: name, Test: isTest}
		}
	}
	return nil
}

func (g *Graph) resolveTests() error {
	for _, t := range g.pkg.Tests {
		dep := manifest.Dependency{Name: t.Dependency}
		if _, ok := g.modules[t.Dependency]; !ok {
			reason := ""
			if _, isTest := g.tests[t.Dependency]; isTest {
				reason = "test modules cannot be dependencies"
			}
			return &UnresolvedDependencyError{Package: g.pkg.Name, Module: t.Name, Target: dep.String(), Reason: reason}
		}
		g.deps[t.Name] = []resolvedDep{{dep: dep, local: t.Dependency}}
		g.testOrder = append(g.testOrder, t.Name)
	}
	return nil
}

// checkTarget verifies the requested platform. A descriptor that declares no
// platforms places no restriction.
func (g *Graph) checkTarget() error {
	t := g.target
	if t == nil || len(g.pkg.Platforms) == 0 {
		return nil
	}

	unsupported := &UnsupportedPlatformError{Package: g.pkg.Name, Platform: t.Platform, Requested: t.Version}
	pl, ok := g.pkg.Platform(t.Platform)
	if !ok {
		for _, p := range g.pkg.Platforms {
			unsupported.Supported = append(unsupported.Supported, p.Name)
		}
		return unsupported
	}
	unsupported.Minimum = pl.Minimum
	if t.Version == "" {
		return nil
	}

	requested, err := semver.NewVersion(t.Version)
	if err != nil {
		unsupported.Reason = fmt.Sprintf("invalid version: %v", err)
		return unsupported
	}
	minimum, err := semver.NewVersion(pl.Minimum)
	if err != nil {
		return &InvalidDescriptorError{
			Package: g.pkg.Name,
			Err:     fmt.Errorf("platform %s: invalid minimum version %q: %w", pl.Name, pl.Minimum, err),
		}
	}
	if requested.LessThan(minimum) {
		return unsupported
	}
	return nil
}

// Package returns the descriptor the graph was loaded from.
func (g *Graph) Package() *manifest.Package { return g.pkg }

// BuildOrder returns the production modules in build order: every module
// follows all modules it depends on, and among modules that are ready at the
// same time the one declared first comes first. Test modules and modules of
// external packages are not included. Each call returns a fresh copy.
func (g *Graph) BuildOrder() []string { return slices.Clone(g.order) }

// TestOrder returns the test modules in declaration order. Tests depend only
// on production modules, so they can be built in any order after BuildOrder.
func (g *Graph) TestOrder() []string { return slices.Clone(g.testOrder) }

// Externals returns the declared external packages in declaration order.
func (g *Graph) Externals() []*External { return slices.Clone(g.externals) }

// Target returns the platform the graph was validated for, or nil.
func (g *Graph) Target() *Target { return g.target }

// ResolveBuildOrder returns the build order of g.
func ResolveBuildOrder(g *Graph) []string { return g.BuildOrder() }
