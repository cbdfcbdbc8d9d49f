// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cpputils/buildplan/pkg/buildgraph"
)

// newEmitCommand creates the `buildplan emit` command.
func newEmitCommand() *cobra.Command {
	var (
		opts   descriptorOptions
		format formatOption
	)

	cmd := &cobra.Command{
		Use:   "emit [manifest] [module]",
		Short: "Emit build configuration",
		Long: `Emit the build configuration of one module, or with no module the full
plan: build order, every module and test module, and external packages.

A single argument is taken as the manifest when it has a manifest extension
or names a directory, and as the module otherwise.

Examples:
  buildplan emit --revision 4 cpp-utils
  buildplan emit -f json package.cue observing
  buildplan emit -f toml --revision 2 --external-dir ./packages`,
		Args: usageArgs(cobra.MaximumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd)
			f, err := format.resolve(s)
			if err != nil {
				return err
			}

			path, module := splitEmitArgs(args, opts.revision != 0)
			d, err := opts.load(cmd, s, path)
			if err != nil {
				return err
			}

			if module != "" {
				cfg, err := buildgraph.EmitConfiguration(module, d.graph)
				if err != nil {
					return s.fail(cmd, err, "emit configuration", module)
				}
				return writeOutput(cmd, s, f, cfg, func(w io.Writer) { renderModule(w, cfg) })
			}

			plan, err := d.graph.Plan()
			if err != nil {
				return s.fail(cmd, err, "emit configuration", d.resource)
			}
			return writeOutput(cmd, s, f, plan, func(w io.Writer) { renderPlan(w, plan) })
		},
	}
	opts.register(cmd)
	format.register(cmd)
	return cmd
}

// splitEmitArgs separates the manifest path from the module name.
func splitEmitArgs(args []string, fromRevision bool) (path, module string) {
	switch {
	case len(args) == 2:
		return args[0], args[1]
	case len(args) == 1 && !fromRevision && looksLikeManifest(args[0]):
		return args[0], ""
	case len(args) == 1:
		return "", args[0]
	}
	return "", ""
}

func renderPlan(w io.Writer, plan *buildgraph.Plan) {
	header := plan.Package
	if plan.Version != "" {
		header += " " + plan.Version
	}
	fmt.Fprintln(w, TitleStyle.Render(header))
	if plan.Target != nil {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("target"), targetLabel(plan.Target))
	}
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("build order"), strings.Join(plan.BuildOrder, arrow))
	for _, ext := range plan.Externals {
		state := WarningStyle.Render("out of band")
		if ext.Resolved {
			state = SuccessStyle.Render("resolved " + ext.Version)
		}
		fmt.Fprintf(w, "%s %s %s %s\n", labelStyle.Render("external"), ext.Name, ext.Constraint, state)
	}
	for i := range plan.Modules {
		fmt.Fprintln(w)
		renderModule(w, &plan.Modules[i])
	}
	for i := range plan.Tests {
		fmt.Fprintln(w)
		renderModule(w, &plan.Tests[i])
	}
}

func renderModule(w io.Writer, cfg *buildgraph.ModuleConfig) {
	title := fmt.Sprintf("%s (%s)", cfg.Name, cfg.Kind)
	if cfg.Test {
		title += " test"
	}
	if cfg.ManualReferenceCounting {
		title += " " + WarningStyle.Render("manual reference counting")
	}
	fmt.Fprintln(w, TitleStyle.Render(title))

	field := func(label string, values []string) {
		if len(values) == 0 {
			return
		}
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(label), CmdStyle.Render(strings.Join(values, " ")))
	}
	field("dependencies", cfg.Dependencies)
	field("c", cfg.C.Arguments)
	field("c++", cfg.Cxx.Arguments)
	field("link", cfg.Linker.Arguments)
	field("arc boundaries", cfg.ARCBoundaries)
	for _, p := range cfg.ExternalProducts {
		state := "out of band"
		if p.Resolved {
			state = "resolved"
		}
		field("external", []string{p.Package + "/" + p.Product, p.Version, "(" + state + ")"})
	}
}
