// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cpputils/buildplan/pkg/buildgraph"
)

// newValidateCommand creates the `buildplan validate` command.
func newValidateCommand() *cobra.Command {
	var opts descriptorOptions

	cmd := &cobra.Command{
		Use:   "validate [manifest]",
		Short: "Validate a manifest and resolve its module graph",
		Long: `Validate a manifest: schema, duplicate names, dependency resolution,
cycles, product references and, with --target-platform, platform support.

Without a path, package.{cue,json,yaml,yml,toml} in the current directory is used.

Examples:
  buildplan validate
  buildplan validate ./package.yaml --target-platform macOS --target-version 14.0
  buildplan validate --revision 2 --external-dir ./packages`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd)
			d, err := opts.load(cmd, s, argAt(args, 0))
			if err != nil {
				return err
			}
			renderValidation(cmd.OutOrStdout(), d)
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

func renderValidation(w io.Writer, d *loadedDescriptor) {
	g := d.graph
	pkg := g.Package()

	fmt.Fprintf(w, "%s %s %s\n", successIcon, TitleStyle.Render(pkg.Name), SuccessStyle.Render("is valid"))
	fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render(d.resource))
	fmt.Fprintf(w, "  %d module(s), %d test module(s), %d external package(s)\n",
		len(g.BuildOrder()), len(g.TestOrder()), len(g.Externals()))
	if order := g.BuildOrder(); len(order) > 0 {
		fmt.Fprintf(w, "  build order: %s\n", strings.Join(order, arrow))
	}
	for _, ext := range g.Externals() {
		renderExternal(w, ext)
	}
	if t := g.Target(); t != nil {
		fmt.Fprintf(w, "  %s target %s\n", successIcon, targetLabel(t))
	}
}

func renderExternal(w io.Writer, ext *buildgraph.External) {
	if ext.Resolved() {
		desc := ext.Graph.Package()
		fmt.Fprintf(w, "  %s external %s %s (%s)\n", successIcon, ext.Package.Name, desc.Version, ext.Package.Version)
		return
	}
	fmt.Fprintf(w, "  %s external %s %s %s\n", warningIcon, ext.Package.Name, ext.Package.Version,
		WarningStyle.Render("out of band: "+ext.Package.URL))
}

func targetLabel(t *buildgraph.Target) string {
	if t.Version == "" {
		return string(t.Platform)
	}
	return fmt.Sprintf("%s %s", t.Platform, t.Version)
}

// usageArgs marks positional argument errors as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
