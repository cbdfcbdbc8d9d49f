// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cpputils/buildplan/pkg/manifest"
)

// revisionSummary is the structured form of one 'buildplan revisions' row.
type revisionSummary struct {
	Revision  int      `json:"revision" yaml:"revision" toml:"revision"`
	Package   string   `json:"package" yaml:"package" toml:"package"`
	Version   string   `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	Modules   []string `json:"modules" yaml:"modules" toml:"modules"`
	Externals []string `json:"externals,omitempty" yaml:"externals,omitempty" toml:"externals,omitempty"`
}

// revisionList wraps the rows, since TOML documents must be tables.
type revisionList struct {
	Revisions []revisionSummary `json:"revisions" yaml:"revisions" toml:"revisions"`
}

// newRevisionsCommand creates the `buildplan revisions` command.
func newRevisionsCommand() *cobra.Command {
	var format formatOption

	cmd := &cobra.Command{
		Use:   "revisions",
		Short: "List the bundled cpp-utils revisions",
		Long: `List the cpp-utils package descriptors bundled with buildplan.

Each revision can be used with --revision on validate, order and emit.

Examples:
  buildplan revisions
  buildplan revisions show 4
  buildplan revisions source 2 > package.cue`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sessionFrom(cmd)
			f, err := format.resolve(s)
			if err != nil {
				return err
			}
			pkgs, err := manifest.Revisions()
			if err != nil {
				return s.fail(cmd, err, "load revisions", "bundled revisions")
			}

			list := revisionList{Revisions: make([]revisionSummary, 0, len(pkgs))}
			for _, pkg := range pkgs {
				row := revisionSummary{
					Revision: pkg.Revision,
					Package:  pkg.Name,
					Version:  pkg.Version,
					Modules:  pkg.ModuleNames(),
				}
				for _, ext := range pkg.ExternalPackages {
					row.Externals = append(row.Externals, ext.Name)
				}
				list.Revisions = append(list.Revisions, row)
			}
			return writeOutput(cmd, s, f, list, func(w io.Writer) { renderRevisions(w, list) })
		},
	}
	format.register(cmd)

	cmd.AddCommand(newRevisionsShowCommand(), newRevisionsSourceCommand())
	return cmd
}

func newRevisionsShowCommand() *cobra.Command {
	var (
		opts   descriptorOptions
		format formatOption
	)

	cmd := &cobra.Command{
		Use:   "show <revision>",
		Short: "Resolve a bundled revision and print its plan",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd)
			n, err := parseRevision(args[0])
			if err != nil {
				return err
			}
			f, err := format.resolve(s)
			if err != nil {
				return err
			}

			opts.revision = n
			d, err := opts.load(cmd, s, "")
			if err != nil {
				return err
			}
			plan, err := d.graph.Plan()
			if err != nil {
				return s.fail(cmd, err, "emit configuration", d.resource)
			}
			return writeOutput(cmd, s, f, plan, func(w io.Writer) { renderPlan(w, plan) })
		},
	}
	opts.registerResolution(cmd)
	format.register(cmd)
	return cmd
}

func newRevisionsSourceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "source <revision>",
		Short: "Print the CUE descriptor of a bundled revision",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd)
			n, err := parseRevision(args[0])
			if err != nil {
				return err
			}
			data, err := manifest.RevisionSource(n)
			if err != nil {
				return s.fail(cmd, err, "read revision", args[0])
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func parseRevision(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, usageError(fmt.Errorf("revision must be a positive number, got %q", arg))
	}
	return n, nil
}

func renderRevisions(w io.Writer, list revisionList) {
	for _, r := range list.Revisions {
		header := fmt.Sprintf("revision %d", r.Revision)
		fmt.Fprintf(w, "%s  %s %s\n", TitleStyle.Render(header), r.Package, SubtitleStyle.Render(r.Version))
		fmt.Fprintf(w, "  %s %d\n", labelStyle.Render("modules"), len(r.Modules))
		if len(r.Externals) > 0 {
			fmt.Fprintf(w, "  %s %v\n", labelStyle.Render("externals"), r.Externals)
		}
	}
}
