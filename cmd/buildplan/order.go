// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cpputils/buildplan/internal/planout"
)

// orderOutput is the structured form of 'buildplan order'.
type orderOutput struct {
	Package    string   `json:"package" yaml:"package" toml:"package"`
	BuildOrder []string `json:"buildOrder" yaml:"buildOrder" toml:"buildOrder"`
	TestOrder  []string `json:"testOrder,omitempty" yaml:"testOrder,omitempty" toml:"testOrder,omitempty"`
}

// newOrderCommand creates the `buildplan order` command.
func newOrderCommand() *cobra.Command {
	var (
		opts   descriptorOptions
		format formatOption
		tests  bool
	)

	cmd := &cobra.Command{
		Use:   "order [manifest]",
		Short: "Print the build order",
		Long: `Print the modules in build order: every module appears after all of its
dependencies, ties broken by declaration order.

Examples:
  buildplan order --revision 3
  buildplan order --tests -f json package.cue`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd)
			f, err := format.resolve(s)
			if err != nil {
				return err
			}
			d, err := opts.load(cmd, s, argAt(args, 0))
			if err != nil {
				return err
			}

			out := orderOutput{Package: d.graph.Package().Name, BuildOrder: d.graph.BuildOrder()}
			if tests {
				out.TestOrder = d.graph.TestOrder()
			}
			if out.BuildOrder == nil {
				out.BuildOrder = []string{}
			}
			return writeOutput(cmd, s, f, out, func(w io.Writer) { renderOrder(w, out) })
		},
	}
	opts.register(cmd)
	format.register(cmd)
	cmd.Flags().BoolVar(&tests, "tests", false, "also print the test modules in order")
	return cmd
}

func renderOrder(w io.Writer, out orderOutput) {
	for i, name := range out.BuildOrder {
		fmt.Fprintf(w, "%2d. %s\n", i+1, name)
	}
	if len(out.TestOrder) > 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("tests:"))
		for i, name := range out.TestOrder {
			fmt.Fprintf(w, "%2d. %s\n", i+1, name)
		}
	}
}

// writeOutput encodes v in a structured format, or calls text for FormatText.
func writeOutput(cmd *cobra.Command, s *session, f planout.Format, v any, text func(io.Writer)) error {
	w := cmd.OutOrStdout()
	err := planout.Encode(w, f, v)
	if errors.Is(err, planout.ErrTextFormat) {
		text(w)
		return nil
	}
	if err != nil {
		return s.fail(cmd, err, "write output", string(f))
	}
	return nil
}
