// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cpputils/buildplan/internal/issue"
)

// newExplainCommand creates the `buildplan explain` command.
func newExplainCommand() *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "explain [issue]",
		Short: "Explain a failure and how to fix it",
		Long: `Explain a failure reported by buildplan. Without an argument, list the
known issues.

Examples:
  buildplan explain
  buildplan explain dependency-cycle
  buildplan explain unsupported-platform --style notty`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			var slugs []string
			for _, i := range issue.Values() {
				slugs = append(slugs, i.Slug())
			}
			return slugs, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd)
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				listIssues(w)
				return nil
			}

			i := issue.Lookup(args[0])
			if i == nil {
				return usageError(fmt.Errorf("unknown issue %q; run 'buildplan explain' for the list", args[0]))
			}
			if style == "" {
				style = s.cfg.UI.ColorScheme.GlamourStyle()
			}
			out, err := i.Render(style)
			if err != nil {
				return s.fail(cmd, err, "render explanation", i.Slug())
			}
			fmt.Fprint(w, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&style, "style", "", "glamour style: auto, dark, light, notty (default from config)")
	return cmd
}

func listIssues(w io.Writer) {
	for _, i := range issue.Values() {
		fmt.Fprintf(w, "  %s %s\n", CmdStyle.Render(fmt.Sprintf("%-26s", i.Slug())), i.Title())
	}
}
