// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cpputils/buildplan/internal/config"
)

// newConfigCommand creates the `buildplan config` command group.
func newConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage buildplan configuration",
		Long: `Manage buildplan configuration.

Configuration is read from $XDG_CONFIG_HOME/buildplan/config.cue, then from
config.cue in the current directory, or from the file given with --config.
BUILDPLAN_* environment variables override file values; flags override both.`,
	}

	cmd.AddCommand(
		newConfigShowCommand(app),
		newConfigInitCommand(),
		newConfigPathCommand(),
	)
	return cmd
}

func newConfigShowCommand(app *App) *cobra.Command {
	var format formatOption

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sessionFrom(cmd)
			loaded, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: s.configPath})
			if err != nil {
				return s.fail(cmd, err, "load configuration", s.configPath)
			}
			f, err := format.resolve(&session{cfg: loaded, logger: s.logger})
			if err != nil {
				return err
			}
			return writeOutput(cmd, s, f, loaded.Config, func(w io.Writer) { renderConfig(w, loaded) })
		},
	}
	format.register(cmd)
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sessionFrom(cmd)
			path, created, err := config.CreateDefaultConfig("")
			if err != nil {
				return s.fail(cmd, err, "create configuration", path)
			}
			w := cmd.OutOrStdout()
			if !created {
				fmt.Fprintf(w, "%s %s %s\n", warningIcon, "configuration already exists:", path)
				return nil
			}
			fmt.Fprintf(w, "%s %s %s\n", successIcon, "created", path)
			return nil
		},
	}
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration directory",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sessionFrom(cmd)
			dir, err := config.ConfigDir()
			if err != nil {
				return s.fail(cmd, err, "locate configuration", "")
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func renderConfig(w io.Writer, loaded *config.Loaded) {
	source := loaded.Path
	if source == "" {
		source = "defaults"
	}
	fmt.Fprintf(w, "%s %s\n", TitleStyle.Render("Configuration"), SubtitleStyle.Render("("+source+")"))

	row := func(label string, value any) {
		fmt.Fprintf(w, "  %s %v\n", labelStyle.Render(label), value)
	}
	row("output_format", loaded.OutputFormat)
	platform := string(loaded.Target.Platform)
	if platform == "" {
		platform = "(none)"
	}
	row("target", platform)
	if loaded.Target.Version != "" {
		row("target version", loaded.Target.Version)
	}
	row("external_dirs", loaded.Dirs())
	row("verbose", loaded.UI.Verbose)
	row("color_scheme", loaded.UI.ColorScheme)
}
