// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootOptions holds the global flags.
type rootOptions struct {
	verbose    bool
	configPath string
}

// NewRootCommand builds the command tree for app.
func NewRootCommand(app *App) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "buildplan",
		Short: "Resolve cpp-utils module graphs and emit build configuration",
		Long: TitleStyle.Render("buildplan") + SubtitleStyle.Render(" - module graph resolver and build-configuration emitter") + `

buildplan reads a package manifest (CUE, JSON, YAML or TOML), validates its
modules, products and platforms, orders the modules so that every module is
built after its dependencies, and emits per-module compiler and linker
configuration for a downstream build driver.

` + SubtitleStyle.Render("Examples:") + `
  buildplan validate                      Validate ./package.cue
  buildplan order --revision 3            Build order of bundled revision 3
  buildplan emit --revision 4 cpp-utils   Configuration of one module
  buildplan emit -f yaml package.yaml     Full plan as YAML
  buildplan explain dependency-cycle      Guidance for a failure`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.startSession(cmd, opts)
		},
	}

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging and show the full error chain")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/buildplan/config.cue)")

	rootCmd.AddCommand(
		newValidateCommand(),
		newOrderCommand(),
		newEmitCommand(),
		newRevisionsCommand(),
		newConfigCommand(app),
		newExplainCommand(),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process with the command's exit code.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		os.Exit(exitCode(err))
	}
}

// errorHandler skips errors the failing command already printed.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.reported {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// exitCode maps a command error to the process exit code. Errors that do not
// carry an ExitError come from Cobra's argument handling and count as usage
// errors.
func exitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}
