// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cpputils/buildplan/internal/config"
	"github.com/cpputils/buildplan/internal/issue"
)

type (
	sessionContextKey struct{}

	// App wires CLI services and shared dependencies. All Cobra command
	// handlers receive an App reference.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	// session is the per-invocation state resolved before a command runs.
	session struct {
		cfg        *config.Loaded
		configPath string
		verbose    bool
		logger     *log.Logger
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{Config: deps.Config, stdout: deps.Stdout, stderr: deps.Stderr}
}

// startSession loads the configuration and attaches the session to the
// command context. A broken config file is reported as a warning and the
// defaults apply, so that 'config init' and 'explain' keep working.
func (app *App) startSession(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	loaded, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: opts.configPath})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, opts.verbose))
		loaded = &config.Loaded{Config: config.DefaultConfig()}
	}

	s := &session{cfg: loaded, configPath: opts.configPath, verbose: opts.verbose || loaded.UI.Verbose}
	s.logger = newLogger(cmd.ErrOrStderr(), s.verbose)
	s.logger.Debug("configuration loaded", "path", loaded.Path, "format", loaded.OutputFormat)

	cmd.SetContext(context.WithValue(ctx, sessionContextKey{}, s))
	return nil
}

// sessionFrom returns the session of the running command, or a default one
// when the command was invoked without the root pre-run.
func sessionFrom(cmd *cobra.Command) *session {
	if ctx := cmd.Context(); ctx != nil {
		if s, ok := ctx.Value(sessionContextKey{}).(*session); ok {
			return s
		}
	}
	return &session{
		cfg:    &config.Loaded{Config: config.DefaultConfig()},
		logger: newLogger(cmd.ErrOrStderr(), false),
	}
}

// newLogger builds the stderr logger. Verbose mode lowers the level to debug
// and adds timestamps.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "buildplan",
		ReportTimestamp: verbose,
		Level:           log.InfoLevel,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// fail prints err as an actionable error on stderr and returns an ExitError
// that the top-level error handler will not print again.
func (s *session) fail(cmd *cobra.Command, err error, operation, resource string) error {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		ae = issue.Suggest(err, operation, resource)
	}

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "%s %s\n", errorIcon, ae.Format(s.verbose))
	if i := issue.Get(ae.Issue); i != nil {
		fmt.Fprintf(stderr, "\n%s\n", SubtitleStyle.Render(fmt.Sprintf("Run 'buildplan explain %s' for details.", i.Slug())))
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: ExitFailure, Err: ae, reported: true}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
