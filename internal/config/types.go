// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/cpputils/buildplan/internal/planout"
	"github.com/cpputils/buildplan/pkg/manifest"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidExternalDir is returned when an ExternalDir value is empty or whitespace-only.
	ErrInvalidExternalDir = errors.New("invalid external package directory")
	// ErrInvalidTargetConfig is the sentinel error wrapped by InvalidTargetConfigError.
	ErrInvalidTargetConfig = errors.New("invalid target config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// ExternalDir is a directory searched for external package descriptors.
	ExternalDir string

	// InvalidExternalDirError is returned when an ExternalDir is empty or
	// whitespace-only. It wraps ErrInvalidExternalDir for errors.Is().
	InvalidExternalDirError struct {
		Value ExternalDir
	}

	// InvalidTargetConfigError collects field errors of a TargetConfig.
	// It wraps ErrInvalidTargetConfig for errors.Is() compatibility.
	InvalidTargetConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// OutputFormat is the encoding used when --format is not given.
		OutputFormat planout.Format `json:"output_format" yaml:"output_format" toml:"output_format" mapstructure:"output_format"`
		// Target is the platform checked when --target-platform is not given.
		Target TargetConfig `json:"target" yaml:"target" toml:"target" mapstructure:"target"`
		// ExternalDirs are searched for external package descriptors.
		ExternalDirs []ExternalDir `json:"external_dirs" yaml:"external_dirs" toml:"external_dirs" mapstructure:"external_dirs"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" yaml:"ui" toml:"ui" mapstructure:"ui"`
	}

	// TargetConfig names a platform and deployment version. An empty platform
	// disables the platform check.
	TargetConfig struct {
		Platform manifest.PlatformName `json:"platform" yaml:"platform" toml:"platform" mapstructure:"platform"`
		Version  string                `json:"version" yaml:"version" toml:"version" mapstructure:"version"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging and the error chain in failures.
		Verbose bool `json:"verbose" yaml:"verbose" toml:"verbose" mapstructure:"verbose"`
		// ColorScheme selects the glamour style used by 'explain'.
		ColorScheme ColorScheme `json:"color_scheme" yaml:"color_scheme" toml:"color_scheme" mapstructure:"color_scheme"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		OutputFormat: planout.FormatText,
		ExternalDirs: []ExternalDir{},
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// IsValid returns whether the Config has valid fields, delegating to each
// sub-component.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if err := c.OutputFormat.Validate(); err != nil {
		errs = append(errs, err)
	}
	if valid, fieldErrs := c.Target.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, dir := range c.ExternalDirs {
		if valid, fieldErrs := dir.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, fe := range e.FieldErrors {
		msgs = append(msgs, fe.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// IsValid checks the platform name and that the version parses as a
// dotted version. Both fields may be empty.
func (t TargetConfig) IsValid() (bool, []error) {
	var errs []error
	if t.Platform != "" {
		if err := t.Platform.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if t.Version != "" {
		if _, err := semver.NewVersion(t.Version); err != nil {
			errs = append(errs, fmt.Errorf("target version %q: %w", t.Version, err))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidTargetConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidTargetConfigError.
func (e *InvalidTargetConfigError) Error() string {
	return fmt.Sprintf("invalid target config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidTargetConfig for errors.Is() compatibility.
func (e *InvalidTargetConfigError) Unwrap() error { return ErrInvalidTargetConfig }

// String returns the string representation of the ExternalDir.
func (d ExternalDir) String() string { return string(d) }

// IsValid returns whether the ExternalDir is non-empty.
func (d ExternalDir) IsValid() (bool, []error) {
	if strings.TrimSpace(string(d)) == "" {
		return false, []error{&InvalidExternalDirError{Value: d}}
	}
	return true, nil
}

// Error implements the error interface for InvalidExternalDirError.
func (e *InvalidExternalDirError) Error() string {
	return fmt.Sprintf("invalid external package directory %q: must not be empty", e.Value)
}

// Unwrap returns ErrInvalidExternalDir for errors.Is() compatibility.
func (e *InvalidExternalDirError) Unwrap() error { return ErrInvalidExternalDir }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// GlamourStyle maps the color scheme to a glamour style name.
func (cs ColorScheme) GlamourStyle() string {
	switch cs {
	case ColorSchemeDark, ColorSchemeLight:
		return string(cs)
	default:
		return "auto"
	}
}

// Dirs returns the external directories as plain strings.
func (c Config) Dirs() []string {
	out := make([]string, 0, len(c.ExternalDirs))
	for _, d := range c.ExternalDirs {
		out = append(out, string(d))
	}
	return out
}
