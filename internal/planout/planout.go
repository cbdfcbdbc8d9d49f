// SPDX-License-Identifier: MPL-2.0

// Package planout encodes build plans and module configurations for output.
package planout

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FormatText is the styled human-readable rendering.
	FormatText Format = "text"
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
	// FormatYAML is YAML with two-space indentation.
	FormatYAML Format = "yaml"
	// FormatTOML is TOML. Only tables (structs and maps) can be encoded.
	FormatTOML Format = "toml"
)

var (
	// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
	ErrInvalidFormat = errors.New("invalid output format")
	// ErrTextFormat is returned by Encode for FormatText, which callers render themselves.
	ErrTextFormat = errors.New("text format has no encoder")
)

type (
	// Format names an output encoding.
	Format string

	// InvalidFormatError is returned when a Format value is not recognized.
	// It wraps ErrInvalidFormat for errors.Is() compatibility.
	InvalidFormatError struct {
		Value Format
	}
)

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: %s)", e.Value, strings.Join(Names(), ", "))
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// Formats returns every output format.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatTOML}
}

// Names returns the format names, for flag help and completion.
func Names() []string {
	out := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		out = append(out, string(f))
	}
	return out
}

// String returns the string representation of the format.
func (f Format) String() string { return string(f) }

// Validate returns an error if the format is not recognized.
func (f Format) Validate() error {
	switch f {
	case FormatText, FormatJSON, FormatYAML, FormatTOML:
		return nil
	default:
		return &InvalidFormatError{Value: f}
	}
}

// Parse converts a user-supplied name into a Format. "yml" is accepted as
// YAML and the comparison ignores case.
func Parse(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "yml" {
		f = FormatYAML
	}
	if err := f.Validate(); err != nil {
		return "", err
	}
	return f, nil
}

// Encode writes v to w in a structured format. FormatText returns
// ErrTextFormat.
func Encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err := enc.Encode(v)
		if closeErr := enc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return nil
	case FormatTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding TOML: %w", err)
		}
		return nil
	case FormatText:
		return ErrTextFormat
	}
	return &InvalidFormatError{Value: format}
}
