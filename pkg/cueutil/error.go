// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

var (
	// ErrSchemaViolation is the sentinel error wrapped by ValidationError.
	ErrSchemaViolation = errors.New("schema violation")

	// ErrFileTooLarge is returned when a document exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")
)

type (
	// Violation is a single schema problem at a JSON path.
	Violation struct {
		// Path is the JSON path to the invalid value (e.g., "modules[0].kind").
		// Empty when CUE could not attribute the problem to a field.
		Path string
		// Message is the CUE error message with any redundant path prefix removed.
		Message string
	}

	// ValidationError is a CUE parse or validation failure for one file.
	ValidationError struct {
		// FilePath is the file being validated.
		FilePath string
		// Violations lists every problem CUE reported, in CUE's order.
		Violations []Violation
	}
)

// Error implements the error interface.
//
// Format with one violation:   <file>: <path>: <message>
// Format with several:         <file>: validation failed:\n  <path>: <message>...
func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Path != "" {
			lines = append(lines, v.Path+": "+v.Message)
		} else {
			lines = append(lines, v.Message)
		}
	}

	if len(lines) == 1 {
		return fmt.Sprintf("%s: %s", e.FilePath, lines[0])
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(lines, "\n  "))
}

// Unwrap returns ErrSchemaViolation so callers can use errors.Is.
func (e *ValidationError) Unwrap() error { return ErrSchemaViolation }

// FormatError converts a CUE error into a *ValidationError whose violations carry
// JSON-path locations. Errors that are not CUE errors are wrapped with the file path.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	verr := &ValidationError{FilePath: filePath}
	for _, e := range cueErrs {
		path := formatPath(cueerrors.Path(e))
		msg := e.Error()

		// CUE sometimes repeats the path at the start of the message.
		if path != "" {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		}
		verr.Violations = append(verr.Violations, Violation{Path: path, Message: msg})
	}
	return verr
}

// formatPath converts a CUE error path (["modules", "0", "kind"]) to JSON-path
// notation ("modules[0].kind").
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize verifies that data does not exceed maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes: %w",
			filename, len(data), maxSize, ErrFileTooLarge)
	}
	return nil
}
