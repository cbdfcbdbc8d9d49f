// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load manifest"},
			expected: "failed to load manifest",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "load manifest", Resource: "./package.cue"},
			expected: "failed to load manifest: ./package.cue",
		},
		{
			name:     "operation with cause",
			err:      &ActionableError{Operation: "parse config", Cause: errors.New("syntax error at line 5")},
			expected: "failed to parse config: syntax error at line 5",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "emit configuration",
				Resource:  "cpp-utils",
				Cause:     errors.New("unknown module"),
			},
			expected: "failed to emit configuration: cpp-utils: unknown module",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &ActionableError{Operation: "test", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if (&ActionableError{Operation: "test"}).Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	inner := errors.New("module objc-utils depends on cpp-utils")
	chained := &ActionableError{
		Operation:   "resolve build order",
		Resource:    "revision 3",
		Suggestions: []string{"Break the cycle"},
		Cause:       &wrapErr{msg: "dependency cycle", err: inner},
	}

	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name:     "simple",
			err:      &ActionableError{Operation: "load config"},
			contains: []string{"failed to load config"},
			excludes: []string{"•", "Error chain:"},
		},
		{
			name: "suggestions",
			err: &ActionableError{
				Operation:   "load manifest",
				Resource:    "./package.cue",
				Suggestions: []string{"Run 'buildplan validate'", "Check the file extension"},
			},
			contains: []string{"./package.cue", "• Run 'buildplan validate'", "• Check the file extension"},
		},
		{
			name:     "non-verbose hides chain",
			err:      chained,
			contains: []string{"dependency cycle", "• Break the cycle"},
			excludes: []string{"Error chain:"},
		},
		{
			name:     "verbose shows chain",
			err:      chained,
			verbose:  true,
			contains: []string{"Error chain:", "1. dependency cycle", "2. module objc-utils depends on cpp-utils"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Format(tt.verbose)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Format() missing %q in:\n%s", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("Format() should not contain %q in:\n%s", bad, got)
				}
			}
		})
	}
}

func TestErrorContext_Build(t *testing.T) {
	cause := errors.New("boom")
	ae := NewErrorContext().
		WithOperation("load manifest").
		WithResource("package.yaml").
		WithSuggestion("first").
		WithSuggestions("second", "third").
		WithIssue(ManifestParseErrorId).
		Wrap(cause).
		Build()

	if ae == nil {
		t.Fatal("Build() returned nil")
	}
	if ae.Operation != "load manifest" || ae.Resource != "package.yaml" {
		t.Errorf("unexpected context: %+v", ae)
	}
	if len(ae.Suggestions) != 3 || ae.Suggestions[2] != "third" {
		t.Errorf("Suggestions = %v", ae.Suggestions)
	}
	if ae.Issue != ManifestParseErrorId {
		t.Errorf("Issue = %v, want %v", ae.Issue, ManifestParseErrorId)
	}
	if !errors.Is(ae, cause) {
		t.Error("built error should wrap the cause")
	}
	if !ae.HasSuggestions() {
		t.Error("HasSuggestions() = false")
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	ctx := NewErrorContext().WithResource("x")
	if ctx.Build() != nil {
		t.Error("Build() without an operation should return nil")
	}
	if err := ctx.BuildError(); err != nil {
		t.Errorf("BuildError() = %v, want untyped nil", err)
	}
}

func TestWrapWithContext(t *testing.T) {
	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}
	cause := errors.New("missing")
	ae := WrapWithContext(cause, "read", "package.toml")
	if ae.Error() != "failed to read: package.toml: missing" {
		t.Errorf("Error() = %q", ae.Error())
	}
	if ae.HasSuggestions() {
		t.Error("WrapWithContext should not add suggestions")
	}
}

type wrapErr struct {
	msg string
	err error
}

func (e *wrapErr) Error() string { return e.msg }
func (e *wrapErr) Unwrap() error { return e.err }
