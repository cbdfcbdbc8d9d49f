// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// KindC is a plain C module.
	KindC ModuleKind = "c"
	// KindCxx is a C++ module.
	KindCxx ModuleKind = "cxx"
	// KindObjCxx is a mixed Objective-C/C++ module.
	KindObjCxx ModuleKind = "objcxx"

	// PlatformMacOS is macOS.
	PlatformMacOS PlatformName = "macOS"
	// PlatformIOS is iOS.
	PlatformIOS PlatformName = "iOS"
	// PlatformMacCatalyst is iOS apps running on macOS.
	PlatformMacCatalyst PlatformName = "macCatalyst"
	// PlatformTvOS is tvOS.
	PlatformTvOS PlatformName = "tvOS"
	// PlatformWatchOS is watchOS.
	PlatformWatchOS PlatformName = "watchOS"
	// PlatformVisionOS is visionOS.
	PlatformVisionOS PlatformName = "visionOS"
	// PlatformLinux is Linux.
	PlatformLinux PlatformName = "linux"

	// NoObjCARCFlag is the unsafe flag that disables automatic reference
	// counting for a module's Objective-C sources.
	NoObjCARCFlag = "-fno-objc-arc"
)

var (
	// ErrInvalidModuleKind is returned when a ModuleKind value is not one of the defined kinds.
	ErrInvalidModuleKind = errors.New("invalid module kind")
	// ErrInvalidPlatformName is returned when a PlatformName value is not recognized.
	ErrInvalidPlatformName = errors.New("invalid platform name")
	// ErrInvalidLanguageStandard is returned when a C or C++ standard is not recognized.
	ErrInvalidLanguageStandard = errors.New("invalid language standard")
	// ErrInvalidIdentifier is returned when a declared name is empty or malformed.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// identifierPattern mirrors #Identifier in manifest_schema.cue.
	identifierPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.+-]*$`)

	// urlPrefixes mirrors the url constraint of #ExternalPackage.
	urlPrefixes = []string{"https://", "git@", "ssh://", "file://"}

	cStandards = []CStandard{
		"c89", "c90", "c99", "c11", "c17", "c18", "c2x",
		"gnu89", "gnu90", "gnu99", "gnu11", "gnu17", "gnu18", "gnu2x",
	}

	cxxStandards = []CxxStandard{
		"cxx98", "cxx03", "cxx11", "cxx14", "cxx17", "cxx20", "cxx2b",
		"gnucxx98", "gnucxx03", "gnucxx11", "gnucxx14", "gnucxx17", "gnucxx20", "gnucxx2b",
	}
)

type (
	// ModuleKind is the primary source language of a module.
	ModuleKind string

	// PlatformName names a target operating system.
	PlatformName string

	// CStandard names a C language standard (e.g. "gnu18").
	CStandard string

	// CxxStandard names a C++ language standard (e.g. "gnucxx20").
	CxxStandard string

	// InvalidModuleKindError is returned when a ModuleKind value is not recognized.
	// It wraps ErrInvalidModuleKind for errors.Is() compatibility.
	InvalidModuleKindError struct {
		Value ModuleKind
	}

	// InvalidPlatformNameError is returned when a PlatformName value is not recognized.
	// It wraps ErrInvalidPlatformName for errors.Is() compatibility.
	InvalidPlatformNameError struct {
		Value PlatformName
	}

	// InvalidLanguageStandardError is returned when a language standard is not recognized.
	// It wraps ErrInvalidLanguageStandard for errors.Is() compatibility.
	InvalidLanguageStandardError struct {
		Language string
		Value    string
	}

	// InvalidIdentifierError is returned when a package, module, product or
	// dependency name does not match the identifier pattern.
	// It wraps ErrInvalidIdentifier for errors.Is() compatibility.
	InvalidIdentifierError struct {
		Field string
		Value string
	}
)

// Error implements the error interface for InvalidModuleKindError.
func (e *InvalidModuleKindError) Error() string {
	return fmt.Sprintf("invalid module kind %q (valid: c, cxx, objcxx)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidModuleKindError) Unwrap() error { return ErrInvalidModuleKind }

// Error implements the error interface for InvalidPlatformNameError.
func (e *InvalidPlatformNameError) Error() string {
	return fmt.Sprintf("invalid platform %q (valid: %s)", e.Value, strings.Join(platformNameStrings(), ", "))
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidPlatformNameError) Unwrap() error { return ErrInvalidPlatformName }

// Error implements the error interface for InvalidLanguageStandardError.
func (e *InvalidLanguageStandardError) Error() string {
	return fmt.Sprintf("invalid %s standard %q", e.Language, e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLanguageStandardError) Unwrap() error { return ErrInvalidLanguageStandard }

// Error implements the error interface for InvalidIdentifierError.
func (e *InvalidIdentifierError) Error() string {
	if e.Value == "" {
		return e.Field + " is required"
	}
	return fmt.Sprintf("invalid %s %q: must start with a letter and contain only letters, digits, '_', '.', '+' or '-'", e.Field, e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidIdentifierError) Unwrap() error { return ErrInvalidIdentifier }

func validateIdentifier(field, value string) error {
	if !identifierPattern.MatchString(value) {
		return &InvalidIdentifierError{Field: field, Value: value}
	}
	return nil
}

// String returns the string representation of the ModuleKind.
func (k ModuleKind) String() string { return string(k) }

// Validate returns nil if the ModuleKind is one of the defined kinds.
func (k ModuleKind) Validate() error {
	switch k {
	case KindC, KindCxx, KindObjCxx:
		return nil
	default:
		return &InvalidModuleKindError{Value: k}
	}
}

// PlatformNames returns every recognized platform name.
func PlatformNames() []PlatformName {
	return []PlatformName{
		PlatformMacOS, PlatformIOS, PlatformMacCatalyst,
		PlatformTvOS, PlatformWatchOS, PlatformVisionOS, PlatformLinux,
	}
}

func platformNameStrings() []string {
	names := PlatformNames()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

// String returns the string representation of the PlatformName.
func (p PlatformName) String() string { return string(p) }

// Validate returns nil if the PlatformName is recognized.
func (p PlatformName) Validate() error {
	for _, n := range PlatformNames() {
		if n == p {
			return nil
		}
	}
	return &InvalidPlatformNameError{Value: p}
}

// String returns the string representation of the CStandard.
func (s CStandard) String() string { return string(s) }

// Validate returns nil if the CStandard is recognized.
func (s CStandard) Validate() error {
	for _, std := range cStandards {
		if std == s {
			return nil
		}
	}
	return &InvalidLanguageStandardError{Language: "C", Value: string(s)}
}

// Flag returns the compiler spelling of the standard (e.g. "-std=gnu18").
// The zero value yields an empty string.
func (s CStandard) Flag() string {
	if s == "" {
		return ""
	}
	return "-std=" + string(s)
}

// String returns the string representation of the CxxStandard.
func (s CxxStandard) String() string { return string(s) }

// Validate returns nil if the CxxStandard is recognized.
func (s CxxStandard) Validate() error {
	for _, std := range cxxStandards {
		if std == s {
			return nil
		}
	}
	return &InvalidLanguageStandardError{Language: "C++", Value: string(s)}
}

// Flag returns the compiler spelling of the standard, where "cxx" becomes
// "c++" (e.g. "gnucxx2b" yields "-std=gnu++2b").
// The zero value yields an empty string.
func (s CxxStandard) Flag() string {
	if s == "" {
		return ""
	}
	return "-std=" + strings.Replace(string(s), "cxx", "c++", 1)
}
