// SPDX-License-Identifier: MPL-2.0

package buildgraph

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/cpputils/buildplan/pkg/manifest"
)

var (
	// ErrDuplicateModule is the sentinel wrapped by DuplicateModuleError.
	ErrDuplicateModule = errors.New("duplicate name")
	// ErrCyclicDependency is the sentinel wrapped by CyclicDependencyError.
	ErrCyclicDependency = errors.New("cyclic dependency")
	// ErrUnresolvedDependency is the sentinel wrapped by UnresolvedDependencyError.
	ErrUnresolvedDependency = errors.New("unresolved dependency")
	// ErrInvalidProductReference is the sentinel wrapped by InvalidProductReferenceError.
	ErrInvalidProductReference = errors.New("invalid product reference")
	// ErrUnsupportedPlatform is the sentinel wrapped by UnsupportedPlatformError.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrInvalidDescriptor is the sentinel wrapped by InvalidDescriptorError.
	ErrInvalidDescriptor = errors.New("invalid descriptor")
	// ErrUnknownModule is returned by Emit for a name that is neither a module nor a test.
	ErrUnknownModule = errors.New("unknown module")
)

const (
	// KindModule marks a clash between module or test module names.
	KindModule DuplicateKind = "module"
	// KindProduct marks a clash between product names.
	KindProduct DuplicateKind = "product"
	// KindExternalPackage marks a clash between external package names.
	KindExternalPackage DuplicateKind = "external package"
	// KindPlatform marks a platform declared more than once.
	KindPlatform DuplicateKind = "platform"
)

type (
	// DuplicateKind names the namespace in which a duplicate was found.
	DuplicateKind string

	// DuplicateModuleError is returned when a name is declared twice in one
	// namespace. Modules and test modules share a namespace.
	DuplicateModuleError struct {
		Package string
		Kind    DuplicateKind
		Name    string
	}

	// CyclicDependencyError is returned when dependencies form a cycle.
	CyclicDependencyError struct {
		Package string
		// Cycle lists the participants in traversal order, closing on the first
		// (A -> B -> A is [A B A]). For cycles between packages the entries are
		// package names.
		Cycle []string
	}

	// UnresolvedDependencyError is returned when a dependency names nothing
	// that exists locally or in a declared external package.
	UnresolvedDependencyError struct {
		Package string
		// Module is the declaring module or test module. It is empty when an
		// external package itself could not be bound.
		Module string
		// Target is the dependency as written ("name" or "package/name").
		Target string
		// Reason explains the failure when it is more specific than "not declared".
		Reason string
	}

	// InvalidProductReferenceError is returned when a product lists a module
	// that does not exist or is a test module.
	InvalidProductReferenceError struct {
		Package string
		Product string
		Module  string
		// Test is set when the referenced module is a test module.
		Test bool
	}

	// UnsupportedPlatformError is returned when the requested target platform
	// is not declared or its version is below the declared minimum.
	UnsupportedPlatformError struct {
		Package   string
		Platform  manifest.PlatformName
		Requested string
		// Minimum is empty when the platform is not declared at all.
		Minimum   string
		Supported []manifest.PlatformName
		// Reason is set for requests that could not be compared (e.g. a malformed version).
		Reason string
	}

	// InvalidDescriptorError wraps problems outside the graph rules, such as
	// structural descriptor errors or failures of the package source.
	InvalidDescriptorError struct {
		Package string
		Err     error
	}

	// UnknownModuleError is returned when a configuration is requested for an
	// undeclared name.
	UnknownModuleError struct {
		Package string
		Name    string
	}
)

// Error implements the error interface.
func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("package %q: %s %q is declared more than once", e.Package, e.Kind, e.Name)
}

// Unwrap returns ErrDuplicateModule for errors.Is() compatibility.
func (e *DuplicateModuleError) Unwrap() error { return ErrDuplicateModule }

// Error implements the error interface.
func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("package %q: dependency cycle: %s", e.Package, strings.Join(e.Cycle, " -> "))
}

// Unwrap returns ErrCyclicDependency for errors.Is() compatibility.
func (e *CyclicDependencyError) Unwrap() error { return ErrCyclicDependency }

// Members returns the distinct participants of the cycle.
func (e *CyclicDependencyError) Members() []string {
	if len(e.Cycle) > 1 && e.Cycle[0] == e.Cycle[len(e.Cycle)-1] {
		return slices.Clone(e.Cycle[:len(e.Cycle)-1])
	}
	return slices.Clone(e.Cycle)
}

// Error implements the error interface.
func (e *UnresolvedDependencyError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "no such module or external product"
	}
	if e.Module == "" {
		return fmt.Sprintf("package %q: external package %q: %s", e.Package, e.Target, reason)
	}
	return fmt.Sprintf("package %q: %q depends on %q: %s", e.Package, e.Module, e.Target, reason)
}

// Unwrap returns ErrUnresolvedDependency for errors.Is() compatibility.
func (e *UnresolvedDependencyError) Unwrap() error { return ErrUnresolvedDependency }

// Error implements the error interface.
func (e *InvalidProductReferenceError) Error() string {
	if e.Test {
		return fmt.Sprintf("package %q: product %q lists test module %q", e.Package, e.Product, e.Module)
	}
	return fmt.Sprintf("package %q: product %q lists undeclared module %q", e.Package, e.Product, e.Module)
}

// Unwrap returns ErrInvalidProductReference for errors.Is() compatibility.
func (e *InvalidProductReferenceError) Unwrap() error { return ErrInvalidProductReference }

// Error implements the error interface.
func (e *UnsupportedPlatformError) Error() string {
	switch {
	case e.Reason != "":
		return fmt.Sprintf("package %q: target %s %s: %s", e.Package, e.Platform, e.Requested, e.Reason)
	case e.Minimum == "":
		supported := make([]string, len(e.Supported))
		for i, p := range e.Supported {
			supported[i] = string(p)
		}
		return fmt.Sprintf("package %q does not support platform %s (supported: %s)",
			e.Package, e.Platform, strings.Join(supported, ", "))
	default:
		return fmt.Sprintf("package %q requires %s %s or later, requested %s",
			e.Package, e.Platform, e.Minimum, e.Requested)
	}
}

// Unwrap returns ErrUnsupportedPlatform for errors.Is() compatibility.
func (e *UnsupportedPlatformError) Unwrap() error { return ErrUnsupportedPlatform }

// Error implements the error interface.
func (e *InvalidDescriptorError) Error() string {
	return fmt.Sprintf("package %q: %v", e.Package, e.Err)
}

// Unwrap returns the sentinel and the underlying cause.
func (e *InvalidDescriptorError) Unwrap() []error {
	return []error{ErrInvalidDescriptor, e.Err}
}

// Error implements the error interface.
func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("package %q has no module or test module %q", e.Package, e.Name)
}

// Unwrap returns ErrUnknownModule for errors.Is() compatibility.
func (e *UnknownModuleError) Unwrap() error { return ErrUnknownModule }
