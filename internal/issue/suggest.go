// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cpputils/buildplan/pkg/buildgraph"
	"github.com/cpputils/buildplan/pkg/cueutil"
	"github.com/cpputils/buildplan/pkg/manifest"
)

// Classify returns the catalog id for a resolver or manifest error, or 0 when
// the error belongs to no catalog entry.
func Classify(err error) Id {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, buildgraph.ErrDuplicateModule):
		return DuplicateNameId
	case errors.Is(err, buildgraph.ErrCyclicDependency):
		return DependencyCycleId
	case errors.Is(err, buildgraph.ErrUnresolvedDependency):
		return UnresolvedDependencyId
	case errors.Is(err, buildgraph.ErrInvalidProductReference):
		return InvalidProductReferenceId
	case errors.Is(err, buildgraph.ErrUnsupportedPlatform):
		return UnsupportedPlatformId
	case errors.Is(err, buildgraph.ErrUnknownModule):
		return UnknownModuleId
	case errors.Is(err, manifest.ErrUnknownRevision):
		return UnknownRevisionId
	case errors.Is(err, manifest.ErrInvalidManifest),
		errors.Is(err, manifest.ErrUnsupportedFormat),
		errors.Is(err, cueutil.ErrSchemaViolation),
		errors.Is(err, cueutil.ErrFileTooLarge),
		errors.Is(err, buildgraph.ErrInvalidDescriptor):
		return ManifestParseErrorId
	}
	return 0
}

// Suggest wraps err in an ActionableError for operation on resource, with
// suggestions derived from the concrete error type. It returns nil for a nil
// error.
func Suggest(err error, operation, resource string) *ActionableError {
	if err == nil {
		return nil
	}
	ctx := NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		WithSuggestions(suggestionsFor(err)...).
		Wrap(err)
	if id := Classify(err); id != 0 {
		ctx.WithIssue(id)
	}
	return ctx.Build()
}

func suggestionsFor(err error) []string {
	var (
		dup         *buildgraph.DuplicateModuleError
		cycle       *buildgraph.CyclicDependencyError
		unresolved  *buildgraph.UnresolvedDependencyError
		product     *buildgraph.InvalidProductReferenceError
		platform    *buildgraph.UnsupportedPlatformError
		unknown     *buildgraph.UnknownModuleError
		validation  *cueutil.ValidationError
		unsupported = errors.Is(err, manifest.ErrUnsupportedFormat)
	)

	switch {
	case errors.As(err, &dup):
		return []string{fmt.Sprintf("Rename or remove one of the %s declarations named %q", dup.Kind, dup.Name)}
	case errors.As(err, &cycle):
		return []string{
			fmt.Sprintf("Break the cycle %s", strings.Join(cycle.Cycle, " -> ")),
			fmt.Sprintf("Move the code shared by %s into a module they all depend on", strings.Join(cycle.Members(), ", ")),
		}
	case errors.As(err, &unresolved):
		if unresolved.Module == "" {
			return []string{
				fmt.Sprintf("Check that the descriptor for %q satisfies the declared version", unresolved.Target),
				"Point --external-dir at a directory holding a matching descriptor",
			}
		}
		return []string{
			fmt.Sprintf("Declare a module named %q or qualify the dependency with its package", unresolved.Target),
			"Point --external-dir at the directory holding the external package descriptors",
		}
	case errors.As(err, &product):
		if product.Test {
			return []string{fmt.Sprintf("Remove test module %q from product %q", product.Module, product.Product)}
		}
		return []string{fmt.Sprintf("Declare module %q or remove it from product %q", product.Module, product.Product)}
	case errors.As(err, &platform):
		switch {
		case platform.Reason != "":
			return []string{"Pass --target-version as a dotted version such as 14.0"}
		case platform.Minimum != "":
			return []string{fmt.Sprintf("Use --target-version %s or later", platform.Minimum)}
		}
		names := make([]string, 0, len(platform.Supported))
		for _, p := range platform.Supported {
			names = append(names, string(p))
		}
		return []string{"Pick one of the supported platforms: " + strings.Join(names, ", ")}
	case errors.As(err, &unknown):
		return []string{"Run 'buildplan order' to list the modules of the package"}
	case errors.Is(err, manifest.ErrUnknownRevision):
		return []string{"Run 'buildplan revisions' to list the bundled revisions"}
	case errors.As(err, &validation):
		return []string{"Fix the values at the reported paths and run 'buildplan validate' again"}
	case unsupported:
		var exts []string
		for _, f := range manifest.Formats() {
			exts = append(exts, f.Extensions()...)
		}
		return []string{"Use one of the extensions: " + strings.Join(exts, ", ")}
	}
	return nil
}
