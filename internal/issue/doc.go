// SPDX-License-Identifier: MPL-2.0

// Package issue turns resolver and manifest failures into user-facing errors.
//
// ActionableError carries the operation, the resource and remediation hints.
// Suggest derives those hints from the concrete buildgraph and manifest error
// types, and links each error to a catalog entry whose Markdown guidance is
// rendered with glamour by 'buildplan explain'.
package issue
