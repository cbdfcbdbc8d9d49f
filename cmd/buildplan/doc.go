// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the buildplan command line: validate, order and emit
// over a manifest or a bundled revision, plus revisions, config and explain.
//
// Commands print their own failures as actionable errors and return an
// ExitError; Execute maps it to the process exit code (1 for a failed
// descriptor, 2 for bad usage).
package cmd
