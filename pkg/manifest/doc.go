// SPDX-License-Identifier: MPL-2.0

// Package manifest provides types and parsing for package manifests.
//
// A manifest describes one immutable revision of a multi-module native
// library: the platforms it supports, the package-wide C and C++ standards,
// its production modules and their dependencies, test modules, products, and
// the external packages whose products modules may consume.
//
// Manifests are written in CUE, JSON, YAML or TOML. Every format is unified
// with the same embedded CUE schema (see pkg/cueutil), so schema errors carry
// JSON paths regardless of the input format.
//
// The four historical cpp-utils revisions are bundled and available through
// Revision and Revisions. DirSource and MapSource look up the descriptors of
// external packages.
package manifest
