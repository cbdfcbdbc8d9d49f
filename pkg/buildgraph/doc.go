// SPDX-License-Identifier: MPL-2.0

// Package buildgraph resolves the module graph of a package descriptor and
// emits per-module build configurations.
//
// The pipeline has three phases, each a pure function of its input:
//
//	descriptor --Load--> *Graph --BuildOrder--> []string
//	                            --Emit--------> *ModuleConfig
//
// Load rejects a descriptor as a whole; there is no partial result. Its
// errors are DuplicateModuleError, UnresolvedDependencyError,
// CyclicDependencyError, InvalidProductReferenceError and
// UnsupportedPlatformError, each matching a sentinel with errors.Is.
//
// Unsafe flags are opaque: they are copied into the configuration of the
// module that declares them, in order, and never parsed. A module's macro
// definitions stay private to it, while linked frameworks propagate to every
// consumer. A dependency compiled with -fno-objc-arc is listed as an ARC
// boundary of each direct dependent.
//
// External packages are bound through a PackageSource. A package whose
// descriptor is available is loaded recursively with the same rules;
// otherwise its products are trusted and left to the consumer.
package buildgraph
