// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// Every structured file the tool reads (package manifests and the application
// config) goes through the same flow:
//
//  1. Compile the embedded schema
//  2. Build the user document (CUE source, or data already decoded from YAML/TOML)
//     and unify it with the schema definition
//  3. Validate and decode to a Go struct
//
// # Usage
//
//	//go:embed manifest_schema.cue
//	var schema []byte
//
//	result, err := cueutil.ParseAndDecode[Package](
//	    schema,
//	    "#Package",
//	    cueutil.Bytes(data),
//	    cueutil.WithFilename("package.cue"),
//	)
//	if err != nil {
//	    return nil, err // *ValidationError with JSON paths for schema violations
//	}
//	return result.Value, nil
package cueutil
