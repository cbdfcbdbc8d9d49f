// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

type (
	// Document is user input that can be built inside a CUE context and unified
	// with a schema. Use Bytes for CUE or JSON source and GoValue for data that
	// was already decoded by another format library.
	Document interface {
		build(ctx *cue.Context, o parseOptions) (cue.Value, error)
	}

	// ParseResult contains the result of a successful CUE parse operation.
	ParseResult[T any] struct {
		// Value is the decoded Go value.
		Value *T

		// Unified is the unified CUE value, available for callers that need to
		// inspect fields the Go type does not carry.
		Unified cue.Value
	}

	bytesDocument []byte

	goValueDocument struct {
		value any
	}
)

// Bytes wraps CUE source (or JSON, which is valid CUE) as a Document.
func Bytes(data []byte) Document {
	return bytesDocument(data)
}

// GoValue wraps a decoded Go value (maps, slices, scalars) as a Document.
func GoValue(v any) Document {
	return goValueDocument{value: v}
}

func (d bytesDocument) build(ctx *cue.Context, o parseOptions) (cue.Value, error) {
	if err := CheckFileSize(d, o.maxFileSize, o.filename); err != nil {
		return cue.Value{}, err
	}
	v := ctx.CompileBytes(d, cue.Filename(o.filename))
	if v.Err() != nil {
		return cue.Value{}, FormatError(v.Err(), o.filename)
	}
	return v, nil
}

func (d goValueDocument) build(ctx *cue.Context, o parseOptions) (cue.Value, error) {
	v := ctx.Encode(d.value)
	if v.Err() != nil {
		return cue.Value{}, FormatError(v.Err(), o.filename)
	}
	return v, nil
}

// ParseAndDecode compiles schema, unifies doc with the definition at schemaPath
// (e.g. "#Package"), validates the result and decodes it into T.
//
// Each call uses its own CUE context, so concurrent calls are independent.
func ParseAndDecode[T any](schema []byte, schemaPath string, doc Document, opts ...Option) (*ParseResult[T], error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	userValue, err := doc.build(ctx, options)
	if err != nil {
		return nil, err
	}

	unified := schemaRoot.Unify(userValue)
	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return nil, FormatError(err, options.filename)
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, options.filename)
	}

	return &ParseResult[T]{
		Value:   &result,
		Unified: unified,
	}, nil
}
