/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package schema reflects Go response types into JSON schemas for
// structured model output. The OpenAI and Gemini judge backends attach these
// schemas to their requests so the model is constrained to the evaluation
// shape instead of free-form text.
package schema

import "github.com/invopop/jsonschema"

// reflector is configured for model response schemas: required fields come
// from jsonschema tags, the top-level struct is expanded inline, and no
// $ref indirection is emitted (several providers reject it).
var reflector = jsonschema.Reflector{
	RequiredFromJSONSchemaTags: true,
	ExpandedStruct:             true,
	DoNotReference:             true,
}

// Reflect returns the JSON schema for the provided value.
func Reflect(v any) *jsonschema.Schema {
	return reflector.Reflect(v)
}

// For allocates a zero value of T and reflects it into a schema.
func For[T any]() *jsonschema.Schema {
	var zero T
	return Reflect(&zero)
}
