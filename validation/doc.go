// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package validation validates and coerces decoded request data against
// [schema.Schema] descriptors.
//
// # Getting Started
//
// The simplest way to use this package is with the package-level [Validate] function:
//
//	query := schema.Object(
//		schema.Prop("page", schema.Optional(schema.Integer(schema.Min(1)))),
//		schema.Prop("tags", schema.Optional(schema.Array(schema.String()))),
//	)
//
//	v, err := validation.Validate(map[string]any{"page": "2"}, query, true)
//	// v == map[string]any{"page": int64(2)}
//
// # Coercion
//
// With parseFromString set, string inputs are converted to the schema kind:
// "true"/"false" to booleans, numeric strings to int64 or float64, and a bare
// string to a one-element list when an array is expected. Numeric strings must
// round-trip exactly, so "1e2" and "007" are rejected.
//
// # Errors
//
// Failures produce a [*Error] wrapping an [Issue] tree that mirrors the schema:
//
//	{"foo": "Required", "bar": "Expected a number, got \"x\""}
//
// Leaves are [Messages] (one string, or a list when several constraints fail
// together), objects yield [Fields] and arrays yield [Items]. Use
// errors.Is(err, ErrValidation) to detect validation failures.
//
// # Formats
//
// [schema.Format] names are go-playground/validator tags ("email", "uuid",
// "url", "datetime=2006-01-02", ...). Register more with [WithCustomFormat].
package validation
