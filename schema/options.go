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

package schema

import "regexp"

// Option configures a schema at construction time.
// Options only ever touch the fresh copy being built.
type Option func(*Schema)

// Title sets the human-readable title.
func Title(title string) Option {
	return func(s *Schema) { s.title = title }
}

// Description sets the description.
func Description(description string) Option {
	return func(s *Schema) { s.description = description }
}

// ID sets a stable identifier. Descriptors sharing an ID are the same
// declared type for API document generators; see [Schema.JSONSchema].
func ID(id string) Option {
	return func(s *Schema) { s.id = id }
}

// Min sets an inclusive lower bound.
func Min(v float64) Option {
	return func(s *Schema) { s.min = &v }
}

// Max sets an inclusive upper bound.
func Max(v float64) Option {
	return func(s *Schema) { s.max = &v }
}

// ExclusiveMin sets an exclusive lower bound.
func ExclusiveMin(v float64) Option {
	return func(s *Schema) { s.exclusiveMin = &v }
}

// ExclusiveMax sets an exclusive upper bound.
func ExclusiveMax(v float64) Option {
	return func(s *Schema) { s.exclusiveMax = &v }
}

// MinLength sets the minimum string length, counted in runes.
func MinLength(n int) Option {
	return func(s *Schema) { s.minLength = &n }
}

// MaxLength sets the maximum string length, counted in runes.
func MaxLength(n int) Option {
	return func(s *Schema) { s.maxLength = &n }
}

// Pattern sets a regular expression the string must match.
// It panics if expr does not compile, like [regexp.MustCompile].
func Pattern(expr string) Option {
	re := regexp.MustCompile(expr)
	return func(s *Schema) { s.pattern = re }
}

// Format sets a named string format such as "email", "uuid" or "url".
// Any baked-in go-playground/validator tag is accepted.
func Format(name string) Option {
	return func(s *Schema) { s.format = name }
}

// MinItems sets the minimum array length.
func MinItems(n int) Option {
	return func(s *Schema) { s.minItems = &n }
}

// MaxItems sets the maximum array length.
func MaxItems(n int) Option {
	return func(s *Schema) { s.maxItems = &n }
}

// Unique requires array elements to be distinct.
func Unique() Option {
	return func(s *Schema) { s.unique = true }
}
