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

import (
	"regexp"
	"slices"
)

// Schema is an immutable schema descriptor.
//
// A Schema is created by one of the kind constructors ([Boolean], [Number],
// [Object], ...) and never changes afterwards. Composition helpers such as
// [Optional] and [Schema.With] return a modified copy, so a descriptor can be
// shared freely between routes and goroutines.
//
// Example:
//
//	user := schema.Object(
//	    schema.Prop("name", schema.String(schema.MinLength(1))),
//	    schema.Prop("age", schema.Optional(schema.Integer(schema.Min(0)))),
//	)
type Schema struct {
	kind        Kind
	title       string
	description string
	id          string

	optional bool
	nullable bool
	stream   bool

	// numeric
	min, max                   *float64
	exclusiveMin, exclusiveMax *float64

	// string
	minLength, maxLength *int
	pattern              *regexp.Regexp
	format               string

	// literal
	value any

	// array
	items              *Schema
	minItems, maxItems *int
	unique             bool

	// object, urlForm, multipartForm
	props []Property

	// union, intersection
	members []*Schema
}

// Property is a named member of an object-like schema.
type Property struct {
	Name   string
	Schema *Schema
}

// Prop creates a [Property].
func Prop(name string, s *Schema) Property {
	return Property{Name: name, Schema: s}
}

func newSchema(kind Kind, opts []Option) *Schema {
	s := &Schema{kind: kind}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Boolean creates a boolean schema.
func Boolean(opts ...Option) *Schema { return newSchema(KindBoolean, opts) }

// Integer creates an integer schema. Range options apply.
func Integer(opts ...Option) *Schema { return newSchema(KindInteger, opts) }

// Number creates a floating point schema. Range options apply.
//
// Example:
//
//	schema.Number(schema.Min(10), schema.ExclusiveMax(42))
func Number(opts ...Option) *Schema { return newSchema(KindNumber, opts) }

// String creates a string schema. Length, pattern and format options apply.
func String(opts ...Option) *Schema { return newSchema(KindString, opts) }

// Literal creates a schema matching exactly the constant v.
func Literal(v any, opts ...Option) *Schema {
	s := newSchema(KindLiteral, opts)
	s.value = v

	return s
}

// ByteArray creates a schema for raw bytes.
func ByteArray(opts ...Option) *Schema { return newSchema(KindByteArray, opts) }

// Array creates an array schema whose elements validate against items.
// A nil items schema accepts any element.
func Array(items *Schema, opts ...Option) *Schema {
	s := newSchema(KindArray, opts)
	s.items = items

	return s
}

// Object creates an object schema with the given properties in declaration order.
// Unknown keys are accepted and passed through.
func Object(props ...Property) *Schema { return newProps(KindObject, props) }

// URLForm creates a schema for application/x-www-form-urlencoded bodies.
func URLForm(props ...Property) *Schema { return newProps(KindURLForm, props) }

// MultipartForm creates a schema for multipart/form-data bodies.
func MultipartForm(props ...Property) *Schema { return newProps(KindMultipartForm, props) }

func newProps(kind Kind, props []Property) *Schema {
	s := &Schema{kind: kind}
	s.props = slices.Clone(props)

	return s
}

// Union creates a schema that accepts the first member that validates.
// Member order is the tie-break: earlier members win.
//
// Example:
//
//	// "true" coerces to the boolean true, "12" to the number 12.
//	schema.Union(schema.Number(), schema.Boolean())
func Union(members ...*Schema) *Schema {
	s := &Schema{kind: KindUnion}
	s.members = slices.Clone(members)

	return s
}

// Intersection creates a schema that requires every member to validate.
// Object results are shallow-merged in member order.
func Intersection(members ...*Schema) *Schema {
	s := &Schema{kind: KindIntersection}
	s.members = slices.Clone(members)

	return s
}

// Null creates a schema that only accepts null.
func Null() *Schema { return &Schema{kind: KindNull} }

// Any creates a schema that accepts every value unchanged.
func Any() *Schema { return &Schema{kind: KindAny} }

// clone returns a shallow copy. Slices are shared because they are never
// written after construction.
func (s *Schema) clone() *Schema {
	c := *s
	return &c
}

// With returns a copy of s with the options applied.
func (s *Schema) With(opts ...Option) *Schema {
	c := s.clone()
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Optional returns a copy of s whose value may be absent.
func Optional(s *Schema) *Schema {
	c := s.clone()
	c.optional = true

	return c
}

// Nullable returns a copy of s whose value may be null.
func Nullable(s *Schema) *Schema {
	c := s.clone()
	c.nullable = true

	return c
}

// Nullish returns a copy of s that is both optional and nullable.
func Nullish(s *Schema) *Schema {
	c := s.clone()
	c.optional = true
	c.nullable = true

	return c
}

// Stream returns a copy of s marked for incremental delivery.
// Stream-marked body schemas are not materialized before the handler runs.
func Stream(s *Schema) *Schema {
	c := s.clone()
	c.stream = true

	return c
}

// Kind returns the schema kind.
func (s *Schema) Kind() Kind { return s.kind }

// Title returns the title.
func (s *Schema) Title() string { return s.title }

// Description returns the description.
func (s *Schema) Description() string { return s.description }

// ID returns the stable identifier, or "" for anonymous schemas.
func (s *Schema) ID() string { return s.id }

// IsOptional reports whether the value may be absent.
func (s *Schema) IsOptional() bool { return s.optional }

// IsNullable reports whether the value may be null.
func (s *Schema) IsNullable() bool { return s.nullable }

// IsStream reports whether the schema is stream-marked.
func (s *Schema) IsStream() bool { return s.stream }

// Min returns the inclusive lower bound.
func (s *Schema) Min() (float64, bool) { return deref(s.min) }

// Max returns the inclusive upper bound.
func (s *Schema) Max() (float64, bool) { return deref(s.max) }

// ExclusiveMin returns the exclusive lower bound.
func (s *Schema) ExclusiveMin() (float64, bool) { return deref(s.exclusiveMin) }

// ExclusiveMax returns the exclusive upper bound.
func (s *Schema) ExclusiveMax() (float64, bool) { return deref(s.exclusiveMax) }

// MinLength returns the minimum string length in runes.
func (s *Schema) MinLength() (int, bool) { return deref(s.minLength) }

// MaxLength returns the maximum string length in runes.
func (s *Schema) MaxLength() (int, bool) { return deref(s.maxLength) }

// Pattern returns the compiled pattern, or nil.
func (s *Schema) Pattern() *regexp.Regexp { return s.pattern }

// Format returns the named string format, or "".
func (s *Schema) Format() string { return s.format }

// Value returns the literal constant.
func (s *Schema) Value() any { return s.value }

// Items returns the array element schema.
func (s *Schema) Items() *Schema { return s.items }

// MinItems returns the minimum array length.
func (s *Schema) MinItems() (int, bool) { return deref(s.minItems) }

// MaxItems returns the maximum array length.
func (s *Schema) MaxItems() (int, bool) { return deref(s.maxItems) }

// Unique reports whether array elements must be distinct.
func (s *Schema) Unique() bool { return s.unique }

// Props returns the declared properties in order.
// The returned slice must not be modified.
func (s *Schema) Props() []Property { return s.props }

// Prop returns the schema of the named property.
func (s *Schema) Prop(name string) (*Schema, bool) {
	for _, p := range s.props {
		if p.Name == name {
			return p.Schema, true
		}
	}

	return nil, false
}

// Members returns union or intersection members in order.
// The returned slice must not be modified.
func (s *Schema) Members() []*Schema { return s.members }

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}

	return *p, true
}
