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

package validation

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"rivaas.dev/keel/schema"
)

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined marks an absent value: a missing property, header or query key.
// It is distinct from nil, which is an explicit null.
var Undefined any = undefined{}

// IsUndefined reports whether v is [Undefined].
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// Bytes is implemented by values that carry a byte payload, such as
// materialized multipart file parts. They satisfy byteArray schemas unchanged.
type Bytes interface {
	Bytes() []byte
}

var (
	issueRequired = Messages{"Required"}
	issueNull     = Messages{"Value cannot be null"}
)

// validate is the recursive core. Absence is handled first, then null,
// then the kind dispatch.
func (v *Validator) validate(value any, s *schema.Schema, parse bool) (any, Issue) {
	if IsUndefined(value) {
		if s.IsOptional() {
			return Undefined, nil
		}

		return nil, issueRequired
	}

	if value == nil && s.Kind() != schema.KindUnion {
		if s.IsNullable() || s.Kind() == schema.KindNull || s.Kind() == schema.KindAny {
			return nil, nil
		}

		return nil, issueNull
	}

	switch s.Kind() {
	case schema.KindBoolean:
		return validateBoolean(value, parse)
	case schema.KindInteger:
		return validateInteger(value, s, parse)
	case schema.KindNumber:
		return validateNumber(value, s, parse)
	case schema.KindString:
		return v.validateString(value, s)
	case schema.KindLiteral:
		return validateLiteral(value, s, parse)
	case schema.KindByteArray:
		return validateByteArray(value, parse)
	case schema.KindArray:
		return v.validateArray(value, s, parse)
	case schema.KindObject:
		return v.validateObject(value, s, parse)
	case schema.KindURLForm, schema.KindMultipartForm:
		// Form fields are always strings on the wire.
		return v.validateObject(value, s, true)
	case schema.KindUnion:
		return v.validateUnion(value, s, parse)
	case schema.KindIntersection:
		return v.validateIntersection(value, s, parse)
	case schema.KindNull:
		if parse && value == "null" {
			return nil, nil
		}

		return nil, Messages{"Expected null"}
	case schema.KindAny:
		return value, nil
	default:
		panic(fmt.Sprintf("validation: unhandled schema kind %s", s.Kind()))
	}
}

func validateBoolean(value any, parse bool) (any, Issue) {
	switch b := value.(type) {
	case bool:
		return b, nil
	case string:
		if parse {
			switch b {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
		}
	}

	return nil, message(`Expected a boolean, got %v; accepted values are "true" and "false"`, value)
}

func validateNumber(value any, s *schema.Schema, parse bool) (any, Issue) {
	f, ok := toFloat(value)
	if !ok {
		str, isStr := value.(string)
		if !isStr || !parse {
			return nil, message("Expected a number, got %q", fmt.Sprint(value))
		}
		if f, ok = parseFloat(str); !ok {
			return nil, message("Expected a number, got %q", str)
		}
	}

	if issue := checkRange(f, s); issue != nil {
		return nil, issue
	}

	return f, nil
}

func validateInteger(value any, s *schema.Schema, parse bool) (any, Issue) {
	n, ok := toInt(value)
	if !ok {
		str, isStr := value.(string)
		if !isStr || !parse {
			return nil, message("Expected an integer, got %q", fmt.Sprint(value))
		}
		if n, ok = parseInt(str); !ok {
			return nil, message("Expected an integer, got %q", str)
		}
	}

	if issue := checkRange(float64(n), s); issue != nil {
		return nil, issue
	}

	return n, nil
}

// checkRange reports every violated bound, not just the first.
func checkRange(f float64, s *schema.Schema) Issue {
	var msgs Messages
	if m, ok := s.Min(); ok && f < m {
		msgs = append(msgs, fmt.Sprintf("Must be greater than or equal to %v", m))
	}
	if m, ok := s.ExclusiveMin(); ok && f <= m {
		msgs = append(msgs, fmt.Sprintf("Must be greater than %v", m))
	}
	if m, ok := s.Max(); ok && f > m {
		msgs = append(msgs, fmt.Sprintf("Must be less than or equal to %v", m))
	}
	if m, ok := s.ExclusiveMax(); ok && f >= m {
		msgs = append(msgs, fmt.Sprintf("Must be less than %v", m))
	}

	if len(msgs) == 0 {
		return nil
	}

	return msgs
}

func (v *Validator) validateString(value any, s *schema.Schema) (any, Issue) {
	str, ok := value.(string)
	if !ok {
		return nil, Messages{"Expected a string"}
	}

	var msgs Messages
	n := utf8.RuneCountInString(str)
	if minLen, ok := s.MinLength(); ok && n < minLen {
		msgs = append(msgs, fmt.Sprintf("Must be at least %d characters", minLen))
	}
	if maxLen, ok := s.MaxLength(); ok && n > maxLen {
		msgs = append(msgs, fmt.Sprintf("Must be at most %d characters", maxLen))
	}
	if re := s.Pattern(); re != nil && !re.MatchString(str) {
		msgs = append(msgs, fmt.Sprintf("Must match pattern %s", re))
	}
	if f := s.Format(); f != "" && !v.checkFormat(str, f) {
		msgs = append(msgs, fmt.Sprintf("Must be a valid %s", formatName(f)))
	}

	if len(msgs) > 0 {
		return nil, msgs
	}

	return str, nil
}

func validateLiteral(value any, s *schema.Schema, parse bool) (any, Issue) {
	want := s.Value()
	if parse {
		if str, ok := value.(string); ok && str == fmt.Sprint(want) {
			return want, nil
		}
	}

	if equalValues(value, want) {
		return want, nil
	}

	return nil, message("Invalid literal value %v, expected %v", value, want)
}

func validateByteArray(value any, parse bool) (any, Issue) {
	switch b := value.(type) {
	case []byte:
		return b, nil
	case Bytes:
		return b, nil
	case string:
		if parse {
			return []byte(b), nil
		}
	case []any:
		out := make([]byte, 0, len(b))
		for _, e := range b {
			n, ok := toInt(e)
			if !ok || n < 0 || n > 255 {
				return nil, Messages{"Expected a byte array"}
			}
			out = append(out, byte(n))
		}

		return out, nil
	}

	return nil, Messages{"Expected a byte array"}
}

func (v *Validator) validateArray(value any, s *schema.Schema, parse bool) (any, Issue) {
	elems, ok := toSlice(value)
	if !ok {
		str, isStr := value.(string)
		if !isStr || !parse {
			return nil, Messages{"Expected an array"}
		}
		// A single query value for a list parameter.
		elems = []any{str}
	}

	var msgs Messages
	if minItems, ok := s.MinItems(); ok && len(elems) < minItems {
		msgs = append(msgs, fmt.Sprintf("Must contain at least %d items", minItems))
	}
	if maxItems, ok := s.MaxItems(); ok && len(elems) > maxItems {
		msgs = append(msgs, fmt.Sprintf("Must contain at most %d items", maxItems))
	}
	if s.Unique() && !unique(elems) {
		msgs = append(msgs, "Items must be unique")
	}
	if len(msgs) > 0 {
		return nil, msgs
	}

	items := s.Items()
	if items == nil {
		return elems, nil
	}

	out := make([]any, len(elems))
	var issues Items
	for i, e := range elems {
		r, issue := v.validate(e, items, parse)
		if issue != nil {
			if issues == nil {
				issues = Items{}
			}
			issues[i] = issue

			continue
		}
		out[i] = r
	}

	if issues != nil {
		return nil, issues
	}

	return out, nil
}

func (v *Validator) validateObject(value any, s *schema.Schema, parse bool) (any, Issue) {
	obj, ok := toMap(value)
	if !ok {
		if _, isSlice := toSlice(value); isSlice {
			return nil, Messages{"Expected an object, not an array"}
		}

		return nil, Messages{"Expected an object"}
	}

	// Unknown keys pass through unchanged.
	out := make(map[string]any, len(obj))
	for k, e := range obj {
		out[k] = e
	}

	var issues Fields
	for _, p := range s.Props() {
		raw, present := obj[p.Name]
		if !present {
			raw = Undefined
		}

		r, issue := v.validate(raw, p.Schema, parse)
		if issue != nil {
			if issues == nil {
				issues = Fields{}
			}
			issues[p.Name] = issue

			continue
		}

		if IsUndefined(r) {
			delete(out, p.Name)
			continue
		}
		out[p.Name] = r
	}

	if issues != nil {
		return nil, issues
	}

	return out, nil
}

// validateUnion returns the first member that accepts the value.
func (v *Validator) validateUnion(value any, s *schema.Schema, parse bool) (any, Issue) {
	if value == nil && s.IsNullable() {
		return nil, nil
	}

	members := s.Members()
	for _, m := range members {
		if r, issue := v.validate(value, m, parse); issue == nil {
			return r, nil
		}
	}

	if value == nil {
		return nil, issueNull
	}

	kinds := make([]string, len(members))
	for i, m := range members {
		kinds[i] = m.Kind().String()
	}

	return nil, message("Value %v did not match any of: %s", value, strings.Join(kinds, ", "))
}

// validateIntersection requires every member to accept the value and
// shallow-merges object results in member order. A key coerced by a member
// that declares it is not overwritten by a later member passing it through.
func (v *Validator) validateIntersection(value any, s *schema.Schema, parse bool) (any, Issue) {
	var (
		result any
		issues Issue
	)

	for i, m := range s.Members() {
		r, issue := v.validate(value, m, parse)
		if issue != nil {
			issues = Merge(issues, issue)
			continue
		}

		if i == 0 {
			result = r
			continue
		}

		dst, dstOK := result.(map[string]any)
		src, srcOK := r.(map[string]any)
		if !dstOK || !srcOK {
			result = r
			continue
		}

		merged := make(map[string]any, len(dst)+len(src))
		for k, e := range dst {
			merged[k] = e
		}
		for k, e := range src {
			_, declared := m.Prop(k)
			if _, exists := merged[k]; declared || !exists {
				merged[k] = e
			}
		}
		result = merged
	}

	if issues != nil {
		return nil, issues
	}

	return result, nil
}

func unique(elems []any) bool {
	for i := range elems {
		for j := i + 1; j < len(elems); j++ {
			if equalValues(elems[i], elems[j]) {
				return false
			}
		}
	}

	return true
}

// equalValues compares decoded values, treating numbers of any width as equal
// when they hold the same value.
func equalValues(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}

	return reflect.DeepEqual(a, b)
}
