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
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ErrValidation is a sentinel error for validation failures.
// Use errors.Is(err, ErrValidation) to check if an error is a validation error.
var ErrValidation = errors.New("validation")

// Issue is a node of a structured validation error tree.
// The tree mirrors the shape of the schema that produced it.
//
// The set of node types is closed: [Messages], [Fields] and [Items].
type Issue interface {
	isIssue()
}

// Messages is a leaf: one or more messages about a single value.
// It encodes to a JSON string when it holds one message and to a list otherwise.
type Messages []string

// Fields maps property names to nested issues.
type Fields map[string]Issue

// Items maps array indexes to nested issues.
type Items map[int]Issue

func (Messages) isIssue() {}
func (Fields) isIssue()   {}
func (Items) isIssue()    {}

// MarshalJSON implements json.Marshaler.
func (m Messages) MarshalJSON() ([]byte, error) {
	if len(m) == 1 {
		return json.Marshal(m[0])
	}

	return json.Marshal([]string(m))
}

func message(format string, args ...any) Messages {
	return Messages{fmt.Sprintf(format, args...)}
}

// Merge combines two issue trees.
// Fields and Items merge key by key, Messages concatenate. Trees of different
// shapes are flattened into path-prefixed messages.
// Either argument may be nil.
func Merge(a, b Issue) Issue {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	switch x := a.(type) {
	case Messages:
		if y, ok := b.(Messages); ok {
			return append(slices.Clip(x), y...)
		}
	case Fields:
		if y, ok := b.(Fields); ok {
			out := maps.Clone(x)
			for k, v := range y {
				out[k] = Merge(out[k], v)
			}

			return out
		}
	case Items:
		if y, ok := b.(Items); ok {
			out := maps.Clone(x)
			for k, v := range y {
				out[k] = Merge(out[k], v)
			}

			return out
		}
	}

	var out Messages
	for _, fe := range append(Flatten(a), Flatten(b)...) {
		out = append(out, fe.Error())
	}

	return out
}

// FieldError is a single flattened entry of an issue tree.
type FieldError struct {
	Path    string `json:"path"`    // Dotted path (e.g., "items.2.price")
	Message string `json:"message"` // Human-readable message
}

// Error returns "path: message", or just the message for the root.
func (e FieldError) Error() string {
	if e.Path == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Flatten returns every message of the tree with its dotted path,
// sorted by path.
func Flatten(issue Issue) []FieldError {
	var out []FieldError
	flatten(issue, "", &out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	return out
}

func flatten(issue Issue, prefix string, out *[]FieldError) {
	switch n := issue.(type) {
	case Messages:
		for _, m := range n {
			*out = append(*out, FieldError{Path: prefix, Message: m})
		}
	case Fields:
		for k, v := range n {
			flatten(v, join(prefix, k), out)
		}
	case Items:
		for i, v := range n {
			flatten(v, join(prefix, strconv.Itoa(i)), out)
		}
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}

	return prefix + "." + key
}

// Error is returned when a value does not match its schema.
// It wraps the root of the issue tree and implements the
// rivaas.dev/keel/errors interfaces so formatters can render it.
//
// Example:
//
//	var verr *validation.Error
//	if errors.As(err, &verr) {
//	    for _, fe := range verr.Fields() {
//	        fmt.Printf("%s: %s\n", fe.Path, fe.Message)
//	    }
//	}
type Error struct {
	Issue Issue
}

// Error returns a formatted error message.
func (e *Error) Error() string {
	fields := e.Fields()
	if len(fields) == 0 {
		return "validation failed"
	}
	if len(fields) == 1 {
		return fields[0].Error()
	}

	msgs := make([]string, 0, len(fields))
	for _, fe := range fields {
		msgs = append(msgs, fe.Error())
	}

	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap returns [ErrValidation] for errors.Is/errors.As compatibility.
func (e *Error) Unwrap() error {
	return ErrValidation
}

// HTTPStatus implements rivaas.dev/keel/errors.ErrorType.
func (e *Error) HTTPStatus() int {
	return 400 // Bad Request
}

// Details implements rivaas.dev/keel/errors.ErrorDetails.
// It returns the issue tree unchanged.
func (e *Error) Details() any {
	return e.Issue
}

// Code implements rivaas.dev/keel/errors.ErrorCode.
func (e *Error) Code() string {
	return "validation_error"
}

// Fields returns the flattened issue tree.
func (e *Error) Fields() []FieldError {
	return Flatten(e.Issue)
}

// Has reports whether the tree holds a message at the dotted path.
//
// Example:
//
//	if verr.Has("address.city") {
//	    // ...
//	}
func (e *Error) Has(path string) bool {
	for _, fe := range e.Fields() {
		if fe.Path == path {
			return true
		}
	}

	return false
}
