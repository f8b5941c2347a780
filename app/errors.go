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

package app

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"

	"rivaas.dev/keel/binding"
	"rivaas.dev/keel/validation"
)

var (
	// ErrNextCalledTwice is returned by a [Next] continuation on its second call.
	ErrNextCalledTwice = errors.New("next called more than once")

	// ErrNilHandler is the panic value for registering a route without a handler.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrFrozen is the panic value for registering routes or hooks after
	// the app started serving.
	ErrFrozen = errors.New("app is frozen: routes and hooks cannot change after the first request")

	// ErrDuplicateRoute is the panic value for re-registering a method and
	// path in strict mode.
	ErrDuplicateRoute = errors.New("route already registered")

	// ErrInvalidSchema is the panic value for registering a route whose
	// schema the validator cannot check, such as an unknown string format.
	ErrInvalidSchema = errors.New("invalid route schema")

	// ErrResponseInvalid reports a handler response that does not match the
	// route's response schema.
	ErrResponseInvalid = errors.New("response does not match its schema")
)

// ConfigError represents a settings validation error with structured information.
// Validation happens once in [New], not during request handling.
type ConfigError struct {
	// Field is the dotted settings key that failed validation
	Field string
	// Value is the actual value that was provided (may be nil for missing values)
	Value any
	// Message is a human-readable error message explaining the validation failure
	Message string
	// Constraint is an optional constraint that was violated (e.g., "must be positive")
	Constraint string
}

// Error implements the error interface and returns a formatted error message.
func (e *ConfigError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("configuration error in %s: %s (constraint: %s, value: %v)",
			e.Field, e.Message, e.Constraint, e.Value)
	}
	if e.Value != nil {
		return fmt.Sprintf("configuration error in %s: %s (value: %v)",
			e.Field, e.Message, e.Value)
	}

	return fmt.Sprintf("configuration error in %s: %s", e.Field, e.Message)
}

// ValidationError represents multiple settings validation errors.
// It collects every problem before returning them together.
type ValidationError struct {
	Errors []*ConfigError
}

// Error implements the error interface and returns a formatted error message
// listing all validation errors.
func (ve *ValidationError) Error() string {
	if len(ve.Errors) == 0 {
		return "validation errors: (no errors)"
	}
	if len(ve.Errors) == 1 {
		return ve.Errors[0].Error()
	}

	var msg strings.Builder
	_, _ = fmt.Fprintf(&msg, "validation errors (%d):", len(ve.Errors))
	for i, err := range ve.Errors {
		_, _ = fmt.Fprintf(&msg, "\n  %d. %s", i+1, err.Error())
	}

	return msg.String()
}

// Add appends a new ConfigError to the ValidationError.
func (ve *ValidationError) Add(err *ConfigError) {
	ve.Errors = append(ve.Errors, err)
}

// HasErrors returns true if there are any validation errors.
func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

// ToError returns nil if there are no errors, otherwise returns the ValidationError
// as an error.
func (ve *ValidationError) ToError() error {
	if !ve.HasErrors() {
		return nil
	}

	return ve
}

func newFieldError(field string, value any, message, constraint string) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Message:    message,
		Constraint: constraint,
	}
}

func newEmptyFieldError(field string) *ConfigError {
	return newFieldError(field, nil, "cannot be empty", "required")
}

func newInvalidValueError(field string, value any, message string) *ConfigError {
	return newFieldError(field, value, message, "")
}

func newInvalidEnumError(field string, value any, validValues []string) *ConfigError {
	return newFieldError(field, value,
		fmt.Sprintf("must be one of: %v", validValues),
		fmt.Sprintf("enum: %v", validValues))
}

// RequestValidationError is the aggregated failure of the request sections.
// Every failing section is reported, keyed by its name ("headers", "params",
// "query", "body"), so a client sees all invalid fields in one response.
//
// Example:
//
//	var rverr *app.RequestValidationError
//	if errors.As(err, &rverr) {
//	    bodyIssue := rverr.Sections["body"]
//	}
type RequestValidationError struct {
	Sections map[string]validation.Issue
}

func (e *RequestValidationError) add(section binding.Section, issue validation.Issue) {
	if e.Sections == nil {
		e.Sections = make(map[string]validation.Issue, len(binding.Sections))
	}
	e.Sections[section.String()] = issue
}

// Error lists the failing sections.
func (e *RequestValidationError) Error() string {
	names := slices.Sorted(maps.Keys(e.Sections))
	return "invalid request " + strings.Join(names, ", ")
}

// Unwrap returns [validation.ErrValidation].
func (e *RequestValidationError) Unwrap() error {
	return validation.ErrValidation
}

// HTTPStatus implements rivaas.dev/keel/errors.ErrorType.
func (e *RequestValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Details implements rivaas.dev/keel/errors.ErrorDetails and returns the
// per-section issue trees.
func (e *RequestValidationError) Details() any {
	return e.Sections
}

// Code implements rivaas.dev/keel/errors.ErrorCode.
func (e *RequestValidationError) Code() string {
	return "validation_error"
}
