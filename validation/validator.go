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
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"rivaas.dev/keel/schema"
)

// Validator validates and coerces values against [schema.Schema] descriptors.
//
// Use [New] or [MustNew] to register custom string formats, or the
// package-level [Validate] for zero-configuration validation.
//
// Validator is safe for concurrent use by multiple goroutines.
type Validator struct {
	cfg *config

	// Format checker (go-playground/validator)
	formats *validator.Validate
}

// New creates a [Validator] with the given options.
//
// Example:
//
//	v, err := validation.New(validation.WithCustomFormat("sku", skuFunc))
//	if err != nil {
//	    return fmt.Errorf("failed to create validator: %w", err)
//	}
func New(opts ...Option) (*Validator, error) {
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	v := &Validator{
		cfg:     cfg,
		formats: validator.New(),
	}

	if err := v.registerBuiltinFormats(); err != nil {
		return nil, fmt.Errorf("register built-in formats: %w", err)
	}

	for _, cf := range cfg.customFormats {
		if err := v.formats.RegisterValidation(cf.name, cf.fn); err != nil {
			return nil, fmt.Errorf("register custom format %q: %w", cf.name, err)
		}
	}

	return v, nil
}

// MustNew creates a [Validator] with the given options.
// Panics if configuration is invalid.
//
// Use in main() or init() where panic on startup is acceptable.
func MustNew(opts ...Option) *Validator {
	v, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("validation.MustNew: %v", err))
	}

	return v
}

// Built-in regex patterns for formats the tag validator lacks.
var (
	reUsername = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	reSlug     = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// registerBuiltinFormats registers the built-in formats: username, slug.
func (v *Validator) registerBuiltinFormats() error {
	if err := v.formats.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return reUsername.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("failed to register username format: %w", err)
	}

	if err := v.formats.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return reSlug.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("failed to register slug format: %w", err)
	}

	return nil
}

// checkFormat reports whether str satisfies the named format.
// Formats take the validator tag syntax, parameters included
// (e.g. "datetime=2006-01-02"). An unknown format is a programming error
// and panics.
func (v *Validator) checkFormat(str, format string) bool {
	return v.formats.Var(str, format) == nil
}

// formatName strips tag parameters for messages.
func formatName(format string) string {
	name, _, _ := strings.Cut(format, "=")
	return name
}

var defaultValidator = sync.OnceValue(func() *Validator {
	return MustNew()
})

// Default returns the shared zero-configuration [Validator] used by the
// package-level [Validate].
func Default() *Validator {
	return defaultValidator()
}

// Validate validates value against s using the default [Validator].
//
// When parseFromString is true, string inputs are coerced to the schema's
// kind (headers, query, path and form values arrive as strings).
//
// Absent values are passed as [Undefined]. On success the coerced value is
// returned; on failure the error is a [*Error] holding the issue tree.
//
// Example:
//
//	age := schema.Integer(schema.Min(0))
//	v, err := validation.Validate("42", age, true) // v == int64(42)
func Validate(value any, s *schema.Schema, parseFromString bool) (any, error) {
	return defaultValidator().Validate(value, s, parseFromString)
}

// Validate validates value against s. See the package-level [Validate].
func (v *Validator) Validate(value any, s *schema.Schema, parseFromString bool) (any, error) {
	out, issue := v.validate(value, s, parseFromString)
	if issue != nil {
		return nil, &Error{Issue: issue}
	}

	return out, nil
}

// Check validates value against s and returns the raw issue tree, or nil.
// It is used by callers that aggregate several validations before failing.
func (v *Validator) Check(value any, s *schema.Schema, parseFromString bool) (any, Issue) {
	return v.validate(value, s, parseFromString)
}
