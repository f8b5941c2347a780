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

	"rivaas.dev/keel/schema"
)

// ErrUnknownFormat is returned by [Validator.CheckSchema] for a string
// format no checker is registered for.
var ErrUnknownFormat = errors.New("unknown string format")

// CheckSchema reports descriptor problems that would otherwise surface on
// every request, such as a [schema.Format] name the validator does not know.
// Nested items, properties and members are checked too.
//
// Example:
//
//	if err := v.CheckSchema(body); err != nil {
//	    return fmt.Errorf("order schema: %w", err)
//	}
func (v *Validator) CheckSchema(s *schema.Schema) error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.Kind() == schema.KindString && s.Format() != "" && !v.knownFormat(s.Format()) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownFormat, s.Format()))
	}

	errs = append(errs, v.CheckSchema(s.Items()))
	for _, p := range s.Props() {
		if err := v.CheckSchema(p.Schema); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
		}
	}
	for _, m := range s.Members() {
		errs = append(errs, v.CheckSchema(m))
	}

	return errors.Join(errs...)
}

// knownFormat reports whether format parses as a validator tag. The tag
// validator panics on undefined tags.
func (v *Validator) knownFormat(format string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_ = v.formats.Var("", format)

	return true
}
