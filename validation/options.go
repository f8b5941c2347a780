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

	"github.com/go-playground/validator/v10"
)

// customFormat holds a format registration for use with [WithCustomFormat].
type customFormat struct {
	name string
	fn   validator.Func
}

// config holds internal configuration used by [Validator].
type config struct {
	customFormats []customFormat
}

func newConfig() *config {
	return &config{}
}

// validate checks the configuration for errors.
func (c *config) validate() error {
	for _, cf := range c.customFormats {
		if cf.name == "" {
			return errors.New("custom format name must not be empty")
		}
		if cf.fn == nil {
			return errors.New("custom format function must not be nil")
		}
	}

	return nil
}

// Option is a functional option for configuring a [Validator].
type Option func(*config)

// WithCustomFormat registers a named string format.
// A string schema using [schema.Format] with that name is checked with fn.
//
// Example:
//
//	v := validation.MustNew(
//	    validation.WithCustomFormat("phone", func(fl validator.FieldLevel) bool {
//	        return phoneRegex.MatchString(fl.Field().String())
//	    }),
//	)
func WithCustomFormat(name string, fn validator.Func) Option {
	return func(c *config) {
		c.customFormats = append(c.customFormats, customFormat{name: name, fn: fn})
	}
}
