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

package config

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"rivaas.dev/keel/config/codec"
	"rivaas.dev/keel/config/source"
)

// Option configures a [Config].
type Option func(c *Config) error

// Option errors.
var (
	ErrNilSource  = errors.New("source cannot be nil")
	ErrBadBinding = errors.New("binding target must be a non-nil pointer to a struct")
	ErrEmptyTag   = errors.New("tag name cannot be empty")
)

// WithSource appends a custom source.
func WithSource(src Source) Option {
	return func(c *Config) error {
		if src == nil {
			return ErrNilSource
		}
		c.sources = append(c.sources, src)

		return nil
	}
}

// WithFile appends a file source, choosing the codec from the extension
// (.json, .yaml, .yml or .toml).
func WithFile(path string) Option {
	return func(c *Config) error {
		typ, err := detectFormat(path)
		if err != nil {
			return err
		}

		return WithFileAs(path, typ)(c)
	}
}

// WithFileAs appends a file source decoded with an explicit codec.
func WithFileAs(path string, typ codec.Type) Option {
	return func(c *Config) error {
		dec, err := codec.GetDecoder(typ)
		if err != nil {
			return err
		}
		c.sources = append(c.sources, source.NewFile(path, dec))

		return nil
	}
}

// WithContent appends an in-memory document.
//
// Example:
//
//	config.WithContent([]byte("log:\n  level: debug\n"), codec.TypeYAML)
func WithContent(data []byte, typ codec.Type) Option {
	return func(c *Config) error {
		dec, err := codec.GetDecoder(typ)
		if err != nil {
			return err
		}
		c.sources = append(c.sources, source.NewContent(data, dec))

		return nil
	}
}

// WithEnv appends an environment source for variables starting with prefix.
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		c.sources = append(c.sources, source.NewEnv(prefix))
		return nil
	}
}

// WithBinding decodes the merged values into v on every successful Load.
// v must be a pointer to a struct. Fields use the `config` tag (see
// [WithTag]) and may carry a `default` tag applied when the value is zero.
// If v implements [Validator], it is validated before being updated.
func WithBinding(v any) Option {
	return func(c *Config) error {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return ErrBadBinding
		}
		c.binding = v

		return nil
	}
}

// WithTag changes the struct tag used for binding.
func WithTag(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return ErrEmptyTag
		}
		c.tagName = name

		return nil
	}
}

var schemaSeq atomic.Uint64

// WithJSONSchema validates the merged values against a JSON Schema document
// on every Load.
func WithJSONSchema(doc []byte) Option {
	return func(c *Config) error {
		parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(doc))
		if err != nil {
			return fmt.Errorf("parse json schema: %w", err)
		}

		name := fmt.Sprintf("inline_%d.json", schemaSeq.Add(1))
		compiler := jsonschema.NewCompiler()
		if err = compiler.AddResource(name, parsed); err != nil {
			return fmt.Errorf("add json schema: %w", err)
		}
		if c.schema, err = compiler.Compile(name); err != nil {
			return fmt.Errorf("compile json schema: %w", err)
		}

		return nil
	}
}

// WithValidator adds a check run against the merged values on every Load.
// A panicking validator fails the Load instead of crashing.
func WithValidator(fn func(map[string]any) error) Option {
	return func(c *Config) error {
		if fn != nil {
			c.validators = append(c.validators, fn)
		}

		return nil
	}
}
