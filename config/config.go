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
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"dario.cat/mergo"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cast"
)

// ErrNilContext is returned by [Config.Load] when ctx is nil.
var ErrNilContext = errors.New("context cannot be nil")

// Config holds configuration merged from an ordered list of sources.
// Later sources override earlier ones key by key. Keys are case-insensitive.
//
// Config is safe for concurrent use.
type Config struct {
	mu         sync.RWMutex
	values     map[string]any
	sources    []Source
	binding    any
	tagName    string
	schema     *jsonschema.Schema
	validators []func(map[string]any) error
}

// New creates a Config. Option errors are joined and returned together with
// the partially configured Config.
//
// Example:
//
//	cfg, err := config.New(
//	    config.WithFile("keel.yaml"),
//	    config.WithEnv("KEEL_"),
//	)
func New(opts ...Option) (*Config, error) {
	c := &Config{
		values:  map[string]any{},
		tagName: "config",
	}

	var errs error
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	return c, errs
}

// MustNew creates a Config or panics.
func MustNew(opts ...Option) *Config {
	c, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("config.MustNew: %v", err))
	}

	return c
}

// Load reads every source in order, merges the results and validates them.
// The stored values and the binding target only change when every step
// succeeds.
//
// Errors are [*Error] values naming the failing stage.
func (c *Config) Load(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}

	values, err := c.merge(ctx)
	if err != nil {
		return err
	}

	if c.schema != nil {
		if err = c.schema.Validate(values); err != nil {
			return NewError("json-schema", "validate", err)
		}
	}

	for i, fn := range c.validators {
		if err = runValidator(fn, values); err != nil {
			return NewError(fmt.Sprintf("validator[%d]", i), "validate", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.binding != nil {
		if err = c.decode(values, c.binding); err != nil {
			return NewError("binding", "bind", err)
		}
	}
	c.values = values

	return nil
}

// MustLoad loads the configuration or panics.
func (c *Config) MustLoad(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		panic(err)
	}
}

func (c *Config) merge(ctx context.Context) (map[string]any, error) {
	merged := map[string]any{}
	for i, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		conf, err := src.Load(ctx)
		if err != nil {
			return nil, NewError(sourceName(i, src), "load", err)
		}
		if err = mergo.Map(&merged, lowerKeys(conf), mergo.WithOverride); err != nil {
			return nil, NewError(sourceName(i, src), "merge", err)
		}
	}

	return merged, nil
}

func runValidator(fn func(map[string]any) error, values map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("validator panic: %v", r)
		}
	}()

	return fn(values)
}

func sourceName(i int, src Source) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("source[%d]", i)
}

// lowerKeys returns a copy of m with every nested key lowercased.
func lowerKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = lowerKeys(nested)
		}
		out[strings.ToLower(k)] = v
	}

	return out
}

// Values returns a snapshot of the merged configuration.
func (c *Config) Values() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return copyMap(c.values)
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = copyMap(nested)
		}
		out[k] = v
	}

	return out
}

// Get returns the value at a dot-separated key, or nil.
//
// Example:
//
//	cfg.Get("server.max_body_bytes")
func (c *Config) Get(key string) any {
	if c == nil || key == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	key = strings.ToLower(key)
	if v, ok := c.values[key]; ok {
		return v
	}

	var current any = c.values
	for segment := range strings.SplitSeq(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		if current, ok = m[segment]; !ok {
			return nil
		}
	}

	return current
}

// Has reports whether key is set.
func (c *Config) Has(key string) bool {
	return c.Get(key) != nil
}

// String returns the value at key as a string.
func (c *Config) String(key string) string { return cast.ToString(c.Get(key)) }

// Int returns the value at key as an int.
func (c *Config) Int(key string) int { return cast.ToInt(c.Get(key)) }

// Int64 returns the value at key as an int64.
func (c *Config) Int64(key string) int64 { return cast.ToInt64(c.Get(key)) }

// Bool returns the value at key as a bool.
func (c *Config) Bool(key string) bool { return cast.ToBool(c.Get(key)) }

// Duration returns the value at key as a duration. Strings such as "5s"
// are parsed and plain numbers are nanoseconds.
func (c *Config) Duration(key string) time.Duration { return cast.ToDuration(c.Get(key)) }

// StringSlice returns the value at key as a string slice.
func (c *Config) StringSlice(key string) []string { return cast.ToStringSlice(c.Get(key)) }

// StringOr returns the value at key as a string, or def when key is unset.
func (c *Config) StringOr(key, def string) string { return GetOr(c, key, def) }

// IntOr returns the value at key as an int, or def when key is unset.
func (c *Config) IntOr(key string, def int) int { return GetOr(c, key, def) }

// Int64Or returns the value at key as an int64, or def when key is unset.
func (c *Config) Int64Or(key string, def int64) int64 { return GetOr(c, key, def) }

// BoolOr returns the value at key as a bool, or def when key is unset.
func (c *Config) BoolOr(key string, def bool) bool { return GetOr(c, key, def) }

// DurationOr returns the value at key as a duration, or def when key is unset.
func (c *Config) DurationOr(key string, def time.Duration) time.Duration {
	return GetOr(c, key, def)
}
