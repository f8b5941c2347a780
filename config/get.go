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
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// ErrKeyNotFound is returned by [GetE] for unset keys.
var ErrKeyNotFound = errors.New("key not found")

// Get returns the value at key converted to T, or the zero value.
//
// Example:
//
//	limit := config.Get[int64](cfg, "server.max_body_bytes")
func Get[T any](c *Config, key string) T {
	v, _ := GetE[T](c, key)
	return v
}

// GetOr returns the value at key converted to T, or def when the key is
// unset or not convertible.
func GetOr[T any](c *Config, key string, def T) T {
	v, err := GetE[T](c, key)
	if err != nil {
		return def
	}

	return v
}

// GetE returns the value at key converted to T.
func GetE[T any](c *Config, key string) (T, error) {
	var zero T

	raw := c.Get(key)
	if raw == nil {
		return zero, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	if v, ok := raw.(T); ok {
		return v, nil
	}

	converted, err := convert[T](raw)
	if err != nil {
		return zero, fmt.Errorf("key %q: %w", key, err)
	}

	return converted, nil
}

func convert[T any](raw any) (T, error) {
	var zero T

	var (
		out any
		err error
	)
	switch any(zero).(type) {
	case string:
		out, err = cast.ToStringE(raw)
	case int:
		out, err = cast.ToIntE(raw)
	case int64:
		out, err = cast.ToInt64E(raw)
	case uint:
		out, err = cast.ToUintE(raw)
	case uint64:
		out, err = cast.ToUint64E(raw)
	case float64:
		out, err = cast.ToFloat64E(raw)
	case bool:
		out, err = cast.ToBoolE(raw)
	case time.Duration:
		out, err = cast.ToDurationE(raw)
	case time.Time:
		out, err = cast.ToTimeE(raw)
	case []string:
		out, err = cast.ToStringSliceE(raw)
	case []int:
		out, err = cast.ToIntSliceE(raw)
	case map[string]any:
		out, err = cast.ToStringMapE(raw)
	case map[string]string:
		out, err = cast.ToStringMapStringE(raw)
	default:
		return zero, fmt.Errorf("cannot convert %T to %T", raw, zero)
	}
	if err != nil {
		return zero, err
	}

	return out.(T), nil
}
