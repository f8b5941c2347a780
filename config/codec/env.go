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

package codec

import (
	"errors"
	"fmt"
	"strings"
)

// TypeEnv identifies newline-separated KEY=value lines.
const TypeEnv Type = "env"

// ErrEncodeUnsupported is returned by [EnvCodec.Encode].
var ErrEncodeUnsupported = errors.New("encoding is not supported")

func init() {
	RegisterEncoder(TypeEnv, EnvCodec{})
	RegisterDecoder(TypeEnv, EnvCodec{})
}

// EnvCodec decodes environment-style lines into a nested map.
// Keys are lowercased and split on underscores, so SERVER_MAX_BODY_BYTES=1
// becomes {"server": {"max": {"body": {"bytes": "1"}}}}. A double
// underscore switches to "__" as the separator so single underscores stay in
// the key: SERVER__MAX_BODY_BYTES=1 becomes {"server": {"max_body_bytes": "1"}}.
type EnvCodec struct{}

// Encode always fails.
func (EnvCodec) Encode(any) ([]byte, error) {
	return nil, fmt.Errorf("env: %w", ErrEncodeUnsupported)
}

// Decode parses data into v, which must be a *map[string]any.
// Values are kept as strings; typed conversion happens at binding time.
func (EnvCodec) Decode(data []byte, v any) error {
	ptr, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("env: expected *map[string]any, got %T", v)
	}

	conf := map[string]any{}
	for line := range strings.SplitSeq(string(data), "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		parts := envPath(key)
		if len(parts) == 0 {
			continue
		}

		current := conf
		for _, part := range parts[:len(parts)-1] {
			next, ok := current[part].(map[string]any)
			if !ok {
				next = map[string]any{}
				current[part] = next
			}
			current = next
		}
		current[parts[len(parts)-1]] = strings.TrimSpace(value)
	}

	*ptr = conf

	return nil
}

// envPath splits a variable name into lowercase path segments.
// "__" separates segments and a single "_" stays inside a segment when the
// name contains "__"; otherwise every "_" separates segments.
func envPath(key string) []string {
	key = strings.ToLower(strings.TrimSpace(key))
	sep := "_"
	if strings.Contains(key, "__") {
		sep = "__"
	}

	var parts []string
	for part := range strings.SplitSeq(key, sep) {
		if part = strings.Trim(part, "_"); part != "" {
			parts = append(parts, part)
		}
	}

	return parts
}
