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
	"testing"

	"github.com/stretchr/testify/require"
)

type staticSource struct {
	conf map[string]any
	err  error
}

func (s *staticSource) Load(context.Context) (map[string]any, error) {
	return s.conf, s.err
}

// TestSource returns a source that always yields conf.
func TestSource(conf map[string]any) Source {
	return &staticSource{conf: conf}
}

// TestSourceWithError returns a source whose Load fails with err.
func TestSourceWithError(err error) Source {
	return &staticSource{err: err}
}

// TestConfig creates a Config from opts and fails the test on error.
func TestConfig(t *testing.T, opts ...Option) *Config {
	t.Helper()

	c, err := New(opts...)
	require.NoError(t, err)

	return c
}

// TestConfigLoaded creates and loads a Config holding conf.
func TestConfigLoaded(t *testing.T, conf map[string]any, opts ...Option) *Config {
	t.Helper()

	c := TestConfig(t, append([]Option{WithSource(TestSource(conf))}, opts...)...)
	require.NoError(t, c.Load(t.Context()))

	return c
}
