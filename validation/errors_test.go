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
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessages_MarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		issue Issue
		want  string
	}{
		{"single message", Messages{"Required"}, `"Required"`},
		{"several messages", Messages{"a", "b"}, `["a","b"]`},
		{"fields", Fields{"foo": Messages{"Required"}}, `{"foo":"Required"}`},
		{"items", Items{2: Messages{"Expected a string"}}, `{"2":"Expected a string"}`},
		{
			"nested",
			Fields{"tags": Items{0: Messages{"x", "y"}}},
			`{"tags":{"0":["x","y"]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := json.Marshal(tt.issue)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Issue
		want Issue
	}{
		{"nil left", nil, Messages{"x"}, Messages{"x"}},
		{"nil right", Messages{"x"}, nil, Messages{"x"}},
		{"messages concat", Messages{"a"}, Messages{"b"}, Messages{"a", "b"}},
		{
			"fields union",
			Fields{"a": Messages{"1"}},
			Fields{"b": Messages{"2"}},
			Fields{"a": Messages{"1"}, "b": Messages{"2"}},
		},
		{
			"fields deep merge",
			Fields{"a": Messages{"1"}},
			Fields{"a": Messages{"2"}},
			Fields{"a": Messages{"1", "2"}},
		},
		{
			"items union",
			Items{0: Messages{"x"}},
			Items{1: Messages{"y"}},
			Items{0: Messages{"x"}, 1: Messages{"y"}},
		},
		{
			"mixed shapes flatten",
			Messages{"root"},
			Fields{"a": Messages{"bad"}},
			Messages{"root", "a: bad"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Merge(tt.a, tt.b))
		})
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	a := Fields{"a": Messages{"1"}}
	b := Fields{"a": Messages{"2"}, "b": Messages{"3"}}
	_ = Merge(a, b)

	assert.Equal(t, Fields{"a": Messages{"1"}}, a)
}

func TestError(t *testing.T) {
	t.Parallel()

	err := &Error{Issue: Fields{
		"foo": Messages{"Required"},
		"bar": Items{1: Messages{"Expected a string"}},
	}}

	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 400, err.HTTPStatus())
	assert.Equal(t, "validation_error", err.Code())
	assert.Equal(t, err.Issue, err.Details())
	assert.Equal(t, "validation failed: bar.1: Expected a string; foo: Required", err.Error())
	assert.True(t, err.Has("foo"))
	assert.True(t, err.Has("bar.1"))
	assert.False(t, err.Has("baz"))

	var verr *Error
	require.True(t, errors.As(error(err), &verr))
}

func TestError_SingleMessage(t *testing.T) {
	t.Parallel()

	err := &Error{Issue: Messages{"Expected a string"}}
	assert.Equal(t, "Expected a string", err.Error())
}
