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

package openapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMount(t *testing.T) {
	t.Parallel()

	a := usersApp(t)
	Mount(a, testAPI(t))

	resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	etag := resp.Header.Get("ETag")
	assert.NotEmpty(t, etag)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var root map[string]any
	require.NoError(t, json.Unmarshal(raw, &root))
	paths, ok := root["paths"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, paths, "/openapi.json")
	assert.Contains(t, paths, "/users/{id}")

	t.Run("revalidate", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
		req.Header.Set("If-None-Match", etag)

		resp, err := a.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotModified, resp.StatusCode)
		assert.Equal(t, etag, resp.Header.Get("ETag"))
		body, _ := io.ReadAll(resp.Body)
		assert.Empty(t, body)
	})

	t.Run("stale etag", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
		req.Header.Set("If-None-Match", `"stale"`)

		resp, err := a.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestEtagMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{"empty", "", false},
		{"exact", `"abc"`, true},
		{"list", `"x", "abc"`, true},
		{"weak", `W/"abc"`, true},
		{"any", "*", true},
		{"other", `"abd"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, etagMatches(tt.header, `"abc"`))
		})
	}
}
