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

package cors

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/keel/app"
)

func newApp(t *testing.T, opts ...Option) *app.App {
	t.Helper()

	a, err := app.New(app.WithPlugins(New(opts...)))
	require.NoError(t, err)
	a.GET("/api", func(*app.Context) (any, error) { return "ok", nil })

	return a
}

func preflight(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, "/api", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	return req
}

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()

	a := newApp(t, WithAllowedOrigins("https://example.com"), WithAllowedMethods("GET", "POST"), WithMaxAge(600))

	resp, err := a.Test(preflight("https://example.com"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST", resp.Header.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "600", resp.Header.Get("Access-Control-Max-Age"))
	assert.Equal(t, "Origin", resp.Header.Get("Vary"))
}

func TestCORS_PreflightFromUnknownOriginIsRouted(t *testing.T) {
	t.Parallel()

	a := newApp(t, WithAllowedOrigins("https://example.com"))

	resp, err := a.Test(preflight("https://evil.example"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "no OPTIONS route is registered")
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCORS_ActualRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		opts        []Option
		origin      string
		wantOrigin  string
		wantCreds   string
		wantExposed string
	}{
		{
			name:       "allowed origin",
			opts:       []Option{WithAllowedOrigins("https://a.example", "https://b.example")},
			origin:     "https://b.example",
			wantOrigin: "https://b.example",
		},
		{
			name:   "disallowed origin",
			opts:   []Option{WithAllowedOrigins("https://a.example")},
			origin: "https://c.example",
		},
		{
			name:       "all origins",
			opts:       []Option{WithAllowAllOrigins(true)},
			origin:     "https://any.example",
			wantOrigin: "*",
		},
		{
			name:       "all origins with credentials echoes origin",
			opts:       []Option{WithAllowAllOrigins(true), WithAllowCredentials(true)},
			origin:     "https://any.example",
			wantOrigin: "https://any.example",
			wantCreds:  "true",
		},
		{
			name: "origin func",
			opts: []Option{WithAllowOriginFunc(func(origin string) bool {
				return strings.HasSuffix(origin, ".example.com")
			})},
			origin:     "https://app.example.com",
			wantOrigin: "https://app.example.com",
		},
		{
			name:        "exposed headers",
			opts:        []Option{WithAllowedOrigins("https://a.example"), WithExposedHeaders("X-Request-ID", "X-Total")},
			origin:      "https://a.example",
			wantOrigin:  "https://a.example",
			wantExposed: "X-Request-ID, X-Total",
		},
		{name: "no origin header", opts: []Option{WithAllowAllOrigins(true)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			resp, err := newApp(t, tt.opts...).Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.wantOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCreds, resp.Header.Get("Access-Control-Allow-Credentials"))
			assert.Equal(t, tt.wantExposed, resp.Header.Get("Access-Control-Expose-Headers"))
		})
	}
}
