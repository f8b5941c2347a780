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

package basicauth

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/keel/app"
)

func basic(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func newApp(t *testing.T, opts ...Option) *app.App {
	t.Helper()

	a, err := app.New()
	require.NoError(t, err)
	a.Use(New(opts...))
	a.GET("/me", func(c *app.Context) (any, error) { return Username(c), nil })
	a.GET("/health", func(c *app.Context) (any, error) { return "up", nil })

	return a
}

func TestBasicAuth(t *testing.T) {
	t.Parallel()

	users := WithUsers(map[string]string{"admin": "secret"})

	tests := []struct {
		name   string
		auth   string
		status int
	}{
		{name: "valid credentials", auth: basic("admin", "secret"), status: http.StatusOK},
		{name: "wrong password", auth: basic("admin", "nope"), status: http.StatusUnauthorized},
		{name: "unknown user", auth: basic("root", "secret"), status: http.StatusUnauthorized},
		{name: "missing header", status: http.StatusUnauthorized},
		{name: "bearer scheme", auth: "Bearer token", status: http.StatusUnauthorized},
		{name: "bad base64", auth: "Basic !!!", status: http.StatusUnauthorized},
		{name: "no colon", auth: "Basic " + base64.StdEncoding.EncodeToString([]byte("admin")), status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			resp, err := newApp(t, users, WithRealm("Admin")).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, `Basic realm="Admin"`, resp.Header.Get("WWW-Authenticate"))
			}
		})
	}
}

func TestBasicAuth_UsernameInHandler(t *testing.T) {
	t.Parallel()

	a := newApp(t, WithValidator(func(u, p string) bool { return u == "ada" && p == "lovelace" }))
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", basic("ada", "lovelace"))

	resp, err := a.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer func() { _ = resp.Body.Close() }()

	body := make([]byte, 16)
	n, _ := resp.Body.Read(body)
	assert.Equal(t, "ada", string(body[:n]))
}

func TestBasicAuth_SkipPaths(t *testing.T) {
	t.Parallel()

	a := newApp(t, WithUsers(map[string]string{"admin": "secret"}), WithSkipPaths("/health"))

	resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBasicAuth_CustomUnauthorized(t *testing.T) {
	t.Parallel()

	shared := &app.Response{Status: http.StatusForbidden, Body: "denied"}
	a := newApp(t, WithUnauthorized(func(*app.Context) *app.Response { return shared }))

	resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("WWW-Authenticate"))
	assert.Nil(t, shared.Header, "the configured response is not mutated")
}
