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
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"rivaas.dev/keel/app"
)

// StateKey is the [app.Context] State key holding the authenticated username.
const StateKey = "basicauth.username"

// Option defines functional options for the basicauth hook.
type Option func(*config)

type config struct {
	// users maps usernames to passwords
	users map[string]string

	// realm is shown in browser authentication prompts
	realm string

	// validator replaces the users lookup when set
	validator func(username, password string) bool

	// unauthorized builds the 401 response
	unauthorized func(c *app.Context) *app.Response

	// skipPaths are route patterns that bypass authentication
	skipPaths map[string]bool
}

func defaultConfig() *config {
	return &config{
		users:        make(map[string]string),
		realm:        "Restricted",
		unauthorized: defaultUnauthorized,
		skipPaths:    make(map[string]bool),
	}
}

func defaultUnauthorized(*app.Context) *app.Response {
	return &app.Response{
		Status: http.StatusUnauthorized,
		Body: map[string]string{
			"error": "Unauthorized",
			"code":  "UNAUTHORIZED",
		},
	}
}

// New returns a hook implementing HTTP Basic Authentication (RFC 7617).
// Passwords are compared in constant time. Register it app-wide with
// [app.App.Use] or per route with [app.WithHooks].
//
// Example:
//
//	a.Use(basicauth.New(
//	    basicauth.WithUsers(map[string]string{"admin": "secret"}),
//	    basicauth.WithSkipPaths("/health"),
//	))
func New(opts ...Option) app.Hook {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	authenticateHeader := `Basic realm="` + cfg.realm + `"`

	return func(c *app.Context, _ app.Next) (app.Result, error) {
		if cfg.skipPaths[c.Route().Path()] {
			return app.Continue(), nil
		}

		username, ok := cfg.authenticate(c.Request.Header.Get("Authorization"))
		if !ok {
			resp := app.Response{Status: http.StatusUnauthorized, Body: app.NoBody}
			if custom := cfg.unauthorized(c); custom != nil {
				resp = *custom
			}
			resp.Header = resp.Header.Clone()
			if resp.Header == nil {
				resp.Header = http.Header{}
			}
			resp.Header.Set("WWW-Authenticate", authenticateHeader)

			return app.Terminate(&resp), nil
		}

		c.State[StateKey] = username

		return app.Continue(), nil
	}
}

func (cfg *config) authenticate(auth string) (string, bool) {
	encoded, ok := strings.CutPrefix(auth, "Basic ")
	if !ok {
		return "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", false
	}

	if cfg.validator != nil {
		return username, cfg.validator(username, password)
	}

	expected, exists := cfg.users[username]
	if !exists {
		return "", false
	}

	return username, subtle.ConstantTimeCompare([]byte(password), []byte(expected)) == 1
}

// Username returns the authenticated username, or "" when the hook did not
// authenticate the request.
func Username(c *app.Context) string {
	name, _ := app.Get[string](c, StateKey)
	return name
}
