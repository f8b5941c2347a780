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

import "rivaas.dev/keel/app"

// WithUsers sets the allowed username/password pairs.
// Passwords are compared using constant-time comparison to prevent timing attacks.
//
// Example:
//
//	basicauth.New(basicauth.WithUsers(map[string]string{
//	    "admin": "secret123",
//	    "user":  "password456",
//	}))
func WithUsers(users map[string]string) Option {
	return func(cfg *config) {
		cfg.users = users
	}
}

// WithRealm sets the authentication realm.
// The realm is displayed in the browser's authentication prompt.
// Default: "Restricted"
//
// Example:
//
//	basicauth.New(basicauth.WithRealm("Admin Area"))
func WithRealm(realm string) Option {
	return func(cfg *config) {
		cfg.realm = realm
	}
}

// WithValidator sets a custom validation function.
// When set, this takes precedence over the static users map.
//
// Example:
//
//	basicauth.New(basicauth.WithValidator(func(username, password string) bool {
//	    return db.ValidateUser(username, password)
//	}))
func WithValidator(validator func(username, password string) bool) Option {
	return func(cfg *config) {
		cfg.validator = validator
	}
}

// WithUnauthorized sets the response for rejected requests. The
// WWW-Authenticate header is added to whatever it returns.
//
// Example:
//
//	basicauth.WithUnauthorized(func(*app.Context) *app.Response {
//	    return &app.Response{Status: http.StatusUnauthorized, Body: "Access denied"}
//	})
func WithUnauthorized(fn func(c *app.Context) *app.Response) Option {
	return func(cfg *config) {
		cfg.unauthorized = fn
	}
}

// WithSkipPaths sets route patterns that bypass authentication, such as
// "/health" or "/public/:id".
//
// Example:
//
//	basicauth.New(basicauth.WithSkipPaths("/health", "/public"))
func WithSkipPaths(paths ...string) Option {
	return func(cfg *config) {
		for _, path := range paths {
			cfg.skipPaths[path] = true
		}
	}
}
