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

// Package basicauth provides an HTTP Basic Authentication (RFC 7617) hook
// for keel apps.
//
// # Basic Usage
//
//	import "rivaas.dev/keel/middleware/basicauth"
//
//	a := app.MustNew()
//	a.Use(basicauth.New(
//	    basicauth.WithValidator(func(username, password string) bool {
//	        return username == "admin" && password == "secret"
//	    }),
//	    basicauth.WithRealm("Restricted Area"),
//	))
//
// The hook runs after request validation. Rejected requests are answered
// with 401 and a WWW-Authenticate challenge; the handler never runs.
//
// # Accessing the Authenticated User
//
//	a.GET("/me", func(c *app.Context) (any, error) {
//	    return basicauth.Username(c), nil
//	})
//
// # Security Considerations
//
// Basic Authentication sends credentials base64-encoded with each request.
// Always serve it over HTTPS.
package basicauth
