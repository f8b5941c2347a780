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

package app

import (
	"slices"
	"strconv"

	"rivaas.dev/keel/schema"
)

// Handler produces the response value for a route.
// See [App] for how return values are encoded.
type Handler func(c *Context) (any, error)

// Schema declares the shape of each request section and of the responses.
// Nil sections are not validated and reach the handler as decoded.
type Schema struct {
	Headers *schema.Schema
	Params  *schema.Schema
	Query   *schema.Schema
	Body    *schema.Schema

	// Response maps status codes ("200", "404") or "default" to the schema
	// of the response body. It is only enforced when response validation
	// is enabled.
	Response map[string]*schema.Schema
}

// ResponseFor returns the response schema for status, falling back to
// "default".
func (s Schema) ResponseFor(status int) *schema.Schema {
	if rs, ok := s.Response[strconv.Itoa(status)]; ok {
		return rs
	}

	return s.Response["default"]
}

// Route is a registered endpoint.
// Routes are immutable once the app serves its first request.
type Route struct {
	method  string
	path    string
	schema  Schema
	hooks   []Hook
	handler Handler
}

// Method returns the HTTP method.
func (r *Route) Method() string { return r.method }

// Path returns the path template, e.g. "/users/:id".
func (r *Route) Path() string { return r.path }

// Schema returns the declared section schemas.
func (r *Route) Schema() Schema { return r.schema }

// Hooks returns the route hooks in execution order.
func (r *Route) Hooks() []Hook { return slices.Clone(r.hooks) }

// RouteOption configures a route at registration.
type RouteOption func(*Route)

// WithSchema validates the request sections against s.
//
// Example:
//
//	a.POST("/users", createUser, app.WithSchema(app.Schema{
//	    Body: schema.Object(schema.Prop("name", schema.String())),
//	}))
func WithSchema(s Schema) RouteOption {
	return func(r *Route) { r.schema = s }
}

// WithHooks appends hooks that run after the app-wide hooks registered
// with [App.Use].
func WithHooks(hooks ...Hook) RouteOption {
	return func(r *Route) { r.hooks = append(r.hooks, hooks...) }
}
