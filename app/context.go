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
	"context"
	"log/slog"
	"net/http"
)

// Context is the request-scoped state handed to hooks and handlers.
//
// A Context is created for one request and dropped once the response is
// written. It is never pooled or shared, so it must not be retained by
// goroutines that outlive the handler.
type Context struct {
	// Request is the original transport request.
	Request *http.Request

	// Headers, Params and Query hold the decoded sections, coerced by the
	// route schema when one is declared.
	Headers map[string]any
	Params  map[string]any
	Query   map[string]any

	// Body is the decoded request body. It is validation.Undefined when the
	// request had none, and a *stream.Stream when the body schema is
	// stream-marked.
	Body any

	// State carries values between hooks and the handler.
	State map[string]any

	// Set is the output written with the response.
	Set Set

	route    *Route
	logger   *slog.Logger
	rawParam map[string]string
	wildcard string
}

// Set holds response output that hooks and handlers accumulate.
type Set struct {
	// Status is used when the handler result does not carry its own.
	Status int

	// Header is merged into the response headers. Headers of an explicit
	// [Response] win over these.
	Header http.Header

	// Redirect sets the Location header and a 302 status, or Status when it
	// is already a 3xx code.
	Redirect string
}

func newContext(r *http.Request, route *Route, logger *slog.Logger, params map[string]string, wildcard string) *Context {
	return &Context{
		Request:  r,
		State:    make(map[string]any),
		Set:      Set{Header: make(http.Header)},
		route:    route,
		logger:   logger,
		rawParam: params,
		wildcard: wildcard,
	}
}

// Route returns the matched route.
func (c *Context) Route() *Route { return c.route }

// Logger returns the request logger, annotated with the active trace.
func (c *Context) Logger() *slog.Logger { return c.logger }

// Context returns the request context. It is cancelled when the client
// goes away.
func (c *Context) Context() context.Context { return c.Request.Context() }

// Param returns the raw path parameter, before schema coercion.
func (c *Context) Param(name string) string { return c.rawParam[name] }

// Wildcard returns the trailing path matched by a "*" route segment.
func (c *Context) Wildcard() string { return c.wildcard }

// Get returns the State value stored under key if it has type T.
//
// Example:
//
//	user, ok := app.Get[*User](c, "user")
func Get[T any](c *Context, key string) (T, bool) {
	v, ok := c.State[key].(T)
	return v, ok
}
