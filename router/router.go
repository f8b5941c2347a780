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

package router

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
)

// Router maps (method, path) pairs to routes of type R.
//
// R is whatever the caller wants to store per route: a handler, a route
// descriptor, or a pointer to one. The router never inspects it.
//
// Thread safety: routes are registered during a configuration phase.
// [Router.Add] serializes registrations but must not run concurrently with
// [Router.Find]. After [Router.Freeze] the router is read-only and safe for
// concurrent use.
type Router[R any] struct {
	trees  methodTrees[R]
	routes []Info
	mu     sync.Mutex  // Serializes registration
	frozen atomic.Bool // Routes are frozen (immutable) after freeze
}

// Match is the result of a successful [Router.Find].
type Match[R any] struct {
	Route   R
	Params  map[string]string // Named parameter values; nil when the template has none
	Pattern string            // Canonical template, e.g. "/users/:id"

	// Wildcard holds the trailing segments matched by a '*' template
	// (e.g. "css/app.css" for "/static/*"), and is empty otherwise.
	Wildcard string
}

// New creates an empty router.
//
// Example:
//
//	r := router.New[http.Handler]()
//	r.Add(http.MethodGet, "/users/:id", getUser)
func New[R any]() *Router[R] {
	return &Router[R]{}
}

// Add registers route under method and path and returns the route it
// replaced, if any. Re-registering an identical (method, path) replaces the
// previous route (last write wins); the replacement is reported through the
// return values so callers can warn or refuse.
//
// Path syntax: literal segments, ":name" parameters and a final "*" wildcard.
// Empty segments are ignored, so "/a//b/" registers "/a/b".
//
// Add panics on a malformed template (empty parameter name, duplicate
// parameter name, '*' not last) and after [Router.Freeze].
//
// Example:
//
//	prev, replaced := r.Add(http.MethodGet, "/x", h2)
//	if replaced {
//	    log.Printf("route GET /x replaced %v", prev)
//	}
func (r *Router[R]) Add(method, path string, route R) (previous R, replaced bool) {
	if r.frozen.Load() {
		panic(fmt.Errorf("%w: cannot register %s %s", ErrRoutesFrozen, method, path))
	}

	t := parseTemplate(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.trees.getOrCreateTree(method).insert(t, route)
	if old != nil {
		return old.route, true
	}

	r.routes = append(r.routes, Info{Method: method, Pattern: t.pattern})

	return previous, false
}

// Find resolves a request method and path.
// On a miss it returns a [*NotFoundError].
//
// Example:
//
//	m, err := r.Find(http.MethodGet, "/users/42")
//	if errors.Is(err, router.ErrNotFound) {
//	    // 404
//	}
//	id := m.Params["id"] // "42"
func (r *Router[R]) Find(method, path string) (Match[R], error) {
	tree := r.trees.getTree(method)
	if tree == nil {
		return Match[R]{}, &NotFoundError{Method: method, Path: path}
	}

	l, values, rest := tree.lookup(path)
	if l == nil {
		return Match[R]{}, &NotFoundError{Method: method, Path: path}
	}

	m := Match[R]{Route: l.route, Pattern: l.pattern, Wildcard: rest}
	if len(l.params) > 0 {
		m.Params = make(map[string]string, len(l.params))
		for i, name := range l.params {
			m.Params[name] = values[i]
		}
	}

	return m, nil
}

// Lookup returns the route registered under method and the path template,
// without matching it against a request path. Parameter names are ignored:
// "/users/:id" and "/users/:name" address the same route.
//
// Lookup panics on a malformed template, like [Router.Add].
func (r *Router[R]) Lookup(method, pattern string) (R, bool) {
	t := parseTemplate(pattern)

	r.mu.Lock()
	defer r.mu.Unlock()

	var zero R
	tree := r.trees.getTree(method)
	if tree == nil {
		return zero, false
	}
	l := tree.find(t)
	if l == nil {
		return zero, false
	}

	return l.route, true
}

// Freeze makes the router read-only. Later calls to [Router.Add] panic.
// Freeze is idempotent.
func (r *Router[R]) Freeze() {
	r.frozen.Store(true)
}

// Frozen reports whether [Router.Freeze] was called.
func (r *Router[R]) Frozen() bool {
	return r.frozen.Load()
}

// Routes lists the registered routes in registration order.
// A replaced route keeps its original position.
func (r *Router[R]) Routes() []Info {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.routes)
}
