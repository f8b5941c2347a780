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

// Package router provides a per-method path trie that maps (method, path)
// pairs to routes.
//
// The router is generic over the stored route value and knows nothing about
// HTTP handlers, so the request pipeline decides what a route is.
//
// # Routing Details
//
//   - Static routes: exact path matching, with a one-lookup fast path
//   - Parameterized routes: ":name" matches any single segment
//   - Wildcard routes: a final "*" matches one or more trailing segments
//
// At each node a literal segment beats the parameter edge, which beats the
// wildcard. Lookup never backtracks: when a descent fails, neither sibling
// edges nor wildcards passed higher up are retried, and the result is a
// [*NotFoundError].
//
// Lookup costs O(segments) and does not depend on the number of routes.
//
// # Quick Start
//
//	r := router.New[http.HandlerFunc]()
//	r.Add(http.MethodGet, "/users/:id", getUser)
//	r.Add(http.MethodGet, "/static/*", serveStatic)
//	r.Freeze()
//
//	m, err := r.Find(http.MethodGet, "/users/42")
//	if err != nil {
//	    // errors.Is(err, router.ErrNotFound)
//	}
//	m.Route(w, req)
//	_ = m.Params["id"] // "42"
//
// # Re-registration
//
// Registering the same (method, path) twice replaces the earlier route.
// [Router.Add] returns the replaced route so callers can log or refuse the
// replacement instead of shadowing routes silently.
package router
