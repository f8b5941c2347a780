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

import "net/http"

// methodTrees holds per-method route tree roots for O(1) lookup via switch.
// Used instead of map[string]*node to avoid string hashing in the hot path.
// Extension methods (PROPFIND, QUERY, ...) fall back to a map.
type methodTrees[R any] struct {
	get     *node[R]
	post    *node[R]
	put     *node[R]
	delete  *node[R]
	patch   *node[R]
	head    *node[R]
	options *node[R]
	other   map[string]*node[R]
}

// getTree returns the tree for the given HTTP method, or nil.
func (m *methodTrees[R]) getTree(method string) *node[R] {
	switch method {
	case http.MethodGet:
		return m.get
	case http.MethodPost:
		return m.post
	case http.MethodPut:
		return m.put
	case http.MethodDelete:
		return m.delete
	case http.MethodPatch:
		return m.patch
	case http.MethodHead:
		return m.head
	case http.MethodOptions:
		return m.options
	default:
		return m.other[method]
	}
}

// getOrCreateTree returns the tree for the given method, creating it if needed.
func (m *methodTrees[R]) getOrCreateTree(method string) *node[R] {
	if n := m.getTree(method); n != nil {
		return n
	}

	n := &node[R]{}
	switch method {
	case http.MethodGet:
		m.get = n
	case http.MethodPost:
		m.post = n
	case http.MethodPut:
		m.put = n
	case http.MethodDelete:
		m.delete = n
	case http.MethodPatch:
		m.patch = n
	case http.MethodHead:
		m.head = n
	case http.MethodOptions:
		m.options = n
	default:
		if m.other == nil {
			m.other = make(map[string]*node[R], 1)
		}
		m.other[method] = n
	}

	return n
}

// Info describes a registered route for introspection.
type Info struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
}
