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
	"strings"
)

// leaf is a registered route stored at a terminal node.
type leaf[R any] struct {
	route   R
	pattern string   // Canonical template, e.g. "/users/:id"
	params  []string // Parameter names in template order
}

// node represents a node in the per-method route tree.
//
// Features:
//   - children: literal segment edges (hash map lookup per segment)
//   - param: a single nameless parameter edge, matching any one segment
//   - wildcard: a terminal catch-all edge for one or more trailing segments
//   - staticPaths: full-path static routes (root node only, nil otherwise)
//
// Parameter edges carry no name. Each leaf records its own template's names
// and binds values positionally, so two templates sharing a param edge
// ("/users/:id" and "/users/:name/posts") never rename each other.
//
// Thread safety:
// Routes are registered during a single-threaded configuration phase.
// After Freeze(), the tree is immutable and safe for concurrent reads
// without locking.
type node[R any] struct {
	leaf        *leaf[R]
	children    map[string]*node[R]
	param       *node[R]
	wildcard    *node[R]
	staticPaths map[string]*leaf[R]
}

// template is a parsed route pattern.
type template struct {
	segments []string // Non-empty segments, "*" last if wildcard
	params   []string
	wildcard bool
	pattern  string
}

// parseTemplate splits a route path into segments, ignoring empty ones.
// It panics on malformed templates: registration errors are programming errors.
func parseTemplate(path string) template {
	var t template
	for seg := range strings.SplitSeq(path, "/") {
		if seg == "" {
			continue
		}
		if t.wildcard {
			panic(fmt.Errorf("%w: %q: '*' must be the final segment", ErrInvalidPattern, path))
		}

		switch {
		case seg == "*":
			t.wildcard = true
		case strings.HasPrefix(seg, "*"):
			panic(fmt.Errorf("%w: %q: wildcard segment %q must be a bare '*'", ErrInvalidPattern, path, seg))
		case strings.HasPrefix(seg, ":"):
			name := seg[1:]
			if name == "" {
				panic(fmt.Errorf("%w: %q: parameter name must not be empty", ErrInvalidPattern, path))
			}
			if slices.Contains(t.params, name) {
				panic(fmt.Errorf("%w: %q: duplicate parameter %q", ErrInvalidPattern, path, name))
			}
			t.params = append(t.params, name)
		}

		t.segments = append(t.segments, seg)
	}

	t.pattern = "/" + strings.Join(t.segments, "/")

	return t
}

// isStatic reports whether the template has no dynamic segments.
func (t template) isStatic() bool {
	return len(t.params) == 0 && !t.wildcard
}

// insert adds a route to the tree rooted at n and returns the leaf it replaced.
//
// Tree structure examples:
//   - "/users"       → root.children["users"] (+ root.staticPaths["/users"])
//   - "/users/:id"   → root.children["users"].param
//   - "/static/*"    → root.children["static"].wildcard
func (n *node[R]) insert(t template, route R) *leaf[R] {
	current := n
	for _, seg := range t.segments {
		switch {
		case seg == "*":
			if current.wildcard == nil {
				current.wildcard = &node[R]{}
			}
			current = current.wildcard
		case seg[0] == ':':
			if current.param == nil {
				current.param = &node[R]{}
			}
			current = current.param
		default:
			if current.children == nil {
				current.children = make(map[string]*node[R], 4)
			}
			child := current.children[seg]
			if child == nil {
				child = &node[R]{}
				current.children[seg] = child
			}
			current = child
		}
	}

	previous := current.leaf
	current.leaf = &leaf[R]{route: route, pattern: t.pattern, params: t.params}

	if t.isStatic() {
		if n.staticPaths == nil {
			n.staticPaths = make(map[string]*leaf[R], 8)
		}
		n.staticPaths[t.pattern] = current.leaf
	}

	return previous
}

// find returns the leaf registered for exactly the template shape of t.
func (n *node[R]) find(t template) *leaf[R] {
	current := n
	for _, seg := range t.segments {
		switch {
		case seg == "*":
			current = current.wildcard
		case seg[0] == ':':
			current = current.param
		default:
			current = current.children[seg]
		}
		if current == nil {
			return nil
		}
	}

	return current.leaf
}

// lookup resolves a request path against the tree rooted at n.
//
// Priority per node: literal child, then the param edge, then the wildcard,
// which takes every remaining segment. A failed descent never retries
// sibling edges or wildcards higher up the path: it is a miss. A wildcard
// only matches when at least one segment remains.
//
// Returns the matched leaf, the positional parameter values and the
// remainder matched by a wildcard (empty for non-wildcard matches).
func (n *node[R]) lookup(path string) (*leaf[R], []string, string) {
	// Path for static routes (no parameters)
	if n.staticPaths != nil {
		if l := n.staticPaths[path]; l != nil {
			return l, nil, ""
		}
	}

	var values []string
	current := n
	start := 0
	pathLen := len(path)

	// Manual path parsing without strings.Split
	for start < pathLen {
		if path[start] == '/' {
			start++
			continue
		}

		end := start
		for end < pathLen && path[end] != '/' {
			end++
		}
		segment := path[start:end]

		switch {
		case current.children[segment] != nil:
			current = current.children[segment]
		case current.param != nil:
			values = append(values, segment)
			current = current.param
		case current.wildcard != nil && current.wildcard.leaf != nil:
			return current.wildcard.leaf, values, strings.Trim(path[start:], "/")
		default:
			return nil, nil, ""
		}

		start = end + 1
	}

	if current.leaf != nil {
		return current.leaf, values, ""
	}

	return nil, nil, ""
}
