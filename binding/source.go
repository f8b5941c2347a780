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

package binding

import (
	"net/http"
	"net/url"
	"strings"
)

// Headers converts request headers into validator input: an object of
// strings keyed by lowercase header name. Repeated headers are joined with
// ", " as RFC 9110 allows.
//
// Example:
//
//	binding.Headers(r.Header) // {"content-type": "application/json", "x-id": "1, 2"}
func Headers(h http.Header) map[string]any {
	out := make(map[string]any, len(h))
	for k, vals := range h {
		out[strings.ToLower(k)] = strings.Join(vals, ", ")
	}

	return out
}

// Query converts query parameters into validator input. A key that appears
// once maps to a string, a repeated key to a list of strings. Bracket
// notation ("tags[]=a&tags[]=b") is folded into the bare key.
//
// Example:
//
//	binding.Query(url.Values{"page": {"2"}, "tag": {"a", "b"}})
//	// {"page": "2", "tag": []any{"a", "b"}}
func Query(v url.Values) map[string]any {
	out := make(map[string]any, len(v))
	for k, vals := range v {
		key, list := strings.CutSuffix(k, "[]")
		if prev, ok := out[key]; ok {
			out[key] = appendValues(prev, vals)
			continue
		}

		switch {
		case list || len(vals) > 1:
			out[key] = appendValues(nil, vals)
		case len(vals) == 1:
			out[key] = vals[0]
		default:
			out[key] = ""
		}
	}

	return out
}

func appendValues(prev any, vals []string) []any {
	var list []any
	switch p := prev.(type) {
	case []any:
		list = p
	case string:
		list = []any{p}
	}

	for _, v := range vals {
		list = append(list, v)
	}

	return list
}

// Params converts matched path parameters into validator input.
func Params(p map[string]string) map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v
	}

	return out
}
