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

package openapi

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"rivaas.dev/keel/app"
	"rivaas.dev/keel/schema"
)

const componentsPrefix = "#/components/schemas/"

// wildcardParam names the path parameter standing for a trailing "*".
const wildcardParam = "wildcard"

// operationMethods are the methods a path item can describe.
var operationMethods = map[string]bool{
	http.MethodGet: true, http.MethodPut: true, http.MethodPost: true,
	http.MethodDelete: true, http.MethodOptions: true, http.MethodHead: true,
	http.MethodPatch: true, http.MethodTrace: true,
}

// Generate builds the document for routes, in order.
//
// Route templates become OpenAPI paths ("/users/:id" is "/users/{id}", a
// trailing "*" is "{wildcard}"). Section schemas become parameters and the
// request body; descriptors carrying a schema ID are shared through
// components. Routes with methods OpenAPI cannot describe are skipped.
//
// Example:
//
//	doc := api.Generate(a.Endpoints())
func (a *API) Generate(routes []*app.Route) *Document {
	r := &renderer{components: map[string]any{}}
	doc := &Document{
		OpenAPI:    Version,
		Info:       a.Info,
		Servers:    slices.Clone(a.Servers),
		Paths:      map[string]PathItem{},
		Extensions: a.Extensions,
	}

	for _, rt := range routes {
		if !operationMethods[rt.Method()] {
			continue
		}
		segments := splitPath(rt.Path())
		path := openAPIPath(segments)
		item := doc.Paths[path]
		if item == nil {
			item = PathItem{}
			doc.Paths[path] = item
		}
		item[strings.ToLower(rt.Method())] = r.operation(rt, segments)
	}

	if len(r.components) > 0 {
		doc.Components = &Components{Schemas: r.components}
	}

	return doc
}

func (r *renderer) operation(rt *app.Route, segments []string) *Operation {
	s := rt.Schema()
	op := &Operation{
		OperationID: operationID(rt.Method(), segments),
		Responses:   r.responses(s.Response),
	}
	op.Parameters = append(op.Parameters, r.pathParams(segments, s.Params)...)
	op.Parameters = append(op.Parameters, r.params("query", s.Query)...)
	op.Parameters = append(op.Parameters, r.params("header", s.Headers)...)

	if s.Body != nil {
		op.RequestBody = &RequestBody{
			Description: s.Body.Description(),
			Required:    !s.Body.IsOptional(),
			Content:     map[string]MediaType{bodyMediaType(s.Body): {Schema: r.schema(s.Body)}},
		}
	}

	return op
}

// pathParams lists every template parameter, typed by the params schema
// when it declares one.
func (r *renderer) pathParams(segments []string, params *schema.Schema) []Parameter {
	var out []Parameter
	for _, seg := range segments {
		var name string
		switch {
		case seg == "*":
			name = wildcardParam
		case strings.HasPrefix(seg, ":"):
			name = seg[1:]
		default:
			continue
		}

		p := Parameter{Name: name, In: "path", Required: true, Schema: map[string]any{"type": "string"}}
		if params != nil {
			if ps, ok := params.Prop(name); ok && ps != nil {
				p.Schema = r.schema(ps)
				p.Description = ps.Description()
			}
		}
		out = append(out, p)
	}

	return out
}

func (r *renderer) params(in string, s *schema.Schema) []Parameter {
	if s == nil || !s.Kind().IsObjectLike() {
		return nil
	}

	out := make([]Parameter, 0, len(s.Props()))
	for _, prop := range s.Props() {
		p := Parameter{Name: prop.Name, In: in, Required: true, Schema: map[string]any{}}
		if prop.Schema != nil {
			p.Required = !prop.Schema.IsOptional()
			p.Schema = r.schema(prop.Schema)
			p.Description = prop.Schema.Description()
		}
		out = append(out, p)
	}

	return out
}

func (r *renderer) responses(declared map[string]*schema.Schema) map[string]Response {
	if len(declared) == 0 {
		return map[string]Response{"200": {Description: http.StatusText(http.StatusOK)}}
	}

	out := make(map[string]Response, len(declared))
	for key, s := range declared {
		resp := Response{Description: responseDescription(key)}
		if s != nil {
			resp.Content = map[string]MediaType{responseMediaType(s): {Schema: r.schema(s)}}
		}
		out[key] = resp
	}

	return out
}

func responseDescription(key string) string {
	if code, err := strconv.Atoi(key); err == nil {
		if text := http.StatusText(code); text != "" {
			return text
		}
	}

	return "Default response"
}

func bodyMediaType(s *schema.Schema) string {
	switch s.Kind() {
	case schema.KindURLForm:
		return "application/x-www-form-urlencoded"
	case schema.KindMultipartForm:
		return "multipart/form-data"
	default:
		return responseMediaType(s)
	}
}

func responseMediaType(s *schema.Schema) string {
	switch s.Kind() {
	case schema.KindString:
		return "text/plain"
	case schema.KindByteArray:
		return "application/octet-stream"
	default:
		return app.MediaTypeJSON
	}
}

// renderer converts descriptors and collects their shared definitions.
type renderer struct {
	components map[string]any
}

func (r *renderer) schema(s *schema.Schema) map[string]any {
	doc := s.JSONSchema()
	delete(doc, "$schema")

	if defs, ok := doc["$defs"].(map[string]any); ok {
		delete(doc, "$defs")
		for id, def := range defs {
			if _, seen := r.components[id]; !seen {
				r.components[id] = rewriteRefs(def)
			}
		}
	}

	out, _ := rewriteRefs(doc).(map[string]any)

	return out
}

// rewriteRefs points "$ref" values at the document components.
func rewriteRefs(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			if ref, ok := e.(string); ok && k == "$ref" {
				out[k] = componentsPrefix + strings.TrimPrefix(ref, "#/$defs/")
				continue
			}
			out[k] = rewriteRefs(e)
		}

		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = rewriteRefs(e)
		}

		return out
	default:
		return v
	}
}

func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}

func openAPIPath(segments []string) string {
	if len(segments) == 0 {
		return "/"
	}

	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		switch {
		case seg == "*":
			b.WriteString("{" + wildcardParam + "}")
		case strings.HasPrefix(seg, ":"):
			b.WriteString("{" + seg[1:] + "}")
		default:
			b.WriteString(seg)
		}
	}

	return b.String()
}

// operationID derives a stable camel-case ID, e.g. "getUsersById" for
// GET /users/:id.
func operationID(method string, segments []string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for _, seg := range segments {
		switch {
		case seg == "*":
			b.WriteString("Wildcard")
		case strings.HasPrefix(seg, ":"):
			b.WriteString("By")
			b.WriteString(camel(seg[1:]))
		default:
			b.WriteString(camel(seg))
		}
	}

	return b.String()
}

func camel(s string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' || r == '.' }) {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}

	return b.String()
}
