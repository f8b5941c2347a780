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

package schema

import "fmt"

// Draft is the JSON Schema dialect produced by [Schema.JSONSchema].
const Draft = "https://json-schema.org/draft/2020-12/schema"

// jsonFormats maps validator format tags to their JSON Schema names.
// Formats without a JSON Schema equivalent are not emitted.
var jsonFormats = map[string]string{
	"email":    "email",
	"uuid":     "uuid",
	"url":      "uri",
	"uri":      "uri",
	"ipv4":     "ipv4",
	"ipv6":     "ipv6",
	"hostname": "hostname",
}

// JSONSchema renders the descriptor as a JSON Schema document.
// It exists for API document generators and other tooling outside the request path.
//
// Descriptors that carry an [ID] are emitted once under "$defs" and
// referenced everywhere else with "$ref", so two descriptors sharing an ID
// produce a single definition (the first one encountered wins).
//
// Example:
//
//	doc := schema.Object(schema.Prop("name", schema.String())).JSONSchema()
//	b, _ := json.Marshal(doc)
func (s *Schema) JSONSchema() map[string]any {
	r := &jsonRenderer{defs: map[string]map[string]any{}}

	doc := r.render(s)
	doc["$schema"] = Draft
	if len(r.defs) > 0 {
		defs := make(map[string]any, len(r.defs))
		for id, body := range r.defs {
			defs[id] = body
		}
		doc["$defs"] = defs
	}

	return doc
}

type jsonRenderer struct {
	defs map[string]map[string]any
}

func (r *jsonRenderer) render(s *Schema) map[string]any {
	if s == nil {
		return map[string]any{}
	}

	if s.id != "" {
		if _, seen := r.defs[s.id]; !seen {
			r.defs[s.id] = nil
			r.defs[s.id] = r.body(s)
		}

		return r.nullable(s, map[string]any{"$ref": "#/$defs/" + s.id})
	}

	return r.nullable(s, r.body(s))
}

func (r *jsonRenderer) nullable(s *Schema, node map[string]any) map[string]any {
	if !s.nullable || s.kind == KindNull || s.kind == KindAny {
		return node
	}

	if t, ok := node["type"].(string); ok {
		node["type"] = []any{t, "null"}
		return node
	}

	return map[string]any{"anyOf": []any{node, map[string]any{"type": "null"}}}
}

func (r *jsonRenderer) body(s *Schema) map[string]any {
	node := map[string]any{}
	if s.title != "" {
		node["title"] = s.title
	}
	if s.description != "" {
		node["description"] = s.description
	}

	switch s.kind {
	case KindBoolean:
		node["type"] = "boolean"
	case KindInteger, KindNumber:
		if s.kind == KindInteger {
			node["type"] = "integer"
		} else {
			node["type"] = "number"
		}
		setBound(node, "minimum", s.min)
		setBound(node, "maximum", s.max)
		setBound(node, "exclusiveMinimum", s.exclusiveMin)
		setBound(node, "exclusiveMaximum", s.exclusiveMax)
	case KindString:
		node["type"] = "string"
		if s.minLength != nil {
			node["minLength"] = *s.minLength
		}
		if s.maxLength != nil {
			node["maxLength"] = *s.maxLength
		}
		if s.pattern != nil {
			node["pattern"] = s.pattern.String()
		}
		if f, ok := jsonFormats[s.format]; ok {
			node["format"] = f
		}
	case KindLiteral:
		node["const"] = s.value
	case KindByteArray:
		node["type"] = "string"
		node["contentMediaType"] = "application/octet-stream"
	case KindArray:
		node["type"] = "array"
		if s.items != nil {
			node["items"] = r.render(s.items)
		}
		if s.minItems != nil {
			node["minItems"] = *s.minItems
		}
		if s.maxItems != nil {
			node["maxItems"] = *s.maxItems
		}
		if s.unique {
			node["uniqueItems"] = true
		}
	case KindObject, KindURLForm, KindMultipartForm:
		node["type"] = "object"
		props := make(map[string]any, len(s.props))
		var required []any
		for _, p := range s.props {
			props[p.Name] = r.render(p.Schema)
			if p.Schema != nil && !p.Schema.optional {
				required = append(required, p.Name)
			}
		}
		node["properties"] = props
		if len(required) > 0 {
			node["required"] = required
		}
	case KindUnion:
		node["anyOf"] = r.renderAll(s.members)
	case KindIntersection:
		node["allOf"] = r.renderAll(s.members)
	case KindNull:
		node["type"] = "null"
	case KindAny:
	default:
		panic(fmt.Sprintf("schema: unhandled kind %s", s.kind))
	}

	return node
}

func (r *jsonRenderer) renderAll(members []*Schema) []any {
	out := make([]any, 0, len(members))
	for _, m := range members {
		out = append(out, r.render(m))
	}

	return out
}

func setBound(node map[string]any, key string, v *float64) {
	if v != nil {
		node[key] = *v
	}
}
