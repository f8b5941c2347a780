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
	"maps"

	"github.com/goccy/go-json"
)

// Document is a generated OpenAPI document.
type Document struct {
	OpenAPI    string              `json:"openapi"`
	Info       Info                `json:"info"`
	Servers    []Server            `json:"servers,omitempty"`
	Paths      map[string]PathItem `json:"paths"`
	Components *Components         `json:"components,omitempty"`

	// Extensions are merged into the document root when encoding.
	Extensions map[string]any `json:"-"`
}

// PathItem maps lowercase HTTP methods to operations.
type PathItem map[string]*Operation

// Operation describes one route.
type Operation struct {
	OperationID string              `json:"operationId"`
	Summary     string              `json:"summary,omitempty"`
	Parameters  []Parameter         `json:"parameters,omitempty"`
	RequestBody *RequestBody        `json:"requestBody,omitempty"`
	Responses   map[string]Response `json:"responses"`
}

// Parameter is a path, query or header parameter.
type Parameter struct {
	Name        string         `json:"name"`
	In          string         `json:"in"`
	Description string         `json:"description,omitempty"`
	Required    bool           `json:"required"`
	Schema      map[string]any `json:"schema"`
}

// RequestBody describes the accepted body.
type RequestBody struct {
	Description string               `json:"description,omitempty"`
	Required    bool                 `json:"required"`
	Content     map[string]MediaType `json:"content"`
}

// Response describes one response status.
type Response struct {
	Description string               `json:"description"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

// MediaType holds the schema of one content type.
type MediaType struct {
	Schema map[string]any `json:"schema"`
}

// Components holds the schemas shared through "$ref".
type Components struct {
	Schemas map[string]any `json:"schemas"`
}

type documentFields Document

// MarshalJSON implements json.Marshaler.
func (d *Document) MarshalJSON() ([]byte, error) {
	if len(d.Extensions) == 0 {
		return json.Marshal((*documentFields)(d))
	}

	base, err := json.Marshal((*documentFields)(d))
	if err != nil {
		return nil, err
	}
	var root map[string]any
	if err = json.Unmarshal(base, &root); err != nil {
		return nil, err
	}
	maps.Copy(root, d.Extensions)

	return json.Marshal(root)
}
