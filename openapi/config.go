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
	"errors"
	"fmt"
	"strings"
)

// Version is the OpenAPI version written to generated documents.
const Version = "3.1.0"

// Configuration errors reported by [New].
var (
	ErrMissingTitle     = errors.New("openapi: title is required")
	ErrMissingVersion   = errors.New("openapi: version is required")
	ErrInvalidSpecPath  = errors.New("openapi: spec path must start with '/'")
	ErrInvalidExtension = errors.New("openapi: extension keys must start with \"x-\"")
)

// Info is the API metadata of the document.
type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// Server is a base URL the API is served from.
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// API describes the document to generate.
//
// Create instances using [New] or [MustNew].
type API struct {
	Info    Info
	Servers []Server

	// SpecPath is where [Mount] serves the document.
	// Default: "/openapi.json"
	SpecPath string

	// Extensions are added to the document root. Keys start with "x-".
	Extensions map[string]any
}

// Option configures an [API].
type Option func(*API)

// New creates an API description.
//
// Example:
//
//	api, err := openapi.New(
//	    openapi.WithTitle("Orders", "1.0.0"),
//	    openapi.WithServer("https://api.example.com", "Production"),
//	)
func New(opts ...Option) (*API, error) {
	api := &API{SpecPath: "/openapi.json"}
	for _, opt := range opts {
		opt(api)
	}

	if err := api.Validate(); err != nil {
		return nil, err
	}

	return api, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *API {
	api, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("openapi.MustNew: %v", err))
	}

	return api
}

// Validate reports every configuration problem.
func (a *API) Validate() error {
	var errs []error
	if a.Info.Title == "" {
		errs = append(errs, ErrMissingTitle)
	}
	if a.Info.Version == "" {
		errs = append(errs, ErrMissingVersion)
	}
	if !strings.HasPrefix(a.SpecPath, "/") {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidSpecPath, a.SpecPath))
	}
	for key := range a.Extensions {
		if !strings.HasPrefix(key, "x-") {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidExtension, key))
		}
	}

	return errors.Join(errs...)
}

// WithTitle sets the API title and version.
//
// Example:
//
//	openapi.WithTitle("User API", "2.1.0")
func WithTitle(title, version string) Option {
	return func(a *API) {
		a.Info.Title = title
		a.Info.Version = version
	}
}

// WithDescription sets the API description. Markdown is allowed.
func WithDescription(desc string) Option {
	return func(a *API) { a.Info.Description = desc }
}

// WithServer adds a server URL.
func WithServer(url, desc string) Option {
	return func(a *API) {
		a.Servers = append(a.Servers, Server{URL: url, Description: desc})
	}
}

// WithSpecPath sets the path where [Mount] serves the document.
//
// Example:
//
//	openapi.WithSpecPath("/api/openapi.json")
func WithSpecPath(path string) Option {
	return func(a *API) { a.SpecPath = path }
}

// WithExtension adds an "x-" extension to the document root.
//
// Example:
//
//	openapi.WithExtension("x-internal-id", "api-v2")
func WithExtension(key string, value any) Option {
	return func(a *API) {
		if a.Extensions == nil {
			a.Extensions = make(map[string]any)
		}
		a.Extensions[key] = value
	}
}
