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
	"crypto/sha256"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"rivaas.dev/keel/app"
)

// Mount registers a GET route at api.SpecPath serving the document of every
// other route of a.
//
// The document is generated on the first request, once the route table is
// frozen, and served with a strong ETag so clients can revalidate with
// If-None-Match.
//
// Example:
//
//	a := app.MustNew()
//	a.GET("/users/:id", getUser, app.WithSchema(userSchema))
//	openapi.Mount(a, openapi.MustNew(openapi.WithTitle("Users", "1.0.0")))
func Mount(a *app.App, api *API) *app.Route {
	s := &specServer{app: a, api: api}
	return a.GET(api.SpecPath, s.serve)
}

type specServer struct {
	app *app.App
	api *API

	once sync.Once
	data []byte
	etag string
	err  error
}

func (s *specServer) build() {
	var routes []*app.Route
	for _, rt := range s.app.Endpoints() {
		if rt.Method() == http.MethodGet && rt.Path() == s.api.SpecPath {
			continue
		}
		routes = append(routes, rt)
	}

	s.data, s.err = json.Marshal(s.api.Generate(routes))
	if s.err != nil {
		s.err = fmt.Errorf("openapi: encode document: %w", s.err)
		return
	}
	s.etag = fmt.Sprintf(`"%x"`, sha256.Sum256(s.data))
}

func (s *specServer) serve(c *app.Context) (any, error) {
	s.once.Do(s.build)
	if s.err != nil {
		return nil, s.err
	}

	header := http.Header{}
	header.Set("ETag", s.etag)
	header.Set("Cache-Control", "no-cache")

	if etagMatches(c.Request.Header.Get("If-None-Match"), s.etag) {
		return &app.Response{Status: http.StatusNotModified, Header: header, Body: app.NoBody}, nil
	}

	header.Set("Content-Type", "application/json; charset=utf-8")

	return &app.Response{Status: http.StatusOK, Header: header, Body: s.data}, nil
}

// etagMatches reports whether an If-None-Match header lists etag.
func etagMatches(header, etag string) bool {
	for candidate := range strings.SplitSeq(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}

	return false
}
