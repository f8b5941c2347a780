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

package cors

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"rivaas.dev/keel/app"
)

// Option defines functional options for the cors plugin.
type Option func(*config)

type config struct {
	allowedOrigins   []string
	allowedMethods   []string
	allowedHeaders   []string
	exposedHeaders   []string
	allowCredentials bool
	// maxAge is the preflight cache lifetime in seconds
	maxAge          int
	allowAllOrigins bool
	allowOriginFunc func(origin string) bool
}

// defaultConfig allows no origins.
func defaultConfig() *config {
	return &config{
		allowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		allowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		maxAge:         3600,
	}
}

// Plugin answers CORS preflight requests before routing and adds CORS
// headers to handled cross-origin requests.
type Plugin struct {
	cfg           *config
	methodsHeader string
	headersHeader string
	exposedHeader string
	maxAgeHeader  string
}

var (
	_ app.FetchHook        = (*Plugin)(nil)
	_ app.BeforeHandleHook = (*Plugin)(nil)
)

// New returns a cors plugin.
//
// Basic usage:
//
//	a := app.MustNew(app.WithPlugins(cors.New(
//	    cors.WithAllowedOrigins("https://example.com"),
//	)))
//
// With credentials:
//
//	cors.New(
//	    cors.WithAllowedOrigins("https://app.example.com"),
//	    cors.WithAllowCredentials(true),
//	)
func New(opts ...Option) *Plugin {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Plugin{
		cfg:           cfg,
		methodsHeader: strings.Join(cfg.allowedMethods, ", "),
		headersHeader: strings.Join(cfg.allowedHeaders, ", "),
		exposedHeader: strings.Join(cfg.exposedHeaders, ", "),
		maxAgeHeader:  strconv.Itoa(cfg.maxAge),
	}
}

// Name implements [app.Plugin].
func (p *Plugin) Name() string { return "cors" }

// OnFetch implements [app.FetchHook]. Preflight requests from allowed
// origins are answered with 204 without reaching the router.
func (p *Plugin) OnFetch(r *http.Request) (*app.Response, error) {
	if r.Method != http.MethodOptions || r.Header.Get("Access-Control-Request-Method") == "" {
		return nil, nil
	}

	h := http.Header{}
	if !p.setOrigin(h, r.Header.Get("Origin")) {
		return nil, nil
	}
	h.Set("Access-Control-Allow-Methods", p.methodsHeader)
	h.Set("Access-Control-Allow-Headers", p.headersHeader)
	h.Set("Access-Control-Max-Age", p.maxAgeHeader)

	return &app.Response{Status: http.StatusNoContent, Header: h, Body: app.NoBody}, nil
}

// BeforeHandle implements [app.BeforeHandleHook].
func (p *Plugin) BeforeHandle(c *app.Context) (*app.Response, error) {
	p.setOrigin(c.Set.Header, c.Request.Header.Get("Origin"))
	return nil, nil
}

// setOrigin writes the origin headers and reports whether origin is allowed.
func (p *Plugin) setOrigin(h http.Header, origin string) bool {
	allowed := p.allowedOrigin(origin)
	if allowed == "" {
		return false
	}

	// A wildcard cannot be combined with credentials.
	if p.cfg.allowCredentials && allowed == "*" {
		allowed = origin
	}
	h.Set("Access-Control-Allow-Origin", allowed)
	if allowed != "*" {
		h.Add("Vary", "Origin")
	}
	if p.cfg.allowCredentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	if p.exposedHeader != "" {
		h.Set("Access-Control-Expose-Headers", p.exposedHeader)
	}

	return true
}

func (p *Plugin) allowedOrigin(origin string) string {
	switch {
	case origin == "":
		return ""
	case p.cfg.allowAllOrigins:
		return "*"
	case p.cfg.allowOriginFunc != nil:
		if p.cfg.allowOriginFunc(origin) {
			return origin
		}
	case slices.Contains(p.cfg.allowedOrigins, origin):
		return origin
	}

	return ""
}
