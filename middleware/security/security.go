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

package security

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"rivaas.dev/keel/app"
)

// Option configures the security plugin.
type Option func(*config)

type config struct {
	frameOptions   string
	nosniff        bool
	xssProtection  string
	csp            string
	referrerPolicy string
	permissions    string

	hstsMaxAge            int
	hstsIncludeSubdomains bool
	hstsPreload           bool

	custom map[string]string
}

func defaultConfig() *config {
	return &config{
		frameOptions:          "DENY",
		nosniff:               true,
		xssProtection:         "0",
		csp:                   "default-src 'self'",
		referrerPolicy:        "strict-origin-when-cross-origin",
		hstsMaxAge:            31536000,
		hstsIncludeSubdomains: true,
		custom:                map[string]string{},
	}
}

// Plugin sets security headers on every handled response.
//
// Headers are written to [app.Context] Set.Header before the hook chain, so
// handlers and hooks may still override them. Strict-Transport-Security is
// only sent on TLS connections.
type Plugin struct {
	headers http.Header
	hsts    string
}

var _ app.BeforeHandleHook = (*Plugin)(nil)

// New returns a security headers plugin with strict defaults:
//
//   - X-Frame-Options: DENY
//   - X-Content-Type-Options: nosniff
//   - X-XSS-Protection: 0
//   - Content-Security-Policy: default-src 'self'
//   - Referrer-Policy: strict-origin-when-cross-origin
//   - Strict-Transport-Security: max-age=31536000; includeSubDomains
//
// Example:
//
//	a := app.MustNew(app.WithPlugins(
//	    security.New(security.WithFrameOptions("SAMEORIGIN")),
//	))
func New(opts ...Option) *Plugin {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	h := http.Header{}
	set := func(name, value string) {
		if value != "" {
			h.Set(name, value)
		}
	}
	set("X-Frame-Options", cfg.frameOptions)
	if cfg.nosniff {
		h.Set("X-Content-Type-Options", "nosniff")
	}
	set("X-XSS-Protection", cfg.xssProtection)
	set("Content-Security-Policy", cfg.csp)
	set("Referrer-Policy", cfg.referrerPolicy)
	set("Permissions-Policy", cfg.permissions)
	for name, value := range cfg.custom {
		set(name, value)
	}

	return &Plugin{headers: h, hsts: hstsValue(cfg)}
}

func hstsValue(cfg *config) string {
	if cfg.hstsMaxAge <= 0 {
		return ""
	}

	parts := []string{"max-age=" + strconv.Itoa(cfg.hstsMaxAge)}
	if cfg.hstsIncludeSubdomains {
		parts = append(parts, "includeSubDomains")
	}
	if cfg.hstsPreload {
		parts = append(parts, "preload")
	}

	return strings.Join(parts, "; ")
}

// Name implements [app.Plugin].
func (p *Plugin) Name() string { return "security" }

// BeforeHandle implements [app.BeforeHandleHook].
func (p *Plugin) BeforeHandle(c *app.Context) (*app.Response, error) {
	for name, values := range p.headers {
		c.Set.Header[name] = slices.Clone(values)
	}
	if p.hsts != "" && c.Request.TLS != nil {
		c.Set.Header.Set("Strict-Transport-Security", p.hsts)
	}

	return nil, nil
}
