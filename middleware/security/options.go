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

import "net/http"

// WithFrameOptions sets X-Frame-Options ("DENY" or "SAMEORIGIN").
// An empty value omits the header.
func WithFrameOptions(value string) Option {
	return func(cfg *config) { cfg.frameOptions = value }
}

// WithContentTypeNosniff toggles X-Content-Type-Options: nosniff.
func WithContentTypeNosniff(enabled bool) Option {
	return func(cfg *config) { cfg.nosniff = enabled }
}

// WithXSSProtection sets X-XSS-Protection. The default "0" disables the
// legacy browser filter.
func WithXSSProtection(value string) Option {
	return func(cfg *config) { cfg.xssProtection = value }
}

// WithHSTS configures Strict-Transport-Security. A maxAge of zero disables it.
//
// Example:
//
//	security.New(security.WithHSTS(63072000, true, true))
func WithHSTS(maxAge int, includeSubdomains, preload bool) Option {
	return func(cfg *config) {
		cfg.hstsMaxAge = maxAge
		cfg.hstsIncludeSubdomains = includeSubdomains
		cfg.hstsPreload = preload
	}
}

// WithContentSecurityPolicy sets Content-Security-Policy.
func WithContentSecurityPolicy(policy string) Option {
	return func(cfg *config) { cfg.csp = policy }
}

// WithReferrerPolicy sets Referrer-Policy.
func WithReferrerPolicy(policy string) Option {
	return func(cfg *config) { cfg.referrerPolicy = policy }
}

// WithPermissionsPolicy sets Permissions-Policy.
//
// Example:
//
//	security.New(security.WithPermissionsPolicy("geolocation=(), camera=()"))
func WithPermissionsPolicy(policy string) Option {
	return func(cfg *config) { cfg.permissions = policy }
}

// WithCustomHeader adds another header to every response.
func WithCustomHeader(name, value string) Option {
	return func(cfg *config) { cfg.custom[http.CanonicalHeaderKey(name)] = value }
}

// NoSecurityHeaders clears every header, typically before adding a few back
// when a proxy already sets the rest.
func NoSecurityHeaders() Option {
	return func(cfg *config) {
		*cfg = config{custom: map[string]string{}}
	}
}

// DevelopmentPreset relaxes the policy for local work: frames from the same
// origin, inline scripts and no HSTS.
func DevelopmentPreset() Option {
	return func(cfg *config) {
		cfg.frameOptions = "SAMEORIGIN"
		cfg.csp = "default-src 'self' 'unsafe-inline' 'unsafe-eval'; img-src 'self' data:"
		cfg.referrerPolicy = "no-referrer-when-downgrade"
		cfg.hstsMaxAge = 0
	}
}

// ProductionPreset enables HSTS preload and restricts browser features.
// Later options override single headers.
func ProductionPreset() Option {
	return func(cfg *config) {
		cfg.frameOptions = "DENY"
		cfg.nosniff = true
		cfg.csp = "default-src 'self'"
		cfg.referrerPolicy = "strict-origin-when-cross-origin"
		cfg.permissions = "geolocation=(), microphone=(), camera=()"
		cfg.hstsMaxAge = 31536000
		cfg.hstsIncludeSubdomains = true
		cfg.hstsPreload = true
	}
}
