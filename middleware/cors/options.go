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

import "net/http"

// WithAllowedOrigins restricts cross-origin access to the listed origins.
// It turns off [WithAllowAllOrigins].
//
// Example:
//
//	cors.New(cors.WithAllowedOrigins("https://shop.example.com"))
func WithAllowedOrigins(origins ...string) Option {
	return func(cfg *config) {
		cfg.allowedOrigins = origins
		cfg.allowAllOrigins = false
	}
}

// WithAllowAllOrigins answers every origin with "*". With credentials the
// request origin is echoed instead, since browsers reject "*" there.
func WithAllowAllOrigins(allow bool) Option {
	return func(cfg *config) { cfg.allowAllOrigins = allow }
}

// WithAllowedMethods replaces the methods advertised to preflights.
func WithAllowedMethods(methods ...string) Option {
	return func(cfg *config) { cfg.allowedMethods = methods }
}

// WithAllowedHeaders replaces the request headers advertised to preflights.
func WithAllowedHeaders(headers ...string) Option {
	return func(cfg *config) {
		cfg.allowedHeaders = make([]string, len(headers))
		for i, h := range headers {
			cfg.allowedHeaders[i] = http.CanonicalHeaderKey(h)
		}
	}
}

// WithExposedHeaders lists response headers scripts may read, such as
// the request ID.
//
// Example:
//
//	cors.New(cors.WithExposedHeaders("X-Request-ID"))
func WithExposedHeaders(headers ...string) Option {
	return func(cfg *config) { cfg.exposedHeaders = headers }
}

// WithAllowCredentials sends Access-Control-Allow-Credentials: true.
func WithAllowCredentials(allow bool) Option {
	return func(cfg *config) { cfg.allowCredentials = allow }
}

// WithMaxAge sets how long, in seconds, browsers may cache a preflight.
func WithMaxAge(seconds int) Option {
	return func(cfg *config) { cfg.maxAge = seconds }
}

// WithAllowOriginFunc decides origins with fn. When set, the static list
// is ignored.
//
// Example:
//
//	cors.New(cors.WithAllowOriginFunc(func(origin string) bool {
//	    return strings.HasSuffix(origin, ".example.com")
//	}))
func WithAllowOriginFunc(fn func(origin string) bool) Option {
	return func(cfg *config) { cfg.allowOriginFunc = fn }
}
