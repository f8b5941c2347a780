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

// Package cors provides a keel plugin for Cross-Origin Resource Sharing.
//
// # Basic Usage
//
//	import "rivaas.dev/keel/middleware/cors"
//
//	a := app.MustNew(app.WithPlugins(cors.New(
//	    cors.WithAllowedOrigins("https://example.com"),
//	    cors.WithAllowedMethods("GET", "POST", "PUT", "DELETE"),
//	    cors.WithAllowedHeaders("Content-Type", "Authorization"),
//	)))
//
// Preflight requests (OPTIONS carrying Access-Control-Request-Method) are
// answered by the plugin before routing, so no OPTIONS routes are needed.
// Other cross-origin requests get their headers once the route matched and
// the request validated.
//
// # Security Considerations
//
// The default configuration allows no origins. With credentials enabled a
// wildcard origin is answered with the request's own origin, as browsers
// reject "*" together with credentials.
package cors
