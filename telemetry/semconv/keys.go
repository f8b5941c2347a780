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

package semconv

import "go.opentelemetry.io/otel/attribute"

// Service metadata, set once on the service logger.
const (
	// ServiceName identifies the logical service.
	ServiceName = "service.name"

	// ServiceVersion is the version string of the running service.
	ServiceVersion = "service.version"

	// DeploymentEnviron is the deployment environment, such as "production".
	DeploymentEnviron = "deployment.environment"
)

// HTTP attributes following OpenTelemetry semantic conventions.
const (
	// HTTPMethod stores the HTTP request method.
	HTTPMethod = "http.request.method"

	// HTTPRoute stores the matched route template (e.g., "/orders/:id"),
	// never the concrete path.
	HTTPRoute = "http.route"

	// HTTPTarget stores the concrete request path (e.g., "/orders/42").
	HTTPTarget = "url.path"

	// HTTPStatusCode stores the response status code.
	HTTPStatusCode = "http.response.status_code"
)

// Trace correlation keys for log entries.
const (
	TraceID = "trace_id"
	SpanID  = "span_id"
)

// Request pipeline attributes.
const (
	// Section names the failed request section: "headers", "params",
	// "query" or "body".
	Section = "keel.section"

	// Plugin is the name of a pipeline plugin.
	Plugin = "keel.plugin"

	// ReplacedRoute is the route template replaced by a later registration.
	ReplacedRoute = "keel.route.replaced"

	// Error holds an error message.
	Error = "error"

	// Stack holds a goroutine stack trace.
	Stack = "stack"
)

// Metric instrument names.
const (
	// MetricRequests counts handled requests.
	MetricRequests = "keel.server.requests"

	// MetricValidationFailures counts rejected request sections.
	MetricValidationFailures = "keel.validation.failures"

	// MetricDuration records request handling time in seconds.
	MetricDuration = "keel.server.duration"
)

// Attribute keys for spans and metrics.
var (
	HTTPMethodKey     = attribute.Key(HTTPMethod)
	HTTPRouteKey      = attribute.Key(HTTPRoute)
	HTTPTargetKey     = attribute.Key(HTTPTarget)
	HTTPStatusCodeKey = attribute.Key(HTTPStatusCode)
	SectionKey        = attribute.Key(Section)
)
