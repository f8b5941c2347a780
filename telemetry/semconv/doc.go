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

// Package semconv defines the attribute and instrument names shared by
// logs, traces and metrics.
//
// HTTP keys follow the OpenTelemetry semantic conventions; pipeline keys
// live under the "keel." namespace.
//
//	logger.Warn("route replaced",
//	    semconv.HTTPMethod, "GET",
//	    semconv.HTTPRoute, "/users/:id",
//	    semconv.ReplacedRoute, "/users/:name",
//	)
//
//	span.SetAttributes(semconv.SectionKey.String("query"))
//
// Reference: https://opentelemetry.io/docs/specs/semconv/
package semconv
