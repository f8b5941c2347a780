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

// Package tracing creates OpenTelemetry server spans for keel requests.
//
// A [Tracer] extracts the caller's trace context from request headers,
// starts one span per request, renames it after the matched route and
// records validation failures as span events:
//
//	tracer, err := tracing.New(
//	    tracing.WithTracerProvider(tp),
//	    tracing.WithServiceName("orders"),
//	)
//	ctx, span := tracer.StartRequest(r.Context(), r)
//	tracer.SetRoute(span, r.Method, "/orders/:id")
//	defer tracer.FinishRequest(span, http.StatusOK, nil)
//
// Instead of injecting a provider, [WithOTLP], [WithOTLPHTTP] or
// [WithStdout] build a batching provider owned by the Tracer and released
// by [Tracer.Shutdown].
package tracing
