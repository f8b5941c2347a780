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

// Package metrics records OpenTelemetry metrics for the keel request pipeline.
//
// A [Recorder] owns three instruments:
//
//   - keel.server.requests: requests by method, route and status
//   - keel.server.duration: handling time in seconds
//   - keel.validation.failures: rejected sections by route and section
//
// Routes are recorded by pattern ("/orders/:id"), never by concrete path.
// A Recorder either records through an injected or global MeterProvider, or
// builds and owns one for a built-in exporter: [WithPrometheus] (scraped
// through [Recorder.Handler]), [WithOTLP] or [WithStdout]. Owned providers
// are flushed by [Recorder.Shutdown].
package metrics
