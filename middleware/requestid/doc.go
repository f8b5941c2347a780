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

// Package requestid provides a keel plugin that assigns each request a
// unique ID for correlation across services.
//
// # Basic Usage
//
//	import "rivaas.dev/keel/middleware/requestid"
//
//	a := app.MustNew(app.WithPlugins(requestid.New()))
//
// The plugin runs on the validated context, before app and route hooks.
// It reuses the X-Request-ID header sent by the client when present,
// otherwise generates a UUID v7. [WithULID] switches to the shorter ULID
// format.
//
// The ID is written to the response header and available to hooks and
// handlers through [Get]. Requests rejected before the plugin runs (no
// matching route, failed validation) carry no ID.
package requestid
