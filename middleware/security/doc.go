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

// Package security provides a keel plugin that sets browser security
// headers on handled responses.
//
//	a := app.MustNew(app.WithPlugins(security.New()))
//
// The defaults follow the OWASP Secure Headers recommendations. Presets
// bundle common combinations and single options refine them:
//
//	security.New(
//	    security.ProductionPreset(),
//	    security.WithFrameOptions("SAMEORIGIN"),
//	)
//
// The plugin runs once the request has been validated, so 404 and 400
// responses produced by the pipeline do not carry the headers.
package security
