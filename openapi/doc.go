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

// Package openapi generates OpenAPI 3.1 documents from keel routes.
//
// Route schemas are already JSON Schema compatible, so the generator maps
// each section onto the matching OpenAPI construct:
//
//   - Params, Query and Headers properties become path, query and header
//     parameters. Optional properties are not required.
//   - Body becomes the request body. The content type follows the body kind
//     (object is JSON, urlForm and multipartForm are forms, byteArray is
//     binary).
//   - Response entries become responses keyed by status.
//
// Descriptors carrying a [schema.ID] are emitted once under
// components.schemas and referenced everywhere else.
//
// # Serving
//
// [Mount] registers the document as a route of the application:
//
//	a := app.MustNew()
//	a.GET("/users/:id", getUser, app.WithSchema(userSchema))
//
//	openapi.Mount(a, openapi.MustNew(
//	    openapi.WithTitle("Users", "1.0.0"),
//	    openapi.WithServer("https://api.example.com", "Production"),
//	))
//
// To write the document at build time instead, call [API.Generate] with
// [app.App.Endpoints] and encode the result.
package openapi
