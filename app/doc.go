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

// Package app is the keel request pipeline: typed routes, schema-validated
// request sections, hooks, plugins and response encoding.
//
// # Routes
//
// A route binds a method and a path template to a [Handler], optionally
// with a [Schema] and route hooks:
//
//	a := app.MustNew()
//	a.GET("/health", func(*app.Context) (any, error) { return "ok", nil })
//	a.POST("/orders/:id/items", addItem,
//	    app.WithSchema(app.Schema{
//	        Params: schema.Object(schema.Prop("id", schema.Integer())),
//	        Body:   itemSchema,
//	    }),
//	    app.WithHooks(requireAuth),
//	)
//
// # Validation
//
// Headers, params and query arrive as strings and are coerced ("42" becomes
// 42 for an integer schema). The body is validated as decoded. Failures of
// all sections are collected and answered together with a 400:
//
//	{"query": {"limit": "Expected a number, got \"ten\""}, "body": {"name": "Required"}}
//
// A stream-marked body schema (schema.Stream) skips materialization: the
// handler receives a *stream.Stream and pulls items at its own pace.
//
// # Hooks
//
// Hooks wrap the handler like an onion. For hooks registered as A then B,
// work runs as A-before, B-before, handler, B-after, A-after. A hook ends
// the request early by returning [Terminate] without calling next.
//
// # Errors
//
// Return an *errors.RequestError to answer with a chosen status and
// payload. Any other error, and any panic, is logged and answered with an
// opaque 500 through the configured error formatter.
//
// # Plugins
//
// Plugins observe and short-circuit the pipeline at fixed points: see
// [Plugin], [FetchHook], [RouteHook], [BeforeHandleHook] and
// [AfterHandleHook].
package app
