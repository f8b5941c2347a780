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

// Package schema provides immutable descriptors for request and response data.
//
// A descriptor is built once, usually at route registration, and then
// shared by every request that hits the route:
//
//	user := schema.Object(
//		schema.Prop("id", schema.Integer(schema.Min(1))),
//		schema.Prop("email", schema.String(schema.Format("email"))),
//		schema.Prop("nickname", schema.Optional(schema.String(schema.MaxLength(32)))),
//	)
//
// # Kinds
//
// The set of kinds is closed ([Kinds] lists them). Consumers such as the
// validation package switch over every [Kind] and panic on anything else.
//
// # Modifiers
//
// [Optional], [Nullable], [Nullish] and [Stream] never mutate their argument.
// They return a copy, so a base descriptor can be reused under different
// modifiers:
//
//	id := schema.Integer(schema.Min(1))
//	maybeID := schema.Optional(id) // id is unchanged
//
// # Export
//
// [Schema.JSONSchema] renders a descriptor as a draft 2020-12 JSON Schema
// document. Descriptors carrying an [ID] become "$defs" entries.
package schema
