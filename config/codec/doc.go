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

// Package codec converts configuration documents to and from Go values.
//
// Codecs register themselves by [Type] from init, and sources look them up
// with [GetDecoder]. Built-in types are [TypeJSON], [TypeYAML], [TypeTOML]
// and [TypeEnv].
//
// Registering a custom codec:
//
//	codec.RegisterDecoder("ini", iniCodec{})
package codec
