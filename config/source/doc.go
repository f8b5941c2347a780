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

// Package source implements configuration sources for the config package.
//
// [File] reads a document from disk or memory through a [codec.Decoder], and
// [Env] reads prefixed environment variables:
//
//	dec, _ := codec.GetDecoder(codec.TypeYAML)
//	file := source.NewFile("keel.yaml", dec)
//	env := source.NewEnv("KEEL_")
package source
