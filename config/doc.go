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

// Package config loads layered configuration for keel applications.
//
// Sources are merged in the order they are added, later sources overriding
// earlier ones key by key. Keys are case-insensitive and addressed with dots.
//
//	cfg := config.MustNew(
//	    config.WithFile("keel.yaml"),
//	    config.WithEnv("KEEL_"),
//	)
//	if err := cfg.Load(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	limit := cfg.Int64Or("server.max_body_bytes", 1<<20)
//
// # Struct Binding
//
// [WithBinding] and [Config.Bind] decode values into a struct through
// mapstructure. Fields are matched by the `config` tag, and a `default` tag
// fills fields left at their zero value:
//
//	type Server struct {
//	    MaxBodyBytes    int64         `config:"max_body_bytes" default:"1048576"`
//	    ShutdownTimeout time.Duration `config:"shutdown_timeout" default:"10s"`
//	}
//
// # Validation
//
// [WithJSONSchema] checks the merged values against a JSON Schema document,
// [WithValidator] runs arbitrary checks, and binding targets implementing
// [Validator] validate themselves. A failed Load leaves the previous values
// and binding untouched.
package config
