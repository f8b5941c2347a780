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

package config_test

import (
	"context"
	"fmt"
	"time"

	"rivaas.dev/keel/config"
	"rivaas.dev/keel/config/codec"
)

func Example() {
	type server struct {
		MaxBodyBytes    int64         `config:"max_body_bytes" default:"1048576"`
		ShutdownTimeout time.Duration `config:"shutdown_timeout" default:"10s"`
	}
	var settings struct {
		Server server `config:"server"`
	}

	cfg := config.MustNew(
		config.WithContent([]byte("server:\n  shutdown_timeout: 3s\n"), codec.TypeYAML),
		config.WithBinding(&settings),
	)
	cfg.MustLoad(context.Background())

	fmt.Println(settings.Server.MaxBodyBytes, settings.Server.ShutdownTimeout)
	fmt.Println(cfg.StringOr("errors.format", "simple"))
	// Output:
	// 1048576 3s
	// simple
}
