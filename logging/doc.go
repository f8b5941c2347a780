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

// Package logging provides the structured service logger built on log/slog.
//
// A [Logger] wraps a JSON or text slog handler, stamps every entry with the
// service name, version and environment, and redacts credential-like
// attributes (password, token, authorization, cookie, ...):
//
//	logger := logging.MustNew(
//	    logging.WithServiceName("orders"),
//	    logging.WithServiceVersion("1.4.0"),
//	    logging.WithTextHandler(),
//	)
//	logger.Info("listening", "addr", ":8080")
//
// The level can change at runtime with [Logger.SetLevel]. Configuration
// strings are parsed with [ParseLevel] and [ParseHandlerType].
//
// Request-scoped loggers carry the active trace and span IDs:
//
//	log := logging.WithTrace(ctx, logger.Logger())
//
// # Testing
//
// [NewTestHelper] captures JSON output for assertions:
//
//	th := logging.NewTestHelper(t)
//	th.Logger.Warn("route replaced", "http.route", "/users/:id")
//	th.AssertLog(t, "WARN", "route replaced", map[string]any{"http.route": "/users/:id"})
package logging
