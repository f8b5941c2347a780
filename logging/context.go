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

package logging

import (
	"context"
	"log/slog"
	"runtime/debug"

	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/keel/telemetry/semconv"
)

// WithTrace returns logger annotated with the trace and span IDs of the
// span active in ctx. Without a valid span, logger is returned unchanged.
//
// Example:
//
//	log := logging.WithTrace(r.Context(), base)
//	log.Info("order created")
func WithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return logger
	}

	return logger.With(
		semconv.TraceID, sc.TraceID().String(),
		semconv.SpanID, sc.SpanID().String(),
	)
}

// Panic logs a recovered panic value at error level with the current
// goroutine stack.
func Panic(ctx context.Context, logger *slog.Logger, recovered any, args ...any) {
	args = append(args, "panic", recovered, semconv.Stack, string(debug.Stack()))
	logger.ErrorContext(ctx, "panic recovered", args...)
}
