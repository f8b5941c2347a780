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

package tracing

import (
	"io"
	"os"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a [Tracer].
type Option func(*Tracer)

// WithTracerProvider uses provider instead of the global one.
// The caller owns the provider and shuts it down.
//
// Example:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	tracer, err := tracing.New(tracing.WithTracerProvider(tp))
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(t *Tracer) {
		if provider == nil {
			t.err = ErrNilProvider
			return
		}
		if t.exporter != ExporterNone {
			t.err = ErrProviderConflict
			return
		}
		t.provider = provider
		t.customProvider = true
	}
}

// WithOTLP sends spans over gRPC to the collector at endpoint. An http://
// endpoint disables TLS; an empty endpoint uses the OTEL_EXPORTER_OTLP_*
// environment.
//
// Example:
//
//	tracer, err := tracing.New(
//	    tracing.WithServiceName("orders"),
//	    tracing.WithOTLP("http://collector:4317"),
//	)
//	defer tracer.Shutdown(context.Background())
func WithOTLP(endpoint string) Option {
	return func(t *Tracer) {
		t.setExporter(ExporterOTLP)
		t.endpoint = endpoint
	}
}

// WithOTLPHTTP sends spans over HTTP to the collector at endpoint.
func WithOTLPHTTP(endpoint string) Option {
	return func(t *Tracer) {
		t.setExporter(ExporterOTLPHTTP)
		t.endpoint = endpoint
	}
}

// WithStdout writes spans to w, or to standard output when w is nil.
func WithStdout(w io.Writer) Option {
	return func(t *Tracer) {
		t.setExporter(ExporterStdout)
		if w == nil {
			w = os.Stdout
		}
		t.writer = w
	}
}

// WithPropagator replaces the default W3C trace context and baggage propagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(t *Tracer) {
		if p == nil {
			t.err = ErrNilPropagator
			return
		}
		t.propagator = p
	}
}

// WithServiceName adds the service name to every request span.
func WithServiceName(name string) Option {
	return func(t *Tracer) { t.serviceName = name }
}

// WithServiceVersion sets the instrumentation version.
func WithServiceVersion(version string) Option {
	return func(t *Tracer) { t.serviceVersion = version }
}
