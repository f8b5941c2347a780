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
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/keel/telemetry/semconv"
)

// InstrumentationName is the tracer name reported to the provider.
const InstrumentationName = "rivaas.dev/keel"

// EventValidationFailed is the span event added per failing request section.
const EventValidationFailed = "validation.failed"

var (
	// ErrNilProvider is returned when a nil TracerProvider is configured.
	ErrNilProvider = errors.New("tracer provider cannot be nil")

	// ErrNilPropagator is returned when a nil propagator is configured.
	ErrNilPropagator = errors.New("propagator cannot be nil")
)

// Tracer creates one server span per request.
// The zero value is not usable; create one with [New].
type Tracer struct {
	provider       trace.TracerProvider
	customProvider bool
	propagator     propagation.TextMapPropagator
	tracer         trace.Tracer
	serviceName    string
	serviceVersion string
	err            error

	exporter    Exporter
	endpoint    string
	writer      io.Writer
	sdkProvider *sdktrace.TracerProvider
}

// New creates a Tracer. Without [WithTracerProvider] or a built-in exporter
// ([WithOTLP], [WithOTLPHTTP], [WithStdout]) the global provider is used,
// so tracing is a no-op until the application installs one.
func New(opts ...Option) (*Tracer, error) {
	t := &Tracer{
		provider:   otel.GetTracerProvider(),
		propagator: propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.err != nil {
		return nil, t.err
	}
	if err := t.initializeProvider(context.Background()); err != nil {
		return nil, err
	}

	t.tracer = t.provider.Tracer(InstrumentationName, trace.WithInstrumentationVersion(t.serviceVersion))

	return t, nil
}

// MustNew creates a Tracer or panics.
func MustNew(opts ...Option) *Tracer {
	t, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("tracing.MustNew: %v", err))
	}

	return t
}

// StartRequest extracts the remote span context from r's headers and starts
// a server span named after the method. The name is refined by [SetRoute]
// once the route is known.
func (t *Tracer) StartRequest(ctx context.Context, r *http.Request) (context.Context, trace.Span) {
	ctx = t.propagator.Extract(ctx, propagation.HeaderCarrier(r.Header))

	attrs := []attribute.KeyValue{
		semconv.HTTPMethodKey.String(r.Method),
		semconv.HTTPTargetKey.String(r.URL.Path),
	}
	if t.serviceName != "" {
		attrs = append(attrs, attribute.String(semconv.ServiceName, t.serviceName))
	}

	return t.tracer.Start(ctx, r.Method,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
	)
}

// SetRoute names span after the matched route pattern.
func (t *Tracer) SetRoute(span trace.Span, method, pattern string) {
	if !span.IsRecording() {
		return
	}
	span.SetName(method + " " + pattern)
	span.SetAttributes(semconv.HTTPRouteKey.String(pattern))
}

// RecordValidationFailure adds an event naming the failing section and the
// number of messages reported for it.
func (t *Tracer) RecordValidationFailure(span trace.Span, section string, messages int) {
	if !span.IsRecording() {
		return
	}
	span.AddEvent(EventValidationFailed, trace.WithAttributes(
		semconv.SectionKey.String(section),
		attribute.Int("keel.validation.messages", messages),
	))
}

// FinishRequest records the response status and ends span.
// Server errors mark the span as failed; err, when set, is recorded on it.
func (t *Tracer) FinishRequest(span trace.Span, status int, err error) {
	if span.IsRecording() {
		span.SetAttributes(semconv.HTTPStatusCodeKey.Int(status))
		if err != nil {
			span.RecordError(err)
		}
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
	span.End()
}
