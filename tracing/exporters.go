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
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"rivaas.dev/keel/telemetry/semconv"
)

// Exporter names a built-in span backend.
type Exporter string

const (
	// ExporterNone traces through the configured or global provider.
	ExporterNone Exporter = ""

	// ExporterOTLP sends spans to an OTLP/gRPC collector.
	ExporterOTLP Exporter = "otlp"

	// ExporterOTLPHTTP sends spans to an OTLP/HTTP collector.
	ExporterOTLPHTTP Exporter = "otlp-http"

	// ExporterStdout writes JSON encoded spans to a writer.
	ExporterStdout Exporter = "stdout"
)

// ErrProviderConflict is returned when a built-in exporter is combined with
// [WithTracerProvider], or when two exporters are configured.
var ErrProviderConflict = errors.New("tracing: only one provider or exporter may be configured")

// ParseExporter converts a config value into an [Exporter].
func ParseExporter(s string) (Exporter, error) {
	switch e := Exporter(strings.ToLower(strings.TrimSpace(s))); e {
	case ExporterNone, ExporterOTLP, ExporterOTLPHTTP, ExporterStdout:
		return e, nil
	}

	return "", fmt.Errorf("tracing: unknown exporter %q", s)
}

func (t *Tracer) setExporter(e Exporter) {
	if t.customProvider || (t.exporter != ExporterNone && t.exporter != e) {
		t.err = ErrProviderConflict
		return
	}
	t.exporter = e
}

// initializeProvider builds a batching SDK provider for the configured
// exporter. The Tracer owns it and releases it in [Tracer.Shutdown].
func (t *Tracer) initializeProvider(ctx context.Context) error {
	var (
		exporter sdktrace.SpanExporter
		err      error
	)
	host, insecure := splitEndpoint(t.endpoint)

	switch t.exporter {
	case ExporterNone:
		return nil
	case ExporterOTLP:
		var opts []otlptracegrpc.Option
		if host != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(host))
		}
		if insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exporter, err = otlptracegrpc.New(ctx, opts...)
	case ExporterOTLPHTTP:
		var opts []otlptracehttp.Option
		if host != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(host))
		}
		if insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exporter, err = otlptracehttp.New(ctx, opts...)
	case ExporterStdout:
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(t.writer))
	default:
		return fmt.Errorf("tracing: unknown exporter %q", t.exporter)
	}
	if err != nil {
		return fmt.Errorf("create %s exporter: %w", t.exporter, err)
	}

	attrs := []attribute.KeyValue{attribute.String(semconv.ServiceName, t.serviceName)}
	if t.serviceVersion != "" {
		attrs = append(attrs, attribute.String(semconv.ServiceVersion, t.serviceVersion))
	}

	t.sdkProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attrs...)),
	)
	t.provider = t.sdkProvider

	return nil
}

// splitEndpoint strips the scheme and path from an endpoint URL.
// Only an http:// scheme disables TLS.
func splitEndpoint(endpoint string) (host string, insecure bool) {
	insecure = strings.HasPrefix(endpoint, "http://")
	host = strings.TrimPrefix(strings.TrimPrefix(endpoint, "http://"), "https://")
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}

	return host, insecure
}

// Exporter reports the built-in exporter in use.
func (t *Tracer) Exporter() Exporter { return t.exporter }

// Shutdown flushes pending spans and stops a provider created by a built-in
// exporter. Providers passed with [WithTracerProvider] are left to the caller.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.sdkProvider == nil {
		return nil
	}
	if err := t.sdkProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("tracing shutdown: %w", err)
	}

	return nil
}
