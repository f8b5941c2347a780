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

package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"rivaas.dev/keel/binding"
	"rivaas.dev/keel/metrics"
	"rivaas.dev/keel/tracing"
	"rivaas.dev/keel/validation"
)

// finish ends the request span and records request metrics.
func (a *App) finish(ex *exchange) {
	status := ex.status
	if status == 0 {
		status = 200
	}

	a.tracer.FinishRequest(ex.span, status, ex.err)
	a.metrics.RecordRequest(ex.r.Context(), ex.r.Method, ex.pattern, status, time.Since(ex.start))
}

// recordValidationFailure reports a rejected section on the span and the
// validation failure counter.
func (a *App) recordValidationFailure(ex *exchange, section binding.Section, issue validation.Issue) {
	name := section.String()
	a.tracer.RecordValidationFailure(ex.span, name, len(validation.Flatten(issue)))
	a.metrics.RecordValidationFailure(ex.r.Context(), ex.r.Method, ex.pattern, name)
}

func metricsExporter(s MetricsSettings) metrics.Option {
	switch e, _ := metrics.ParseExporter(s.Exporter); e {
	case metrics.ExporterPrometheus:
		return metrics.WithPrometheus()
	case metrics.ExporterOTLP:
		return metrics.WithOTLP(s.Endpoint)
	case metrics.ExporterStdout:
		return metrics.WithStdout(nil)
	}

	return nil
}

func tracingExporter(s TracingSettings) tracing.Option {
	switch e, _ := tracing.ParseExporter(s.Exporter); e {
	case tracing.ExporterOTLP:
		return tracing.WithOTLP(s.Endpoint)
	case tracing.ExporterOTLPHTTP:
		return tracing.WithOTLPHTTP(s.Endpoint)
	case tracing.ExporterStdout:
		return tracing.WithStdout(nil)
	}

	return nil
}

// scrapeHandler serves a Prometheus registry as a regular route, so the
// scrape goes through hooks, plugins and request metrics like any other.
func scrapeHandler(h http.Handler) Handler {
	return func(c *Context) (any, error) {
		w := &bufferedWriter{header: http.Header{}}
		h.ServeHTTP(w, c.Request)
		if w.status == 0 {
			w.status = http.StatusOK
		}

		return &Response{Status: w.status, Header: w.header, Body: w.body.Bytes()}, nil
	}
}

type bufferedWriter struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func (w *bufferedWriter) Header() http.Header { return w.header }

func (w *bufferedWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	return w.body.Write(p)
}

func (w *bufferedWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
}

// ShutdownTelemetry flushes and stops the exporters created from
// metrics.exporter and tracing.exporter. [App.Serve] calls it after the
// server drains; applications serving the App themselves call it on exit.
// Providers passed with [WithMeterProvider] or [WithTracerProvider] are
// left to the caller.
func (a *App) ShutdownTelemetry(ctx context.Context) error {
	return errors.Join(a.metrics.Shutdown(ctx), a.tracer.Shutdown(ctx))
}
