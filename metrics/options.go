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

package metrics

import (
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Option configures a [Recorder].
type Option func(*Recorder)

// WithMeterProvider uses provider instead of the global one.
// The caller owns the provider and shuts it down.
//
// Example:
//
//	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
//	recorder, err := metrics.New(metrics.WithMeterProvider(mp))
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Recorder) {
		if provider == nil {
			r.err = ErrNilProvider
			return
		}
		if r.exporter != ExporterNone {
			r.err = ErrProviderConflict
			return
		}
		r.provider = provider
		r.customProvider = true
	}
}

// WithPrometheus exports to a private Prometheus registry served by
// [Recorder.Handler].
//
// Example:
//
//	recorder := metrics.MustNew(metrics.WithPrometheus())
//	http.Handle("/metrics", recorder.Handler())
func WithPrometheus() Option {
	return func(r *Recorder) { r.setExporter(ExporterPrometheus) }
}

// WithOTLP pushes to the OTLP/HTTP collector at endpoint every export
// interval. An http:// endpoint disables TLS; an empty endpoint uses the
// OTEL_EXPORTER_OTLP_* environment.
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.setExporter(ExporterOTLP)
		r.endpoint = endpoint
	}
}

// WithStdout writes each export to w, or to standard output when w is nil.
func WithStdout(w io.Writer) Option {
	return func(r *Recorder) {
		r.setExporter(ExporterStdout)
		if w == nil {
			w = os.Stdout
		}
		r.writer = w
	}
}

// WithExportInterval sets the push interval of the OTLP and stdout
// exporters. Non-positive values keep [DefaultExportInterval].
func WithExportInterval(d time.Duration) Option {
	return func(r *Recorder) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithServiceName adds the service name to every data point.
func WithServiceName(name string) Option {
	return func(r *Recorder) { r.serviceName = name }
}

// WithDurationBuckets replaces [DefaultDurationBuckets].
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.buckets = buckets
		}
	}
}
