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
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Exporter names a built-in metrics backend.
type Exporter string

const (
	// ExporterNone records through the configured or global provider.
	ExporterNone Exporter = ""

	// ExporterPrometheus exposes a scrape handler through [Recorder.Handler].
	ExporterPrometheus Exporter = "prometheus"

	// ExporterOTLP pushes to an OTLP/HTTP collector.
	ExporterOTLP Exporter = "otlp"

	// ExporterStdout writes JSON encoded batches to a writer.
	ExporterStdout Exporter = "stdout"
)

// DefaultExportInterval is the push interval of the OTLP and stdout exporters.
const DefaultExportInterval = 30 * time.Second

// ErrProviderConflict is returned when a built-in exporter is combined with
// [WithMeterProvider], or when two exporters are configured.
var ErrProviderConflict = errors.New("metrics: only one provider or exporter may be configured")

// ParseExporter converts a config value into an [Exporter].
func ParseExporter(s string) (Exporter, error) {
	switch e := Exporter(strings.ToLower(strings.TrimSpace(s))); e {
	case ExporterNone, ExporterPrometheus, ExporterOTLP, ExporterStdout:
		return e, nil
	}

	return "", fmt.Errorf("metrics: unknown exporter %q", s)
}

func (r *Recorder) setExporter(e Exporter) {
	if r.customProvider || (r.exporter != ExporterNone && r.exporter != e) {
		r.err = ErrProviderConflict
		return
	}
	r.exporter = e
}

// initializeProvider builds the SDK provider for the configured exporter.
// The Recorder owns it and releases it in [Recorder.Shutdown].
func (r *Recorder) initializeProvider(ctx context.Context) error {
	var reader sdkmetric.Reader
	switch r.exporter {
	case ExporterNone:
		return nil
	case ExporterPrometheus:
		reg := promclient.NewRegistry()
		exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
		if err != nil {
			return fmt.Errorf("create prometheus exporter: %w", err)
		}
		reader = exporter
		r.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	case ExporterOTLP:
		exporter, err := otlpmetrichttp.New(ctx, otlpHTTPOptions(r.endpoint)...)
		if err != nil {
			return fmt.Errorf("create otlp exporter: %w", err)
		}
		reader = sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.interval))
	case ExporterStdout:
		exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(r.writer))
		if err != nil {
			return fmt.Errorf("create stdout exporter: %w", err)
		}
		reader = sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.interval))
	default:
		return fmt.Errorf("metrics: unknown exporter %q", r.exporter)
	}

	r.sdkProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	r.provider = r.sdkProvider

	return nil
}

// otlpHTTPOptions splits an endpoint URL into host and transport security.
// A bare host:port is sent over TLS.
func otlpHTTPOptions(endpoint string) []otlpmetrichttp.Option {
	if endpoint == "" {
		return nil
	}
	insecure := strings.HasPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "http://"), "https://")
	if i := strings.IndexByte(endpoint, '/'); i >= 0 {
		endpoint = endpoint[:i]
	}

	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	return opts
}

// Exporter reports the built-in exporter in use.
func (r *Recorder) Exporter() Exporter { return r.exporter }

// Handler returns the Prometheus scrape handler, or nil when the Recorder
// does not export to Prometheus.
func (r *Recorder) Handler() http.Handler { return r.handler }

// Shutdown flushes and stops a provider created by a built-in exporter.
// Providers passed with [WithMeterProvider] are left to the caller.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.sdkProvider == nil {
		return nil
	}
	if err := r.sdkProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("metrics shutdown: %w", err)
	}

	return nil
}
