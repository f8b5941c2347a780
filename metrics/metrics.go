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
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"rivaas.dev/keel/telemetry/semconv"
)

// InstrumentationName is the meter name reported to the provider.
const InstrumentationName = "rivaas.dev/keel"

// RouteUnmatched is the route attribute for requests that matched no route.
const RouteUnmatched = "_unmatched"

// DefaultDurationBuckets are the request duration histogram boundaries in seconds.
var DefaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// ErrNilProvider is returned when a nil MeterProvider is configured.
var ErrNilProvider = errors.New("meter provider cannot be nil")

// Recorder records request pipeline metrics.
type Recorder struct {
	provider       metric.MeterProvider
	customProvider bool
	buckets        []float64
	serviceName    string
	err            error

	exporter    Exporter
	endpoint    string
	writer      io.Writer
	interval    time.Duration
	sdkProvider *sdkmetric.MeterProvider
	handler     http.Handler

	requests           metric.Int64Counter
	validationFailures metric.Int64Counter
	duration           metric.Float64Histogram
}

// New creates a Recorder. Without [WithMeterProvider] or a built-in
// exporter ([WithPrometheus], [WithOTLP], [WithStdout]) the global provider
// is used, so recording is a no-op until the application installs one.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		provider: otel.GetMeterProvider(),
		buckets:  DefaultDurationBuckets,
		interval: DefaultExportInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.err != nil {
		return nil, r.err
	}

	if err := r.initializeProvider(context.Background()); err != nil {
		return nil, err
	}
	if err := r.initializeMetrics(); err != nil {
		return nil, errors.Join(err, r.Shutdown(context.Background()))
	}

	return r, nil
}

// MustNew creates a Recorder or panics.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("metrics.MustNew: %v", err))
	}

	return r
}

func (r *Recorder) initializeMetrics() error {
	meter := r.provider.Meter(InstrumentationName)

	var err error
	r.requests, err = meter.Int64Counter(
		semconv.MetricRequests,
		metric.WithDescription("Number of handled requests"),
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", semconv.MetricRequests, err)
	}

	r.validationFailures, err = meter.Int64Counter(
		semconv.MetricValidationFailures,
		metric.WithDescription("Number of request sections rejected by validation"),
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", semconv.MetricValidationFailures, err)
	}

	r.duration, err = meter.Float64Histogram(
		semconv.MetricDuration,
		metric.WithDescription("Request handling time"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.buckets...),
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", semconv.MetricDuration, err)
	}

	return nil
}

func (r *Recorder) routeAttrs(method, route string) []attribute.KeyValue {
	if route == "" {
		route = RouteUnmatched
	}
	attrs := []attribute.KeyValue{
		semconv.HTTPMethodKey.String(method),
		semconv.HTTPRouteKey.String(route),
	}
	if r.serviceName != "" {
		attrs = append(attrs, attribute.String(semconv.ServiceName, r.serviceName))
	}

	return attrs
}

// RecordRequest counts a finished request and records its duration.
// route is the matched pattern, or "" when nothing matched.
func (r *Recorder) RecordRequest(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	attrs := append(r.routeAttrs(method, route), semconv.HTTPStatusCodeKey.Int(status))
	set := metric.WithAttributes(attrs...)

	r.requests.Add(ctx, 1, set)
	r.duration.Record(ctx, elapsed.Seconds(), set)
}

// RecordValidationFailure counts one rejected request section.
func (r *Recorder) RecordValidationFailure(ctx context.Context, method, route, section string) {
	attrs := append(r.routeAttrs(method, route), semconv.SectionKey.String(section))
	r.validationFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
}
