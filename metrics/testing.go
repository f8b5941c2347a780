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
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// TestingRecorder creates a Recorder backed by a manual reader.
// The provider is shut down when the test ends.
//
// Example:
//
//	recorder, reader := metrics.TestingRecorder(t)
//	// ... serve requests
//	n := metrics.TestingSum(t, reader, semconv.MetricRequests)
func TestingRecorder(t testing.TB, opts ...Option) (*Recorder, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			t.Logf("TestingRecorder: shutdown warning: %v", err)
		}
	})

	r, err := New(append([]Option{WithMeterProvider(provider)}, opts...)...)
	if err != nil {
		t.Fatalf("TestingRecorder: %v", err)
	}

	return r, reader
}

// TestingCollect returns the data points of the named instrument, or nil.
func TestingCollect(t testing.TB, reader sdkmetric.Reader, name string) *metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("TestingCollect: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}

	return nil
}

// TestingSum returns the total of the named Int64 counter across all
// attribute sets, or 0 when nothing was recorded.
func TestingSum(t testing.TB, reader sdkmetric.Reader, name string) int64 {
	t.Helper()

	m := TestingCollect(t, reader, name)
	if m == nil {
		return 0
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("TestingSum: %s is %T, not an int64 sum", name, m.Data)
	}

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

// TestingHistogramCount returns how many values the named histogram recorded.
func TestingHistogramCount(t testing.TB, reader sdkmetric.Reader, name string) uint64 {
	t.Helper()

	m := TestingCollect(t, reader, name)
	if m == nil {
		return 0
	}
	hist, ok := m.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("TestingHistogramCount: %s is %T, not a float64 histogram", name, m.Data)
	}

	var total uint64
	for _, dp := range hist.DataPoints {
		total += dp.Count
	}

	return total
}
