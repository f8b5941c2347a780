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

package app_test

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"rivaas.dev/keel/app"
	"rivaas.dev/keel/logging"
	"rivaas.dev/keel/metrics"
	"rivaas.dev/keel/schema"
	"rivaas.dev/keel/telemetry/semconv"
)

// server runs a on a loopback listener until the test ends.
type server struct {
	base   string
	cancel context.CancelFunc
	done   chan error
}

func start(a *app.App) *server {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())

	ctx, cancel := context.WithCancel(context.Background())
	s := &server{base: "http://" + ln.Addr().String(), cancel: cancel, done: make(chan error, 1)}
	go func() { s.done <- a.Serve(ctx, ln) }()

	return s
}

func (s *server) stop() error {
	s.cancel()
	select {
	case err := <-s.done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("server did not stop")
	}
}

func get(url string, header ...string) (*http.Response, string) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	Expect(err).NotTo(HaveOccurred())
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	resp, err := http.DefaultClient.Do(req)
	Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())

	return resp, string(body)
}

var _ = Describe("App Integration", func() {
	var (
		spans  *tracetest.SpanRecorder
		reader *sdkmetric.ManualReader
		logs   *logging.Logger
		a      *app.App
		srv    *server
	)

	BeforeEach(func() {
		spans = tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
		reader = sdkmetric.NewManualReader()
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		DeferCleanup(func(ctx context.Context) {
			Expect(tp.Shutdown(ctx)).To(Succeed())
			Expect(mp.Shutdown(ctx)).To(Succeed())
		})

		var err error
		logs, err = logging.New(logging.WithLevel(logging.LevelDebug), logging.WithOutput(io.Discard))
		Expect(err).NotTo(HaveOccurred())

		a = app.MustNew(
			app.WithServiceName("orders"),
			app.WithLogger(logs.Logger()),
			app.WithTracerProvider(tp),
			app.WithMeterProvider(mp),
		)
		a.GET("/orders/:id", func(c *app.Context) (any, error) {
			return map[string]any{"id": c.Params["id"]}, nil
		}, app.WithSchema(app.Schema{
			Params: schema.Object(schema.Prop("id", schema.Integer())),
		}))
		a.GET("/health", func(*app.Context) (any, error) { return "ok", nil })
	})

	AfterEach(func() {
		if srv != nil {
			Expect(srv.stop()).To(Succeed())
			srv = nil
		}
	})

	Describe("Serving", func() {
		It("answers over a real listener", func() {
			srv = start(a)

			Eventually(func() error {
				_, err := http.Get(srv.base + "/health")
				return err
			}).Should(Succeed())

			resp, body := get(srv.base + "/orders/7")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(Equal(app.MediaTypeJSON))
			Expect(body).To(MatchJSON(`{"id":7}`))
		})

		DescribeTable("routes requests",
			func(path string, status int, contains string) {
				srv = start(a)
				Eventually(func() error {
					_, err := http.Get(srv.base + "/health")
					return err
				}).Should(Succeed())

				resp, body := get(srv.base + path)
				Expect(resp.StatusCode).To(Equal(status))
				Expect(body).To(ContainSubstring(contains))
			},
			Entry("matched", "/health", http.StatusOK, "ok"),
			Entry("coercion failure", "/orders/abc", http.StatusBadRequest, "Expected an integer"),
			Entry("unknown path", "/missing", http.StatusNotFound, "not_found"),
		)

		It("handles concurrent requests", func() {
			srv = start(a)
			Eventually(func() error {
				_, err := http.Get(srv.base + "/health")
				return err
			}).Should(Succeed())

			var wg sync.WaitGroup
			for i := range 20 {
				wg.Go(func() {
					defer GinkgoRecover()
					resp, body := get(fmt.Sprintf("%s/orders/%d", srv.base, i+1))
					Expect(resp.StatusCode).To(Equal(http.StatusOK))
					Expect(body).To(MatchJSON(fmt.Sprintf(`{"id":%d}`, i+1)))
				})
			}
			wg.Wait()
		})
	})

	Describe("Lifecycle", func() {
		It("runs start hooks before serving and shutdown hooks in reverse", func() {
			var (
				mu    sync.Mutex
				order []string
			)
			note := func(s string) {
				mu.Lock()
				defer mu.Unlock()
				order = append(order, s)
			}
			a.OnStart(func(context.Context) error { note("start"); return nil })
			a.OnShutdown(func(context.Context) { note("shutdown-1") })
			a.OnShutdown(func(context.Context) { note("shutdown-2") })

			srv = start(a)
			Eventually(func() error {
				_, err := http.Get(srv.base + "/health")
				return err
			}).Should(Succeed())
			Expect(srv.stop()).To(Succeed())
			srv = nil

			Expect(order).To(Equal([]string{"start", "shutdown-2", "shutdown-1"}))
		})

		It("refuses to start when a start hook fails", func() {
			a.OnStart(func(context.Context) error { return fmt.Errorf("migrations pending") })

			ln, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())

			err = a.Serve(context.Background(), ln)
			Expect(err).To(MatchError(ContainSubstring("migrations pending")))
		})

		It("rejects registration once serving", func() {
			srv = start(a)
			Eventually(func() error {
				_, err := http.Get(srv.base + "/health")
				return err
			}).Should(Succeed())

			Expect(func() {
				a.GET("/late", func(*app.Context) (any, error) { return nil, nil })
			}).To(PanicWith(MatchError(app.ErrFrozen)))
		})
	})

	Describe("Observability", func() {
		It("records spans named after the route", func() {
			srv = start(a)
			Eventually(func() error {
				_, err := http.Get(srv.base + "/health")
				return err
			}).Should(Succeed())

			resp, _ := get(srv.base + "/orders/9")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			Eventually(func() []string {
				var names []string
				for _, s := range spans.Ended() {
					names = append(names, s.Name())
				}
				return names
			}).Should(ContainElement("GET /orders/:id"))
		})

		It("records validation failures as span events and metrics", func() {
			srv = start(a)
			Eventually(func() error {
				_, err := http.Get(srv.base + "/health")
				return err
			}).Should(Succeed())

			resp, _ := get(srv.base + "/orders/nine")
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

			Eventually(func() bool {
				for _, s := range spans.Ended() {
					for _, ev := range s.Events() {
						if strings.Contains(ev.Name, "validation") {
							return true
						}
					}
				}
				return false
			}).Should(BeTrue())

			t := GinkgoTB()
			Expect(metrics.TestingSum(t, reader, semconv.MetricValidationFailures)).To(BeNumerically("==", 1))
			Eventually(func() int64 {
				return metrics.TestingSum(t, reader, semconv.MetricRequests)
			}).Should(BeNumerically(">=", 2))
			Eventually(func() uint64 {
				return metrics.TestingHistogramCount(t, reader, semconv.MetricDuration)
			}).Should(BeNumerically(">=", 2))
		})
	})
})

//nolint:paralleltest // Ginkgo test suite manages its own parallelization
func TestAppIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	RegisterFailHandler(Fail)
	RunSpecs(t, "App Integration Suite")
}
