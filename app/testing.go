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
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// TestOption configures test execution behavior.
type TestOption func(*testConfig)

type testConfig struct {
	timeout time.Duration
	ctx     context.Context //nolint:containedctx // Intentional: test configuration struct
}

// WithTimeout sets the test request timeout.
// Use -1 for no timeout.
//
// Example:
//
//	resp, err := a.Test(req, app.WithTimeout(5*time.Second))
func WithTimeout(d time.Duration) TestOption {
	return func(cfg *testConfig) {
		cfg.timeout = d
	}
}

// WithContext uses the provided context for the test request.
// Useful for testing context propagation and cancellation.
func WithContext(ctx context.Context) TestOption {
	return func(cfg *testConfig) {
		cfg.ctx = ctx
	}
}

// Test executes an HTTP request against the app without starting a server.
//
// The request runs in a goroutine with a timeout (1s by default). If the
// timeout fires, Test returns an error immediately while the handler may
// keep running until it completes.
//
// Example:
//
//	req := httptest.NewRequest("GET", "/users/123", nil)
//	resp, err := a.Test(req)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	assert.Equal(t, 200, resp.StatusCode)
func (a *App) Test(req *http.Request, opts ...TestOption) (*http.Response, error) {
	cfg := &testConfig{
		timeout: 1 * time.Second,
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx := cfg.ctx
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	req = req.WithContext(ctx)
	recorder := httptest.NewRecorder()

	done := make(chan any, 1)
	go func() {
		defer func() { done <- recover() }()
		a.ServeHTTP(recorder, req)
	}()

	select {
	case rec := <-done:
		if rec != nil {
			return nil, fmt.Errorf("handler panicked: %v", rec)
		}

		return recorder.Result(), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("request timeout: %w", ctx.Err())
	}
}

// TestJSON sends body encoded as JSON.
//
// Example:
//
//	resp, err := a.TestJSON("POST", "/users", map[string]string{"name": "Alice"})
func (a *App) TestJSON(method, path string, body any, opts ...TestOption) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("failed to encode JSON body: %w", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	return a.Test(req, opts...)
}

// ExpectJSON checks the status code and JSON content type of resp and
// decodes its body into out.
//
// Example:
//
//	var user User
//	app.ExpectJSON(t, resp, 200, &user)
func ExpectJSON(t testingT, resp *http.Response, statusCode int, out any) {
	if resp.StatusCode != statusCode {
		t.Errorf("expected status %d, got %d", statusCode, resp.StatusCode)
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") && !strings.HasSuffix(contentType, "+json") {
		t.Errorf("expected a JSON Content-Type, got %s", contentType)
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Errorf("failed to read response body: %v", err)
		return
	}

	if unmarshalErr := json.Unmarshal(body, out); unmarshalErr != nil {
		t.Errorf("failed to decode JSON: %v\nBody: %s", unmarshalErr, string(body))
	}
}

// testingT is a minimal interface for testing.T to allow use with other test frameworks.
type testingT interface {
	Errorf(format string, args ...any)
}
