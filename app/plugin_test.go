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
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tracePlugin records every hook it sees and can short-circuit at one stage.
type tracePlugin struct {
	name    string
	stopAt  string
	initErr error

	mu    sync.Mutex
	calls *[]string
	inits int
}

func (p *tracePlugin) Name() string { return p.name }

func (p *tracePlugin) record(stage string) *Response {
	p.mu.Lock()
	defer p.mu.Unlock()
	*p.calls = append(*p.calls, p.name+":"+stage)
	if p.stopAt == stage {
		return &Response{Status: http.StatusTeapot, Body: p.name + " stopped at " + stage}
	}

	return nil
}

func (p *tracePlugin) Init(context.Context, Settings) error {
	p.mu.Lock()
	p.inits++
	p.mu.Unlock()

	return p.initErr
}

func (p *tracePlugin) OnFetch(*http.Request) (*Response, error) {
	return p.record("fetch"), nil
}

func (p *tracePlugin) OnRoute(*http.Request, *Route) (*Response, error) {
	return p.record("route"), nil
}

func (p *tracePlugin) BeforeHandle(*Context) (*Response, error) {
	return p.record("before"), nil
}

func (p *tracePlugin) AfterHandle(*Context, *Response) (*Response, error) {
	return p.record("after"), nil
}

func TestPlugins_Order(t *testing.T) {
	t.Parallel()

	var calls []string
	first := &tracePlugin{name: "first", calls: &calls}
	second := &tracePlugin{name: "second", calls: &calls}
	a, _ := newTestApp(t, WithPlugins(first, second))
	a.GET("/x", func(*Context) (any, error) {
		calls = append(calls, "handler")
		return "x", nil
	})

	for range 2 {
		resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, 1, first.inits, "init runs once")
	assert.Equal(t, []string{
		"first:fetch", "second:fetch",
		"first:route", "second:route",
		"first:before", "second:before",
		"handler",
		"first:after", "second:after",
	}, calls[:9])
}

func TestPlugins_ShortCircuit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		stage string
		calls []string
	}{
		{"fetch", []string{"first:fetch"}},
		{"route", []string{"first:fetch", "second:fetch", "first:route"}},
		{"before", []string{"first:fetch", "second:fetch", "first:route", "second:route", "first:before"}},
		{"after", []string{
			"first:fetch", "second:fetch", "first:route", "second:route",
			"first:before", "second:before", "handler", "first:after",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.stage, func(t *testing.T) {
			t.Parallel()

			var calls []string
			first := &tracePlugin{name: "first", stopAt: tt.stage, calls: &calls}
			second := &tracePlugin{name: "second", calls: &calls}
			a, _ := newTestApp(t, WithPlugins(first, second))
			a.GET("/x", func(*Context) (any, error) {
				calls = append(calls, "handler")
				return "x", nil
			})

			resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusTeapot, resp.StatusCode)
			assert.Equal(t, "first stopped at "+tt.stage, readBody(t, resp))
			assert.Equal(t, tt.calls, calls)
		})
	}
}

func TestPlugins_FetchRunsOnUnmatchedRoutes(t *testing.T) {
	t.Parallel()

	var calls []string
	p := &tracePlugin{name: "p", calls: &calls}
	a, _ := newTestApp(t, WithPlugins(p))

	resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, []string{"p:fetch"}, calls)
}

func TestPlugins_InitFailure(t *testing.T) {
	t.Parallel()

	var calls []string
	p := &tracePlugin{name: "db", initErr: errors.New("connection refused"), calls: &calls}
	a, th := newTestApp(t, WithPlugins(p))
	a.GET("/x", ok("x"))

	err := a.Init(t.Context())
	require.Error(t, err)
	assert.ErrorContains(t, err, "plugin db: init")
	th.AssertLog(t, "ERROR", "plugin init failed", map[string]any{"keel.plugin": "db"})

	resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, readBody(t, resp), "connection refused")
	assert.Empty(t, calls)
}

func TestPlugins_NilPlugin(t *testing.T) {
	t.Parallel()

	_, err := New(WithPlugins(nil))
	require.ErrorIs(t, err, ErrNilPlugin)
}
