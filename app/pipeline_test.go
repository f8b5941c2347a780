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
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/keel/binding"
	keelerrors "rivaas.dev/keel/errors"
	"rivaas.dev/keel/schema"
	"rivaas.dev/keel/stream"
	"rivaas.dev/keel/validation"
)

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(data)
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &out))

	return out
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return req
}

var orderSchema = Schema{
	Headers: schema.Object(schema.Prop("x-tenant", schema.String(schema.MinLength(1)))),
	Params:  schema.Object(schema.Prop("id", schema.Integer(schema.Min(1)))),
	Query:   schema.Object(schema.Prop("limit", schema.Optional(schema.Integer(schema.Max(100))))),
	Body: schema.Object(
		schema.Prop("name", schema.String()),
		schema.Prop("qty", schema.Optional(schema.Number(schema.Min(1)))),
	),
}

func TestPipeline_CoercesSections(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)
	var got *Context
	a.POST("/orders/:id", func(c *Context) (any, error) {
		got = c
		return map[string]any{"ok": true}, nil
	}, WithSchema(orderSchema))

	req := jsonRequest(http.MethodPost, "/orders/42?limit=10&tag=a&tag=b", `{"name":"pen","qty":3}`)
	req.Header.Set("X-Tenant", "acme")
	resp, err := a.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, readBody(t, resp))

	assert.Equal(t, int64(42), got.Params["id"])
	assert.Equal(t, "42", got.Param("id"))
	assert.Equal(t, int64(10), got.Query["limit"])
	assert.Equal(t, []any{"a", "b"}, got.Query["tag"], "undeclared keys pass through")
	assert.Equal(t, "acme", got.Headers["x-tenant"])
	assert.Equal(t, map[string]any{"name": "pen", "qty": float64(3)}, got.Body)
	assert.Equal(t, "/orders/:id", got.Route().Path())
	assert.NotNil(t, got.Logger())
}

func TestPipeline_AggregatesSectionFailures(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)
	called := false
	a.POST("/orders/:id", func(*Context) (any, error) {
		called = true
		return nil, nil
	}, WithSchema(orderSchema))

	req := jsonRequest(http.MethodPost, "/orders/0?limit=ten", `{"qty":0}`)
	resp, err := a.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, called)

	body := decodeJSON(t, resp)
	assert.Equal(t, map[string]any{"x-tenant": "Required"}, body["headers"])
	assert.Equal(t, map[string]any{"limit": `Expected an integer, got "ten"`}, body["query"])
	assert.Equal(t, map[string]any{"id": "Must be greater than or equal to 1"}, body["params"])
	bodyIssues := body["body"].(map[string]any)
	assert.Equal(t, "Required", bodyIssues["name"])
	assert.Contains(t, bodyIssues, "qty")
}

func TestPipeline_NoSchemaPassesRawSections(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)
	var got *Context
	a.PUT("/files/*", func(c *Context) (any, error) {
		got = c
		return nil, nil
	})

	req := jsonRequest(http.MethodPut, "/files/a/b.txt?x=1", `[1,2]`)
	resp, err := a.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Equal(t, "a/b.txt", got.Wildcard())
	assert.Equal(t, map[string]any{"x": "1"}, got.Query)
	assert.Equal(t, []any{float64(1), float64(2)}, got.Body)
}

func TestPipeline_EmptyBodyIsUndefined(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)
	a.POST("/optional", func(c *Context) (any, error) {
		return validation.IsUndefined(c.Body), nil
	}, WithSchema(Schema{Body: schema.Optional(schema.Object())}))
	a.POST("/required", ok("unreachable"), WithSchema(Schema{Body: schema.Object()}))

	resp, err := a.Test(httptest.NewRequest(http.MethodPost, "/optional", nil))
	require.NoError(t, err)
	assert.Equal(t, "true", readBody(t, resp))

	resp, err = a.Test(httptest.NewRequest(http.MethodPost, "/required", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]any{"body": "Required"}, decodeJSON(t, resp))
}

func TestPipeline_NotFound(t *testing.T) {
	t.Parallel()

	a, th := newTestApp(t)
	a.GET("/users", ok("users"))

	resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))

	body := decodeJSON(t, resp)
	assert.Equal(t, "not_found", body["code"])
	assert.True(t, th.ContainsLog("route not found"))
}

func TestPipeline_WildcardDoesNotServeFailedDescent(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)
	a.GET("/files/*", ok("files"))
	a.GET("/files/:id/meta", ok("meta"))

	tests := []struct {
		path   string
		status int
	}{
		{"/files/a/b", http.StatusNotFound},
		{"/files/7/meta", http.StatusOK},
		{"/files/7/meta/x", http.StatusNotFound},
	}
	for _, tt := range tests {
		resp, err := a.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tt.status, resp.StatusCode, tt.path)
	}
}

func TestPipeline_RFC9457Errors(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t, WithErrorFormatter(keelerrors.NewRFC9457("https://example.com/problems")))

	resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
	assert.Equal(t, float64(404), decodeJSON(t, resp)["status"])
}

func TestPipeline_HeadFallsBackToGet(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)
	a.GET("/doc", ok("contents"))

	resp, err := a.Test(httptest.NewRequest(http.MethodHead, "/doc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, MediaTypeText, resp.Header.Get("Content-Type"))
}

func TestPipeline_RequestError(t *testing.T) {
	t.Parallel()

	a, th := newTestApp(t)
	a.POST("/users", func(*Context) (any, error) {
		return nil, keelerrors.NewRequestError(http.StatusConflict, map[string]any{"reason": "email taken"})
	})
	a.DELETE("/users", func(*Context) (any, error) {
		return nil, &keelerrors.RequestError{Status: http.StatusGone}
	})

	resp, err := a.Test(httptest.NewRequest(http.MethodPost, "/users", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, map[string]any{"reason": "email taken"}, decodeJSON(t, resp))

	resp, err = a.Test(httptest.NewRequest(http.MethodDelete, "/users", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusGone, resp.StatusCode)
	assert.Empty(t, readBody(t, resp))

	assert.Zero(t, th.CountLevel("ERROR"), "request errors are not logged as failures")
}

func TestPipeline_InternalErrorIsOpaque(t *testing.T) {
	t.Parallel()

	a, th := newTestApp(t)
	a.GET("/secret", func(*Context) (any, error) {
		return nil, errors.New("dial tcp 10.0.0.7:5432: password authentication failed")
	})

	resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/secret", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body := readBody(t, resp)
	assert.NotContains(t, body, "password")
	assert.Contains(t, body, http.StatusText(http.StatusInternalServerError))
	th.AssertLog(t, "ERROR", "request failed", map[string]any{"http.route": "/secret"})
}

func TestPipeline_PanicIsRecovered(t *testing.T) {
	t.Parallel()

	a, th := newTestApp(t)
	a.GET("/panic", func(*Context) (any, error) {
		var m map[string]int
		m["boom"]++

		return nil, nil
	})

	resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, readBody(t, resp), "nil map")

	entries, err := th.Logs()
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	found := false
	for _, e := range entries {
		if e.Message == "panic recovered" {
			found = true
			assert.Contains(t, e.Attrs["stack"], "goroutine")
		}
	}
	assert.True(t, found)
}

func TestPipeline_MalformedBody(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)
	a.POST("/x", ok("x"), WithSchema(Schema{Query: schema.Object(schema.Prop("n", schema.Integer()))}))

	t.Run("alone", func(t *testing.T) {
		resp, err := a.Test(jsonRequest(http.MethodPost, "/x?n=1", `{"broken`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "malformed_body", decodeJSON(t, resp)["code"])
	})

	t.Run("joins section failures", func(t *testing.T) {
		resp, err := a.Test(jsonRequest(http.MethodPost, "/x?n=oops", `{"broken`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeJSON(t, resp)
		assert.Equal(t, map[string]any{"n": `Expected an integer, got "oops"`}, body["query"])
		assert.NotEmpty(t, body["body"])
	})
}

func TestPipeline_BodyTooLarge(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t, WithSettings(Settings{Server: ServerSettings{MaxBodyBytes: 8}}))
	a.POST("/x", ok("x"))

	resp, err := a.Test(jsonRequest(http.MethodPost, "/x", `{"name":"far too long"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "body_too_large", decodeJSON(t, resp)["code"])
}

func TestPipeline_SetHeadersStatusAndRedirect(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)
	a.POST("/created", func(c *Context) (any, error) {
		c.Set.Status = http.StatusCreated
		c.Set.Header.Set("X-Request-Id", "abc")
		c.Set.Header.Set("X-Overridden", "set")

		return &Response{Header: http.Header{"X-Overridden": {"response"}}, Body: map[string]int{"id": 1}}, nil
	})
	a.GET("/old", func(c *Context) (any, error) {
		c.Set.Redirect = "/new"
		return nil, nil
	})
	a.GET("/moved", func(c *Context) (any, error) {
		c.Set.Redirect = "/new"
		c.Set.Status = http.StatusMovedPermanently

		return nil, nil
	})
	a.GET("/explicit", func(*Context) (any, error) {
		return Response{Status: http.StatusAccepted, Body: "queued"}, nil
	})

	resp, err := a.Test(httptest.NewRequest(http.MethodPost, "/created", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "abc", resp.Header.Get("X-Request-Id"))
	assert.Equal(t, "response", resp.Header.Get("X-Overridden"))
	assert.JSONEq(t, `{"id":1}`, readBody(t, resp))

	resp, err = a.Test(httptest.NewRequest(http.MethodGet, "/old", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/new", resp.Header.Get("Location"))

	resp, err = a.Test(httptest.NewRequest(http.MethodGet, "/moved", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)

	resp, err = a.Test(httptest.NewRequest(http.MethodGet, "/explicit", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "queued", readBody(t, resp))
}

func TestPipeline_HookOrder(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)
	rec := &recorder{}
	a.Use(rec.around("app"))
	a.GET("/x", func(*Context) (any, error) {
		rec.calls = append(rec.calls, "handler")
		return "x", nil
	}, WithHooks(rec.around("route")))

	resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"app-before", "route-before", "handler", "route-after", "app-after"}, rec.calls)
}

func TestPipeline_HookSeesValidatedContext(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)
	auth := func(c *Context, _ Next) (Result, error) {
		if c.Headers["authorization"] != "Bearer ok" {
			return Terminate(&Response{Status: http.StatusUnauthorized}), nil
		}
		c.State["user"] = "alice"

		return Continue(), nil
	}
	a.GET("/me", func(c *Context) (any, error) {
		user, _ := Get[string](c, "user")
		return user, nil
	}, WithHooks(auth))

	resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer ok")
	resp, err = a.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "alice", readBody(t, resp))
}

func TestPipeline_StreamedFormBody(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)
	a.POST("/import", func(c *Context) (any, error) {
		fields, err := stream.Collect(c.Context(), c.Body.(*stream.Stream[binding.FormField]))
		if err != nil {
			return nil, err
		}

		sum := int64(0)
		for _, f := range fields {
			sum += f.Value.(int64)
		}

		return map[string]any{"fields": len(fields), "sum": sum}, nil
	}, WithSchema(Schema{Body: schema.Stream(schema.URLForm(
		schema.Prop("a", schema.Integer()),
		schema.Prop("b", schema.Integer()),
	))}))

	req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader("a=1&b=41"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := a.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"fields":2,"sum":42}`, readBody(t, resp))
}

func TestPipeline_ResponseValidation(t *testing.T) {
	t.Parallel()

	a, th := newTestApp(t, WithResponseValidation(true))
	responses := map[string]*schema.Schema{
		"200": schema.Object(schema.Prop("id", schema.Integer())),
	}
	a.GET("/good", ok(map[string]any{"id": 1}), WithSchema(Schema{Response: responses}))
	a.GET("/bad", ok(map[string]any{"id": "one"}), WithSchema(Schema{Response: responses}))
	a.GET("/other", func(c *Context) (any, error) {
		c.Set.Status = http.StatusAccepted
		return map[string]any{"anything": true}, nil
	}, WithSchema(Schema{Response: responses}))

	resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/good", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = a.Test(httptest.NewRequest(http.MethodGet, "/bad", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, readBody(t, resp), "one")
	assert.True(t, th.ContainsLog("response validation failed"))

	resp, err = a.Test(httptest.NewRequest(http.MethodGet, "/other", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode, "no schema for 202 and no default")
}

func TestPipeline_ResponseValidationDisabled(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)
	a.GET("/bad", ok(map[string]any{"id": "one"}), WithSchema(Schema{
		Response: map[string]*schema.Schema{"default": schema.Object(schema.Prop("id", schema.Integer()))},
	}))

	resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/bad", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
