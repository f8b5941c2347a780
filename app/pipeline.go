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
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/keel/binding"
	keelerrors "rivaas.dev/keel/errors"
	"rivaas.dev/keel/logging"
	"rivaas.dev/keel/schema"
	"rivaas.dev/keel/stream"
	"rivaas.dev/keel/telemetry/semconv"
	"rivaas.dev/keel/validation"
)

// errInternal answers recovered panics. Formatters hide its message.
var errInternal = errors.New("internal error")

// exchange tracks one request through the pipeline.
type exchange struct {
	w       http.ResponseWriter
	r       *http.Request
	start   time.Time
	span    trace.Span
	log     *slog.Logger
	pattern string
	status  int
	err     error
}

func (ex *exchange) writeHeader(status int) {
	ex.status = status
	ex.w.WriteHeader(status)
}

// ServeHTTP runs the request pipeline:
//
//  1. FetchHook plugins
//  2. route lookup (404 on a miss)
//  3. RouteHook plugins
//  4. decoding and validation of headers, params, query and body, with
//     every failing section reported together
//  5. BeforeHandleHook plugins
//  6. app hooks, route hooks and the handler
//  7. AfterHandleHook plugins
//  8. response encoding
//
// The first call freezes the routes and initializes the plugins.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.StartRequest(r.Context(), r)
	r = r.WithContext(ctx)
	ex := &exchange{
		w:     w,
		r:     r,
		start: time.Now(),
		span:  span,
		log:   logging.WithTrace(ctx, a.logger),
	}
	defer a.finish(ex)
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
			panic(rec)
		}
		logging.Panic(ctx, ex.log, rec, semconv.HTTPMethod, r.Method, semconv.HTTPRoute, ex.pattern)
		ex.err = fmt.Errorf("panic: %v", rec)
		if ex.status == 0 {
			a.write(ex, nil, a.errorResponse(ex, errInternal))
		}
	}()

	if err := a.Init(context.WithoutCancel(ctx)); err != nil {
		a.sendError(ex, nil, err)
		return
	}

	c, resp, err := a.handle(ex)
	if err != nil {
		a.sendError(ex, c, err)
		return
	}
	a.send(ex, c, resp)
}

// handle runs the pipeline up to the final response. The returned context
// is nil when the request ended before a route matched.
func (a *App) handle(ex *exchange) (*Context, *Response, error) {
	r := ex.r

	for _, p := range a.plugins {
		if h, ok := p.(FetchHook); ok {
			if resp, err := h.OnFetch(r); err != nil || resp != nil {
				return nil, resp, err
			}
		}
	}

	match, err := a.router.Find(r.Method, r.URL.Path)
	if err != nil && r.Method == http.MethodHead {
		match, err = a.router.Find(http.MethodGet, r.URL.Path)
	}
	if err != nil {
		ex.log.DebugContext(r.Context(), "route not found",
			semconv.HTTPMethod, r.Method, semconv.HTTPTarget, r.URL.Path)
		return nil, nil, err
	}

	route := match.Route
	ex.pattern = match.Pattern
	ex.log = ex.log.With(semconv.HTTPRoute, match.Pattern)
	a.tracer.SetRoute(ex.span, r.Method, match.Pattern)

	for _, p := range a.plugins {
		if h, ok := p.(RouteHook); ok {
			if resp, err := h.OnRoute(r, route); err != nil || resp != nil {
				return nil, resp, err
			}
		}
	}

	c := newContext(r, route, ex.log, match.Params, match.Wildcard)
	if err = a.bind(ex, c); err != nil {
		return c, nil, err
	}

	for _, p := range a.plugins {
		if h, ok := p.(BeforeHandleHook); ok {
			if resp, err := h.BeforeHandle(c); err != nil || resp != nil {
				return c, resp, err
			}
		}
	}

	hooks := append(slices.Clip(a.hooks), route.hooks...)
	resp, err := runChain(c, hooks, func() (*Response, error) {
		v, err := route.handler(c)
		if err != nil {
			return nil, err
		}

		return asResponse(v), nil
	})
	if err != nil {
		return c, nil, err
	}

	for _, p := range a.plugins {
		if h, ok := p.(AfterHandleHook); ok {
			replaced, err := h.AfterHandle(c, resp)
			if err != nil {
				return c, nil, err
			}
			if replaced != nil {
				return c, replaced, nil
			}
		}
	}

	return c, resp, nil
}

func asResponse(v any) *Response {
	switch v := v.(type) {
	case *Response:
		if v == nil {
			return &Response{Body: NoBody}
		}

		return v
	case Response:
		return &v
	default:
		return &Response{Body: v}
	}
}

// bind decodes the four request sections into c and validates them against
// the route schema. Validation failures of every section are collected into
// one [*RequestValidationError]. A body that cannot be decoded is reported
// alone, unless another section already failed.
func (a *App) bind(ex *exchange, c *Context) error {
	r := c.Request
	s := c.route.schema

	var verr RequestValidationError
	check := func(section binding.Section, raw map[string]any, sch *schema.Schema) map[string]any {
		if sch == nil {
			return raw
		}
		v, issue := a.validator.Check(raw, sch, true)
		if issue != nil {
			a.recordValidationFailure(ex, section, issue)
			verr.add(section, issue)

			return raw
		}
		if m, ok := v.(map[string]any); ok {
			return m
		}

		return raw
	}

	c.Headers = check(binding.SectionHeaders, binding.Headers(r.Header), s.Headers)
	c.Params = check(binding.SectionParams, binding.Params(c.rawParam), s.Params)
	c.Query = check(binding.SectionQuery, binding.Query(r.URL.Query()), s.Query)

	body, err := binding.Body(r, binding.BodyOptions{
		Stream:    s.Body != nil && s.Body.IsStream(),
		MaxBytes:  a.settings.Server.MaxBodyBytes,
		MaxMemory: a.settings.Server.MaxMultipartMemory,
		Schema:    s.Body,
		Validator: a.validator,
	})
	if err != nil {
		// A malformed body joins the section failures already found; size
		// and media type failures keep their own status.
		var serr *binding.StreamError
		if len(verr.Sections) > 0 && errors.As(err, &serr) && serr.HTTPStatus() == http.StatusBadRequest {
			verr.add(binding.SectionBody, validation.Messages{serr.Err.Error()})
			return &verr
		}

		return err
	}
	c.Body = body

	if _, streamed := body.(stream.Untyped); s.Body != nil && !streamed {
		v, issue := a.validator.Check(body, s.Body, false)
		if issue != nil {
			a.recordValidationFailure(ex, binding.SectionBody, issue)
			verr.add(binding.SectionBody, issue)
		} else {
			c.Body = v
		}
	}

	if len(verr.Sections) > 0 {
		return &verr
	}

	return nil
}

// responseStatus picks the status for resp: its own, then the redirect and
// status accumulated in c.Set, then 200 or 204 for an empty body.
func responseStatus(c *Context, resp *Response) int {
	if resp.Status != 0 {
		return resp.Status
	}
	if c != nil {
		if c.Set.Redirect != "" {
			if isRedirect(c.Set.Status) {
				return c.Set.Status
			}

			return http.StatusFound
		}
		if c.Set.Status != 0 {
			return c.Set.Status
		}
	}
	if !hasBody(resp.Body) {
		return http.StatusNoContent
	}

	return http.StatusOK
}

// send checks resp against the response schema when enabled, then writes it.
func (a *App) send(ex *exchange, c *Context, resp *Response) {
	if err := a.checkResponse(ex, c, responseStatus(c, resp), resp.Body); err != nil {
		closeBody(resp.Body)
		a.sendError(ex, c, err)

		return
	}

	a.write(ex, c, resp)
}

func (a *App) sendError(ex *exchange, c *Context, err error) {
	ex.err = err
	a.write(ex, c, a.errorResponse(ex, err))
}

// write merges c.Set into the headers, encodes the body and writes it.
func (a *App) write(ex *exchange, c *Context, resp *Response) {
	status := responseStatus(c, resp)
	h := ex.w.Header()
	if c != nil {
		mergeHeader(h, c.Set.Header)
		if c.Set.Redirect != "" && isRedirect(status) {
			h.Set("Location", c.Set.Redirect)
		}
	}
	mergeHeader(h, resp.Header)

	if !bodyAllowed(status) {
		closeBody(resp.Body)
		ex.writeHeader(status)

		return
	}

	p, err := encodeBody(ex.r, h, resp.Body)
	if err != nil {
		closeBody(resp.Body)
		ex.err = err
		h.Del("Content-Type")
		errResp := a.errorResponse(ex, err)
		mergeHeader(h, errResp.Header)
		ex.writeHeader(errResp.Status)
		if data, ok := errResp.Body.([]byte); ok {
			_, _ = ex.w.Write(data)
		}

		return
	}

	switch {
	case p.events != nil:
		h.Set("Content-Type", MediaTypeEventStream)
		h.Set("Cache-Control", "no-cache")
		h.Del("Content-Length")
		ex.writeHeader(status)
		a.sendEvents(ex, p.events)
	case p.reader != nil:
		ex.writeHeader(status)
		if _, err = io.Copy(ex.w, p.reader); err != nil {
			ex.log.DebugContext(ex.r.Context(), "response copy failed", semconv.Error, err)
		}
		closeBody(resp.Body)
	default:
		ex.writeHeader(status)
		if len(p.data) > 0 {
			_, _ = ex.w.Write(p.data)
		}
	}
}

// errorResponse maps err to a response.
//
// Request errors keep their status and payload, aggregated validation
// failures become a 400 keyed by section, and everything else goes through
// the configured formatter. Server errors are logged; their messages never
// reach the client.
func (a *App) errorResponse(ex *exchange, err error) *Response {
	var reqErr *keelerrors.RequestError
	if errors.As(err, &reqErr) {
		var body any = reqErr.Payload
		if body == nil {
			body = NoBody
		}

		return &Response{Status: reqErr.HTTPStatus(), Body: body}
	}

	var verr *RequestValidationError
	if errors.As(err, &verr) {
		return &Response{Status: http.StatusBadRequest, Body: verr.Sections}
	}

	ctx := ex.r.Context()
	if status := keelerrors.StatusOf(err); status >= http.StatusInternalServerError {
		ex.log.ErrorContext(ctx, "request failed", semconv.Error, err)
	} else {
		ex.log.DebugContext(ctx, "request rejected", semconv.Error, err, semconv.HTTPStatusCode, status)
	}

	formatted := a.formatter.Format(ex.r, err)
	data, mErr := json.Marshal(formatted.Body)
	if mErr != nil {
		ex.log.ErrorContext(ctx, "error response encoding failed", semconv.Error, mErr)
		data = []byte(`{"error":"Internal Server Error"}`)
		formatted.Status = http.StatusInternalServerError
	}

	h := make(http.Header, len(formatted.Headers)+1)
	mergeHeader(h, formatted.Headers)
	h.Set("Content-Type", formatted.ContentType)

	return &Response{Status: formatted.Status, Header: h, Body: data}
}

// checkResponse validates a structured response body against the route's
// response schema for status.
func (a *App) checkResponse(ex *exchange, c *Context, status int, body any) error {
	if c == nil || !a.settings.Routes.ValidateResponses {
		return nil
	}
	s := c.route.schema.ResponseFor(status)
	if s == nil {
		return nil
	}

	switch body.(type) {
	case nil, noBody, []byte, io.Reader, stream.Untyped:
		return nil
	}
	if _, ok := eventsOf(ex.r.Context(), body); ok {
		return nil
	}

	plain, err := jsonCompatible(body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResponseInvalid, err)
	}
	if _, issue := a.validator.Check(plain, s, false); issue != nil {
		ex.log.ErrorContext(ex.r.Context(), "response validation failed",
			semconv.HTTPStatusCode, status, "issues", validation.Flatten(issue))

		return fmt.Errorf("%w: status %d", ErrResponseInvalid, status)
	}

	return nil
}
