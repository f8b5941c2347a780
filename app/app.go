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
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"
	"sync"

	keelerrors "rivaas.dev/keel/errors"
	"rivaas.dev/keel/logging"
	"rivaas.dev/keel/metrics"
	"rivaas.dev/keel/router"
	"rivaas.dev/keel/telemetry/semconv"
	"rivaas.dev/keel/tracing"
	"rivaas.dev/keel/validation"
)

// App is an HTTP application: a route table, the hooks and plugins around
// it, and the request pipeline that validates input and encodes output.
//
// Routes, hooks and lifecycle callbacks are registered before the first
// request; the first request (or [App.Init]) freezes them. After that the
// App is safe for concurrent use.
//
// Handler results are encoded by type:
//
//   - *Response and Response are written with their status and headers
//   - string as text/plain
//   - []byte and io.Reader as application/octet-stream
//   - *stream.Stream, iter.Seq, iter.Seq2 and receive channels as
//     text/event-stream, one event per item
//   - nil as an empty 204
//   - anything else as JSON, YAML or MessagePack, chosen by Accept
//
// Create an App using [New] or [MustNew].
type App struct {
	router    *router.Router[*Route]
	settings  Settings
	logger    *slog.Logger
	formatter keelerrors.Formatter
	validator *validation.Validator
	tracer    *tracing.Tracer
	metrics   *metrics.Recorder
	plugins   []Plugin
	hooks     []Hook
	lifecycle lifecycle

	mu       sync.Mutex // Serializes registration and freezing
	initOnce sync.Once
	initErr  error
}

// New creates an App.
//
// Settings come from [WithSettings], [WithConfig] or [DefaultSettings], in
// that order of precedence, and are validated; invalid settings are
// reported as a [*ValidationError].
//
// Example:
//
//	a, err := app.New(
//	    app.WithServiceName("orders"),
//	    app.WithPlugins(requestid.New()),
//	)
func New(opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if len(o.errs) > 0 {
		return nil, errors.Join(o.errs...)
	}

	settings, err := resolveSettings(o)
	if err != nil {
		return nil, err
	}

	a := &App{
		router:    router.New[*Route](),
		settings:  settings,
		logger:    o.logger,
		formatter: o.formatter,
		validator: o.validator,
		plugins:   o.plugins,
	}

	if a.logger == nil {
		if a.logger, err = newLogger(settings); err != nil {
			return nil, err
		}
	}
	if a.formatter == nil {
		if a.formatter, err = keelerrors.ByName(settings.Errors.Format, settings.Errors.BaseURL); err != nil {
			return nil, err
		}
	}
	if a.validator == nil {
		a.validator = validation.Default()
	}

	tracerOpts := []tracing.Option{
		tracing.WithServiceName(settings.Service.Name),
		tracing.WithServiceVersion(settings.Service.Version),
	}
	if o.tracerProvider != nil {
		tracerOpts = append(tracerOpts, tracing.WithTracerProvider(o.tracerProvider))
	} else if opt := tracingExporter(settings.Tracing); opt != nil {
		tracerOpts = append(tracerOpts, opt)
	}
	if a.tracer, err = tracing.New(tracerOpts...); err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}

	metricsOpts := []metrics.Option{
		metrics.WithServiceName(settings.Service.Name),
		metrics.WithExportInterval(settings.Metrics.Interval),
	}
	if o.meterProvider != nil {
		metricsOpts = append(metricsOpts, metrics.WithMeterProvider(o.meterProvider))
	} else if opt := metricsExporter(settings.Metrics); opt != nil {
		metricsOpts = append(metricsOpts, opt)
	}
	if a.metrics, err = metrics.New(metricsOpts...); err != nil {
		return nil, errors.Join(fmt.Errorf("metrics: %w", err), a.tracer.Shutdown(context.Background()))
	}

	if h := a.metrics.Handler(); h != nil {
		a.GET(settings.Metrics.Path, scrapeHandler(h))
	}

	return a, nil
}

// MustNew creates an App or panics.
func MustNew(opts ...Option) *App {
	a, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("app.MustNew: %v", err))
	}

	return a
}

func resolveSettings(o *options) (Settings, error) {
	var s Settings
	switch {
	case o.settings != nil:
		s = *o.settings
	case o.conf != nil:
		if err := o.conf.Bind(&s); err != nil {
			return s, fmt.Errorf("bind settings: %w", err)
		}
	}

	s, err := s.withDefaults()
	if err != nil {
		return s, err
	}
	if o.serviceName != nil {
		s.Service.Name = *o.serviceName
	}
	if o.strictRoutes != nil {
		s.Routes.Strict = *o.strictRoutes
	}
	if o.validateResponses != nil {
		s.Routes.ValidateResponses = *o.validateResponses
	}

	return s, s.Validate()
}

func newLogger(s Settings) (*slog.Logger, error) {
	level, err := logging.ParseLevel(s.Log.Level)
	if err != nil {
		return nil, err
	}
	handler, err := logging.ParseHandlerType(s.Log.Format)
	if err != nil {
		return nil, err
	}

	l, err := logging.New(
		logging.WithHandlerType(handler),
		logging.WithLevel(level),
		logging.WithServiceName(s.Service.Name),
		logging.WithServiceVersion(s.Service.Version),
	)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	return l.Logger(), nil
}

// Settings returns the resolved settings.
func (a *App) Settings() Settings { return a.settings }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Routes returns the registered routes in registration order.
func (a *App) Routes() []router.Info { return a.router.Routes() }

// Endpoints returns the registered routes in registration order, for
// documentation generators and other introspection.
func (a *App) Endpoints() []*Route {
	infos := a.router.Routes()
	out := make([]*Route, 0, len(infos))
	for _, info := range infos {
		if rt, ok := a.router.Lookup(info.Method, info.Pattern); ok {
			out = append(out, rt)
		}
	}

	return out
}

// Handle registers handler for method and path.
//
// Path syntax is "/literal/:param/*"; the wildcard may only be last.
// Registering the same method and path again replaces the route and logs
// a warning, or panics with [ErrDuplicateRoute] in strict mode.
// Handle panics with [ErrFrozen] once the app is serving, and with
// [ErrInvalidSchema] when a schema names an unknown string format.
func (a *App) Handle(method, path string, handler Handler, opts ...RouteOption) *Route {
	method = strings.ToUpper(method)
	if handler == nil {
		panic(fmt.Errorf("%w: %s %s", ErrNilHandler, method, path))
	}

	rt := &Route{method: method, path: path, handler: handler}
	for _, opt := range opts {
		opt(rt)
	}
	if err := a.checkSchema(rt.schema); err != nil {
		panic(fmt.Errorf("%w: %s %s: %w", ErrInvalidSchema, method, path, err))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.router.Frozen() {
		panic(fmt.Errorf("%w: %s %s", ErrFrozen, method, path))
	}

	prev, replaced := a.router.Add(method, path, rt)
	if replaced {
		if a.settings.Routes.Strict {
			a.router.Add(method, path, prev)
			panic(fmt.Errorf("%w: %s %s", ErrDuplicateRoute, method, path))
		}
		a.logger.Warn("route replaced",
			semconv.HTTPMethod, method,
			semconv.HTTPRoute, path,
			semconv.ReplacedRoute, prev.path,
		)
	}

	return rt
}

// checkSchema validates every section and response schema of a route.
func (a *App) checkSchema(s Schema) error {
	errs := []error{
		a.validator.CheckSchema(s.Headers),
		a.validator.CheckSchema(s.Params),
		a.validator.CheckSchema(s.Query),
		a.validator.CheckSchema(s.Body),
	}
	for _, key := range slices.Sorted(maps.Keys(s.Response)) {
		if err := a.validator.CheckSchema(s.Response[key]); err != nil {
			errs = append(errs, fmt.Errorf("response %s: %w", key, err))
		}
	}

	return errors.Join(errs...)
}

// GET registers a GET route.
//
// Example:
//
//	a.GET("/users/:id", getUser, app.WithSchema(app.Schema{
//	    Params: schema.Object(schema.Prop("id", schema.Integer())),
//	}))
func (a *App) GET(path string, handler Handler, opts ...RouteOption) *Route {
	return a.Handle(http.MethodGet, path, handler, opts...)
}

// POST registers a POST route.
func (a *App) POST(path string, handler Handler, opts ...RouteOption) *Route {
	return a.Handle(http.MethodPost, path, handler, opts...)
}

// PUT registers a PUT route.
func (a *App) PUT(path string, handler Handler, opts ...RouteOption) *Route {
	return a.Handle(http.MethodPut, path, handler, opts...)
}

// PATCH registers a PATCH route.
func (a *App) PATCH(path string, handler Handler, opts ...RouteOption) *Route {
	return a.Handle(http.MethodPatch, path, handler, opts...)
}

// DELETE registers a DELETE route.
func (a *App) DELETE(path string, handler Handler, opts ...RouteOption) *Route {
	return a.Handle(http.MethodDelete, path, handler, opts...)
}

// OPTIONS registers an OPTIONS route.
func (a *App) OPTIONS(path string, handler Handler, opts ...RouteOption) *Route {
	return a.Handle(http.MethodOptions, path, handler, opts...)
}

// HEAD registers a HEAD route. Without one, HEAD requests are served by
// the GET route with the body discarded.
func (a *App) HEAD(path string, handler Handler, opts ...RouteOption) *Route {
	return a.Handle(http.MethodHead, path, handler, opts...)
}

// Use appends app-wide hooks. They run before route hooks, in order.
func (a *App) Use(hooks ...Hook) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.router.Frozen() {
		panic(ErrFrozen)
	}
	a.hooks = append(a.hooks, hooks...)
}

// Init freezes routes and hooks and initializes the plugins. It runs once;
// later calls return the first result. ServeHTTP calls it on the first
// request, so calling it directly only moves plugin failures to startup.
func (a *App) Init(ctx context.Context) error {
	a.initOnce.Do(func() {
		a.mu.Lock()
		a.router.Freeze()
		a.mu.Unlock()

		for _, p := range a.plugins {
			i, ok := p.(Initializer)
			if !ok {
				continue
			}
			if err := i.Init(ctx, a.settings); err != nil {
				a.initErr = fmt.Errorf("plugin %s: init: %w", p.Name(), err)
				a.logger.ErrorContext(ctx, "plugin init failed", semconv.Plugin, p.Name(), semconv.Error, err)

				return
			}
			a.logger.InfoContext(ctx, "plugin initialized", semconv.Plugin, p.Name())
		}
	})

	return a.initErr
}
