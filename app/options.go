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
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/keel/config"
	keelerrors "rivaas.dev/keel/errors"
	"rivaas.dev/keel/validation"
)

var (
	// ErrNilLogger is returned by [WithLogger] with a nil logger.
	ErrNilLogger = errors.New("logger cannot be nil")

	// ErrNilConfig is returned by [WithConfig] with a nil config.
	ErrNilConfig = errors.New("config cannot be nil")

	// ErrNilPlugin is returned by [WithPlugins] with a nil plugin.
	ErrNilPlugin = errors.New("plugin cannot be nil")
)

// Option configures an [App].
type Option func(*options)

// options collects Option values before [New] resolves them.
// Overrides win over Settings regardless of option order.
type options struct {
	settings       *Settings
	conf           *config.Config
	logger         *slog.Logger
	formatter      keelerrors.Formatter
	validator      *validation.Validator
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	plugins        []Plugin
	errs           []error

	serviceName       *string
	strictRoutes      *bool
	validateResponses *bool
}

// WithSettings uses s instead of [DefaultSettings]. Zero fields take their
// default value.
func WithSettings(s Settings) Option {
	return func(o *options) { o.settings = &s }
}

// WithConfig binds [Settings] from a loaded config.
//
// Example:
//
//	conf := config.MustNew(config.WithFile("keel.yaml"), config.WithEnv("KEEL_"))
//	if err := conf.Load(ctx); err != nil {
//	    return err
//	}
//	a, err := app.New(app.WithConfig(conf))
func WithConfig(c *config.Config) Option {
	return func(o *options) {
		if c == nil {
			o.errs = append(o.errs, ErrNilConfig)
			return
		}
		o.conf = c
	}
}

// WithLogger uses logger instead of one built from the log settings.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			o.errs = append(o.errs, ErrNilLogger)
			return
		}
		o.logger = logger
	}
}

// WithServiceName overrides the service.name setting.
func WithServiceName(name string) Option {
	return func(o *options) { o.serviceName = &name }
}

// WithStrictRoutes overrides the routes.strict setting.
func WithStrictRoutes(strict bool) Option {
	return func(o *options) { o.strictRoutes = &strict }
}

// WithResponseValidation overrides the routes.validate_responses setting.
func WithResponseValidation(enabled bool) Option {
	return func(o *options) { o.validateResponses = &enabled }
}

// WithErrorFormatter uses f instead of the formatter named by errors.format.
func WithErrorFormatter(f keelerrors.Formatter) Option {
	return func(o *options) { o.formatter = f }
}

// WithValidator uses v, for example one with custom string formats,
// instead of [validation.Default].
func WithValidator(v *validation.Validator) Option {
	return func(o *options) { o.validator = v }
}

// WithTracerProvider traces requests with provider instead of the global one.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = provider }
}

// WithMeterProvider records metrics with provider instead of the global one.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = provider }
}

// WithPlugins appends plugins in execution order.
func WithPlugins(plugins ...Plugin) Option {
	return func(o *options) {
		for _, p := range plugins {
			if p == nil {
				o.errs = append(o.errs, ErrNilPlugin)
				continue
			}
			o.plugins = append(o.plugins, p)
		}
	}
}
