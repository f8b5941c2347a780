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
	"fmt"
	"strings"
	"time"

	"dario.cat/mergo"

	"rivaas.dev/keel/config"
	keelerrors "rivaas.dev/keel/errors"
	"rivaas.dev/keel/logging"
	"rivaas.dev/keel/metrics"
	"rivaas.dev/keel/tracing"
)

// Settings is the runtime configuration of an [App].
//
// Settings bind from config keys with the same dotted names, e.g.
// "server.max_body_bytes" or, from the environment with [config.WithEnv],
// KEEL_SERVER__MAX_BODY_BYTES.
type Settings struct {
	Service ServiceSettings `config:"service"`
	Log     LogSettings     `config:"log"`
	Server  ServerSettings  `config:"server"`
	Errors  ErrorSettings   `config:"errors"`
	Routes  RouteSettings   `config:"routes"`
	Metrics MetricsSettings `config:"metrics"`
	Tracing TracingSettings `config:"tracing"`
}

// ServiceSettings identifies the service in logs and telemetry.
type ServiceSettings struct {
	Name    string `config:"name" default:"keel"`
	Version string `config:"version"`
}

// LogSettings configures the default logger.
// It is ignored when [WithLogger] supplies one.
type LogSettings struct {
	Level  string `config:"level" default:"info"`
	Format string `config:"format" default:"json"`
}

// ServerSettings configures request limits and [App.Run].
// A negative MaxBodyBytes disables the body size limit.
type ServerSettings struct {
	MaxBodyBytes       int64         `config:"max_body_bytes" default:"1048576"`
	MaxMultipartMemory int64         `config:"max_multipart_memory" default:"33554432"`
	ShutdownTimeout    time.Duration `config:"shutdown_timeout" default:"10s"`
	ReadHeaderTimeout  time.Duration `config:"read_header_timeout" default:"5s"`
}

// ErrorSettings selects the error response formatter.
type ErrorSettings struct {
	Format  string `config:"format" default:"simple"`
	BaseURL string `config:"base_url"`
}

// RouteSettings configures registration and response checks.
type RouteSettings struct {
	// Strict makes re-registering a method and path panic instead of
	// replacing the previous route with a warning.
	Strict bool `config:"strict"`

	// ValidateResponses checks handler responses against Schema.Response.
	ValidateResponses bool `config:"validate_responses"`
}

// MetricsSettings selects a built-in metrics exporter: "prometheus", "otlp",
// "stdout" or empty for the global meter provider. It is ignored when
// [WithMeterProvider] supplies one.
type MetricsSettings struct {
	Exporter string `config:"exporter"`

	// Endpoint is the OTLP/HTTP collector URL.
	Endpoint string `config:"endpoint"`

	// Path is the Prometheus scrape route.
	Path string `config:"path" default:"/metrics"`

	// Interval is the push interval of the otlp and stdout exporters.
	Interval time.Duration `config:"interval" default:"30s"`
}

// TracingSettings selects a built-in span exporter: "otlp" (gRPC),
// "otlp-http", "stdout" or empty for the global tracer provider. It is
// ignored when [WithTracerProvider] supplies one.
type TracingSettings struct {
	Exporter string `config:"exporter"`
	Endpoint string `config:"endpoint"`
}

// DefaultSettings returns the settings used when neither [WithSettings] nor
// [WithConfig] is given.
func DefaultSettings() Settings {
	var s Settings
	if err := config.MustNew().Bind(&s); err != nil {
		panic(fmt.Sprintf("app.DefaultSettings: %v", err))
	}

	return s
}

// withDefaults fills every zero field of s from [DefaultSettings].
func (s Settings) withDefaults() (Settings, error) {
	if err := mergo.Merge(&s, DefaultSettings()); err != nil {
		return s, fmt.Errorf("apply default settings: %w", err)
	}

	return s, nil
}

// Validate checks the settings and returns every problem found as a
// [*ValidationError].
func (s Settings) Validate() error {
	var errs ValidationError

	if s.Service.Name == "" {
		errs.Add(newEmptyFieldError("service.name"))
	}
	if _, err := logging.ParseLevel(s.Log.Level); err != nil {
		errs.Add(newInvalidEnumError("log.level", s.Log.Level, []string{"debug", "info", "warn", "error"}))
	}
	if _, err := logging.ParseHandlerType(s.Log.Format); err != nil {
		errs.Add(newInvalidEnumError("log.format", s.Log.Format, []string{"json", "text"}))
	}
	if s.Server.MaxMultipartMemory < 0 {
		errs.Add(newFieldError("server.max_multipart_memory", s.Server.MaxMultipartMemory, "cannot be negative", "must be positive"))
	}
	if s.Server.ShutdownTimeout < time.Second {
		errs.Add(newFieldError("server.shutdown_timeout", s.Server.ShutdownTimeout, "too short for a graceful shutdown", "at least 1s"))
	}
	if s.Server.ReadHeaderTimeout < 0 {
		errs.Add(newInvalidValueError("server.read_header_timeout", s.Server.ReadHeaderTimeout, "cannot be negative"))
	}
	if _, err := keelerrors.ByName(s.Errors.Format, s.Errors.BaseURL); err != nil {
		errs.Add(newInvalidEnumError("errors.format", s.Errors.Format,
			[]string{keelerrors.FormatSimple, keelerrors.FormatRFC9457}))
	}

	if e, err := metrics.ParseExporter(s.Metrics.Exporter); err != nil {
		errs.Add(newInvalidEnumError("metrics.exporter", s.Metrics.Exporter,
			[]string{string(metrics.ExporterPrometheus), string(metrics.ExporterOTLP), string(metrics.ExporterStdout)}))
	} else if e == metrics.ExporterPrometheus && !strings.HasPrefix(s.Metrics.Path, "/") {
		errs.Add(newInvalidValueError("metrics.path", s.Metrics.Path, "must start with /"))
	}
	if s.Metrics.Interval <= 0 {
		errs.Add(newInvalidValueError("metrics.interval", s.Metrics.Interval, "must be positive"))
	}
	if _, err := tracing.ParseExporter(s.Tracing.Exporter); err != nil {
		errs.Add(newInvalidEnumError("tracing.exporter", s.Tracing.Exporter,
			[]string{string(tracing.ExporterOTLP), string(tracing.ExporterOTLPHTTP), string(tracing.ExporterStdout)}))
	}

	return errs.ToError()
}
