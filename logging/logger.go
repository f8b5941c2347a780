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

package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"rivaas.dev/keel/telemetry/semconv"
)

// HandlerType represents the type of logging handler.
type HandlerType string

const (
	// JSONHandler outputs structured JSON logs.
	JSONHandler HandlerType = "json"
	// TextHandler outputs key=value text logs.
	TextHandler HandlerType = "text"
)

// Level represents log level.
type Level = slog.Level

const (
	// LevelDebug is the debug log level.
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// redacted lists attribute keys whose values never reach the output.
var redacted = map[string]struct{}{
	"password":      {},
	"token":         {},
	"secret":        {},
	"api_key":       {},
	"authorization": {},
	"cookie":        {},
	"set-cookie":    {},
}

// Logger is the service logger.
//
// Thread-safety: All public methods are safe for concurrent use.
type Logger struct {
	handlerType HandlerType
	output      io.Writer
	level       slog.LevelVar

	// Added to every entry when set
	serviceName    string
	serviceVersion string
	environment    string

	addSource   bool
	replaceAttr func(groups []string, a slog.Attr) slog.Attr

	customLogger *slog.Logger
	useCustom    bool

	slogger atomic.Pointer[slog.Logger]
	mu      sync.Mutex

	registerGlobal bool
}

// Option is a functional option for configuring the logger.
type Option func(*Logger)

func defaultLogger() *Logger {
	l := &Logger{
		handlerType: JSONHandler,
		output:      os.Stdout,
	}
	l.level.Set(LevelInfo)

	return l
}

// New creates a Logger with the given options.
//
// New does not replace the global slog default; use [WithGlobalLogger] for that.
//
// Example:
//
//	logger, err := logging.New(
//	    logging.WithServiceName("orders"),
//	    logging.WithLevel(logging.LevelDebug),
//	)
func New(opts ...Option) (*Logger, error) {
	l := defaultLogger()
	for _, opt := range opts {
		opt(l)
	}

	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := l.initialize(); err != nil {
		return nil, err
	}

	return l, nil
}

// MustNew creates a Logger or panics on error.
func MustNew(opts ...Option) *Logger {
	l, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("logging.MustNew: %v", err))
	}

	return l
}

// Validate checks if the configuration is valid.
func (l *Logger) Validate() error {
	if l.output == nil {
		return ErrNilWriter
	}
	if l.useCustom && l.customLogger == nil {
		return ErrNilLogger
	}
	if _, err := ParseHandlerType(string(l.handlerType)); err != nil {
		return err
	}

	return nil
}

func (l *Logger) initialize() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var sl *slog.Logger
	if l.useCustom {
		sl = l.customLogger
	} else {
		opts := &slog.HandlerOptions{
			Level:       &l.level,
			AddSource:   l.addSource,
			ReplaceAttr: l.buildReplaceAttr(),
		}

		switch l.handlerType {
		case JSONHandler:
			sl = slog.New(slog.NewJSONHandler(l.output, opts))
		case TextHandler:
			sl = slog.New(slog.NewTextHandler(l.output, opts))
		default:
			return fmt.Errorf("%w: %s", ErrInvalidHandler, l.handlerType)
		}
	}

	var attrs []any
	if l.serviceName != "" {
		attrs = append(attrs, semconv.ServiceName, l.serviceName)
	}
	if l.serviceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion, l.serviceVersion)
	}
	if l.environment != "" {
		attrs = append(attrs, semconv.DeploymentEnviron, l.environment)
	}
	if len(attrs) > 0 {
		sl = sl.With(attrs...)
	}

	l.slogger.Store(sl)
	if l.registerGlobal {
		slog.SetDefault(sl)
	}

	return nil
}

func (l *Logger) buildReplaceAttr() func(groups []string, a slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if _, ok := redacted[strings.ToLower(a.Key)]; ok {
			return slog.String(a.Key, "***REDACTED***")
		}
		if l.replaceAttr != nil {
			return l.replaceAttr(groups, a)
		}

		return a
	}
}

// Logger returns the underlying [slog.Logger].
func (l *Logger) Logger() *slog.Logger {
	return l.slogger.Load()
}

// With returns a logger with additional attributes.
func (l *Logger) With(args ...any) *slog.Logger {
	return l.Logger().With(args...)
}

// Debug logs at [LevelDebug].
func (l *Logger) Debug(msg string, args ...any) {
	l.Logger().Log(context.Background(), LevelDebug, msg, args...)
}

// Info logs at [LevelInfo].
func (l *Logger) Info(msg string, args ...any) {
	l.Logger().Log(context.Background(), LevelInfo, msg, args...)
}

// Warn logs at [LevelWarn].
func (l *Logger) Warn(msg string, args ...any) {
	l.Logger().Log(context.Background(), LevelWarn, msg, args...)
}

// Error logs at [LevelError].
func (l *Logger) Error(msg string, args ...any) {
	l.Logger().Log(context.Background(), LevelError, msg, args...)
}

// SetLevel changes the minimum level at runtime.
// It returns [ErrCannotChangeLevel] for loggers built with [WithCustomLogger].
func (l *Logger) SetLevel(level Level) error {
	if l.useCustom {
		return ErrCannotChangeLevel
	}
	l.level.Set(level)

	return nil
}

// Level returns the current minimum level.
func (l *Logger) Level() Level {
	return l.level.Level()
}

// ServiceName returns the configured service name.
func (l *Logger) ServiceName() string {
	return l.serviceName
}

// ParseLevel parses "debug", "info", "warn" or "error", case-insensitively.
// An empty string yields [LevelInfo].
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelInfo, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}

	return level, nil
}

// ParseHandlerType parses "json" or "text". An empty string yields
// [JSONHandler].
func ParseHandlerType(s string) (HandlerType, error) {
	switch HandlerType(strings.ToLower(s)) {
	case "", JSONHandler:
		return JSONHandler, nil
	case TextHandler:
		return TextHandler, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidHandler, s)
	}
}
