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

package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnknownFormat is returned by [ByName] for an unregistered format name.
var ErrUnknownFormat = errors.New("unknown error format")

// Formatter turns an error into the components of an HTTP response.
//
// The request pipeline calls the configured Formatter for every failure it
// answers itself: unmatched routes, aggregated validation failures, decode
// errors and internal errors.
//
// Example:
//
//	formatter := errors.NewRFC9457("https://api.example.com/problems")
//	response := formatter.Format(req, err)
type Formatter interface {
	// Format converts an error into HTTP response components.
	// req may be used for the problem instance; it is never nil.
	Format(req *http.Request, err error) Response
}

// Response is a formatted error response.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is encoded as JSON.
	Body any

	// Headers contains additional headers to set (optional).
	Headers http.Header
}

// ErrorType allows errors to declare their own HTTP status code.
//
// Example:
//
//	func (e *NotFoundError) HTTPStatus() int {
//		return http.StatusNotFound
//	}
type ErrorType interface {
	error
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrorDetails allows errors to provide structured information, such as a
// validation issue tree.
type ErrorDetails interface {
	error
	// Details returns structured information about the error.
	Details() any
}

// ErrorCode allows errors to provide a machine-readable code.
type ErrorCode interface {
	error
	// Code returns a machine-readable error code.
	Code() string
}

// NewRFC9457 creates an RFC 9457 Problem Details formatter.
// baseURL is prepended to error codes to build problem type URIs.
//
// Example:
//
//	formatter := errors.NewRFC9457("https://api.example.com/problems")
func NewRFC9457(baseURL string) *RFC9457 {
	return &RFC9457{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// NewSimple creates a [Simple] formatter.
func NewSimple() *Simple {
	return &Simple{}
}

// Format names accepted by [ByName].
const (
	FormatSimple  = "simple"
	FormatRFC9457 = "rfc9457"
)

// ByName returns the formatter for a configured format name.
// An empty name selects [FormatSimple].
//
// Example:
//
//	f, err := errors.ByName(cfg.String("errors.format"), cfg.String("errors.base_url"))
func ByName(name, baseURL string) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", FormatSimple:
		return NewSimple(), nil
	case FormatRFC9457:
		return NewRFC9457(baseURL), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// WithStatus wraps an error with an explicit HTTP status code.
// If err is nil, the status text is used as the message.
//
// Example:
//
//	return nil, errors.WithStatus(err, http.StatusConflict)
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

// statusError wraps an error with an explicit status code.
type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}

	return e.err.Error()
}

func (e *statusError) Unwrap() error {
	return e.err
}

func (e *statusError) HTTPStatus() int {
	return e.status
}

// StatusOf returns the status declared by err through [ErrorType], or 500.
func StatusOf(err error) int {
	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}

	return http.StatusInternalServerError
}

// publicMessage hides the message of server errors, which may carry
// internal details.
func publicMessage(status int, err error) string {
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}

	return err.Error()
}
