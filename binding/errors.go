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

package binding

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnsupportedMediaType indicates a Content-Type header that cannot be parsed.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrMissingBoundary indicates a multipart body without a boundary parameter.
	ErrMissingBoundary = errors.New("multipart boundary missing")

	// ErrBodyTooLarge indicates a body exceeding the configured size limit.
	ErrBodyTooLarge = errors.New("request body too large")

	// ErrMalformedBody indicates a body that does not parse as its media type.
	ErrMalformedBody = errors.New("malformed request body")
)

// StreamError reports a failure decoding a request section.
//
// Decode failures found before the handler runs become a 4xx response.
// Failures in a streamed body surface from the stream's Next instead.
type StreamError struct {
	Section Section
	Err     error
}

// Error implements error.
func (e *StreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Section, e.Err)
}

// Unwrap returns the underlying error.
func (e *StreamError) Unwrap() error {
	return e.Err
}

// HTTPStatus implements rivaas.dev/keel/errors.ErrorType.
func (e *StreamError) HTTPStatus() int {
	switch {
	case errors.Is(e.Err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(e.Err, ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadRequest
	}
}

// Code implements rivaas.dev/keel/errors.ErrorCode.
func (e *StreamError) Code() string {
	switch {
	case errors.Is(e.Err, ErrBodyTooLarge):
		return "body_too_large"
	case errors.Is(e.Err, ErrUnsupportedMediaType):
		return "unsupported_media_type"
	default:
		return "malformed_" + e.Section.String()
	}
}

// bodyError wraps err as a body [StreamError], mapping size-limit failures
// to [ErrBodyTooLarge].
func bodyError(err error) *StreamError {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) && !errors.Is(err, ErrBodyTooLarge) {
		err = fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
	}

	return &StreamError{Section: SectionBody, Err: err}
}
