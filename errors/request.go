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
	"fmt"
	"net/http"
)

// RequestError is a structured error a handler or hook returns to answer
// with a specific status and body. The pipeline writes Payload verbatim,
// bypassing the configured [Formatter].
//
// Example:
//
//	if !allowed {
//	    return nil, &errors.RequestError{
//	        Status:  http.StatusForbidden,
//	        Payload: map[string]any{"reason": "read-only account"},
//	    }
//	}
type RequestError struct {
	Status  int
	Payload any
}

// NewRequestError creates a [RequestError].
func NewRequestError(status int, payload any) *RequestError {
	return &RequestError{Status: status, Payload: payload}
}

// Error implements error.
func (e *RequestError) Error() string {
	status := e.HTTPStatus()
	if s, ok := e.Payload.(string); ok {
		return fmt.Sprintf("%d %s: %s", status, http.StatusText(status), s)
	}

	return fmt.Sprintf("%d %s", status, http.StatusText(status))
}

// HTTPStatus implements [ErrorType]. A zero status means 400.
func (e *RequestError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusBadRequest
	}

	return e.Status
}

// Details implements [ErrorDetails].
func (e *RequestError) Details() any {
	return e.Payload
}
