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

package router

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates that no route matches the method and path.
	ErrNotFound = errors.New("route not found")

	// ErrInvalidPattern indicates a malformed route template.
	// Registration panics with an error wrapping it.
	ErrInvalidPattern = errors.New("invalid route pattern")

	// ErrRoutesFrozen indicates a registration after [Router.Freeze].
	// Registration panics with an error wrapping it.
	ErrRoutesFrozen = errors.New("routes are frozen")
)

// NotFoundError is returned by [Router.Find] on a miss.
// A miss is a normal outcome of routing, not a fault.
type NotFoundError struct {
	Method string
	Path   string
}

// Error implements error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, ErrNotFound)
}

// Unwrap returns [ErrNotFound] for errors.Is compatibility.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// HTTPStatus implements rivaas.dev/keel/errors.ErrorType.
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// Code implements rivaas.dev/keel/errors.ErrorCode.
func (e *NotFoundError) Code() string {
	return "not_found"
}
