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
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// RFC9457 formats errors as RFC 9457 Problem Details
// (application/problem+json).
type RFC9457 struct {
	// BaseURL is prepended to error codes to create problem type URIs.
	// Example: "https://api.example.com/problems" + "/validation_error"
	BaseURL string

	// TypeResolver maps errors to problem type URIs.
	// If nil, the [ErrorCode] of the error is used, or "about:blank".
	TypeResolver func(err error) string

	// StatusResolver determines HTTP status from error.
	// If nil, [StatusOf] is used.
	StatusResolver func(err error) int

	// ErrorIDGenerator generates unique IDs for error correlation.
	// If nil, a random 128-bit hex ID is used.
	ErrorIDGenerator func() string

	// DisableErrorID disables the "error_id" extension.
	DisableErrorID bool
}

// ProblemDetail is an RFC 9457 problem detail.
// Extensions are marshaled inline next to the standard members.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"-"`
}

// MarshalJSON implements json.Marshaler. Extensions never overwrite the
// standard members.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extensions)+5)
	for k, v := range p.Extensions {
		m[k] = v
	}

	m["type"] = p.Type
	m["title"] = p.Title
	m["status"] = p.Status
	delete(m, "detail")
	delete(m, "instance")
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}

	return json.Marshal(m)
}

// Format implements [Formatter]. Details of the error are reported under
// the "errors" extension and its code under "code".
func (f *RFC9457) Format(req *http.Request, err error) Response {
	status := f.determineStatus(err)

	p := ProblemDetail{
		Type:       f.determineType(err),
		Title:      http.StatusText(status),
		Status:     status,
		Detail:     publicMessage(status, err),
		Instance:   req.URL.Path,
		Extensions: make(map[string]any),
	}

	if !f.DisableErrorID {
		if f.ErrorIDGenerator != nil {
			p.Extensions["error_id"] = f.ErrorIDGenerator()
		} else {
			p.Extensions["error_id"] = generateErrorID()
		}
	}

	var detailed ErrorDetails
	if errors.As(err, &detailed) {
		p.Extensions["errors"] = detailed.Details()
	}

	var coded ErrorCode
	if errors.As(err, &coded) {
		p.Extensions["code"] = coded.Code()
	}

	return Response{
		Status:      status,
		ContentType: "application/problem+json; charset=utf-8",
		Body:        p,
	}
}

func (f *RFC9457) determineStatus(err error) int {
	if f.StatusResolver != nil {
		return f.StatusResolver(err)
	}

	return StatusOf(err)
}

func (f *RFC9457) determineType(err error) string {
	if f.TypeResolver != nil {
		return f.TypeResolver(err)
	}

	var coded ErrorCode
	if errors.As(err, &coded) {
		if f.BaseURL != "" {
			return f.BaseURL + "/" + coded.Code()
		}

		return coded.Code()
	}

	return "about:blank"
}

// generateErrorID returns a random ID, falling back to a timestamp if the
// system random source fails.
func generateErrorID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("err-%d", time.Now().UnixNano())
	}

	return "err-" + hex.EncodeToString(b)
}
