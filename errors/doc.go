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

// Package errors formats request failures as HTTP responses.
//
// A [Formatter] turns an error into a status, content type and JSON body.
// Two formats are provided:
//   - [Simple]: {"error": "...", "code": "...", "details": ...}
//   - [RFC9457]: RFC 9457 Problem Details (application/problem+json)
//
// Errors control the response through optional interfaces:
//
//   - [ErrorType]: HTTP status code
//   - [ErrorDetails]: structured details, such as a validation issue tree
//   - [ErrorCode]: machine-readable code
//
// Messages of 5xx errors never reach the client; the status text is sent
// instead.
//
// Handlers that need full control over the failure response return a
// [RequestError], whose payload is written verbatim:
//
//	return nil, errors.NewRequestError(http.StatusConflict, map[string]any{
//	    "reason": "version mismatch",
//	})
//
// The formatter is usually chosen from configuration:
//
//	f, err := errors.ByName("rfc9457", "https://api.example.com/problems")
package errors
