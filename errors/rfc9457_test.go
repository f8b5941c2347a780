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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRFC9457_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		formatter  *RFC9457
		err        error
		wantStatus int
		wantType   string
		wantDetail string
	}{
		{
			name:       "plain error",
			formatter:  NewRFC9457("https://api.example.com/problems"),
			err:        &testError{message: "connection reset"},
			wantStatus: http.StatusInternalServerError,
			wantType:   "about:blank",
			wantDetail: "Internal Server Error",
		},
		{
			name:       "code becomes the type",
			formatter:  NewRFC9457("https://api.example.com/problems/"),
			err:        fullError{&testError{message: "bad", code: "validation_error", status: http.StatusBadRequest}},
			wantStatus: http.StatusBadRequest,
			wantType:   "https://api.example.com/problems/validation_error",
			wantDetail: "bad",
		},
		{
			name:       "no base URL",
			formatter:  NewRFC9457(""),
			err:        codedError{&testError{message: "x", code: "test_code"}},
			wantStatus: http.StatusInternalServerError,
			wantType:   "test_code",
			wantDetail: "Internal Server Error",
		},
		{
			name: "custom resolvers",
			formatter: &RFC9457{
				TypeResolver:   func(error) string { return "https://example.com/custom" },
				StatusResolver: func(error) int { return http.StatusTeapot },
			},
			err:        &testError{message: "tea"},
			wantStatus: http.StatusTeapot,
			wantType:   "https://example.com/custom",
			wantDetail: "tea",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			response := tt.formatter.Format(req, tt.err)

			assert.Equal(t, tt.wantStatus, response.Status)
			assert.Equal(t, "application/problem+json; charset=utf-8", response.ContentType)

			body, ok := response.Body.(ProblemDetail)
			require.True(t, ok, "got %T", response.Body)
			assert.Equal(t, tt.wantType, body.Type)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, http.StatusText(tt.wantStatus), body.Title)
			assert.Equal(t, tt.wantDetail, body.Detail)
			assert.Equal(t, "/test", body.Instance)
			assert.Contains(t, body.Extensions, "error_id")
		})
	}
}

func TestRFC9457_ErrorID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	f := &RFC9457{ErrorIDGenerator: func() string { return "custom-id-123" }}
	body := f.Format(req, &testError{message: "x"}).Body.(ProblemDetail)
	assert.Equal(t, "custom-id-123", body.Extensions["error_id"])

	f = &RFC9457{DisableErrorID: true}
	body = f.Format(req, &testError{message: "x"}).Body.(ProblemDetail)
	assert.NotContains(t, body.Extensions, "error_id")

	id := generateErrorID()
	assert.Regexp(t, `^err-[0-9a-f]{32}$`, id)
}

func TestRFC9457_Details(t *testing.T) {
	t.Parallel()

	err := fullError{&testError{
		message: "validation failed",
		code:    "validation_error",
		status:  http.StatusBadRequest,
		details: map[string]any{"query": map[string]any{"page": "Required"}},
	}}

	response := NewRFC9457("").Format(httptest.NewRequest(http.MethodGet, "/", nil), err)
	body := response.Body.(ProblemDetail)

	assert.Equal(t, map[string]any{"query": map[string]any{"page": "Required"}}, body.Extensions["errors"])
	assert.Equal(t, "validation_error", body.Extensions["code"])
}

func TestRFC9457_MarshalJSON(t *testing.T) {
	t.Parallel()

	p := ProblemDetail{
		Type:     "https://api.example.com/problems/validation_error",
		Title:    "Bad Request",
		Status:   400,
		Detail:   "Validation failed",
		Instance: "/api/users",
		Extensions: map[string]any{
			"error_id": "err-123",
			"type":     "overwritten",
			"instance": "overwritten",
		},
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, p.Type, result["type"], "extensions must not overwrite members")
	assert.Equal(t, p.Instance, result["instance"])
	assert.Equal(t, "err-123", result["error_id"])
	assert.InDelta(t, 400, result["status"], 0)
}
