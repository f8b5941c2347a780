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

func TestSimple_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		formatter  *Simple
		err        error
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name:       "plain error is an opaque 500",
			formatter:  NewSimple(),
			err:        &testError{message: "db password rejected"},
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]any{"error": "Internal Server Error"},
		},
		{
			name:       "status",
			formatter:  NewSimple(),
			err:        statusedError{&testError{message: "not found", status: http.StatusNotFound}},
			wantStatus: http.StatusNotFound,
			wantBody:   map[string]any{"error": "not found"},
		},
		{
			name:      "code status and details",
			formatter: NewSimple(),
			err: fullError{&testError{
				message: "bad input",
				code:    "validation_error",
				status:  http.StatusBadRequest,
				details: map[string]any{"name": "Required"},
			}},
			wantStatus: http.StatusBadRequest,
			wantBody: map[string]any{
				"error":   "bad input",
				"code":    "validation_error",
				"details": map[string]any{"name": "Required"},
			},
		},
		{
			name:       "with status",
			formatter:  NewSimple(),
			err:        WithStatus(&testError{message: "taken"}, http.StatusConflict),
			wantStatus: http.StatusConflict,
			wantBody:   map[string]any{"error": "taken"},
		},
		{
			name: "custom status resolver",
			formatter: &Simple{
				StatusResolver: func(error) int { return http.StatusTeapot },
			},
			err:        &testError{message: "short and stout"},
			wantStatus: http.StatusTeapot,
			wantBody:   map[string]any{"error": "short and stout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			response := tt.formatter.Format(req, tt.err)

			assert.Equal(t, tt.wantStatus, response.Status)
			assert.Equal(t, "application/json; charset=utf-8", response.ContentType)
			assert.Equal(t, tt.wantBody, response.Body)
		})
	}
}

func TestSimple_MarshalJSON(t *testing.T) {
	t.Parallel()

	err := fullError{&testError{message: "bad request", code: "invalid_input", status: http.StatusBadRequest}}
	response := NewSimple().Format(httptest.NewRequest(http.MethodGet, "/", nil), err)

	data, marshalErr := json.Marshal(response.Body)
	require.NoError(t, marshalErr)

	var result map[string]any
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, "bad request", result["error"])
	assert.Equal(t, "invalid_input", result["code"])
}
