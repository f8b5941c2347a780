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
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	t.Parallel()

	f, err := ByName("", "")
	require.NoError(t, err)
	assert.IsType(t, &Simple{}, f)

	f, err = ByName("RFC9457", "https://example.com/p")
	require.NoError(t, err)
	require.IsType(t, &RFC9457{}, f)
	assert.Equal(t, "https://example.com/p", f.(*RFC9457).BaseURL)

	_, err = ByName("jsonapi", "")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWithStatus(t *testing.T) {
	t.Parallel()

	base := errors.New("gone")
	err := WithStatus(base, http.StatusGone)

	require.ErrorIs(t, err, base)
	assert.Equal(t, "gone", err.Error())
	assert.Equal(t, http.StatusGone, StatusOf(err))

	assert.Equal(t, "No Content", WithStatus(nil, http.StatusNoContent).Error())
}

func TestStatusOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("x")))
	assert.Equal(t, http.StatusNotFound, StatusOf(statusedError{&testError{status: http.StatusNotFound}}))
}

func TestRequestError(t *testing.T) {
	t.Parallel()

	err := NewRequestError(http.StatusForbidden, "read-only")
	assert.Equal(t, "403 Forbidden: read-only", err.Error())
	assert.Equal(t, http.StatusForbidden, err.HTTPStatus())
	assert.Equal(t, "read-only", err.Details())

	structured := &RequestError{Payload: map[string]any{"reason": "x"}}
	assert.Equal(t, http.StatusBadRequest, structured.HTTPStatus())
	assert.Equal(t, "400 Bad Request", structured.Error())

	var typed ErrorType
	require.ErrorAs(t, error(err), &typed)
}
