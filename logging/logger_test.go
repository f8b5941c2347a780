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
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	logger, err := New(WithOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	assert.Equal(t, LevelInfo, logger.Level())
	assert.NotNil(t, logger.Logger())
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"nil writer", []Option{WithOutput(nil)}, ErrNilWriter},
		{"nil custom logger", []Option{WithCustomLogger(nil)}, ErrNilLogger},
		{"unknown handler", []Option{WithHandlerType("console")}, ErrInvalidHandler},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.opts...)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, "logging.MustNew: invalid configuration: output writer cannot be nil", func() {
		MustNew(WithOutput(nil))
	})
}

func TestLogger_ServiceAttributes(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t,
		WithServiceName("orders"),
		WithServiceVersion("1.2.3"),
		WithEnvironment("test"),
	)
	th.Logger.Info("started")

	th.AssertLog(t, "INFO", "started", map[string]any{
		"service.name":           "orders",
		"service.version":        "1.2.3",
		"deployment.environment": "test",
	})
	assert.Equal(t, "orders", th.Logger.ServiceName())
}

func TestLogger_Redaction(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t)
	th.Logger.Info("login", "password", "hunter2", "Authorization", "Bearer x", "user", "ada")

	th.AssertLog(t, "INFO", "login", map[string]any{
		"password":      "***REDACTED***",
		"Authorization": "***REDACTED***",
		"user":          "ada",
	})
}

func TestLogger_ReplaceAttr(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithReplaceAttr(func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == "drop" {
			return slog.Attr{}
		}
		return a
	}))
	th.Logger.Info("x", "drop", 1, "keep", 2)

	entries, err := th.Logs()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Attrs, "drop")
	assert.InDelta(t, 2, entries[0].Attrs["keep"], 0)
}

func TestLogger_SetLevel(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithLevel(LevelWarn))
	th.Logger.Info("hidden")
	th.Logger.Warn("shown")
	assert.False(t, th.ContainsLog("hidden"))
	assert.True(t, th.ContainsLog("shown"))

	require.NoError(t, th.Logger.SetLevel(LevelDebug))
	th.Logger.Debug("now visible")
	assert.True(t, th.ContainsLog("now visible"))
	assert.Equal(t, LevelDebug, th.Logger.Level())

	th.Reset()
	assert.Equal(t, 0, th.CountLevel("DEBUG"))
}

func TestLogger_CustomLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	custom := slog.New(slog.NewJSONHandler(&buf, nil))
	logger := MustNew(WithCustomLogger(custom), WithServiceName("svc"))

	logger.Error("boom")
	entries, err := ParseJSONLogEntries(&buf)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "svc", entries[0].Attrs["service.name"])

	require.ErrorIs(t, logger.SetLevel(LevelDebug), ErrCannotChangeLevel)
}

func TestLogger_TextHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := MustNew(WithTextHandler(), WithOutput(&buf))
	logger.Info("hello", "k", "v")

	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"", LevelInfo, false},
		{"debug", LevelDebug, false},
		{"WARN", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHandlerType(t *testing.T) {
	t.Parallel()

	h, err := ParseHandlerType("")
	require.NoError(t, err)
	assert.Equal(t, JSONHandler, h)

	h, err = ParseHandlerType("Text")
	require.NoError(t, err)
	assert.Equal(t, TextHandler, h)

	_, err = ParseHandlerType("xml")
	require.ErrorIs(t, err, ErrInvalidHandler)
}
