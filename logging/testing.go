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
	"bufio"
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// LogEntry is a parsed JSON log entry.
type LogEntry struct {
	Level   string
	Message string
	Attrs   map[string]any
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) snapshot() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	return bytes.Clone(b.buf.Bytes())
}

func (b *syncBuffer) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// NewTestLogger creates a debug-level JSON [Logger] writing to an in-memory
// buffer. Inspect the buffer with [ParseJSONLogEntries].
func NewTestLogger() (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := MustNew(
		WithJSONHandler(),
		WithOutput(buf),
		WithLevel(LevelDebug),
	)

	return logger, buf
}

// ParseJSONLogEntries parses JSON log lines without consuming buf.
func ParseJSONLogEntries(buf *bytes.Buffer) ([]LogEntry, error) {
	return parseEntries(buf.Bytes())
}

func parseEntries(data []byte) ([]LogEntry, error) {
	var entries []LogEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return nil, err
		}

		le := LogEntry{Attrs: make(map[string]any)}
		le.Message, _ = entry["msg"].(string)
		le.Level, _ = entry["level"].(string)
		for k, v := range entry {
			if k != "time" && k != "level" && k != "msg" {
				le.Attrs[k] = v
			}
		}

		entries = append(entries, le)
	}

	return entries, scanner.Err()
}

// TestHelper captures the output of a [Logger] for assertions.
// It is safe to log from several goroutines while testing.
type TestHelper struct {
	Logger *Logger
	buf    *syncBuffer
}

// NewTestHelper creates a [TestHelper] with a debug-level JSON logger.
// Additional options are applied after the defaults.
func NewTestHelper(t *testing.T, opts ...Option) *TestHelper {
	t.Helper()

	buf := &syncBuffer{}
	defaults := []Option{
		WithJSONHandler(),
		WithOutput(buf),
		WithLevel(LevelDebug),
	}

	return &TestHelper{
		Logger: MustNew(append(defaults, opts...)...),
		buf:    buf,
	}
}

// Logs returns all parsed log entries.
func (th *TestHelper) Logs() ([]LogEntry, error) {
	return parseEntries(th.buf.snapshot())
}

// ContainsLog reports whether any entry has the given message.
func (th *TestHelper) ContainsLog(msg string) bool {
	entries, err := th.Logs()
	if err != nil {
		return false
	}

	for _, entry := range entries {
		if entry.Message == msg {
			return true
		}
	}

	return false
}

// CountLevel returns the number of entries at the given level ("INFO", ...).
func (th *TestHelper) CountLevel(level string) int {
	entries, err := th.Logs()
	if err != nil {
		return 0
	}

	count := 0
	for _, entry := range entries {
		if entry.Level == level {
			count++
		}
	}

	return count
}

// Reset clears the captured output.
func (th *TestHelper) Reset() {
	th.buf.reset()
}

// AssertLog fails the test unless an entry with the given level, message
// and attributes exists. Attribute values compare by their printed form,
// so numbers decoded as float64 match ints.
func (th *TestHelper) AssertLog(t *testing.T, level, msg string, attrs map[string]any) {
	t.Helper()

	entries, err := th.Logs()
	require.NoError(t, err, "failed to parse logs")

	for _, entry := range entries {
		if entry.Level == level && entry.Message == msg && hasAttrs(entry, attrs) {
			return
		}
	}

	require.Fail(t, "log entry not found", "level=%s msg=%s attrs=%v", level, msg, attrs)
}

func hasAttrs(entry LogEntry, attrs map[string]any) bool {
	for k, want := range attrs {
		got, ok := entry.Attrs[k]
		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}

	return true
}
