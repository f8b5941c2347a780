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
	"bytes"
	"io"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/keel/schema"
	"rivaas.dev/keel/stream"
	"rivaas.dev/keel/validation"
)

type formPart struct {
	name, filename, value string
}

func multipartBody(t *testing.T, parts ...formPart) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		var (
			pw  io.Writer
			err error
		)
		if p.filename != "" {
			pw, err = w.CreateFormFile(p.name, p.filename)
		} else {
			pw, err = w.CreateFormField(p.name)
		}
		require.NoError(t, err)
		_, err = io.WriteString(pw, p.value)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestMultipart_Materialized(t *testing.T) {
	t.Parallel()

	body, ct := multipartBody(t,
		formPart{name: "title", value: "report"},
		formPart{name: "tag", value: "a"},
		formPart{name: "tag", value: "b"},
		formPart{name: "file", filename: "r.txt", value: "contents"},
	)

	got, err := Body(newRequest(ct, body), BodyOptions{})
	require.NoError(t, err)

	obj, ok := got.(map[string]any)
	require.True(t, ok, "got %T", got)
	assert.Equal(t, "report", obj["title"])
	assert.Equal(t, []any{"a", "b"}, obj["tag"])

	file, ok := obj["file"].(*Part)
	require.True(t, ok, "got %T", obj["file"])
	assert.True(t, file.IsFile())
	assert.Equal(t, "r.txt", file.Filename)
	assert.Equal(t, "application/octet-stream", file.ContentType)
	assert.Equal(t, []byte("contents"), file.Bytes())

	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "contents", string(data))
}

func TestMultipart_MaterializedValidates(t *testing.T) {
	t.Parallel()

	body, ct := multipartBody(t,
		formPart{name: "count", value: "3"},
		formPart{name: "file", filename: "a.bin", value: "xyz"},
	)
	got, err := Body(newRequest(ct, body), BodyOptions{})
	require.NoError(t, err)

	s := schema.MultipartForm(
		schema.Prop("count", schema.Integer()),
		schema.Prop("file", schema.ByteArray()),
	)
	v, err := validation.Validate(got, s, false)
	require.NoError(t, err)

	obj := v.(map[string]any)
	assert.Equal(t, int64(3), obj["count"])
	assert.IsType(t, &Part{}, obj["file"])
}

func TestMultipart_MissingBoundary(t *testing.T) {
	t.Parallel()

	_, err := Body(newRequest("multipart/form-data", bytes.NewReader([]byte("x"))), BodyOptions{})
	require.ErrorIs(t, err, ErrMissingBoundary)
}

func TestMultipart_MaxMemory(t *testing.T) {
	t.Parallel()

	body, ct := multipartBody(t, formPart{name: "big", value: "0123456789"})
	_, err := Body(newRequest(ct, body), BodyOptions{MaxMemory: 4})
	require.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestMultipart_Stream(t *testing.T) {
	t.Parallel()

	body, ct := multipartBody(t,
		formPart{name: "count", value: "3"},
		formPart{name: "file", filename: "a.bin", value: "xyz"},
		formPart{name: "note", value: "hi"},
	)
	s := schema.Stream(schema.MultipartForm(
		schema.Prop("count", schema.Integer()),
		schema.Prop("file", schema.ByteArray()),
	))

	got, err := Body(newRequest(ct, body), BodyOptions{Stream: true, Schema: s})
	require.NoError(t, err)

	parts, ok := got.(*stream.Stream[*Part])
	require.True(t, ok, "got %T", got)
	defer parts.Close()

	ctx := t.Context()

	p, err := parts.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "count", p.Name)
	assert.Equal(t, int64(3), p.Value)
	assert.False(t, p.IsFile())

	p, err = parts.Next(ctx)
	require.NoError(t, err)
	assert.True(t, p.IsFile())
	data, err := io.ReadAll(p)
	require.NoError(t, err)
	assert.Equal(t, "xyz", string(data))

	p, err = parts.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hi", p.Value)

	_, err = parts.Next(ctx)
	require.ErrorIs(t, err, io.EOF)
}

func TestMultipart_StreamInvalidField(t *testing.T) {
	t.Parallel()

	body, ct := multipartBody(t, formPart{name: "count", value: "many"})
	s := schema.MultipartForm(schema.Prop("count", schema.Integer()))

	got, err := Body(newRequest(ct, body), BodyOptions{Stream: true, Schema: s})
	require.NoError(t, err)

	_, err = got.(*stream.Stream[*Part]).Next(t.Context())
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("count"))
}
