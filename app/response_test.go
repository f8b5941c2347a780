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

package app

import (
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	keelerrors "rivaas.dev/keel/errors"
	"rivaas.dev/keel/stream"
)

type user struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestEncodeBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        any
		accept      string
		contentType string
		wantType    string
		wantData    string
	}{
		{name: "nil", body: nil},
		{name: "no body", body: NoBody},
		{name: "string", body: "hello", wantType: MediaTypeText, wantData: "hello"},
		{name: "bytes", body: []byte{1, 2}, wantType: MediaTypeOctetStream, wantData: "\x01\x02"},
		{name: "struct", body: user{ID: 1, Name: "ada"}, wantType: MediaTypeJSON, wantData: `{"id":1,"name":"ada"}`},
		{name: "number", body: 42, wantType: MediaTypeJSON, wantData: "42"},
		{name: "accept wildcard", body: true, accept: "*/*", wantType: MediaTypeJSON, wantData: "true"},
		{
			name:     "yaml by accept",
			body:     user{ID: 1, Name: "ada"},
			accept:   "application/yaml",
			wantType: MediaTypeYAML,
			wantData: "id: 1\nname: ada\n",
		},
		{
			name:        "explicit content type wins",
			body:        map[string]int{"n": 1},
			accept:      "application/json",
			contentType: "application/x-yaml",
			wantType:    "application/x-yaml",
			wantData:    "n: 1\n",
		},
		{
			name:        "explicit type for string",
			body:        "<p>hi</p>",
			contentType: "text/html",
			wantType:    "text/html",
			wantData:    "<p>hi</p>",
		},
		{name: "unsupported accept falls back to json", body: 1, accept: "image/png", wantType: MediaTypeJSON, wantData: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.accept != "" {
				r.Header.Set("Accept", tt.accept)
			}
			h := http.Header{}
			if tt.contentType != "" {
				h.Set("Content-Type", tt.contentType)
			}

			p, err := encodeBody(r, h, tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, h.Get("Content-Type"))
			assert.Equal(t, tt.wantData, string(p.data))
			assert.Nil(t, p.events)
		})
	}
}

func TestEncodeBody_MsgPack(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept", "application/msgpack")
	h := http.Header{}

	p, err := encodeBody(r, h, user{ID: 7, Name: "grace"})
	require.NoError(t, err)
	assert.Equal(t, MediaTypeMsgPack, h.Get("Content-Type"))

	var got map[string]any
	require.NoError(t, msgpack.Unmarshal(p.data, &got))
	assert.Equal(t, "grace", got["name"])
	assert.EqualValues(t, 7, got["id"])
}

func TestEncodeBody_Reader(t *testing.T) {
	t.Parallel()

	h := http.Header{}
	p, err := encodeBody(httptest.NewRequest(http.MethodGet, "/", nil), h, strings.NewReader("raw"))
	require.NoError(t, err)
	assert.Equal(t, MediaTypeOctetStream, h.Get("Content-Type"))
	require.NotNil(t, p.reader)
}

func TestEncodeBody_Unencodable(t *testing.T) {
	t.Parallel()

	_, err := encodeBody(httptest.NewRequest(http.MethodGet, "/", nil), http.Header{}, map[string]any{"f": func() {}})
	require.Error(t, err)
}

func TestResponse_Negotiation(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)
	a.GET("/user", ok(user{ID: 1, Name: "ada"}))

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.Header.Set("Accept", "application/json;q=0.5, application/yaml")
	resp, err := a.Test(req)
	require.NoError(t, err)
	assert.Equal(t, MediaTypeYAML, resp.Header.Get("Content-Type"))

	var got user
	require.NoError(t, yaml.Unmarshal([]byte(readBody(t, resp)), &got))
	assert.Equal(t, user{ID: 1, Name: "ada"}, got)
}

func TestResponse_NilIsNoContent(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t)
	a.DELETE("/user", ok(nil))

	resp, err := a.Test(httptest.NewRequest(http.MethodDelete, "/user", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, readBody(t, resp))
}

func TestResponse_UnencodableBody(t *testing.T) {
	t.Parallel()

	a, th := newTestApp(t)
	a.GET("/bad", ok(map[string]any{"ch": make(chan<- int)}))

	resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/bad", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.True(t, th.ContainsLog("request failed"))
}

func TestServerSentEvents(t *testing.T) {
	t.Parallel()

	numbers := func(yield func(int) bool) {
		for i := range 3 {
			if !yield(i) {
				return
			}
		}
	}
	named := func(yield func(string, map[string]int) bool) {
		if !yield("tick", map[string]int{"n": 1}) {
			return
		}
		yield("tock", map[string]int{"n": 2})
	}
	failing := func(yield func(string, error) bool) {
		if !yield("first", nil) {
			return
		}
		yield("", keelerrors.NewRequestError(http.StatusConflict, "stale cursor"))
	}
	opaque := func(yield func(string, error) bool) {
		yield("", errors.New("database gone"))
	}

	tests := []struct {
		name string
		body func() any
		want string
	}{
		{
			name: "seq",
			body: func() any { return iter.Seq[int](numbers) },
			want: "data: 0\n\ndata: 1\n\ndata: 2\n\n",
		},
		{
			name: "seq2 with names",
			body: func() any { return iter.Seq2[string, map[string]int](named) },
			want: "event: tick\ndata: {\"n\":1}\n\nevent: tock\ndata: {\"n\":2}\n\n",
		},
		{
			name: "seq2 with request error",
			body: func() any { return iter.Seq2[string, error](failing) },
			want: "data: first\n\nevent: error\ndata: {\"error\":\"stale cursor\",\"status\":409}\n\n",
		},
		{
			name: "seq2 with internal error",
			body: func() any { return iter.Seq2[string, error](opaque) },
			want: "event: error\ndata: {\"error\":\"Internal Server Error\",\"status\":500}\n\n",
		},
		{
			name: "channel",
			body: func() any {
				ch := make(chan string, 2)
				ch <- "a\nb"
				ch <- "c"
				close(ch)

				return (<-chan string)(ch)
			},
			want: "data: a\ndata: b\n\ndata: c\n\n",
		},
		{
			name: "stream",
			body: func() any { return stream.FromSlice([]user{{ID: 1, Name: "ada"}}) },
			want: "data: {\"id\":1,\"name\":\"ada\"}\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, _ := newTestApp(t)
			a.GET("/events", func(*Context) (any, error) { return tt.body(), nil })

			resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/events", nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, MediaTypeEventStream, resp.Header.Get("Content-Type"))
			assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))
			assert.Equal(t, tt.want, readBody(t, resp))
		})
	}
}

func TestWriteEvent(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	require.NoError(t, writeEvent(&sb, "msg", "line1\r\nline2"))
	assert.Equal(t, "event: msg\ndata: line1\ndata: line2\n\n", sb.String())

	sb.Reset()
	require.Error(t, writeEvent(&sb, "", func() {}))
}
