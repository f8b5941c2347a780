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
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"rivaas.dev/keel/stream"
)

// Response is an explicit HTTP response returned by a handler, a hook or a
// plugin. Body is encoded like a plain handler return value.
type Response struct {
	// Status defaults to Context.Set.Status, then 200, or 204 without a body.
	Status int
	Header http.Header
	Body   any
}

type noBody struct{}

// NoBody is a Response body that writes nothing.
var NoBody = noBody{}

// Media types produced by the response encoder.
const (
	MediaTypeJSON        = "application/json"
	MediaTypeYAML        = "application/yaml"
	MediaTypeXYAML       = "application/x-yaml"
	MediaTypeMsgPack     = "application/msgpack"
	MediaTypeXMsgPack    = "application/x-msgpack"
	MediaTypeText        = "text/plain; charset=utf-8"
	MediaTypeOctetStream = "application/octet-stream"
	MediaTypeEventStream = "text/event-stream"
)

type encoder struct {
	mediaType string
	marshal   func(v any) ([]byte, error)
}

// encoders are offered to content negotiation in preference order.
var encoders = []encoder{
	{MediaTypeJSON, json.Marshal},
	{MediaTypeYAML, marshalYAML},
	{MediaTypeMsgPack, marshalMsgPack},
	{MediaTypeXYAML, marshalYAML},
	{MediaTypeXMsgPack, marshalMsgPack},
}

var offers = func() []string {
	out := make([]string, len(encoders))
	for i, e := range encoders {
		out[i] = e.mediaType
	}

	return out
}()

// jsonCompatible converts v to the plain maps, slices and scalars its JSON
// encoding decodes to, so every encoder sees the same field names.
func jsonCompatible(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var out any
	if err = json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func marshalYAML(v any) ([]byte, error) {
	plain, err := jsonCompatible(v)
	if err != nil {
		return nil, err
	}

	return yaml.Marshal(plain)
}

func marshalMsgPack(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// selectEncoder honors an explicit Content-Type, then the Accept header,
// and falls back to JSON.
func selectEncoder(r *http.Request, h http.Header) encoder {
	if ct := h.Get("Content-Type"); ct != "" {
		base, _, _ := mime.ParseMediaType(ct)
		for _, e := range encoders {
			if e.mediaType == base {
				return e
			}
		}
	}

	if best := negotiate(r.Header.Get("Accept"), offers...); best != "" {
		for _, e := range encoders {
			if e.mediaType == best {
				return e
			}
		}
	}

	return encoders[0]
}

// payload is an encoded response body.
type payload struct {
	data   []byte
	reader io.Reader
	events eventSeq
}

// encodeBody encodes body and sets its Content-Type on h unless one is
// already present.
func encodeBody(r *http.Request, h http.Header, body any) (payload, error) {
	setType := func(ct string) {
		if h.Get("Content-Type") == "" {
			h.Set("Content-Type", ct)
		}
	}

	switch b := body.(type) {
	case nil, noBody:
		return payload{}, nil
	case string:
		setType(MediaTypeText)
		return payload{data: []byte(b)}, nil
	case []byte:
		setType(MediaTypeOctetStream)
		return payload{data: b}, nil
	case stream.Untyped:
		return payload{events: streamEvents(r.Context(), b)}, nil
	case io.Reader:
		setType(MediaTypeOctetStream)
		return payload{reader: b}, nil
	}

	if events, ok := eventsOf(r.Context(), body); ok {
		return payload{events: events}, nil
	}

	enc := selectEncoder(r, h)
	data, err := enc.marshal(body)
	if err != nil {
		return payload{}, fmt.Errorf("encode %s response: %w", enc.mediaType, err)
	}
	setType(enc.mediaType)

	return payload{data: data}, nil
}

// hasBody reports whether body produces any output.
func hasBody(body any) bool {
	switch body.(type) {
	case nil, noBody:
		return false
	default:
		return true
	}
}

// bodyAllowed reports whether status permits a response body.
func bodyAllowed(status int) bool {
	return status >= 200 && status != http.StatusNoContent && status != http.StatusNotModified
}

// isRedirect reports whether status is a 3xx code.
func isRedirect(status int) bool {
	return status >= 300 && status < 400
}

// mergeHeader copies src into dst, replacing existing keys.
func mergeHeader(dst, src http.Header) {
	for k, vs := range src {
		dst[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}
}

func closeBody(body any) {
	if c, ok := body.(io.Closer); ok {
		_ = c.Close()
	}
}

// textLines splits s on newlines, accepting CRLF.
func textLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
