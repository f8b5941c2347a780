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
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"rivaas.dev/keel/schema"
	"rivaas.dev/keel/validation"
)

// DefaultMaxMemory is the default cap on multipart data held in memory.
const DefaultMaxMemory = 32 << 20 // 32 MB

// BodyOptions configures [Body].
type BodyOptions struct {
	// Stream delivers form, multipart and raw bodies incrementally as a
	// *stream.Stream instead of materializing them.
	Stream bool

	// MaxBytes caps the body size; 0 means unlimited.
	MaxBytes int64

	// MaxMemory caps materialized multipart data; 0 means [DefaultMaxMemory].
	MaxMemory int64

	// Schema is the body schema. Streamed form and multipart fields are
	// coerced against its properties as they are read.
	Schema *schema.Schema

	// Validator coerces streamed fields; nil means [validation.Default].
	Validator *validation.Validator
}

func (o BodyOptions) validator() *validation.Validator {
	if o.Validator != nil {
		return o.Validator
	}

	return validation.Default()
}

func (o BodyOptions) maxMemory() int64 {
	if o.MaxMemory > 0 {
		return o.MaxMemory
	}

	return DefaultMaxMemory
}

// MediaType is a parsed Content-Type.
type MediaType struct {
	Type   string            // Lowercase "type/subtype"
	Params map[string]string // e.g. "charset", "boundary"
}

// ParseMediaType parses a Content-Type header value. An empty value yields
// application/octet-stream.
func ParseMediaType(contentType string) (MediaType, error) {
	if strings.TrimSpace(contentType) == "" {
		return MediaType{Type: MediaTypeOctetStream}, nil
	}

	typ, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return MediaType{}, fmt.Errorf("%w: %q: %v", ErrUnsupportedMediaType, contentType, err)
	}

	return MediaType{Type: typ, Params: params}, nil
}

// Body decodes the request body by its Content-Type:
//
//   - application/json (and +json): decoded JSON value
//   - text/*: string
//   - application/x-www-form-urlencoded: object, or stream of [FormField]
//   - multipart/form-data: object, or stream of [*Part]
//   - application/yaml, application/toml, application/msgpack: decoded value
//   - anything else: []byte, or stream of byte chunks
//
// An empty body decodes to [validation.Undefined]. Decode failures are
// returned as a [*StreamError].
//
// Example:
//
//	v, err := binding.Body(r, binding.BodyOptions{MaxBytes: 1 << 20})
func Body(r *http.Request, opts BodyOptions) (any, error) {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return validation.Undefined, nil
	}

	mt, err := ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, bodyError(err)
	}

	body := r.Body
	if opts.MaxBytes > 0 {
		body = http.MaxBytesReader(nil, body, opts.MaxBytes)
	}

	v, err := lookupDecoder(mt.Type).Decode(body, mt, opts)
	if err != nil {
		var se *StreamError
		if errors.As(err, &se) {
			return nil, se
		}

		return nil, bodyError(err)
	}

	return v, nil
}

// readAll reads a materialized body. An empty body yields nil data.
func readAll(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, bodyError(err)
	}

	return data, nil
}

func malformed(kind string, err error) error {
	return bodyError(fmt.Errorf("%w: %s: %v", ErrMalformedBody, kind, err))
}
