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
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"

	"rivaas.dev/keel/stream"
	"rivaas.dev/keel/validation"
)

func init() {
	RegisterDecoder(MediaTypeMultipartForm, DecoderFunc(decodeMultipart))
}

// Part is one part of a multipart/form-data body.
//
// In a materialized body, file parts appear as *Part with their content
// buffered. In a streamed body every part is a *Part: plain fields carry
// their coerced value in Value, file parts are read with [Part.Read] before
// the next call to Next.
type Part struct {
	Name        string
	Filename    string
	ContentType string
	Header      textproto.MIMEHeader

	// Value is the coerced value of a non-file field in a streamed body.
	Value any

	data []byte
	r    io.Reader
}

// IsFile reports whether the part is a file upload.
func (p *Part) IsFile() bool {
	return p.Filename != ""
}

// Read implements io.Reader over the part content.
func (p *Part) Read(b []byte) (int, error) {
	if p.r == nil {
		p.r = bytes.NewReader(p.data)
	}

	return p.r.Read(b)
}

// Bytes returns the buffered part content. Streamed file parts are not
// buffered; read them with [Part.Read].
func (p *Part) Bytes() []byte {
	return p.data
}

func decodeMultipart(body io.ReadCloser, mt MediaType, opts BodyOptions) (any, error) {
	boundary := mt.Params["boundary"]
	if boundary == "" {
		return nil, bodyError(ErrMissingBoundary)
	}

	mr := multipart.NewReader(body, boundary)
	if opts.Stream {
		return multipartStream(mr, body, opts), nil
	}

	return readMultipart(mr, opts.maxMemory())
}

// readMultipart buffers every part. Fields become strings, files *Part.
// Repeated names collect into a list.
func readMultipart(mr *multipart.Reader, maxMemory int64) (any, error) {
	out := map[string]any{}
	remaining := maxMemory

	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed("multipart", err)
		}

		data, err := io.ReadAll(io.LimitReader(p, remaining+1))
		_ = p.Close()
		if err != nil {
			return nil, bodyError(err)
		}
		remaining -= int64(len(data))
		if remaining < 0 {
			return nil, bodyError(fmt.Errorf("%w: multipart data exceeds %d bytes", ErrBodyTooLarge, maxMemory))
		}

		name := p.FormName()
		if name == "" {
			continue
		}

		var v any = string(data)
		if p.FileName() != "" {
			v = newPart(p, data)
		}
		addValue(out, name, v)
	}

	if len(out) == 0 {
		return validation.Undefined, nil
	}

	return out, nil
}

func newPart(p *multipart.Part, data []byte) *Part {
	return &Part{
		Name:        p.FormName(),
		Filename:    p.FileName(),
		ContentType: p.Header.Get("Content-Type"),
		Header:      p.Header,
		data:        data,
	}
}

func addValue(out map[string]any, name string, v any) {
	prev, ok := out[name]
	if !ok {
		out[name] = v
		return
	}

	if list, ok := prev.([]any); ok {
		out[name] = append(list, v)
		return
	}
	out[name] = []any{prev, v}
}

// multipartStream yields one *Part per form part. Plain fields are read and
// coerced against the body schema; file parts stay unread.
func multipartStream(mr *multipart.Reader, body io.Closer, opts BodyOptions) *stream.Stream[*Part] {
	fields := newFieldCoercer(opts)
	limit := opts.maxMemory()

	return stream.New(func(context.Context) (*Part, error) {
		for {
			p, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				return nil, fields.finish()
			}
			if err != nil {
				return nil, malformed("multipart", err)
			}

			name := p.FormName()
			if name == "" {
				continue
			}

			part := newPart(p, nil)
			if part.IsFile() {
				part.r = p
				fields.seen[name] = true

				return part, nil
			}

			data, err := io.ReadAll(io.LimitReader(p, limit+1))
			if err != nil {
				return nil, bodyError(err)
			}
			if int64(len(data)) > limit {
				return nil, bodyError(fmt.Errorf("%w: multipart field %q exceeds %d bytes", ErrBodyTooLarge, name, limit))
			}
			part.data = data

			part.Value, err = fields.coerce(name, string(data))
			if err != nil {
				return nil, err
			}

			return part, nil
		}
	}, body.Close)
}
