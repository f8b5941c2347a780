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
	"context"
	"errors"
	"io"

	"rivaas.dev/keel/stream"
	"rivaas.dev/keel/validation"
)

// chunkSize is the read size for streamed raw bodies.
const chunkSize = 32 << 10

func init() {
	RegisterDecoder(MediaTypeOctetStream, DecoderFunc(decodeRaw))
}

// decodeRaw returns the body as []byte, or as a stream of chunks.
func decodeRaw(body io.ReadCloser, _ MediaType, opts BodyOptions) (any, error) {
	if opts.Stream {
		return Chunks(body), nil
	}

	data, err := readAll(body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return validation.Undefined, nil
	}

	return data, nil
}

// Chunks returns a stream reading body in chunks of up to 32 KiB.
// Each chunk is a fresh slice the consumer may keep.
func Chunks(body io.ReadCloser) *stream.Stream[[]byte] {
	buf := make([]byte, chunkSize)

	return stream.New(func(context.Context) ([]byte, error) {
		for {
			n, err := body.Read(buf)
			if n > 0 {
				return append([]byte(nil), buf[:n]...), nil
			}
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			if err != nil {
				return nil, bodyError(err)
			}
		}
	}, body.Close)
}
