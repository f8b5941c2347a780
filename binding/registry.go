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
	"io"
	"strings"
	"sync"
)

// Decoder decodes a request body of one media type into validator input.
// Implementations must be safe for concurrent use.
type Decoder interface {
	// Decode reads body. Materialized results are plain decoded values;
	// with opts.Stream set, a decoder may return a *stream.Stream instead.
	Decode(body io.ReadCloser, mt MediaType, opts BodyOptions) (any, error)
}

// DecoderFunc adapts a function to [Decoder].
type DecoderFunc func(body io.ReadCloser, mt MediaType, opts BodyOptions) (any, error)

// Decode implements [Decoder].
func (f DecoderFunc) Decode(body io.ReadCloser, mt MediaType, opts BodyOptions) (any, error) {
	return f(body, mt, opts)
}

// Media types with built-in decoders.
const (
	MediaTypeJSON          = "application/json"
	MediaTypeYAML          = "application/yaml"
	MediaTypeXYAML         = "application/x-yaml"
	MediaTypeTOML          = "application/toml"
	MediaTypeMsgPack       = "application/msgpack"
	MediaTypeXMsgPack      = "application/x-msgpack"
	MediaTypeForm          = "application/x-www-form-urlencoded"
	MediaTypeMultipartForm = "multipart/form-data"
	MediaTypeOctetStream   = "application/octet-stream"
	MediaTypeText          = "text/plain"
)

// registry holds decoders keyed by media type.
type registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

var decoders = &registry{decoders: make(map[string]Decoder)}

// RegisterDecoder registers a decoder for a media type such as
// "application/cbor", replacing any previous registration.
// Built-in decoders register themselves the same way.
//
// Example:
//
//	binding.RegisterDecoder("application/cbor", binding.DecoderFunc(decodeCBOR))
func RegisterDecoder(mediaType string, d Decoder) {
	decoders.mu.Lock()
	defer decoders.mu.Unlock()

	decoders.decoders[strings.ToLower(mediaType)] = d
}

// lookupDecoder returns the decoder for a media type. Structured syntax
// suffixes ("+json", "+yaml") and text/* fall back to their family decoder;
// anything else is read as raw bytes.
func lookupDecoder(mediaType string) Decoder {
	decoders.mu.RLock()
	defer decoders.mu.RUnlock()

	if d, ok := decoders.decoders[mediaType]; ok {
		return d
	}

	switch {
	case strings.HasSuffix(mediaType, "+json"):
		return decoders.decoders[MediaTypeJSON]
	case strings.HasSuffix(mediaType, "+yaml"):
		return decoders.decoders[MediaTypeYAML]
	case strings.HasPrefix(mediaType, "text/"):
		return decoders.decoders[MediaTypeText]
	}

	return decoders.decoders[MediaTypeOctetStream]
}
