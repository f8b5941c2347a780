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

// Package binding decodes the four sections of an HTTP request (headers,
// path parameters, query and body) into plain values ready for
// [rivaas.dev/keel/validation].
//
// Decoded values use a small vocabulary: map[string]any, []any, string,
// numbers, bool, []byte and nil. Schema-driven coercion happens later in the
// validator, so decoders never need to know the target type.
//
// # Sections
//
//	headers := binding.Headers(r.Header)     // {"x-id": "1, 2"}
//	query := binding.Query(r.URL.Query())    // {"page": "2", "tag": []any{"a", "b"}}
//	params := binding.Params(match.Params)   // {"id": "42"}
//
// # Bodies
//
// [Body] dispatches by Content-Type through a registry of [Decoder]s:
//
//	v, err := binding.Body(r, binding.BodyOptions{MaxBytes: 1 << 20})
//
// Built-in decoders cover JSON, YAML, TOML, MessagePack, text, url-encoded
// forms, multipart forms and raw bytes. Register more with [RegisterDecoder].
//
// # Streaming
//
// With [BodyOptions.Stream] set, url-encoded, multipart and raw bodies are
// returned as a *stream.Stream instead of being read up front:
//
//	v, _ := binding.Body(r, binding.BodyOptions{Stream: true, Schema: bodySchema})
//	parts := v.(*stream.Stream[*binding.Part])
//	for part, err := range parts.All(ctx) {
//	    ...
//	}
//
// Streamed form fields are coerced against the matching property of
// [BodyOptions.Schema] as they are read. A field that fails validation ends
// the stream with a [*StreamError] wrapping a *validation.Error.
//
// # Errors
//
// Decode failures are [*StreamError] values carrying the failed [Section].
// They wrap [ErrUnsupportedMediaType], [ErrMissingBoundary],
// [ErrBodyTooLarge] or [ErrMalformedBody].
package binding
