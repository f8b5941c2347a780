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

package codec

import (
	"errors"
	"fmt"
	"sync"
)

// Type names a configuration format.
type Type string

// ErrNotFound is returned when no codec is registered for a [Type].
var ErrNotFound = errors.New("codec not found")

// Encoder turns a value into bytes. Implementations must be safe for
// concurrent use.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// Decoder fills v from bytes. Implementations must be safe for concurrent use.
type Decoder interface {
	Decode(data []byte, v any) error
}

var (
	mu       sync.RWMutex
	encoders = map[Type]Encoder{}
	decoders = map[Type]Decoder{}
)

// RegisterEncoder registers enc under name, replacing any previous encoder.
func RegisterEncoder(name Type, enc Encoder) {
	mu.Lock()
	defer mu.Unlock()
	encoders[name] = enc
}

// RegisterDecoder registers dec under name, replacing any previous decoder.
func RegisterDecoder(name Type, dec Decoder) {
	mu.Lock()
	defer mu.Unlock()
	decoders[name] = dec
}

// GetEncoder returns the encoder registered under name.
func GetEncoder(name Type) (Encoder, error) {
	mu.RLock()
	defer mu.RUnlock()
	enc, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: encoder %q", ErrNotFound, name)
	}

	return enc, nil
}

// GetDecoder returns the decoder registered under name.
func GetDecoder(name Type) (Decoder, error) {
	mu.RLock()
	defer mu.RUnlock()
	dec, ok := decoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: decoder %q", ErrNotFound, name)
	}

	return dec, nil
}
