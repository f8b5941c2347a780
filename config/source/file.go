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

package source

import (
	"context"
	"fmt"
	"os"

	"rivaas.dev/keel/config/codec"
)

// File loads configuration from a file path or from in-memory content.
type File struct {
	path    string
	data    []byte
	decoder codec.Decoder
}

// NewFile creates a source that reads path on every Load.
func NewFile(path string, decoder codec.Decoder) *File {
	return &File{path: path, decoder: decoder}
}

// NewContent creates a source that decodes data, for embedded defaults and tests.
func NewContent(data []byte, decoder codec.Decoder) *File {
	return &File{data: data, decoder: decoder}
}

// Load reads and decodes the document. An empty document yields an empty map.
func (f *File) Load(context.Context) (map[string]any, error) {
	data := f.data
	if f.path != "" {
		var err error
		if data, err = os.ReadFile(f.path); err != nil {
			return nil, fmt.Errorf("read %s: %w", f.path, err)
		}
	}

	conf := map[string]any{}
	if len(data) == 0 {
		return conf, nil
	}
	if err := f.decoder.Decode(data, &conf); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if conf == nil {
		conf = map[string]any{}
	}

	return conf, nil
}

// String names the source in errors.
func (f *File) String() string {
	if f.path != "" {
		return "file:" + f.path
	}

	return "content"
}
