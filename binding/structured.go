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

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"rivaas.dev/keel/validation"
)

// init registers the built-in structured decoders.
func init() {
	RegisterDecoder(MediaTypeJSON, materialized("json", func(data []byte) (any, error) {
		var v any
		err := json.Unmarshal(data, &v)

		return v, err
	}))

	yamlDecoder := materialized("yaml", func(data []byte) (any, error) {
		var v any
		err := yaml.Unmarshal(data, &v)

		return v, err
	})
	RegisterDecoder(MediaTypeYAML, yamlDecoder)
	RegisterDecoder(MediaTypeXYAML, yamlDecoder)

	RegisterDecoder(MediaTypeTOML, materialized("toml", func(data []byte) (any, error) {
		var v map[string]any
		err := toml.Unmarshal(data, &v)

		return v, err
	}))

	msgpackDecoder := materialized("msgpack", func(data []byte) (any, error) {
		var v any
		err := msgpack.Unmarshal(data, &v)

		return v, err
	})
	RegisterDecoder(MediaTypeMsgPack, msgpackDecoder)
	RegisterDecoder(MediaTypeXMsgPack, msgpackDecoder)

	RegisterDecoder(MediaTypeText, DecoderFunc(func(body io.ReadCloser, _ MediaType, _ BodyOptions) (any, error) {
		data, err := readAll(body)
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return validation.Undefined, nil
		}

		return string(data), nil
	}))
}

// materialized adapts an unmarshal function into a [Decoder] that reads the
// whole body first. Structured bodies are never streamed.
func materialized(kind string, unmarshal func([]byte) (any, error)) Decoder {
	return DecoderFunc(func(body io.ReadCloser, _ MediaType, _ BodyOptions) (any, error) {
		data, err := readAll(body)
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return validation.Undefined, nil
		}

		v, err := unmarshal(data)
		if err != nil {
			return nil, malformed(kind, err)
		}

		return v, nil
	})
}
