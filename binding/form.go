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
	"bufio"
	"context"
	"errors"
	"io"
	"net/url"
	"strings"

	"rivaas.dev/keel/schema"
	"rivaas.dev/keel/stream"
	"rivaas.dev/keel/validation"
)

func init() {
	RegisterDecoder(MediaTypeForm, DecoderFunc(decodeForm))
}

// FormField is one key/value pair of a streamed url-encoded body.
// Value holds the value coerced against the matching body property, or the
// raw string for undeclared keys.
type FormField struct {
	Name  string
	Value any
}

func decodeForm(body io.ReadCloser, _ MediaType, opts BodyOptions) (any, error) {
	if opts.Stream {
		return formStream(body, opts), nil
	}

	data, err := readAll(body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return validation.Undefined, nil
	}

	values, err := url.ParseQuery(string(data))
	if err != nil {
		return nil, malformed("form", err)
	}

	return Query(values), nil
}

// formStream parses "k=v&k2=v2" incrementally. Only one pair is buffered
// at a time.
func formStream(body io.ReadCloser, opts BodyOptions) *stream.Stream[FormField] {
	br := bufio.NewReader(body)
	fields := newFieldCoercer(opts)

	return stream.New(func(context.Context) (FormField, error) {
		for {
			pair, err := br.ReadString('&')
			if err != nil && !errors.Is(err, io.EOF) {
				return FormField{}, bodyError(err)
			}

			pair = strings.TrimSuffix(pair, "&")
			if pair == "" {
				if err != nil {
					return FormField{}, fields.finish()
				}

				continue
			}

			k, v, _ := strings.Cut(pair, "=")
			name, kerr := url.QueryUnescape(k)
			value, verr := url.QueryUnescape(v)
			if uerr := errors.Join(kerr, verr); uerr != nil {
				return FormField{}, malformed("form", uerr)
			}
			name, _ = strings.CutSuffix(name, "[]")

			coerced, cerr := fields.coerce(name, value)
			if cerr != nil {
				return FormField{}, cerr
			}

			return FormField{Name: name, Value: coerced}, nil
		}
	}, body.Close)
}

// fieldCoercer validates streamed fields one at a time against the body
// schema's properties and reports missing required properties at the end.
type fieldCoercer struct {
	schema    *schema.Schema
	validator *validation.Validator
	seen      map[string]bool
}

func newFieldCoercer(opts BodyOptions) *fieldCoercer {
	c := &fieldCoercer{validator: opts.validator(), seen: map[string]bool{}}
	if opts.Schema != nil && opts.Schema.Kind().IsObjectLike() {
		c.schema = opts.Schema
	}

	return c
}

// coerce validates one raw field value. Array properties validate each
// occurrence against their item schema.
func (c *fieldCoercer) coerce(name string, raw any) (any, error) {
	c.seen[name] = true
	if c.schema == nil {
		return raw, nil
	}

	prop, ok := c.schema.Prop(name)
	if !ok {
		return raw, nil
	}
	if prop.Kind() == schema.KindArray && prop.Items() != nil {
		prop = prop.Items()
	}

	v, issue := c.validator.Check(raw, prop, true)
	if issue != nil {
		return nil, &StreamError{
			Section: SectionBody,
			Err:     &validation.Error{Issue: validation.Fields{name: issue}},
		}
	}

	return v, nil
}

// finish returns io.EOF, or the missing required properties as an error.
func (c *fieldCoercer) finish() error {
	if c.schema == nil {
		return io.EOF
	}

	var missing validation.Fields
	for _, p := range c.schema.Props() {
		if c.seen[p.Name] || p.Schema.IsOptional() {
			continue
		}
		if missing == nil {
			missing = validation.Fields{}
		}
		missing[p.Name] = validation.Messages{"Required"}
	}

	if missing != nil {
		return &StreamError{Section: SectionBody, Err: &validation.Error{Issue: missing}}
	}

	return io.EOF
}
