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

package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

// Validator is implemented by binding targets that check themselves.
type Validator interface {
	Validate() error
}

// Bind decodes the current values into target, a pointer to a struct.
// It behaves like the binding installed by [WithBinding] but can be called
// with any number of targets after Load.
func (c *Config) Bind(target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrBadBinding
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.decode(c.values, target); err != nil {
		return NewError("binding", "bind", err)
	}

	return nil
}

// decode fills a fresh value of target's type, applies defaults and
// validation, then copies it into target. target is left untouched on error.
func (c *Config) decode(values map[string]any, target any) error {
	dst := reflect.ValueOf(target).Elem()
	tmp := reflect.New(dst.Type())

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          c.tagName,
		Squash:           true,
		WeaklyTypedInput: true,
		Result:           tmp.Interface(),
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err = dec.Decode(values); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err = setDefaults(tmp.Elem()); err != nil {
		return err
	}
	if v, ok := tmp.Interface().(Validator); ok {
		if err = v.Validate(); err != nil {
			return err
		}
	}

	dst.Set(tmp.Elem())

	return nil
}

var durationType = reflect.TypeFor[time.Duration]()

// setDefaults fills zero-valued fields from their `default` tag,
// descending into nested structs.
func setDefaults(v reflect.Value) error {
	t := v.Type()
	for i := range v.NumField() {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeFor[time.Time]() {
			if err := setDefaults(field); err != nil {
				return err
			}
			continue
		}

		def, ok := t.Field(i).Tag.Lookup("default")
		if !ok || !field.IsZero() {
			continue
		}
		if err := setDefault(field, def); err != nil {
			return fmt.Errorf("default for %s: %w", t.Field(i).Name, err)
		}
	}

	return nil
}

func setDefault(field reflect.Value, def string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(def)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == durationType {
			d, err := cast.ToDurationE(def)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))

			return nil
		}
		n, err := cast.ToInt64E(def)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := cast.ToUint64E(def)
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(def)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := cast.ToBoolE(def)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported default type %s", field.Type())
		}
		field.Set(reflect.ValueOf(cast.ToStringSlice(def)).Convert(field.Type()))
	default:
		return fmt.Errorf("unsupported default type %s", field.Type())
	}

	return nil
}
