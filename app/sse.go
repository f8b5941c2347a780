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

package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"reflect"

	"github.com/goccy/go-json"

	keelerrors "rivaas.dev/keel/errors"
	"rivaas.dev/keel/stream"
	"rivaas.dev/keel/telemetry/semconv"
)

// event is one server-sent event. A non-nil err ends the stream.
type event struct {
	name string
	data any
	err  error
}

type eventSeq = iter.Seq[event]

var errorType = reflect.TypeFor[error]()

// streamEvents drains s and closes it when iteration ends.
func streamEvents(ctx context.Context, s stream.Untyped) eventSeq {
	return func(yield func(event) bool) {
		defer func() { _ = s.Close() }()

		for {
			v, err := s.NextValue(ctx)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(event{err: err})
				return
			}
			if !yield(event{data: v}) {
				return
			}
		}
	}
}

// eventsOf recognizes iter.Seq, iter.Seq2 and receive channels of any
// element type.
//
// For an iter.Seq2 whose second type is an error, the error ends the
// stream; otherwise the first value names the event.
func eventsOf(ctx context.Context, v any) (eventSeq, bool) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Chan:
		if rv.Type().ChanDir()&reflect.RecvDir == 0 {
			return nil, false
		}

		return chanEvents(ctx, rv), true
	case reflect.Func:
		return seqEvents(rv)
	default:
		return nil, false
	}
}

func seqEvents(rv reflect.Value) (eventSeq, bool) {
	t := rv.Type()
	if t.NumIn() != 1 || t.NumOut() != 0 {
		return nil, false
	}

	yieldType := t.In(0)
	if yieldType.Kind() != reflect.Func || yieldType.NumOut() != 1 || yieldType.Out(0).Kind() != reflect.Bool {
		return nil, false
	}

	pair := yieldType.NumIn() == 2
	if !pair && yieldType.NumIn() != 1 {
		return nil, false
	}
	errSecond := pair && yieldType.In(1).Implements(errorType)

	return func(yield func(event) bool) {
		fn := reflect.MakeFunc(yieldType, func(args []reflect.Value) []reflect.Value {
			var ev event
			switch {
			case !pair:
				ev.data = args[0].Interface()
			case errSecond:
				ev.data = args[0].Interface()
				if !isNil(args[1]) {
					ev.err, _ = args[1].Interface().(error)
				}
			default:
				ev.name = eventName(args[0])
				ev.data = args[1].Interface()
			}

			return []reflect.Value{reflect.ValueOf(yield(ev))}
		})
		rv.Call([]reflect.Value{fn})
	}, true
}

func chanEvents(ctx context.Context, rv reflect.Value) eventSeq {
	return func(yield func(event) bool) {
		cases := []reflect.SelectCase{
			{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())},
			{Dir: reflect.SelectRecv, Chan: rv},
		}
		for {
			chosen, v, ok := reflect.Select(cases)
			if chosen == 0 || !ok {
				return
			}

			ev := event{data: v.Interface()}
			if err, isErr := ev.data.(error); isErr {
				ev = event{err: err}
			}
			if !yield(ev) {
				return
			}
		}
	}
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

func eventName(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}

	return fmt.Sprint(v.Interface())
}

// writeEvent writes one event in text/event-stream framing.
func writeEvent(w io.Writer, name string, data any) error {
	var text string
	switch d := data.(type) {
	case string:
		text = d
	case []byte:
		text = string(d)
	default:
		b, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
		text = string(b)
	}

	var buf bytes.Buffer
	if name != "" {
		_, _ = fmt.Fprintf(&buf, "event: %s\n", name)
	}
	for _, line := range textLines(text) {
		_, _ = fmt.Fprintf(&buf, "data: %s\n", line)
	}
	buf.WriteByte('\n')

	_, err := w.Write(buf.Bytes())

	return err
}

// eventError is the data of the terminal "error" event. Request errors
// keep their payload; anything else is opaque.
func eventError(err error) any {
	var reqErr *keelerrors.RequestError
	if errors.As(err, &reqErr) {
		return map[string]any{"status": reqErr.HTTPStatus(), "error": reqErr.Payload}
	}

	return map[string]any{"status": http.StatusInternalServerError, "error": http.StatusText(http.StatusInternalServerError)}
}

// sendEvents streams seq, flushing after each event. It stops when the
// client goes away or a write fails.
func (a *App) sendEvents(ex *exchange, seq eventSeq) {
	ctx := ex.r.Context()
	rc := http.NewResponseController(ex.w)
	_ = rc.Flush()

	for ev := range seq {
		if ctx.Err() != nil {
			return
		}
		if ev.err != nil {
			ex.err = ev.err
			ex.log.ErrorContext(ctx, "event stream failed", semconv.Error, ev.err)
			_ = writeEvent(ex.w, "error", eventError(ev.err))
			_ = rc.Flush()

			return
		}
		if err := writeEvent(ex.w, ev.name, ev.data); err != nil {
			ex.log.DebugContext(ctx, "event stream write failed", semconv.Error, err)
			return
		}
		if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return
		}
	}
}
