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

// Package stream provides a pull-based lazy sequence for incrementally
// delivered request bodies.
//
// The consumer controls pacing: nothing is read until [Stream.Next] is
// called, which gives natural backpressure against the client.
//
// Example:
//
//	for part, err := range body.All(ctx) {
//	    if err != nil {
//	        return nil, err
//	    }
//	    // use part
//	}
package stream

import (
	"context"
	"errors"
	"io"
	"iter"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by [Stream.Next] after [Stream.Close].
var ErrClosed = errors.New("stream closed")

// Untyped is implemented by every [Stream] regardless of its item type.
// It lets consumers such as response encoders drain a stream without knowing T.
type Untyped interface {
	NextValue(ctx context.Context) (any, error)
	Close() error
}

var _ Untyped = (*Stream[int])(nil)

// Stream is a pull-based sequence of T.
//
// [Stream.Next] returns io.EOF at the end of the sequence, ctx.Err() when the
// context is cancelled and [ErrClosed] after [Stream.Close]. Errors are
// sticky: once Next fails, every later call returns the same error.
//
// Next must not be called concurrently. Close may be called from any
// goroutine, any number of times.
type Stream[T any] struct {
	next   func(ctx context.Context) (T, error)
	closer func() error

	err       error
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// New creates a stream that pulls items from next.
// closer, if not nil, releases the underlying source and runs once.
func New[T any](next func(ctx context.Context) (T, error), closer func() error) *Stream[T] {
	return &Stream[T]{next: next, closer: closer}
}

// Next returns the next item.
func (s *Stream[T]) Next(ctx context.Context) (T, error) {
	var zero T

	if s.closed.Load() {
		return zero, ErrClosed
	}
	if s.err != nil {
		return zero, s.err
	}
	if err := ctx.Err(); err != nil {
		s.err = err
		return zero, err
	}

	v, err := s.next(ctx)
	if err != nil {
		if s.closed.Load() {
			err = ErrClosed
		}
		s.err = err

		return zero, err
	}

	return v, nil
}

// All returns an iterator over the remaining items.
// Iteration stops at io.EOF; any other error is yielded once as the last pair.
// All does not close the stream.
func (s *Stream[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, err := s.Next(ctx)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				var zero T
				yield(zero, err)

				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// NextValue is [Stream.Next] with the item boxed as any.
func (s *Stream[T]) NextValue(ctx context.Context) (any, error) {
	return s.Next(ctx)
}

// Close releases the underlying source. Close is idempotent and returns the
// result of the first call.
func (s *Stream[T]) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		if s.closer != nil {
			s.closeErr = s.closer()
		}
	})

	return s.closeErr
}

// FromSlice returns a stream over items.
func FromSlice[T any](items []T) *Stream[T] {
	i := 0

	return New(func(context.Context) (T, error) {
		if i >= len(items) {
			var zero T
			return zero, io.EOF
		}
		v := items[i]
		i++

		return v, nil
	}, nil)
}

// Collect reads s to the end and closes it.
func Collect[T any](ctx context.Context, s *Stream[T]) ([]T, error) {
	var out []T
	for v, err := range s.All(ctx) {
		if err != nil {
			_ = s.Close()
			return out, err
		}
		out = append(out, v)
	}

	return out, s.Close()
}

// Map returns a stream applying fn to every item of s.
// An error from fn ends the mapped stream. Closing the mapped stream closes s.
func Map[T, U any](s *Stream[T], fn func(T) (U, error)) *Stream[U] {
	return New(func(ctx context.Context) (U, error) {
		v, err := s.Next(ctx)
		if err != nil {
			var zero U
			return zero, err
		}

		return fn(v)
	}, s.Close)
}
