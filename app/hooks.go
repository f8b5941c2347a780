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

// Next runs the rest of the hook chain and the handler.
// It may be called at most once; a second call returns [ErrNextCalledTwice].
type Next func() error

// Hook is a middleware unit around the handler.
//
// A hook may do work before calling next, after it, or both. Code after
// next runs once the downstream hooks and the handler have finished.
// The returned [Result] decides what the pipeline does next:
//
//   - [Continue] keeps the downstream response. If next was never called,
//     the pipeline runs the downstream chain itself.
//   - [Terminate] stops the chain. Its response replaces any downstream
//     response, and the handler never runs if next was not called.
//
// A non-nil error aborts the request. Once next returns an error, that error
// ends the request even if the hook returns Continue with a nil error: only
// [Terminate] recovers from a downstream error, by replacing it with its
// response.
//
// Example:
//
//	func timing(c *app.Context, next app.Next) (app.Result, error) {
//	    start := time.Now()
//	    err := next()
//	    c.Set.Header.Set("Server-Timing", fmt.Sprintf("app;dur=%d", time.Since(start).Milliseconds()))
//	    return app.Continue(), err
//	}
type Hook func(c *Context, next Next) (Result, error)

// Result is the outcome of a [Hook]. The zero value is [Continue].
type Result struct {
	terminate bool
	response  *Response
}

// Continue lets the request proceed.
func Continue() Result { return Result{} }

// Terminate ends the request with resp. A nil resp answers with the
// accumulated Context.Set only, defaulting to 204 No Content.
func Terminate(resp *Response) Result {
	return Result{terminate: true, response: resp}
}

// Terminated reports whether the result stops the chain.
func (r Result) Terminated() bool { return r.terminate }

// runChain runs hooks[i:] followed by final.
func runChain(c *Context, hooks []Hook, final func() (*Response, error)) (*Response, error) {
	if len(hooks) == 0 {
		return final()
	}

	var (
		called     bool
		downstream *Response
		nextErr    error
	)
	next := func() error {
		if called {
			return ErrNextCalledTwice
		}
		called = true
		downstream, nextErr = runChain(c, hooks[1:], final)

		return nextErr
	}

	res, err := hooks[0](c, next)
	if err != nil {
		return nil, err
	}
	if res.terminate {
		if res.response != nil {
			return res.response, nil
		}

		return &Response{Body: NoBody}, nil
	}
	if !called {
		return runChain(c, hooks[1:], final)
	}

	return downstream, nextErr
}
