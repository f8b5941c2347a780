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
	"context"
	"net/http"
)

// Plugin extends the request pipeline.
//
// A plugin implements any subset of [Initializer], [FetchHook], [RouteHook],
// [BeforeHandleHook] and [AfterHandleHook]. Per request they run in that
// order, in registration order across plugins. A hook that returns a
// non-nil [Response] ends the request with it and skips the rest of the
// pipeline, including later plugins.
type Plugin interface {
	Name() string
}

// Initializer is called once before the first request.
type Initializer interface {
	Init(ctx context.Context, settings Settings) error
}

// FetchHook sees every request before routing.
type FetchHook interface {
	OnFetch(r *http.Request) (*Response, error)
}

// RouteHook runs once the route is matched, before the request sections
// are decoded.
type RouteHook interface {
	OnRoute(r *http.Request, route *Route) (*Response, error)
}

// BeforeHandleHook runs on the validated context before the hook chain.
type BeforeHandleHook interface {
	BeforeHandle(c *Context) (*Response, error)
}

// AfterHandleHook may replace the response produced by the handler.
// Returning nil keeps resp.
type AfterHandleHook interface {
	AfterHandle(c *Context, resp *Response) (*Response, error)
}
