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

package requestid

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"rivaas.dev/keel/app"
)

// StateKey is the [app.Context] State key holding the request ID.
const StateKey = "request_id"

// Option defines functional options for the requestid plugin.
type Option func(*config)

type config struct {
	// headerName is the name of the header carrying the request ID
	headerName string

	// generator produces new request IDs
	generator func() string

	// allowClientID allows using request IDs provided by clients
	allowClientID bool
}

func defaultConfig() *config {
	return &config{
		headerName:    "X-Request-ID",
		generator:     generateUUIDv7,
		allowClientID: true,
	}
}

// generateUUIDv7 generates a time-ordered UUID (RFC 9562).
func generateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ulidEntropy gives monotonic ordering within the same millisecond.
var (
	ulidEntropy     = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyLock sync.Mutex
)

func generateULID() string {
	ulidEntropyLock.Lock()
	defer ulidEntropyLock.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// Plugin assigns every handled request an ID.
//
// The ID is taken from the request header when client IDs are allowed,
// otherwise generated. It is echoed in the response header and stored in
// the context State under [StateKey] for hooks and handlers.
type Plugin struct {
	cfg *config
}

var _ app.BeforeHandleHook = (*Plugin)(nil)

// New returns a requestid plugin. UUID v7 is the default generator.
//
// Example:
//
//	a := app.MustNew(app.WithPlugins(
//	    requestid.New(requestid.WithULID()),
//	))
func New(opts ...Option) *Plugin {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Plugin{cfg: cfg}
}

// Name implements [app.Plugin].
func (p *Plugin) Name() string { return "requestid" }

// BeforeHandle implements [app.BeforeHandleHook].
func (p *Plugin) BeforeHandle(c *app.Context) (*app.Response, error) {
	var id string
	if p.cfg.allowClientID {
		id = c.Request.Header.Get(p.cfg.headerName)
	}
	if id == "" {
		id = p.cfg.generator()
	}

	c.Set.Header.Set(p.cfg.headerName, id)
	c.State[StateKey] = id

	return nil, nil
}

// Get returns the request ID of c, or "" if the plugin did not run.
//
// Example:
//
//	a.GET("/orders", func(c *app.Context) (any, error) {
//	    c.Logger().Info("listing orders", "request_id", requestid.Get(c))
//	    return orders, nil
//	})
func Get(c *app.Context) string {
	id, _ := app.Get[string](c, StateKey)
	return id
}
