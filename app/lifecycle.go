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
	"fmt"
)

// lifecycle stores the callbacks run by [App.Run].
type lifecycle struct {
	onStart    []func(context.Context) error // Sequential, stops on first error
	onShutdown []func(context.Context)       // LIFO order
}

// OnStart registers a hook that runs before the server starts listening.
// Hooks run sequentially, and if any hook returns an error, startup is aborted.
//
// Example:
//
//	a.OnStart(func(ctx context.Context) error {
//	    return db.PingContext(ctx)
//	})
func (a *App) OnStart(fn func(context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.router.Frozen() {
		panic(ErrFrozen)
	}
	a.lifecycle.onStart = append(a.lifecycle.onStart, fn)
}

// OnShutdown registers a hook that runs during graceful shutdown.
// Hooks run in reverse order (LIFO) and receive a context bounded by
// server.shutdown_timeout.
//
// Example:
//
//	a.OnShutdown(func(ctx context.Context) {
//	    _ = db.Close()
//	})
func (a *App) OnShutdown(fn func(context.Context)) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.router.Frozen() {
		panic(ErrFrozen)
	}
	a.lifecycle.onShutdown = append(a.lifecycle.onShutdown, fn)
}

// executeStartHooks runs all OnStart hooks sequentially.
func (a *App) executeStartHooks(ctx context.Context) error {
	for i, hook := range a.lifecycle.onStart {
		if err := hook(ctx); err != nil {
			return fmt.Errorf("OnStart hook %d failed: %w", i, err)
		}
	}

	return nil
}

// executeShutdownHooks runs all OnShutdown hooks in reverse order (LIFO).
func (a *App) executeShutdownHooks(ctx context.Context) {
	hooks := a.lifecycle.onShutdown
	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i](ctx)
	}
}
