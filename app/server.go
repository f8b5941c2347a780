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
	"errors"
	"fmt"
	"net"
	"net/http"

	"golang.org/x/sync/errgroup"

	"rivaas.dev/keel/telemetry/semconv"
)

// Run listens on addr and serves until ctx is cancelled, then shuts down
// gracefully within server.shutdown_timeout.
//
// Signal handling is left to the caller.
//
// Example:
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer cancel()
//
//	if err := a.Run(ctx, ":8080"); err != nil {
//	    log.Fatal(err)
//	}
func (a *App) Run(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	return a.Serve(ctx, ln)
}

// Serve is [App.Run] on an existing listener. It closes ln.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	if err := a.Init(ctx); err != nil {
		_ = ln.Close()
		return fmt.Errorf("startup failed: %w", err)
	}
	if err := a.executeStartHooks(ctx); err != nil {
		_ = ln.Close()
		return fmt.Errorf("startup failed: %w", err)
	}

	server := &http.Server{
		Handler:           a,
		ReadHeaderTimeout: a.settings.Server.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.InfoContext(ctx, "server listening", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}

		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.InfoContext(ctx, "server shutting down", "reason", context.Cause(gctx))

		// ctx is already cancelled here; the shutdown gets its own deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.settings.Server.ShutdownTimeout)
		defer cancel()

		a.executeShutdownHooks(shutdownCtx)
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		if err := a.ShutdownTelemetry(shutdownCtx); err != nil {
			a.logger.WarnContext(shutdownCtx, "telemetry shutdown failed", semconv.Error, err)
		}
		a.logger.InfoContext(shutdownCtx, "server exited")

		return nil
	})

	return g.Wait()
}
