// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/tomtom215/runboard/internal/logging"
)

// HTTPServer is the subset of *http.Server used by HTTPServerService.
type HTTPServer interface {
	Serve(l net.Listener) error
	Shutdown(ctx context.Context) error
}

// HTTPServerService binds addr and serves the API under suture.
//
// Binding happens in Serve before the server goroutine starts, so an address
// already in use fails the service immediately and suture backs off instead
// of the error surfacing later from a goroutine.
type HTTPServerService struct {
	server          HTTPServer
	addr            string
	shutdownTimeout time.Duration
	name            string

	mu       sync.Mutex
	boundTo  net.Addr
	listenFn func(network, addr string) (net.Listener, error)
}

// NewHTTPServerService creates a new HTTP server service wrapper. A
// non-positive shutdownTimeout defaults to 10s.
//
//	server := &http.Server{Handler: router.SetupChi()}
//	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Addr(), 10*time.Second))
func NewHTTPServerService(server HTTPServer, addr string, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		addr:            addr,
		shutdownTimeout: shutdownTimeout,
		name:            "http-server",
		listenFn:        net.Listen,
	}
}

// Addr returns the bound address once Serve is listening, or nil.
func (h *HTTPServerService) Addr() net.Addr {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.boundTo
}

// Serve implements suture.Service. It returns nil only if the server closes
// on its own; cancellation returns ctx.Err() after a graceful shutdown.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	ln, err := h.listenFn("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("http server listen on %s: %w", h.addr, err)
	}
	h.mu.Lock()
	h.boundTo = ln.Addr()
	h.mu.Unlock()

	logging.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")

	errCh := make(chan error, 1)
	go func() {
		if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		logging.Info().Str("addr", ln.Addr().String()).Msg("HTTP server stopped")
		return ctx.Err()
	}
}

// String implements fmt.Stringer for suture event logs.
func (h *HTTPServerService) String() string {
	return h.name
}
