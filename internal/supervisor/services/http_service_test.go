// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package services

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// failingServer returns serveErr from Serve.
type failingServer struct {
	serveErr    error
	shutdownErr error
}

func (f *failingServer) Serve(l net.Listener) error {
	_ = l.Close()
	return f.serveErr
}

func (f *failingServer) Shutdown(context.Context) error {
	return f.shutdownErr
}

func TestNewHTTPServerService_DefaultTimeout(t *testing.T) {
	var _ suture.Service = (*HTTPServerService)(nil)

	for _, timeout := range []time.Duration{0, -5 * time.Second} {
		svc := NewHTTPServerService(&http.Server{}, "127.0.0.1:0", timeout)
		if svc.shutdownTimeout != 10*time.Second {
			t.Errorf("Expected default timeout 10s for %v, got %v", timeout, svc.shutdownTimeout)
		}
	}
	if got := NewHTTPServerService(&http.Server{}, "", time.Second).String(); got != "http-server" {
		t.Errorf("Expected http-server, got %q", got)
	}
}

func TestHTTPServerService_ServesAndShutsDown(t *testing.T) {
	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "ok")
		}),
		ReadHeaderTimeout: time.Second,
	}
	svc := NewHTTPServerService(server, "127.0.0.1:0", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	waitFor(t, func() bool { return svc.Addr() != nil })

	resp, err := http.Get("http://" + svc.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("Expected ok, got %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestHTTPServerService_AddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	svc := NewHTTPServerService(&http.Server{ReadHeaderTimeout: time.Second}, ln.Addr().String(), time.Second)
	if err := svc.Serve(context.Background()); err == nil {
		t.Error("Expected bind error for an address in use")
	}
	if svc.Addr() != nil {
		t.Errorf("Expected no bound address, got %v", svc.Addr())
	}
}

func TestHTTPServerService_ServeError(t *testing.T) {
	serveErr := errors.New("accept: too many open files")
	svc := NewHTTPServerService(&failingServer{serveErr: serveErr}, "127.0.0.1:0", time.Second)

	if err := svc.Serve(context.Background()); !errors.Is(err, serveErr) {
		t.Errorf("Expected wrapped serve error, got %v", err)
	}
}

func TestHTTPServerService_ServerClosedIsClean(t *testing.T) {
	svc := NewHTTPServerService(&failingServer{serveErr: http.ErrServerClosed}, "127.0.0.1:0", time.Second)

	if err := svc.Serve(context.Background()); err != nil {
		t.Errorf("Expected nil for ErrServerClosed, got %v", err)
	}
}
