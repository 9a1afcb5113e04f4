// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

// mockService fails its first failUntil runs, then blocks until canceled.
type mockService struct {
	name      string
	starts    atomic.Int32
	failUntil int32
}

func (m *mockService) Serve(ctx context.Context) error {
	if m.starts.Add(1) <= m.failUntil {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) String() string {
	return m.name
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func waitForStarts(t *testing.T, svc *mockService, n int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if svc.starts.Load() >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("%s: Expected at least %d starts, got %d", svc.name, n, svc.starts.Load())
}

func TestNewSupervisorTree(t *testing.T) {
	t.Run("applies defaults for zero config", func(t *testing.T) {
		tree, err := NewSupervisorTree(testLogger(), TreeConfig{})
		if err != nil {
			t.Fatalf("Failed to create tree: %v", err)
		}
		if tree.Root() == nil {
			t.Fatal("Expected root supervisor")
		}
		if tree.config != DefaultTreeConfig() {
			t.Errorf("Expected defaults %+v, got %+v", DefaultTreeConfig(), tree.config)
		}
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		tree, err := NewSupervisorTree(testLogger(), TreeConfig{FailureBackoff: time.Second})
		if err != nil {
			t.Fatalf("Failed to create tree: %v", err)
		}
		if tree.config.FailureBackoff != time.Second {
			t.Errorf("Expected backoff 1s, got %v", tree.config.FailureBackoff)
		}
	})

	t.Run("requires logger", func(t *testing.T) {
		if _, err := NewSupervisorTree(nil, TreeConfig{}); err == nil {
			t.Error("Expected error for nil logger")
		}
	})
}

func TestSupervisorTree_RunsBothLayers(t *testing.T) {
	tree, _ := NewSupervisorTree(testLogger(), TreeConfig{ShutdownTimeout: time.Second})

	syncSvc := &mockService{name: "sync"}
	apiSvc := &mockService{name: "api"}
	tree.AddSyncService(syncSvc)
	tree.AddAPIService(apiSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitForStarts(t, syncSvc, 1)
	waitForStarts(t, apiSvc, 1)
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Tree did not shut down in time")
	}
}

func TestSupervisorTree_SyncFailureIsolated(t *testing.T) {
	tree, _ := NewSupervisorTree(testLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	failing := &mockService{name: "sync", failUntil: 2}
	stable := &mockService{name: "api"}
	tree.AddSyncService(failing)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	waitForStarts(t, failing, 3)
	if stable.starts.Load() != 1 {
		t.Errorf("Expected api service to start once, got %d", stable.starts.Load())
	}

	cancel()
	<-errCh
}

func TestSupervisorTree_RemoveSyncService(t *testing.T) {
	tree, _ := NewSupervisorTree(testLogger(), TreeConfig{ShutdownTimeout: time.Second})

	svc := &mockService{name: "sync"}
	token := tree.AddSyncService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	waitForStarts(t, svc, 1)
	if err := tree.RemoveSyncService(token); err != nil {
		t.Errorf("RemoveSyncService failed: %v", err)
	}

	cancel()
	<-errCh
}
