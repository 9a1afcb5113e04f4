// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/runboard/internal/api"
	"github.com/tomtom215/runboard/internal/browser"
	"github.com/tomtom215/runboard/internal/config"
	"github.com/tomtom215/runboard/internal/logging"
	"github.com/tomtom215/runboard/internal/metrics"
	"github.com/tomtom215/runboard/internal/standings"
	"github.com/tomtom215/runboard/internal/storage"
	"github.com/tomtom215/runboard/internal/supervisor"
	"github.com/tomtom215/runboard/internal/supervisor/services"
	"github.com/tomtom215/runboard/internal/sync"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Runboard stopped with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("driver", cfg.Database.Driver).
		Str("timezone", cfg.Sync.Timezone).
		Bool("sync_enabled", cfg.Sync.Enabled).
		Bool("admin_enabled", cfg.AdminEnabled()).
		Msg("Starting Runboard")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.Open(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	standingsSvc := standings.NewService(store, cfg.Location(), cfg.API.CacheTTL)
	defer standingsSvc.Close()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	var syncRunner api.SyncRunner
	if cfg.Sync.Enabled {
		session, err := browser.New(cfg)
		if err != nil {
			return fmt.Errorf("create leaderboard session: %w", err)
		}
		syncManager := sync.NewManager(cfg, store, session)
		syncManager.SetOnSyncCompleted(func(*sync.Result) {
			standingsSvc.Invalidate()
		})
		tree.AddSyncService(services.NewSyncService(syncManager))
		syncRunner = syncManager
	} else {
		logging.Warn().Msg("Sync is disabled (SYNC_ENABLED=false); serving stored standings only")
	}

	if !cfg.AdminEnabled() {
		logging.Warn().Msg("Admin credentials are not set; user, goal and sync endpoints are disabled")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	handler := api.NewHandler(store, standingsSvc, syncRunner, cfg)
	router := api.NewRouter(handler, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Manual sync requests wait for a whole pass.
		WriteTimeout: cfg.Server.Timeout + 2*cfg.Sync.PageTimeout,
		IdleTimeout:  60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 10*time.Second))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Runboard stopped gracefully")
	return nil
}
