// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

// Package storage opens the persistence store selected by configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/tomtom215/runboard/internal/config"
	"github.com/tomtom215/runboard/internal/database"
	"github.com/tomtom215/runboard/internal/logging"
	"github.com/tomtom215/runboard/internal/pgstore"
	"github.com/tomtom215/runboard/internal/standings"
	syncpkg "github.com/tomtom215/runboard/internal/sync"
)

// Supported drivers.
const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// Store is implemented by both database.DB and pgstore.Store.
type Store interface {
	syncpkg.Store
	standings.Store
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*database.DB)(nil)
	_ Store = (*pgstore.Store)(nil)
)

// Open connects to the configured driver and applies pending migrations.
// The PostgreSQL store also serializes sync passes across processes.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "", DriverDuckDB:
		db, err := database.New(cfg)
		if err != nil {
			return nil, err
		}
		logging.Info().Str("driver", DriverDuckDB).Str("path", cfg.Path).Msg("Store opened")
		return db, nil
	case DriverPostgres:
		s, err := pgstore.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
