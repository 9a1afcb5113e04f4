// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/runboard/internal/logging"
)

// migrationLockKey serializes concurrent migrators.
const migrationLockKey int64 = 0x72756e626f617264

type migration struct {
	version     int
	name        string
	description string
	sql         string
}

// migrations share version numbers and names with the DuckDB store.
var migrations = []migration{
	{
		version:     1,
		name:        "create_users",
		description: "Club members, local or provisioned from the leaderboard",
		sql: `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	handle TEXT NOT NULL UNIQUE,
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	origin TEXT NOT NULL DEFAULT 'local',
	created_at TIMESTAMPTZ NOT NULL
);`,
	},
	{
		version:     2,
		name:        "create_weekly_aggregates",
		description: "Per-user weekly statistics keyed by window start",
		sql: `
CREATE TABLE IF NOT EXISTS weekly_aggregates (
	user_id BIGINT NOT NULL REFERENCES users(id),
	start_date DATE NOT NULL,
	end_date DATE NOT NULL,
	distance_goal DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_distance DOUBLE PRECISION NOT NULL DEFAULT 0,
	runs INTEGER NOT NULL DEFAULT 0,
	average_pace INTEGER NOT NULL DEFAULT 0,
	elevation_gain DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	synced_at TIMESTAMPTZ,
	PRIMARY KEY (user_id, start_date)
);`,
	},
	{
		version:     3,
		name:        "index_weekly_aggregates_start",
		description: "Read path and staleness lookups by window",
		sql:         `CREATE INDEX IF NOT EXISTS idx_weekly_aggregates_start ON weekly_aggregates (start_date);`,
	},
}

// migrate applies every shared migration version missing from
// schema_migrations inside one transaction.
func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			logging.Warn().Err(rbErr).Msg("Failed to roll back migration transaction")
		}
	}()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, migrationLockKey); err != nil {
		return fmt.Errorf("lock migrations: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	rows, err := tx.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("query applied migrations: %w", err)
	}
	applied, err := pgx.CollectRows(rows, pgx.RowTo[int32])
	if err != nil {
		return fmt.Errorf("scan applied migrations: %w", err)
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[int(v)] = true
	}

	for _, m := range migrations {
		if done[m.version] {
			continue
		}
		if _, err := tx.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (version, name, description) VALUES ($1, $2, $3)`,
			m.version, m.name, m.description); err != nil {
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		logging.Info().Int("version", m.version).Str("name", m.name).Msg("Applied migration")
	}

	return tx.Commit(ctx)
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int32
	err := s.pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return int(v), nil
}
