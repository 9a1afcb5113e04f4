// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/runboard/internal/models"
	"github.com/tomtom215/runboard/internal/week"
)

const aggregateColumns = `a.user_id, to_char(a.start_date, 'YYYY-MM-DD'), to_char(a.end_date, 'YYYY-MM-DD'),
	a.distance_goal, a.total_distance, a.runs, a.average_pace, a.elevation_gain,
	a.created_at, a.updated_at, a.synced_at`

func aggregateKey(userID int64, w week.Window) string {
	return strconv.FormatInt(userID, 10) + ":" + w.StartDate()
}

// withRowLock runs fn in a transaction holding the advisory lock of key.
func (s *Store) withRowLock(ctx context.Context, key string, fn func(pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
			return fmt.Errorf("lock %s: %w", key, err)
		}
		return fn(tx)
	})
}

// UpsertAggregate writes sync statistics for (user, window). A new row gets
// w.InitialGoal; an existing row keeps its goal and has every statistic
// replaced. updated_at and synced_at are set to w.SyncedAt.
func (s *Store) UpsertAggregate(ctx context.Context, w models.AggregateWrite) error {
	key := aggregateKey(w.UserID, w.Window)
	ts := w.SyncedAt.UTC()
	err := s.withRowLock(ctx, key, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO weekly_aggregates (
				user_id, start_date, end_date, distance_goal, total_distance,
				runs, average_pace, elevation_gain, created_at, updated_at, synced_at
			) VALUES ($1, $2::date, $3::date, $4, $5, $6, $7, $8, $9, $9, $9)
			ON CONFLICT (user_id, start_date) DO UPDATE SET
				total_distance = EXCLUDED.total_distance,
				runs = EXCLUDED.runs,
				average_pace = EXCLUDED.average_pace,
				elevation_gain = EXCLUDED.elevation_gain,
				updated_at = EXCLUDED.updated_at,
				synced_at = EXCLUDED.synced_at`,
			w.UserID, w.Window.StartDate(), w.Window.EndDate(), w.InitialGoal, w.TotalDistance,
			w.Runs, w.AveragePace, w.ElevationGain, ts,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to upsert aggregate %s: %w", key, err)
	}
	return nil
}

// SetGoal creates or updates the goal of (user, window). A new row starts
// with zeroed statistics. synced_at is never touched.
func (s *Store) SetGoal(ctx context.Context, userID int64, w week.Window, goal float64, now time.Time) error {
	key := aggregateKey(userID, w)
	err := s.withRowLock(ctx, key, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO weekly_aggregates (
				user_id, start_date, end_date, distance_goal, created_at, updated_at
			) VALUES ($1, $2::date, $3::date, $4, $5, $5)
			ON CONFLICT (user_id, start_date) DO UPDATE SET
				distance_goal = EXCLUDED.distance_goal,
				updated_at = EXCLUDED.updated_at`,
			userID, w.StartDate(), w.EndDate(), goal, now.UTC(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to set goal %s: %w", key, err)
	}
	return nil
}

// GetAggregate returns the aggregate of (user, window) or models.ErrAggregateNotFound.
func (s *Store) GetAggregate(ctx context.Context, userID int64, w week.Window) (*models.Aggregate, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+aggregateColumns+`
		FROM weekly_aggregates a
		WHERE a.user_id = $1 AND a.start_date = $2::date`, userID, w.StartDate())
	a, err := scanAggregate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrAggregateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get aggregate: %w", err)
	}
	return a, nil
}

// LastSynced returns the most recent sync write for the window, or nil
// when no aggregate of the window was ever written by a sync.
func (s *Store) LastSynced(ctx context.Context, w week.Window) (*time.Time, error) {
	return s.maxTimestamp(ctx, "synced_at", w)
}

// LastUpdate returns the most recent write of any aggregate in the window.
func (s *Store) LastUpdate(ctx context.Context, w week.Window) (*time.Time, error) {
	return s.maxTimestamp(ctx, "updated_at", w)
}

func (s *Store) maxTimestamp(ctx context.Context, column string, w week.Window) (*time.Time, error) {
	var ts *time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT MAX(`+column+`) FROM weekly_aggregates WHERE start_date = $1::date`,
		w.StartDate()).Scan(&ts)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s for %s: %w", column, w, err)
	}
	if ts != nil {
		t := ts.UTC()
		ts = &t
	}
	return ts, nil
}

func scanAggregate(r pgx.Row) (*models.Aggregate, error) {
	var a models.Aggregate
	var synced *time.Time
	if err := r.Scan(&a.UserID, &a.StartDate, &a.EndDate,
		&a.DistanceGoal, &a.TotalDistance, &a.Runs, &a.AveragePace, &a.ElevationGain,
		&a.CreatedAt, &a.UpdatedAt, &synced); err != nil {
		return nil, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	if synced != nil {
		t := synced.UTC()
		a.SyncedAt = &t
	}
	return &a, nil
}
