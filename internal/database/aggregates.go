// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tomtom215/runboard/internal/models"
	"github.com/tomtom215/runboard/internal/week"
)

const aggregateColumns = `a.user_id, CAST(a.start_date AS VARCHAR), CAST(a.end_date AS VARCHAR),
	a.distance_goal, a.total_distance, a.runs, a.average_pace, a.elevation_gain,
	a.created_at, a.updated_at, a.synced_at`

func aggregateKey(userID int64, w week.Window) string {
	return strconv.FormatInt(userID, 10) + ":" + w.StartDate()
}

// UpsertAggregate writes sync statistics for (user, window). A new row gets
// w.InitialGoal; an existing row keeps its goal and has every statistic
// replaced. updated_at and synced_at are set to w.SyncedAt.
func (db *DB) UpsertAggregate(ctx context.Context, w models.AggregateWrite) error {
	key := aggregateKey(w.UserID, w.Window)
	release := db.acquireRowLock(key)
	defer release()

	ctx, cancel := queryContext(ctx)
	defer cancel()

	ts := w.SyncedAt.UTC()
	err := withConflictRetry(ctx, func(ctx context.Context) error {
		_, err := db.conn.ExecContext(ctx, `
			INSERT INTO weekly_aggregates (
				user_id, start_date, end_date, distance_goal, total_distance,
				runs, average_pace, elevation_gain, created_at, updated_at, synced_at
			) VALUES (?, CAST(? AS DATE), CAST(? AS DATE), ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, start_date) DO UPDATE SET
				total_distance = EXCLUDED.total_distance,
				runs = EXCLUDED.runs,
				average_pace = EXCLUDED.average_pace,
				elevation_gain = EXCLUDED.elevation_gain,
				updated_at = EXCLUDED.updated_at,
				synced_at = EXCLUDED.synced_at`,
			w.UserID, w.Window.StartDate(), w.Window.EndDate(), w.InitialGoal, w.TotalDistance,
			w.Runs, w.AveragePace, w.ElevationGain, ts, ts, ts,
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
func (db *DB) SetGoal(ctx context.Context, userID int64, w week.Window, goal float64, now time.Time) error {
	key := aggregateKey(userID, w)
	release := db.acquireRowLock(key)
	defer release()

	ctx, cancel := queryContext(ctx)
	defer cancel()

	ts := now.UTC()
	err := withConflictRetry(ctx, func(ctx context.Context) error {
		_, err := db.conn.ExecContext(ctx, `
			INSERT INTO weekly_aggregates (
				user_id, start_date, end_date, distance_goal, total_distance,
				runs, average_pace, elevation_gain, created_at, updated_at
			) VALUES (?, CAST(? AS DATE), CAST(? AS DATE), ?, 0, 0, 0, 0, ?, ?)
			ON CONFLICT (user_id, start_date) DO UPDATE SET
				distance_goal = EXCLUDED.distance_goal,
				updated_at = EXCLUDED.updated_at`,
			userID, w.StartDate(), w.EndDate(), goal, ts, ts,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to set goal %s: %w", key, err)
	}
	return nil
}

// GetAggregate returns the aggregate of (user, window) or models.ErrAggregateNotFound.
func (db *DB) GetAggregate(ctx context.Context, userID int64, w week.Window) (*models.Aggregate, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `SELECT `+aggregateColumns+`
		FROM weekly_aggregates a
		WHERE a.user_id = ? AND a.start_date = CAST(? AS DATE)`, userID, w.StartDate())
	a, err := scanAggregate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrAggregateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get aggregate: %w", err)
	}
	return a, nil
}

// LastSynced returns the most recent sync write for the window, or nil
// when no aggregate of the window was ever written by a sync.
func (db *DB) LastSynced(ctx context.Context, w week.Window) (*time.Time, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	var ts sql.NullTime
	err := db.conn.QueryRowContext(ctx,
		`SELECT MAX(synced_at) FROM weekly_aggregates WHERE start_date = CAST(? AS DATE)`,
		w.StartDate()).Scan(&ts)
	if err != nil {
		return nil, fmt.Errorf("failed to get last sync for %s: %w", w, err)
	}
	if !ts.Valid {
		return nil, nil
	}
	t := ts.Time.UTC()
	return &t, nil
}

func scanAggregate(r rowScanner) (*models.Aggregate, error) {
	var a models.Aggregate
	var synced sql.NullTime
	if err := r.Scan(&a.UserID, &a.StartDate, &a.EndDate,
		&a.DistanceGoal, &a.TotalDistance, &a.Runs, &a.AveragePace, &a.ElevationGain,
		&a.CreatedAt, &a.UpdatedAt, &synced); err != nil {
		return nil, err
	}
	if synced.Valid {
		t := synced.Time.UTC()
		a.SyncedAt = &t
	}
	return &a, nil
}
