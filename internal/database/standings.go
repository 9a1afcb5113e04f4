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
	"time"

	"github.com/tomtom215/runboard/internal/models"
	"github.com/tomtom215/runboard/internal/week"
)

// WeekEntries returns every aggregate of the window joined with its user.
func (db *DB) WeekEntries(ctx context.Context, w week.Window) ([]models.WeekEntry, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT u.id, u.handle, u.first_name, u.last_name, u.origin, u.created_at, `+aggregateColumns+`
		FROM weekly_aggregates a
		JOIN users u ON u.id = a.user_id
		WHERE a.start_date = CAST(? AS DATE)
		ORDER BY u.id`, w.StartDate())
	if err != nil {
		return nil, fmt.Errorf("failed to query week entries: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var entries []models.WeekEntry
	for rows.Next() {
		var e models.WeekEntry
		var origin string
		var synced sql.NullTime
		a := &e.Aggregate
		if err := rows.Scan(&e.User.ID, &e.User.Handle, &e.User.FirstName, &e.User.LastName, &origin, &e.User.CreatedAt,
			&a.UserID, &a.StartDate, &a.EndDate, &a.DistanceGoal, &a.TotalDistance, &a.Runs,
			&a.AveragePace, &a.ElevationGain, &a.CreatedAt, &a.UpdatedAt, &synced); err != nil {
			return nil, fmt.Errorf("failed to scan week entry: %w", err)
		}
		e.User.Origin = models.Origin(origin)
		if synced.Valid {
			t := synced.Time.UTC()
			a.SyncedAt = &t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UsersWithoutEntry returns users that have no aggregate for the window.
func (db *DB) UsersWithoutEntry(ctx context.Context, w week.Window) ([]models.User, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users u
		WHERE NOT EXISTS (
			SELECT 1 FROM weekly_aggregates a
			WHERE a.user_id = u.id AND a.start_date = CAST(? AS DATE)
		)
		ORDER BY u.id`, w.StartDate())
	if err != nil {
		return nil, fmt.Errorf("failed to query unregistered users: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// AvailableWeeks returns the most recent window start dates, newest first.
func (db *DB) AvailableWeeks(ctx context.Context, limit int) ([]string, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT CAST(start_date AS VARCHAR) FROM (
			SELECT DISTINCT start_date FROM weekly_aggregates
		) ORDER BY start_date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query available weeks: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var weeks []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan week: %w", err)
		}
		weeks = append(weeks, s)
	}
	return weeks, rows.Err()
}

// LatestWeekStatus reports the freshest window with its last update and
// athlete count.
func (db *DB) LatestWeekStatus(ctx context.Context) (*models.SyncStatus, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	var st models.SyncStatus
	var last sql.NullTime
	err := db.conn.QueryRowContext(ctx, `
		SELECT CAST(start_date AS VARCHAR), MAX(updated_at), COUNT(*)
		FROM weekly_aggregates
		GROUP BY start_date
		ORDER BY start_date DESC
		LIMIT 1`).Scan(&st.WeekStart, &last, &st.Count)
	if errors.Is(err, sql.ErrNoRows) {
		return &st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query sync status: %w", err)
	}
	if last.Valid {
		t := last.Time.UTC()
		st.LastUpdate = &t
	}
	return &st, nil
}

// LastUpdate returns the most recent write of any aggregate in the window.
func (db *DB) LastUpdate(ctx context.Context, w week.Window) (*time.Time, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	var ts sql.NullTime
	err := db.conn.QueryRowContext(ctx,
		`SELECT MAX(updated_at) FROM weekly_aggregates WHERE start_date = CAST(? AS DATE)`,
		w.StartDate()).Scan(&ts)
	if err != nil {
		return nil, fmt.Errorf("failed to get last update for %s: %w", w, err)
	}
	if !ts.Valid {
		return nil, nil
	}
	t := ts.Time.UTC()
	return &t, nil
}
