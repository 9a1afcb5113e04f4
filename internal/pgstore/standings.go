// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/runboard/internal/models"
	"github.com/tomtom215/runboard/internal/week"
)

// WeekEntries returns every aggregate of the window joined with its user.
func (s *Store) WeekEntries(ctx context.Context, w week.Window) ([]models.WeekEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumns+`, `+aggregateColumns+`
		FROM weekly_aggregates a
		JOIN users u ON u.id = a.user_id
		WHERE a.start_date = $1::date
		ORDER BY u.id`, w.StartDate())
	if err != nil {
		return nil, fmt.Errorf("failed to query week entries: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.WeekEntry, error) {
		var e models.WeekEntry
		var origin string
		var synced *time.Time
		a := &e.Aggregate
		if err := row.Scan(&e.User.ID, &e.User.Handle, &e.User.FirstName, &e.User.LastName,
			&origin, &e.User.CreatedAt,
			&a.UserID, &a.StartDate, &a.EndDate,
			&a.DistanceGoal, &a.TotalDistance, &a.Runs, &a.AveragePace, &a.ElevationGain,
			&a.CreatedAt, &a.UpdatedAt, &synced); err != nil {
			return e, fmt.Errorf("failed to scan week entry: %w", err)
		}
		e.User.Origin = models.Origin(origin)
		if synced != nil {
			t := synced.UTC()
			a.SyncedAt = &t
		}
		return e, nil
	})
}

// UsersWithoutEntry returns users that have no aggregate for the window.
func (s *Store) UsersWithoutEntry(ctx context.Context, w week.Window) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users u
		WHERE NOT EXISTS (
			SELECT 1 FROM weekly_aggregates a
			WHERE a.user_id = u.id AND a.start_date = $1::date
		)
		ORDER BY u.id`, w.StartDate())
	if err != nil {
		return nil, fmt.Errorf("failed to query unregistered users: %w", err)
	}
	return collectUsers(rows)
}

// AvailableWeeks returns the most recent window start dates, newest first.
func (s *Store) AvailableWeeks(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT to_char(start_date, 'YYYY-MM-DD') FROM (
			SELECT DISTINCT start_date FROM weekly_aggregates
		) d ORDER BY start_date DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query available weeks: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// LatestWeekStatus reports the freshest window with its last update and
// athlete count.
func (s *Store) LatestWeekStatus(ctx context.Context) (*models.SyncStatus, error) {
	var st models.SyncStatus
	var last *time.Time
	err := s.pool.QueryRow(ctx, `
		SELECT to_char(start_date, 'YYYY-MM-DD'), MAX(updated_at), COUNT(*)
		FROM weekly_aggregates
		GROUP BY start_date
		ORDER BY start_date DESC
		LIMIT 1`).Scan(&st.WeekStart, &last, &st.Count)
	if errors.Is(err, pgx.ErrNoRows) {
		return &st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query sync status: %w", err)
	}
	if last != nil {
		t := last.UTC()
		st.LastUpdate = &t
	}
	return &st, nil
}
