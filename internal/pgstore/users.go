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
)

const userColumns = `u.id, u.handle, u.first_name, u.last_name, u.origin, u.created_at`

// GetUserByHandle returns the user owning handle or models.ErrUserNotFound.
func (s *Store) GetUserByHandle(ctx context.Context, handle string) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.handle = $1`, handle)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", handle, err)
	}
	return u, nil
}

// CreateUser inserts u unless its handle exists. It returns the assigned id,
// or models.ErrDuplicateHandle when another writer owns the handle.
func (s *Store) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if u.Origin == "" {
		u.Origin = models.OriginLocal
	}

	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (handle, first_name, last_name, origin, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (handle) DO NOTHING
		RETURNING id`,
		u.Handle, u.FirstName, u.LastName, string(u.Origin), u.CreatedAt.UTC(),
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
		return 0, models.ErrDuplicateHandle
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create user %s: %w", u.Handle, err)
	}
	u.ID = id
	return id, nil
}

// ListUsers returns all users ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users u ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]models.User, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.User, error) {
		u, err := scanUser(row)
		if err != nil {
			return models.User{}, err
		}
		return *u, nil
	})
}

func scanUser(r pgx.Row) (*models.User, error) {
	var u models.User
	var origin string
	if err := r.Scan(&u.ID, &u.Handle, &u.FirstName, &u.LastName, &origin, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Origin = models.Origin(origin)
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
