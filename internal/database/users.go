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
)

const userColumns = `id, handle, first_name, last_name, origin, created_at`

// GetUserByHandle returns the user with the handle or models.ErrUserNotFound.
func (db *DB) GetUserByHandle(ctx context.Context, handle string) (*models.User, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE handle = ?`, handle)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", handle, err)
	}
	return u, nil
}

// CreateUser inserts u unless its handle exists. It returns the assigned id,
// or models.ErrDuplicateHandle when another writer owns the handle.
func (db *DB) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if u.Origin == "" {
		u.Origin = models.OriginLocal
	}

	var id int64
	err := withConflictRetry(ctx, func(ctx context.Context) error {
		return db.conn.QueryRowContext(ctx, `
			INSERT INTO users (handle, first_name, last_name, origin, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (handle) DO NOTHING
			RETURNING id`,
			u.Handle, u.FirstName, u.LastName, string(u.Origin), u.CreatedAt.UTC(),
		).Scan(&id)
	})
	if errors.Is(err, sql.ErrNoRows) || isUniqueViolation(err) {
		return 0, models.ErrDuplicateHandle
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create user %s: %w", u.Handle, err)
	}
	u.ID = id
	return id, nil
}

// ListUsers returns all users ordered by id.
func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(r rowScanner) (*models.User, error) {
	var u models.User
	var origin string
	if err := r.Scan(&u.ID, &u.Handle, &u.FirstName, &u.LastName, &origin, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Origin = models.Origin(origin)
	return &u, nil
}
