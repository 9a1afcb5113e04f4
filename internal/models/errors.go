// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package models

import "errors"

var (
	// ErrUserNotFound is returned by stores when no user has the handle.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateHandle is returned by stores when an insert lost a race on
	// the unique handle.
	ErrDuplicateHandle = errors.New("duplicate user handle")

	// ErrAggregateNotFound is returned when no aggregate exists for a
	// (user, window) key.
	ErrAggregateNotFound = errors.New("aggregate not found")
)
