// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/runboard/internal/logging"
)

// syncLockKey identifies the cluster-wide sync pass lock.
const syncLockKey int64 = 0x72756e73796e63

// TryLockRun takes the session-scoped sync lock on a dedicated connection.
// It reports false when another process holds it. The returned release
// function unlocks and returns the connection to the pool.
func (s *Store) TryLockRun(ctx context.Context) (release func(), ok bool, err error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock connection: %w", err)
	}

	var locked bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, syncLockKey).Scan(&locked); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !locked {
		conn.Release()
		return nil, false, nil
	}

	release = func() {
		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := conn.Exec(unlockCtx, `SELECT pg_advisory_unlock($1)`, syncLockKey); err != nil {
			logging.Warn().Err(err).Msg("Failed to release sync advisory lock")
			// Drop the session so the server frees the lock.
			_ = conn.Conn().Close(unlockCtx)
		}
		conn.Release()
	}
	return release, true, nil
}
