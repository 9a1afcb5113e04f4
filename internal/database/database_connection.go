// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package database

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
)

// configureConnectionPool sets connection pool parameters
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// isTransactionConflict checks if an error is a DuckDB transaction conflict
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Transaction conflict") ||
		strings.Contains(errStr, "Conflict on update")
}

// isInternalError checks if an error is a DuckDB INTERNAL error
func isInternalError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "INTERNAL Error")
}

// isUniqueViolation checks if an error is a DuckDB unique or primary key
// constraint violation
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Duplicate key") ||
		strings.Contains(errStr, "violates unique constraint") ||
		strings.Contains(errStr, "violates primary key constraint")
}

// rowLock is a per-key mutex shared by the writers currently using the key
type rowLock struct {
	mu   sync.Mutex
	refs int
}

// acquireRowLock locks the per-key mutex for an aggregate row and returns
// the function that unlocks it. The entry is dropped once no writer holds
// or waits for it, so the table only holds keys in use.
func (db *DB) acquireRowLock(key string) func() {
	db.rowLocksMu.Lock()
	if db.rowLocks == nil {
		db.rowLocks = make(map[string]*rowLock)
	}
	l, ok := db.rowLocks[key]
	if !ok {
		l = &rowLock{}
		db.rowLocks[key] = l
	}
	l.refs++
	db.rowLocksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		db.rowLocksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(db.rowLocks, key)
		}
		db.rowLocksMu.Unlock()
	}
}

// rowLockCount returns the number of keys in the lock table
func (db *DB) rowLockCount() int {
	db.rowLocksMu.Lock()
	defer db.rowLocksMu.Unlock()
	return len(db.rowLocks)
}

// withConflictRetry runs fn, retrying DuckDB transaction conflicts with a
// short exponential backoff (1ms, 2ms, 4ms).
func withConflictRetry(ctx context.Context, fn func(context.Context) error) error {
	const maxRetries = 3
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return fmt.Errorf("operation timed out or canceled: %w", ctx.Err())
		}
		if isInternalError(err) {
			return fmt.Errorf("duckdb internal error: %w", err)
		}
		if !isTransactionConflict(err) {
			return err
		}
		if attempt < maxRetries-1 {
			backoff := time.Millisecond * time.Duration(1<<uint(attempt))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
