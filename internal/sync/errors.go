// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package sync

import (
	"errors"
	"fmt"

	"github.com/tomtom215/runboard/internal/week"
)

// ErrSyncInProgress is returned when a pass is already running.
var ErrSyncInProgress = errors.New("sync already in progress")

// Persistence operations.
const (
	OpResolve = "resolve"
	OpUpsert  = "upsert"
)

// PersistenceError reports a failed write for one athlete.
type PersistenceError struct {
	AthleteID int64
	Window    week.Window
	Op        string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist athlete %d (%s) for %s: %v", e.AthleteID, e.Op, e.Window, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Summary counts the outcome of one pass.
type Summary struct {
	CurrentCount  int                 `json:"current_count"`
	PreviousCount int                 `json:"previous_count"`
	Processed     int                 `json:"processed"`
	SkippedRows   int                 `json:"skipped_rows"`
	Failures      []*PersistenceError `json:"-"`
	// FetchErrors holds soft page failures (timeout, authentication).
	FetchErrors []error `json:"-"`
}

// Failed returns the number of athletes that could not be persisted.
func (s *Summary) Failed() int {
	return len(s.Failures)
}

// Err joins every persistence failure, or returns nil.
func (s *Summary) Err() error {
	if len(s.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(s.Failures))
	for i, f := range s.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}
