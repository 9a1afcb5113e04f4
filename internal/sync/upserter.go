// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package sync

import (
	"context"
	"time"

	"github.com/tomtom215/runboard/internal/leaderboard"
	"github.com/tomtom215/runboard/internal/logging"
	"github.com/tomtom215/runboard/internal/models"
	"github.com/tomtom215/runboard/internal/week"
)

// InferGoal returns the smallest bracket that covers distance, or the top
// bracket when distance exceeds them all. brackets must be ascending.
func InferGoal(distance float64, brackets []float64) float64 {
	if len(brackets) == 0 {
		return 0
	}
	for _, b := range brackets {
		if distance <= b {
			return b
		}
	}
	return brackets[len(brackets)-1]
}

// Upserter writes athlete statistics into weekly aggregates.
type Upserter struct {
	store    Store
	brackets []float64
}

// NewUpserter returns an upserter inferring goals from brackets.
func NewUpserter(store Store, brackets []float64) *Upserter {
	return &Upserter{store: store, brackets: brackets}
}

// Upsert writes a's statistics for (userID, w). A first write sets the goal
// inferred from the distance; later writes only replace statistics.
func (u *Upserter) Upsert(ctx context.Context, userID int64, w week.Window, a leaderboard.Athlete, now time.Time) error {
	write := models.AggregateWrite{
		UserID:        userID,
		Window:        w,
		InitialGoal:   InferGoal(a.Distance, u.brackets),
		TotalDistance: a.Distance,
		Runs:          a.Runs,
		AveragePace:   a.Pace,
		ElevationGain: a.Elevation,
		SyncedAt:      now,
	}
	if err := u.store.UpsertAggregate(ctx, write); err != nil {
		return err
	}
	logging.Ctx(ctx).Debug().
		Int64("user_id", userID).
		Str("window", w.String()).
		Float64("distance", a.Distance).
		Int("runs", a.Runs).
		Msg("Upserted aggregate")
	return nil
}
