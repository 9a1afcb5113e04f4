// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package sync

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/runboard/internal/config"
	"github.com/tomtom215/runboard/internal/database"
	"github.com/tomtom215/runboard/internal/leaderboard"
	"github.com/tomtom215/runboard/internal/models"
	"github.com/tomtom215/runboard/internal/week"
)

var defaultBrackets = []float64{35, 45, 55, 65, 75, 85, 100}

func TestInferGoal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		distance float64
		want     float64
	}{
		{0, 35},
		{12.5, 35},
		{35, 35},
		{35.01, 45},
		{40.2, 45},
		{84.9, 85},
		{100, 100},
		{150, 100},
	}

	for _, tt := range tests {
		if got := InferGoal(tt.distance, defaultBrackets); got != tt.want {
			t.Errorf("InferGoal(%v): Expected %v, got %v", tt.distance, tt.want, got)
		}
	}

	if got := InferGoal(10, nil); got != 0 {
		t.Errorf("Expected 0 without brackets, got %v", got)
	}
}

func TestUpserter_PreservesGoal(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	u := NewUpserter(store, defaultBrackets)
	w := week.Current(at(2026, time.March, 11, 12, 0), testLoc)
	ctx := context.Background()

	first := at(2026, time.March, 11, 12, 0)
	if err := u.Upsert(ctx, 1, w, leaderboard.Athlete{AthleteID: 5, Distance: 40.2, Runs: 4}, first); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}
	second := first.Add(2 * time.Hour)
	if err := u.Upsert(ctx, 1, w, leaderboard.Athlete{AthleteID: 5, Distance: 150, Runs: 12}, second); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	agg := store.aggregate(1, w)
	if agg == nil {
		t.Fatal("Expected aggregate to exist")
	}
	if agg.DistanceGoal != 45 {
		t.Errorf("Expected goal 45 preserved, got %v", agg.DistanceGoal)
	}
	if agg.TotalDistance != 150 || agg.Runs != 12 {
		t.Errorf("Expected stats replaced with 150/12, got %v/%d", agg.TotalDistance, agg.Runs)
	}
	if agg.SyncedAt == nil || !agg.SyncedAt.Equal(second) {
		t.Errorf("Expected synced_at %v, got %v", second, agg.SyncedAt)
	}
}

var testDBSemaphore = make(chan struct{}, 1)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "1GB"})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	})
	return db
}

func TestUpserter_IdempotentAgainstDuckDB(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	userID, err := db.CreateUser(ctx, &models.User{
		Handle:    "strava_77",
		FirstName: "Giang",
		Origin:    models.OriginExternal,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	now := at(2026, time.March, 11, 12, 0)
	w := week.Current(now, testLoc)
	a := leaderboard.Athlete{AthleteID: 77, Name: "Giang Ho", Distance: 40.2, Runs: 5, Pace: 321, Elevation: 120}

	u := NewUpserter(db, defaultBrackets)
	for i := 0; i < 3; i++ {
		if err := u.Upsert(ctx, userID, w, a, now); err != nil {
			t.Fatalf("Upsert %d failed: %v", i, err)
		}
	}

	agg, err := db.GetAggregate(ctx, userID, w)
	if err != nil {
		t.Fatalf("GetAggregate failed: %v", err)
	}
	if agg.DistanceGoal != 45 {
		t.Errorf("Expected inferred goal 45, got %v", agg.DistanceGoal)
	}
	if agg.TotalDistance != 40.2 || agg.Runs != 5 || agg.AveragePace != 321 || agg.ElevationGain != 120 {
		t.Errorf("Expected stats 40.2/5/321/120, got %v/%d/%d/%v",
			agg.TotalDistance, agg.Runs, agg.AveragePace, agg.ElevationGain)
	}

	entries, err := db.WeekEntries(ctx, w)
	if err != nil {
		t.Fatalf("WeekEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 row after repeated upserts, got %d", len(entries))
	}

	// A goal set by the user survives a later sync.
	if err := db.SetGoal(ctx, userID, w, 60, now); err != nil {
		t.Fatalf("SetGoal failed: %v", err)
	}
	a.Distance = 150
	if err := u.Upsert(ctx, userID, w, a, now.Add(time.Hour)); err != nil {
		t.Fatalf("Upsert after SetGoal failed: %v", err)
	}
	agg, err = db.GetAggregate(ctx, userID, w)
	if err != nil {
		t.Fatalf("GetAggregate failed: %v", err)
	}
	if agg.DistanceGoal != 60 {
		t.Errorf("Expected goal 60 kept, got %v", agg.DistanceGoal)
	}
	if agg.TotalDistance != 150 {
		t.Errorf("Expected distance 150, got %v", agg.TotalDistance)
	}
}
