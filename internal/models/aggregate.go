// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package models

import (
	"time"

	"github.com/tomtom215/runboard/internal/week"
)

// Aggregate is one user's statistics for one challenge window.
// (UserID, StartDate) is unique.
type Aggregate struct {
	UserID        int64      `json:"user_id"`
	StartDate     string     `json:"start_date"` // YYYY-MM-DD
	EndDate       string     `json:"end_date"`
	DistanceGoal  float64    `json:"distance_goal"`
	TotalDistance float64    `json:"total_distance"`
	Runs          int        `json:"runs"`
	AveragePace   int        `json:"average_pace"`   // seconds per km, 0 = no data
	ElevationGain float64    `json:"elevation_gain"` // metres, 0 = no data
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	SyncedAt      *time.Time `json:"synced_at,omitempty"`
}

// AggregateWrite is a sync write of an Aggregate. InitialGoal is used only
// when the row does not exist yet; an existing goal is never replaced.
type AggregateWrite struct {
	UserID        int64
	Window        week.Window
	InitialGoal   float64
	TotalDistance float64
	Runs          int
	AveragePace   int
	ElevationGain float64
	SyncedAt      time.Time
}

// WeekEntry is an aggregate joined with its user.
type WeekEntry struct {
	User      User
	Aggregate Aggregate
}

// Standing is a row of the weekly results table.
type Standing struct {
	UserID        int64   `json:"user_id"`
	Handle        string  `json:"handle"`
	Name          string  `json:"name"`
	ProfileURL    string  `json:"profile_url,omitempty"`
	DistanceGoal  float64 `json:"distance_goal"`
	TotalDistance float64 `json:"total_distance"`
	Runs          int     `json:"runs"`
	AveragePace   int     `json:"average_pace"`
	ElevationGain float64 `json:"elevation_gain"`
	Percent       float64 `json:"percent"`
	Status        string  `json:"status"`
	StatusText    string  `json:"status_text"`
	Registered    bool    `json:"registered"`
}

// SyncStatus summarizes the freshness of the most recent window.
type SyncStatus struct {
	WeekStart  string     `json:"week_start,omitempty"`
	LastUpdate *time.Time `json:"last_update,omitempty"`
	Count      int        `json:"count"`
}
