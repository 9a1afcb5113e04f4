// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package models

import (
	"time"
)

// APIResponse is the envelope returned by every HTTP endpoint.
//
// Status is "success" (see Data) or "error" (see Error).
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"week_start": "2026-10-12", "standings": [...]},
//	  "metadata": {"timestamp": "2026-10-16T12:00:00Z", "query_time_ms": 4}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "VALIDATION_ERROR", "message": "goal must be greater than 0"},
//	  "metadata": {"timestamp": "2026-10-16T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response timing and caching information. Cached
// responses report a QueryTimeMS of 0.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a machine-readable error.
//
// Common codes: VALIDATION_ERROR, DATABASE_ERROR, NOT_FOUND, SYNC_IN_PROGRESS,
// SYNC_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// StandingsResponse is the payload of the weekly results endpoint.
type StandingsResponse struct {
	WeekStart      string     `json:"week_start"`
	WeekEnd        string     `json:"week_end"`
	IsCurrentWeek  bool       `json:"is_current_week"`
	LastUpdate     *time.Time `json:"last_update,omitempty"`
	AvailableWeeks []string   `json:"available_weeks"`
	Standings      []Standing `json:"standings"`
}

// RegisterUserRequest creates a locally registered user.
type RegisterUserRequest struct {
	Handle    string `json:"handle" validate:"required,min=3,max=64,handle"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

// SetGoalRequest sets the current-week distance goal of a user.
type SetGoalRequest struct {
	DistanceGoal float64 `json:"distance_goal" validate:"required,gt=0,lte=1000"`
}

// SyncResponse reports the outcome of a manual sync.
type SyncResponse struct {
	Reason          string   `json:"reason"`
	FetchedCurrent  bool     `json:"fetched_current"`
	FetchedPrevious bool     `json:"fetched_previous"`
	CurrentCount    int      `json:"current_count"`
	PreviousCount   int      `json:"previous_count"`
	Processed       int      `json:"processed"`
	Failed          int      `json:"failed"`
	SkippedRows     int      `json:"skipped_rows"`
	DurationMS      int64    `json:"duration_ms"`
	Logs            []string `json:"logs"`
}
