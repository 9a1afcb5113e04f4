// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package status

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	end := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	during := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	lastDay := time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC)
	after := time.Date(2026, 10, 19, 0, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		goal     float64
		achieved float64
		now      time.Time
		want     Label
	}{
		{"no goal", 0, 50, during, NoGoalSet},
		{"no goal after deadline", 0, 0, after, NoGoalSet},
		{"in progress", 50, 30, during, InProgress},
		{"in progress on last day", 50, 30, lastDay, InProgress},
		{"missed after deadline", 50, 30, after, MissedDeadline},
		{"exactly met", 50, 50, during, GoalMet},
		{"met after deadline", 50, 50, after, GoalMet},
		{"upper boundary inclusive", 50, 60, during, GoalMet},
		{"overachieved", 50, 61, during, Overachieved},
		{"rounds to 99.9", 1000, 999.4, during, InProgress},
		{"rounds up to 100", 1000, 999.95, during, GoalMet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.goal, tt.achieved, end, tt.now)
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goal, achieved, want float64
	}{
		{0, 10, 0},
		{35, 0, 0},
		{3, 1, 33.3},
		{3, 2, 66.7},
		{40, 40.02, 100.1},
		{100, 100.05, 100.1},
	}
	for _, tt := range tests {
		if got := Percent(tt.goal, tt.achieved); got != tt.want {
			t.Errorf("Expected Percent(%v, %v) = %v, got %v", tt.goal, tt.achieved, tt.want, got)
		}
	}
}

func TestLabel_Description(t *testing.T) {
	t.Parallel()

	if GoalMet.Description() != "Goal met" {
		t.Errorf("Expected 'Goal met', got %q", GoalMet.Description())
	}
	if !Overachieved.Completed() || InProgress.Completed() {
		t.Error("Expected only met and overachieved labels to be completed")
	}
}
