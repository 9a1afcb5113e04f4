// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

// Package status classifies a member's weekly progress against their goal.
package status

import (
	"math"
	"time"

	"github.com/tomtom215/runboard/internal/week"
)

// Label is the classification of a weekly aggregate.
type Label string

const (
	NoGoalSet      Label = "no_goal_set"
	MissedDeadline Label = "missed_deadline"
	InProgress     Label = "in_progress"
	GoalMet        Label = "goal_met"
	Overachieved   Label = "overachieved"
)

// Overachieve is the completion percentage above which a goal counts as
// overachieved.
const Overachieve = 120.0

var descriptions = map[Label]string{
	NoGoalSet:      "No goal set",
	MissedDeadline: "Goal missed",
	InProgress:     "In progress",
	GoalMet:        "Goal met",
	Overachieved:   "Goal exceeded",
}

// Description returns a human readable label.
func (l Label) Description() string {
	if d, ok := descriptions[l]; ok {
		return d
	}
	return string(l)
}

// Completed reports whether the label counts as a completed goal.
func (l Label) Completed() bool {
	return l == GoalMet || l == Overachieved
}

// Percent returns achieved as a percentage of goal, rounded half-up to one
// decimal. A zero goal yields 0.
func Percent(goal, achieved float64) float64 {
	if goal <= 0 {
		return 0
	}
	return Round1(achieved / goal * 100)
}

// Round1 rounds half-up to one decimal place.
func Round1(v float64) float64 {
	// 1e-9 absorbs binary representation error, e.g. 100.05 stored as 100.0499...
	return math.Floor(v*10+0.5+1e-9) / 10
}

// Classify returns the status of an aggregate. Rules are evaluated in order:
// no goal, missed deadline (the window has ended and pct < 100), in progress,
// goal met (100 to 120 inclusive), overachieved.
func Classify(goal, achieved float64, windowEnd, now time.Time) Label {
	if goal == 0 {
		return NoGoalSet
	}
	pct := Percent(goal, achieved)
	switch {
	case week.AfterDate(now, windowEnd) && pct < 100:
		return MissedDeadline
	case pct < 100:
		return InProgress
	case pct <= Overachieve:
		return GoalMet
	default:
		return Overachieved
	}
}
