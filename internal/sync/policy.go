// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package sync

import (
	"time"

	"github.com/tomtom215/runboard/internal/week"
)

// Decision reasons.
const (
	ReasonTooEarly = "too_early"
	ReasonForced   = "forced"
	ReasonNoData   = "no_data"
	ReasonStale    = "stale"
	ReasonFresh    = "fresh"
)

// Policy decides which leaderboard periods a pass refreshes.
type Policy struct {
	// StaleAfter is the age past which current-week data is refreshed.
	StaleAfter time.Duration
	// CutoffHour suppresses time-aware passes on a window's first day
	// before this local hour.
	CutoffHour int
	// Location is the canonical challenge timezone.
	Location *time.Location
}

// PolicyInput is the state a decision is made from.
type PolicyInput struct {
	Now time.Time
	// CurrentSynced and PreviousSynced are the most recent sync writes of
	// the current and previous windows; nil when none exist.
	CurrentSynced  *time.Time
	PreviousSynced *time.Time
	ForceRefresh   bool
	TimeAware      bool
}

// Decision is the outcome of Policy.Decide.
type Decision struct {
	FetchCurrent  bool        `json:"fetch_current"`
	FetchPrevious bool        `json:"fetch_previous"`
	Reason        string      `json:"reason"`
	Current       week.Window `json:"-"`
	Previous      week.Window `json:"-"`
}

// Any reports whether at least one period is fetched.
func (d Decision) Any() bool {
	return d.FetchCurrent || d.FetchPrevious
}

// Windows returns the current and previous windows for now.
func (p Policy) Windows(now time.Time) (current, previous week.Window) {
	return week.Current(now, p.Location), week.Previous(now, p.Location)
}

// Decide evaluates in. The previous week is only considered when the
// current week is fetched, and it is refreshed unless it was synced after
// the current window began.
func (p Policy) Decide(in PolicyInput) Decision {
	cur, prev := p.Windows(in.Now)
	d := Decision{Current: cur, Previous: prev}

	if in.TimeAware && cur.IsFirstDay(in.Now) && in.Now.In(cur.Start.Location()).Hour() < p.CutoffHour {
		d.Reason = ReasonTooEarly
		return d
	}

	switch {
	case in.ForceRefresh:
		d.Reason = ReasonForced
	case in.CurrentSynced == nil:
		d.Reason = ReasonNoData
	case in.Now.Sub(*in.CurrentSynced) > p.StaleAfter:
		d.Reason = ReasonStale
	default:
		d.Reason = ReasonFresh
		return d
	}

	d.FetchCurrent = true
	d.FetchPrevious = in.PreviousSynced == nil || in.PreviousSynced.Before(cur.StartInstant())
	return d
}
