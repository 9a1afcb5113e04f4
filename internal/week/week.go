// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

/*
Package week provides challenge window arithmetic.

A challenge window runs Monday through Sunday in the club's canonical
timezone. Windows are never stored; the window start date is the key under
which weekly aggregates are persisted.

All functions are total: any instant maps to exactly one window, and the
previous window of an instant always ends the day before its current window
starts.
*/
package week

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for window dates.
const DateLayout = "2006-01-02"

// Window is an inclusive Monday to Sunday date range.
//
// Start and End are midnight in the canonical location.
type Window struct {
	Start time.Time
	End   time.Time
}

// Current returns the window containing now, evaluated in loc.
func Current(now time.Time, loc *time.Location) Window {
	return ForDate(now, loc)
}

// Previous returns the window immediately before the one containing now.
func Previous(now time.Time, loc *time.Location) Window {
	cur := Current(now, loc)
	end := cur.Start.AddDate(0, 0, -1)
	return Window{Start: end.AddDate(0, 0, -6), End: end}
}

// ForDate returns the window containing the calendar date of t in loc.
func ForDate(t time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	d := dateOf(t.In(loc))
	// Monday = 0 ... Sunday = 6
	offset := (int(d.Weekday()) + 6) % 7
	start := d.AddDate(0, 0, -offset)
	return Window{Start: start, End: start.AddDate(0, 0, 6)}
}

// Parse parses a YYYY-MM-DD date in loc and returns its window.
func Parse(s string, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return Window{}, fmt.Errorf("invalid week date %q: %w", s, err)
	}
	return ForDate(t, loc), nil
}

// StartInstant is the first instant of the window.
func (w Window) StartInstant() time.Time {
	return w.Start
}

// EndInstant is the first instant after the window.
func (w Window) EndInstant() time.Time {
	return w.End.AddDate(0, 0, 1)
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	t = t.In(w.Start.Location())
	return !t.Before(w.Start) && t.Before(w.EndInstant())
}

// IsFirstDay reports whether t falls on the window's Monday.
func (w Window) IsFirstDay(t time.Time) bool {
	return SameDate(t.In(w.Start.Location()), w.Start)
}

// ISOWeek returns the ISO 8601 year and week number of the window.
func (w Window) ISOWeek() (year, wk int) {
	return w.Start.ISOWeek()
}

// Equal reports whether both windows cover the same dates.
func (w Window) Equal(o Window) bool {
	return SameDate(w.Start, o.Start) && SameDate(w.End, o.End)
}

// StartDate formats the window start as YYYY-MM-DD.
func (w Window) StartDate() string {
	return w.Start.Format(DateLayout)
}

// EndDate formats the window end as YYYY-MM-DD.
func (w Window) EndDate() string {
	return w.End.Format(DateLayout)
}

func (w Window) String() string {
	return w.StartDate() + ".." + w.EndDate()
}

// SameDate reports whether a and b have the same calendar date in their own
// locations.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// AfterDate reports whether the calendar date of a is strictly after the
// calendar date of b, with a evaluated in b's location.
func AfterDate(a, b time.Time) bool {
	return dateOf(a.In(b.Location())).After(dateOf(b))
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
