// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package week

import (
	"testing"
	"time"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("timezone %s not available: %v", name, err)
	}
	return loc
}

func TestCurrent_Properties(t *testing.T) {
	t.Parallel()

	loc := mustLoc(t, "Asia/Ho_Chi_Minh")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, loc)

	// Walk every hour of a year, including across the year boundary.
	for h := 0; h < 24*366; h += 5 {
		now := base.Add(time.Duration(h) * time.Hour)
		w := Current(now, loc)

		if w.Start.Weekday() != time.Monday {
			t.Fatalf("Expected Monday start for %v, got %v", now, w.Start.Weekday())
		}
		if !SameDate(w.End, w.Start.AddDate(0, 0, 6)) {
			t.Fatalf("Expected end = start+6 for %v, got %s", now, w)
		}
		if !w.Contains(now) {
			t.Fatalf("Expected %s to contain %v", w, now)
		}

		p := Previous(now, loc)
		if !SameDate(p.End, w.Start.AddDate(0, 0, -1)) {
			t.Fatalf("Expected previous end one day before current start, got %s / %s", p, w)
		}
		if !SameDate(p.End, p.Start.AddDate(0, 0, 6)) {
			t.Fatalf("Expected previous end = start+6, got %s", p)
		}
	}
}

func TestCurrent_UsesCanonicalLocation(t *testing.T) {
	t.Parallel()

	loc := mustLoc(t, "Asia/Ho_Chi_Minh")

	// Sunday 20:00 UTC is already Monday 03:00 in UTC+7.
	now := time.Date(2026, 10, 11, 20, 0, 0, 0, time.UTC)
	w := Current(now, loc)

	if got := w.StartDate(); got != "2026-10-12" {
		t.Errorf("Expected start 2026-10-12, got %s", got)
	}
	if got := w.EndDate(); got != "2026-10-18" {
		t.Errorf("Expected end 2026-10-18, got %s", got)
	}
	if !w.IsFirstDay(now) {
		t.Error("Expected instant to be on the first day of the window")
	}

	utc := Current(now, time.UTC)
	if got := utc.StartDate(); got != "2026-10-05" {
		t.Errorf("Expected UTC start 2026-10-05, got %s", got)
	}
}

func TestPrevious_AcrossYearBoundary(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) // Thursday
	cur := Current(now, time.UTC)
	prev := Previous(now, time.UTC)

	if cur.String() != "2025-12-29..2026-01-04" {
		t.Errorf("Expected current 2025-12-29..2026-01-04, got %s", cur)
	}
	if prev.String() != "2025-12-22..2025-12-28" {
		t.Errorf("Expected previous 2025-12-22..2025-12-28, got %s", prev)
	}

	year, wk := cur.ISOWeek()
	if year != 2026 || wk != 1 {
		t.Errorf("Expected ISO week 2026-W01, got %d-W%02d", year, wk)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"monday", "2026-10-12", "2026-10-12..2026-10-18", false},
		{"midweek normalizes", "2026-10-15", "2026-10-12..2026-10-18", false},
		{"sunday", "2026-10-18", "2026-10-12..2026-10-18", false},
		{"garbage", "last-week", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Parse(tt.input, time.UTC)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if w.String() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, w)
			}
		})
	}
}

func TestAfterDate(t *testing.T) {
	t.Parallel()

	end := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	if AfterDate(time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC), end) {
		t.Error("Expected same day to not be after")
	}
	if !AfterDate(time.Date(2026, 10, 19, 0, 0, 1, 0, time.UTC), end) {
		t.Error("Expected next day to be after")
	}
}
