// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package sync

import (
	"testing"
	"time"
)

var testLoc = mustLoadLocation("Asia/Ho_Chi_Minh")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("ICT", 7*3600)
	}
	return loc
}

func testPolicy() Policy {
	return Policy{StaleAfter: time.Hour, CutoffHour: 8, Location: testLoc}
}

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, testLoc)
}

func ptr(t time.Time) *time.Time {
	return &t
}

func TestPolicy_Decide(t *testing.T) {
	t.Parallel()

	// Window: Monday 2026-03-09 .. Sunday 2026-03-15.
	wednesday := at(2026, time.March, 11, 14, 0)
	monday7 := at(2026, time.March, 9, 7, 59)
	monday8 := at(2026, time.March, 9, 8, 0)
	currentStart := at(2026, time.March, 9, 0, 0)

	tests := []struct {
		name         string
		in           PolicyInput
		wantCurrent  bool
		wantPrevious bool
		wantReason   string
	}{
		{
			name:         "no data fetches both",
			in:           PolicyInput{Now: wednesday},
			wantCurrent:  true,
			wantPrevious: true,
			wantReason:   ReasonNoData,
		},
		{
			name: "fresh data fetches nothing",
			in: PolicyInput{
				Now:            wednesday,
				CurrentSynced:  ptr(wednesday.Add(-30 * time.Minute)),
				PreviousSynced: ptr(currentStart.Add(time.Hour)),
			},
			wantReason: ReasonFresh,
		},
		{
			name: "exactly stale-after old is still fresh",
			in: PolicyInput{
				Now:           wednesday,
				CurrentSynced: ptr(wednesday.Add(-time.Hour)),
			},
			wantReason: ReasonFresh,
		},
		{
			name: "stale current refreshes",
			in: PolicyInput{
				Now:            wednesday,
				CurrentSynced:  ptr(wednesday.Add(-2 * time.Hour)),
				PreviousSynced: ptr(currentStart.Add(time.Hour)),
			},
			wantCurrent: true,
			wantReason:  ReasonStale,
		},
		{
			name: "previous synced before window start is refreshed",
			in: PolicyInput{
				Now:            wednesday,
				CurrentSynced:  ptr(wednesday.Add(-2 * time.Hour)),
				PreviousSynced: ptr(currentStart.Add(-time.Minute)),
			},
			wantCurrent:  true,
			wantPrevious: true,
			wantReason:   ReasonStale,
		},
		{
			name: "previous synced exactly at window start is final",
			in: PolicyInput{
				Now:            wednesday,
				PreviousSynced: ptr(currentStart),
			},
			wantCurrent: true,
			wantReason:  ReasonNoData,
		},
		{
			name: "force overrides freshness",
			in: PolicyInput{
				Now:            wednesday,
				CurrentSynced:  ptr(wednesday.Add(-time.Minute)),
				PreviousSynced: ptr(currentStart.Add(time.Hour)),
				ForceRefresh:   true,
			},
			wantCurrent: true,
			wantReason:  ReasonForced,
		},
		{
			name: "time-aware before cutoff on first day",
			in: PolicyInput{
				Now:          monday7,
				ForceRefresh: true,
				TimeAware:    true,
			},
			wantReason: ReasonTooEarly,
		},
		{
			name: "time-aware at cutoff proceeds",
			in: PolicyInput{
				Now:       monday8,
				TimeAware: true,
			},
			wantCurrent:  true,
			wantPrevious: true,
			wantReason:   ReasonNoData,
		},
		{
			name:         "guard ignored when not time-aware",
			in:           PolicyInput{Now: monday7},
			wantCurrent:  true,
			wantPrevious: true,
			wantReason:   ReasonNoData,
		},
		{
			name: "guard only applies on first day",
			in: PolicyInput{
				Now:       at(2026, time.March, 10, 6, 0),
				TimeAware: true,
			},
			wantCurrent:  true,
			wantPrevious: true,
			wantReason:   ReasonNoData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := testPolicy().Decide(tt.in)
			if d.FetchCurrent != tt.wantCurrent {
				t.Errorf("Expected FetchCurrent=%v, got %v", tt.wantCurrent, d.FetchCurrent)
			}
			if d.FetchPrevious != tt.wantPrevious {
				t.Errorf("Expected FetchPrevious=%v, got %v", tt.wantPrevious, d.FetchPrevious)
			}
			if d.Reason != tt.wantReason {
				t.Errorf("Expected reason %q, got %q", tt.wantReason, d.Reason)
			}
		})
	}
}

func TestPolicy_PreviousRequiresCurrent(t *testing.T) {
	t.Parallel()

	p := testPolicy()
	base := at(2026, time.March, 11, 0, 0)
	for h := 0; h < 7*24; h += 5 {
		now := base.Add(time.Duration(h) * time.Hour)
		for _, force := range []bool{false, true} {
			for _, aware := range []bool{false, true} {
				d := p.Decide(PolicyInput{
					Now:           now,
					CurrentSynced: ptr(now.Add(-10 * time.Minute)),
					ForceRefresh:  force,
					TimeAware:     aware,
				})
				if d.FetchPrevious && !d.FetchCurrent {
					t.Fatalf("Expected previous only with current at %v force=%v aware=%v", now, force, aware)
				}
			}
		}
	}
}

func TestPolicy_Windows(t *testing.T) {
	t.Parallel()

	// 2026-03-08 23:30 UTC is Monday 06:30 in Ho Chi Minh City.
	now := time.Date(2026, time.March, 8, 23, 30, 0, 0, time.UTC)
	cur, prev := testPolicy().Windows(now)

	if cur.StartDate() != "2026-03-09" {
		t.Errorf("Expected current start 2026-03-09, got %s", cur.StartDate())
	}
	if prev.StartDate() != "2026-03-02" || prev.EndDate() != "2026-03-08" {
		t.Errorf("Expected previous 2026-03-02..2026-03-08, got %s", prev)
	}

	d := testPolicy().Decide(PolicyInput{Now: now, TimeAware: true})
	if d.Reason != ReasonTooEarly {
		t.Errorf("Expected %q for Monday 06:30 local, got %q", ReasonTooEarly, d.Reason)
	}
}
