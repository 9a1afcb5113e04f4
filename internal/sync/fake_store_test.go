// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package sync

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/tomtom215/runboard/internal/browser"
	"github.com/tomtom215/runboard/internal/models"
	"github.com/tomtom215/runboard/internal/week"
)

// memStore is an in-memory Store. Each method holds mu for its duration so
// every call is atomic, matching the database implementations.
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	users      map[string]*models.User
	aggregates map[string]*models.Aggregate

	// failUpsert fails UpsertAggregate for these user ids.
	failUpsert map[int64]bool
	// lookupMiss makes the first GetUserByHandle per handle report not found
	// even when the user exists, simulating a concurrent insert.
	lookupMiss map[string]bool
	creates    int
	lastErr    error
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[string]*models.User),
		aggregates: make(map[string]*models.Aggregate),
		failUpsert: make(map[int64]bool),
		lookupMiss: make(map[string]bool),
	}
}

func (s *memStore) GetUserByHandle(_ context.Context, handle string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupMiss[handle] {
		delete(s.lookupMiss, handle)
		return nil, models.ErrUserNotFound
	}
	u, ok := s.users[handle]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) CreateUser(_ context.Context, u *models.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Handle]; ok {
		return 0, models.ErrDuplicateHandle
	}
	s.nextID++
	s.creates++
	cp := *u
	cp.ID = s.nextID
	s.users[u.Handle] = &cp
	return cp.ID, nil
}

func (s *memStore) UpsertAggregate(_ context.Context, w models.AggregateWrite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpsert[w.UserID] {
		return errors.New("disk full")
	}
	key := w.Window.StartDate() + "/" + itoa(w.UserID)
	synced := w.SyncedAt
	agg, ok := s.aggregates[key]
	if !ok {
		agg = &models.Aggregate{
			UserID:       w.UserID,
			StartDate:    w.Window.StartDate(),
			EndDate:      w.Window.EndDate(),
			DistanceGoal: w.InitialGoal,
			CreatedAt:    w.SyncedAt,
		}
		s.aggregates[key] = agg
	}
	agg.TotalDistance = w.TotalDistance
	agg.Runs = w.Runs
	agg.AveragePace = w.AveragePace
	agg.ElevationGain = w.ElevationGain
	agg.UpdatedAt = w.SyncedAt
	agg.SyncedAt = &synced
	return nil
}

func (s *memStore) LastSynced(_ context.Context, w week.Window) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr != nil {
		return nil, s.lastErr
	}
	var latest *time.Time
	for _, agg := range s.aggregates {
		if agg.StartDate != w.StartDate() || agg.SyncedAt == nil {
			continue
		}
		if latest == nil || agg.SyncedAt.After(*latest) {
			t := *agg.SyncedAt
			latest = &t
		}
	}
	return latest, nil
}

func (s *memStore) aggregate(userID int64, w week.Window) *models.Aggregate {
	s.mu.Lock()
	defer s.mu.Unlock()
	agg, ok := s.aggregates[w.StartDate()+"/"+itoa(userID)]
	if !ok {
		return nil
	}
	cp := *agg
	return &cp
}

func (s *memStore) userCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

// fakeSession serves fixed fragments per period.
type fakeSession struct {
	mu     sync.Mutex
	pages  map[browser.Period]string
	errs   map[browser.Period]error
	calls  []browser.Period
	block  chan struct{}
	onCall func()
}

func (f *fakeSession) LoadLeaderboard(ctx context.Context, period browser.Period) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, period)
	block := f.block
	onCall := f.onCall
	f.mu.Unlock()

	if onCall != nil {
		onCall()
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := f.errs[period]; err != nil {
		return "", err
	}
	return f.pages[period], nil
}

func (f *fakeSession) periods() []browser.Period {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]browser.Period, len(f.calls))
	copy(out, f.calls)
	return out
}

// fakeLocker is a RunLocker that can be held externally.
type fakeLocker struct {
	mu   sync.Mutex
	held bool
}

func (l *fakeLocker) TryLockRun(context.Context) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return nil, false, nil
	}
	l.held = true
	return func() {
		l.mu.Lock()
		l.held = false
		l.mu.Unlock()
	}, true, nil
}
