// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package sync

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tomtom215/runboard/internal/models"
)

func TestReconciler_CreatesExternalUser(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	r := NewReconciler(store)

	id, err := r.Resolve(context.Background(), 4242, "An Thi Nguyen")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	u, err := store.GetUserByHandle(context.Background(), "strava_4242")
	if err != nil {
		t.Fatalf("Expected user to exist: %v", err)
	}
	if u.ID != id {
		t.Errorf("Expected id %d, got %d", id, u.ID)
	}
	if u.Origin != models.OriginExternal {
		t.Errorf("Expected origin external, got %q", u.Origin)
	}
	if u.FirstName != "An" || u.LastName != "Thi Nguyen" {
		t.Errorf("Expected An / Thi Nguyen, got %q / %q", u.FirstName, u.LastName)
	}
}

func TestReconciler_ExistingUser(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	existing, _ := store.CreateUser(context.Background(), &models.User{Handle: "strava_7", FirstName: "Binh"})
	r := NewReconciler(store)

	id, err := r.Resolve(context.Background(), 7, "Someone Else")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if id != existing {
		t.Errorf("Expected existing id %d, got %d", existing, id)
	}
	if store.creates != 1 {
		t.Errorf("Expected 1 create, got %d", store.creates)
	}
}

func TestReconciler_ConflictReReads(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	winner, _ := store.CreateUser(context.Background(), &models.User{Handle: "strava_9", FirstName: "Chi"})
	// The first lookup misses as if the winner committed just after it.
	store.lookupMiss["strava_9"] = true

	id, err := NewReconciler(store).Resolve(context.Background(), 9, "Chi Le")
	if err != nil {
		t.Fatalf("Expected conflict to be absorbed, got %v", err)
	}
	if id != winner {
		t.Errorf("Expected winner id %d, got %d", winner, id)
	}
}

func TestReconciler_ConcurrentResolveIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	r := NewReconciler(store)

	const callers = 16
	ids := make([]int64, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = r.Resolve(context.Background(), 31337, "Dung Pham")
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("Caller %d failed: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("Expected every caller to get id %d, caller %d got %d", ids[0], i, ids[i])
		}
	}
	if n := store.userCount(); n != 1 {
		t.Errorf("Expected exactly 1 user, got %d", n)
	}
}

type brokenStore struct {
	*memStore
	err error
}

func (b *brokenStore) GetUserByHandle(context.Context, string) (*models.User, error) {
	return nil, b.err
}

func TestReconciler_LookupError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	store := &brokenStore{memStore: newMemStore(), err: boom}

	_, err := NewReconciler(store).Resolve(context.Background(), 1, "Em Vo")
	if !errors.Is(err, boom) {
		t.Errorf("Expected wrapped lookup error, got %v", err)
	}
	if store.creates != 0 {
		t.Errorf("Expected no create after a failed lookup, got %d", store.creates)
	}
}
