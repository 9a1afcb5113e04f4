// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/runboard/internal/logging"
	"github.com/tomtom215/runboard/internal/models"
	"github.com/tomtom215/runboard/internal/week"
)

// Store is the persistence surface used by a sync pass.
type Store interface {
	GetUserByHandle(ctx context.Context, handle string) (*models.User, error)
	// CreateUser returns models.ErrDuplicateHandle when the handle exists.
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	UpsertAggregate(ctx context.Context, w models.AggregateWrite) error
	LastSynced(ctx context.Context, w week.Window) (*time.Time, error)
}

// RunLocker is implemented by stores that can hold a cross-process lock
// for the duration of a pass.
type RunLocker interface {
	TryLockRun(ctx context.Context) (release func(), ok bool, err error)
}

// Reconciler maps external athletes to local users.
type Reconciler struct {
	store Store
	now   func() time.Time
}

// NewReconciler returns a reconciler over store.
func NewReconciler(store Store) *Reconciler {
	return &Reconciler{store: store, now: time.Now}
}

// Resolve returns the user id for athleteID, creating an external user
// named displayName on first sight. When a concurrent writer creates the
// same user first, the winner's id is read back and returned.
func (r *Reconciler) Resolve(ctx context.Context, athleteID int64, displayName string) (int64, error) {
	handle := models.ExternalHandle(athleteID)

	u, err := r.store.GetUserByHandle(ctx, handle)
	if err == nil {
		return u.ID, nil
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return 0, fmt.Errorf("look up %s: %w", handle, err)
	}

	first, last := models.SplitName(displayName)
	id, err := r.store.CreateUser(ctx, &models.User{
		Handle:    handle,
		FirstName: first,
		LastName:  last,
		Origin:    models.OriginExternal,
		CreatedAt: r.now(),
	})
	if err == nil {
		logging.Ctx(ctx).Info().Str("handle", handle).Int64("user_id", id).Str("name", displayName).Msg("Created user for athlete")
		return id, nil
	}
	if !errors.Is(err, models.ErrDuplicateHandle) {
		return 0, fmt.Errorf("create %s: %w", handle, err)
	}

	// Lost the insert race: the winner's row is visible now.
	u, err = r.store.GetUserByHandle(ctx, handle)
	if err != nil {
		return 0, fmt.Errorf("re-read %s after conflict: %w", handle, err)
	}
	logging.Ctx(ctx).Debug().Str("handle", handle).Int64("user_id", u.ID).Msg("Resolved concurrent user creation")
	return u.ID, nil
}
