// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package api

import (
	"context"
	"time"

	"github.com/tomtom215/runboard/internal/config"
	"github.com/tomtom215/runboard/internal/models"
	syncpkg "github.com/tomtom215/runboard/internal/sync"
)

// StandingsService is the read path and registration surface.
// Implemented by standings.Service.
type StandingsService interface {
	Standings(ctx context.Context, week string) (*models.StandingsResponse, bool, error)
	Weeks(ctx context.Context) ([]string, error)
	SyncStatus(ctx context.Context) (*models.SyncStatus, error)
	RegisterUser(ctx context.Context, req *models.RegisterUserRequest) (*models.User, error)
	SetGoal(ctx context.Context, handle string, goal float64) (*models.Aggregate, error)
}

// SyncRunner runs and reports sync passes. Implemented by sync.Manager.
type SyncRunner interface {
	SyncIfNeeded(ctx context.Context, force, timeAware bool) (*syncpkg.Result, error)
	LastSyncTime() time.Time
	LastResult() *syncpkg.Result
}

// Pinger reports store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_helpers.go: response and request helpers
//   - handlers_health.go: health endpoints
//   - handlers_standings.go: standings and weeks
//   - handlers_users.go: user and goal registration
//   - handlers_sync.go: manual sync and sync status
type Handler struct {
	store     Pinger
	standings StandingsService
	sync      SyncRunner
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a new API handler. syncRunner may be nil when the
// scheduler is disabled; the sync endpoints then answer 503.
//
//	handler := api.NewHandler(db, standingsSvc, syncMgr, cfg)
//	router := api.NewRouter(handler, cfg)
//	http.ListenAndServe(":8080", router.SetupChi())
func NewHandler(store Pinger, standings StandingsService, syncRunner SyncRunner, cfg *config.Config) *Handler {
	return &Handler{
		store:     store,
		standings: standings,
		sync:      syncRunner,
		config:    cfg,
		startTime: time.Now(),
	}
}
