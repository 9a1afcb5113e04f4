// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package services

import (
	"context"
	"fmt"

	"github.com/tomtom215/runboard/internal/logging"
)

// Scheduler is the lifecycle of the periodic sync loop.
// Satisfied by *sync.Manager.
type Scheduler interface {
	Start(ctx context.Context) error
	Stop() error
}

// SyncService runs the sync scheduler under suture.
//
// Start spawns the ticker loop and returns; Serve then blocks until the
// supervisor cancels ctx and stops the loop, waiting for an in-flight pass
// to observe cancellation.
type SyncService struct {
	scheduler Scheduler
	name      string
}

// NewSyncService creates a new sync service wrapper.
//
//	mgr := sync.NewManager(cfg, store, session)
//	tree.AddSyncService(services.NewSyncService(mgr))
func NewSyncService(scheduler Scheduler) *SyncService {
	return &SyncService{
		scheduler: scheduler,
		name:      "sync-scheduler",
	}
}

// Serve implements suture.Service. A Start failure is returned so suture
// restarts the service with backoff.
func (s *SyncService) Serve(ctx context.Context) error {
	if err := s.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("sync scheduler start failed: %w", err)
	}
	logging.Debug().Str("service", s.name).Msg("Sync scheduler running")

	<-ctx.Done()

	if err := s.scheduler.Stop(); err != nil {
		return fmt.Errorf("sync scheduler stop failed: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer for suture event logs.
func (s *SyncService) String() string {
	return s.name
}
