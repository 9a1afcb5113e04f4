// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/runboard/internal/models"
)

// Health returns a combined health summary. It always answers 200 so that
// dashboards can render degraded state; use /health/ready for gating.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	dbConnected := h.store != nil && h.store.Ping(r.Context()) == nil

	status := "healthy"
	if !dbConnected {
		status = "degraded"
	}

	data := map[string]interface{}{
		"status":             status,
		"database_connected": dbConnected,
		"sync_enabled":       h.sync != nil,
		"uptime":             time.Since(h.startTime).Seconds(),
	}
	if h.sync != nil {
		if last := h.sync.LastSyncTime(); !last.IsZero() {
			data["last_sync_time"] = last
		}
	}

	respondSuccess(w, http.StatusOK, data, start, false)
}

// HealthLive reports that the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "alive",
		Data: map[string]interface{}{
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}

// HealthReady reports whether the store is reachable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.store != nil && h.store.Ping(r.Context()) == nil

	statusCode := http.StatusOK
	status := "ready"
	if !dbConnected {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"database_connected": dbConnected,
			"ready_to_serve":     dbConnected,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}
