// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/runboard/internal/models"
	syncpkg "github.com/tomtom215/runboard/internal/sync"
)

// SyncStatusResponse combines stored freshness with the last pass.
type SyncStatusResponse struct {
	Week         *models.SyncStatus   `json:"week"`
	LastSyncTime *time.Time           `json:"last_sync_time,omitempty"`
	LastRun      *models.SyncResponse `json:"last_run,omitempty"`
	LastRunID    string               `json:"last_run_id,omitempty"`
}

// TriggerSync runs a sync pass synchronously. Query parameters force
// (default true) and time_aware (default false) are passed to the policy.
// A pass already in flight answers 409.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.sync == nil {
		respondError(w, r, http.StatusServiceUnavailable, "SYNC_DISABLED", "Sync is not enabled", nil)
		return
	}

	force := getBoolParam(r, "force", true)
	timeAware := getBoolParam(r, "time_aware", false)

	res, err := h.sync.SyncIfNeeded(r.Context(), force, timeAware)
	if err != nil {
		if errors.Is(err, syncpkg.ErrSyncInProgress) {
			respondError(w, r, http.StatusConflict, "SYNC_IN_PROGRESS", "A sync is already running", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, "SYNC_ERROR", "Sync failed", err)
		return
	}

	respondSuccess(w, http.StatusOK, syncResponse(res), start, false)
}

// SyncStatus returns stored freshness of the latest week and the outcome of
// the last pass run by this process.
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	st, err := h.standings.SyncStatus(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load sync status", err)
		return
	}

	resp := SyncStatusResponse{Week: st}
	if h.sync != nil {
		if last := h.sync.LastSyncTime(); !last.IsZero() {
			resp.LastSyncTime = &last
		}
		if res := h.sync.LastResult(); res != nil {
			resp.LastRun = syncResponse(res)
			resp.LastRunID = res.RunID
		}
	}

	respondSuccess(w, http.StatusOK, resp, start, false)
}

func syncResponse(res *syncpkg.Result) *models.SyncResponse {
	logs := res.Logs
	if logs == nil {
		logs = []string{}
	}
	return &models.SyncResponse{
		Reason:          res.Decision.Reason,
		FetchedCurrent:  res.Decision.FetchCurrent,
		FetchedPrevious: res.Decision.FetchPrevious,
		CurrentCount:    res.Summary.CurrentCount,
		PreviousCount:   res.Summary.PreviousCount,
		Processed:       res.Summary.Processed,
		Failed:          res.Summary.Failed(),
		SkippedRows:     res.Summary.SkippedRows,
		DurationMS:      res.Duration.Milliseconds(),
		Logs:            logs,
	}
}
