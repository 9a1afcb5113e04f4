// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package api

import (
	"net/http"
	"time"
)

// Standings returns the results table for the week containing the optional
// week=YYYY-MM-DD parameter. Invalid dates fall back to the current week.
func (h *Handler) Standings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	resp, cached, err := h.standings.Standings(r.Context(), r.URL.Query().Get("week"))
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load standings", err)
		return
	}

	respondSuccess(w, http.StatusOK, resp, start, cached)
}

// Weeks returns the most recent challenge week start dates, newest first.
func (h *Handler) Weeks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	weeks, err := h.standings.Weeks(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load weeks", err)
		return
	}

	respondSuccess(w, http.StatusOK, weeks, start, false)
}
