// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/runboard/internal/models"
)

// RegisterUser creates a locally registered user.
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.RegisterUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body: "+err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	user, err := h.standings.RegisterUser(r.Context(), &req)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateHandle) {
			respondError(w, r, http.StatusConflict, "DUPLICATE_HANDLE", "Handle is already registered", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to register user", err)
		return
	}

	respondSuccess(w, http.StatusCreated, user, start, false)
}

// SetGoal sets the current week distance goal of the user in the path.
// Sync freshness is not affected.
func (h *Handler) SetGoal(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	handle := chi.URLParam(r, "handle")

	var req models.SetGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body: "+err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	agg, err := h.standings.SetGoal(r.Context(), handle, req.DistanceGoal)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			respondError(w, r, http.StatusNotFound, "NOT_FOUND", "No user with handle "+sanitizeLogValue(handle), nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to set goal", err)
		return
	}

	respondSuccess(w, http.StatusOK, agg, start, false)
}
