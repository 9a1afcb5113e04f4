// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator reports JSON field names and registers
// the custom "handle" tag for locally registered users. Failures convert to
// the VALIDATION_ERROR API error:
//
//	var req models.SetGoalRequest
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Custom Tags
//
//   - handle: lowercase letters, digits, '.', '-' and '_', starting with a
//     letter or digit. The "strava_" prefix is reserved for users provisioned
//     from the club leaderboard.
package validation
