// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package leaderboard

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is returned when a required cell or link is absent.
	ErrMissingField = errors.New("missing field")

	// ErrMalformedField is returned when a cell cannot be parsed after
	// placeholder handling.
	ErrMalformedField = errors.New("malformed field")

	// ErrLeaderboardNotFound is returned when a page has no leaderboard table.
	ErrLeaderboardNotFound = errors.New("leaderboard table not found")
)

// ExtractionError describes a single row that could not be converted into
// an Athlete. The row is skipped; the rest of the batch is unaffected.
type ExtractionError struct {
	Row   int    // zero-based row index within the table body
	Field string // cell class, e.g. "distance"
	Value string // raw cell text, truncated
	Err   error  // ErrMissingField or ErrMalformedField, possibly wrapped
}

func (e *ExtractionError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("row %d: %s: %v", e.Row, e.Field, e.Err)
	}
	return fmt.Sprintf("row %d: %s %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func missing(row int, field string) *ExtractionError {
	return &ExtractionError{Row: row, Field: field, Err: ErrMissingField}
}

func malformed(row int, field, value string, cause error) *ExtractionError {
	if len(value) > 64 {
		value = value[:64]
	}
	err := ErrMalformedField
	if cause != nil {
		err = fmt.Errorf("%w: %v", ErrMalformedField, cause)
	}
	return &ExtractionError{Row: row, Field: field, Value: value, Err: err}
}
