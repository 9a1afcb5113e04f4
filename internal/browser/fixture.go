// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tomtom215/runboard/internal/leaderboard"
	"github.com/tomtom215/runboard/internal/logging"
)

// FixtureSession serves saved leaderboard pages from a directory:
// current.html and previous.html. A file may hold a full page or only the
// table body.
type FixtureSession struct {
	dir string
}

// NewFixtureSession returns a session reading from dir.
func NewFixtureSession(dir string) *FixtureSession {
	return &FixtureSession{dir: dir}
}

// LoadLeaderboard returns the table body stored for period. A missing file
// for the previous period is reported as ErrPeriodUnsupported.
func (s *FixtureSession) LoadLeaderboard(ctx context.Context, period Period) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", timeoutErr(ctx, period, err)
	}

	path := filepath.Join(s.dir, period.String()+".html")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && period == PeriodPrevious {
		return "", fmt.Errorf("%s leaderboard fixture: %w", period, ErrPeriodUnsupported)
	}
	if err != nil {
		return "", fmt.Errorf("read %s leaderboard fixture: %w", period, err)
	}

	logging.Ctx(ctx).Debug().Str("period", period.String()).Str("path", path).Msg("Loading leaderboard fixture")

	body, err := leaderboard.FindBody(bytes.NewReader(data))
	if errors.Is(err, leaderboard.ErrLeaderboardNotFound) {
		return string(data), nil
	}
	if err != nil {
		return "", fmt.Errorf("%s leaderboard fixture: %w", period, err)
	}
	return body, nil
}
