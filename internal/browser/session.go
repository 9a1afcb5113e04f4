// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/runboard/internal/config"
)

// Period selects which weekly leaderboard a session loads.
type Period int

const (
	PeriodCurrent Period = iota
	PeriodPrevious
)

func (p Period) String() string {
	switch p {
	case PeriodCurrent:
		return "current"
	case PeriodPrevious:
		return "previous"
	default:
		return fmt.Sprintf("period(%d)", int(p))
	}
}

var (
	// ErrPageTimeout is returned when a page did not load in time.
	ErrPageTimeout = errors.New("leaderboard page timeout")

	// ErrAuthentication is returned when the site refused the session.
	ErrAuthentication = errors.New("leaderboard authentication failed")

	// ErrPeriodUnsupported is returned when a session cannot load a period.
	ErrPeriodUnsupported = errors.New("leaderboard period not supported")
)

// BrowserSession loads the leaderboard table body for a period.
type BrowserSession interface {
	LoadLeaderboard(ctx context.Context, period Period) (string, error)
}

// New builds the session described by cfg: a fixture session when
// FixtureDir is set, an HTTP session otherwise. Both are wrapped in a
// circuit breaker.
func New(cfg *config.Config) (*BreakerSession, error) {
	var inner BrowserSession
	if cfg.Leaderboard.FixtureDir != "" {
		inner = NewFixtureSession(cfg.Leaderboard.FixtureDir)
	} else {
		var creds CredentialStore
		if cfg.Leaderboard.CookieFile != "" {
			creds = NewFileCredentialStore(cfg.Leaderboard.CookieFile)
		}
		s, err := NewHTTPSession(&cfg.Leaderboard, creds)
		if err != nil {
			return nil, err
		}
		inner = s
	}
	return NewBreakerSession(inner, "leaderboard"), nil
}

// timeoutErr maps deadline expiry to ErrPageTimeout and leaves every other
// error untouched.
func timeoutErr(ctx context.Context, period Period, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s leaderboard: %v", ErrPageTimeout, period, err)
	}
	return err
}

// WithPageTimeout bounds ctx by d when d is positive.
func WithPageTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
