// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package config

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Rate limit bounds
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"json": true, "console": true,
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateLeaderboard,
		c.validateSync,
		c.validateDatabase,
		c.validateServer,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateLeaderboard validates the leaderboard source
func (c *Config) validateLeaderboard() error {
	if c.Leaderboard.FixtureDir != "" {
		return nil
	}
	if c.Leaderboard.ClubURL == "" {
		return fmt.Errorf("STRAVA_CLUB_URL is required unless LEADERBOARD_FIXTURE_DIR is set")
	}
	if err := validatePageURL(c.Leaderboard.ClubURL, "STRAVA_CLUB_URL"); err != nil {
		return err
	}
	if c.Leaderboard.PreviousURL != "" {
		if err := validatePageURL(c.Leaderboard.PreviousURL, "STRAVA_PREVIOUS_URL"); err != nil {
			return err
		}
	}
	if c.Leaderboard.RequestsPerSecond <= 0 {
		return fmt.Errorf("LEADERBOARD_RPS must be greater than 0")
	}
	return nil
}

// validateSync validates scheduler and policy settings
func (c *Config) validateSync() error {
	if _, err := time.LoadLocation(c.Sync.Timezone); err != nil {
		return fmt.Errorf("SYNC_TIMEZONE %q is not a valid IANA timezone: %w", c.Sync.Timezone, err)
	}
	if c.Sync.Enabled && c.Sync.Interval < time.Minute {
		return fmt.Errorf("SYNC_INTERVAL must be at least 1m")
	}
	if c.Sync.StaleAfter <= 0 {
		return fmt.Errorf("SYNC_STALE_AFTER must be greater than 0")
	}
	if c.Sync.CutoffHour < 0 || c.Sync.CutoffHour > 23 {
		return fmt.Errorf("SYNC_CUTOFF_HOUR must be between 0 and 23")
	}
	if c.Sync.PageTimeout <= 0 {
		return fmt.Errorf("SYNC_PAGE_TIMEOUT must be greater than 0")
	}
	if c.Sync.Workers < 1 || c.Sync.Workers > 64 {
		return fmt.Errorf("SYNC_WORKERS must be between 1 and 64")
	}
	return c.validateGoalBrackets()
}

// validateGoalBrackets requires a non-empty, strictly ascending, positive list
func (c *Config) validateGoalBrackets() error {
	b := c.Sync.GoalBrackets
	if len(b) == 0 {
		return fmt.Errorf("SYNC_GOAL_BRACKETS must not be empty")
	}
	if b[0] <= 0 {
		return fmt.Errorf("SYNC_GOAL_BRACKETS must be positive")
	}
	if !sort.SliceIsSorted(b, func(i, j int) bool { return b[i] < b[j] }) {
		return fmt.Errorf("SYNC_GOAL_BRACKETS must be in ascending order")
	}
	for i := 1; i < len(b); i++ {
		if b[i] == b[i-1] {
			return fmt.Errorf("SYNC_GOAL_BRACKETS must not contain duplicates")
		}
	}
	return nil
}

// validateDatabase validates the selected persistence driver
func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "duckdb":
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when DATABASE_DRIVER=duckdb")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required when DATABASE_DRIVER=postgres")
		}
		if !strings.HasPrefix(c.Database.DSN, "postgres://") && !strings.HasPrefix(c.Database.DSN, "postgresql://") {
			return fmt.Errorf("DATABASE_URL must start with postgres:// or postgresql://")
		}
		if c.Database.MaxConns < 1 {
			return fmt.Errorf("DATABASE_MAX_CONNS must be at least 1")
		}
	default:
		return fmt.Errorf("DATABASE_DRIVER must be one of: duckdb, postgres")
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	return nil
}

// validateSecurity validates admin credentials, CORS and rate limits
func (c *Config) validateSecurity() error {
	if (c.Security.AdminUsername == "") != (c.Security.AdminPassword == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	if c.IsProduction() && c.Security.AdminPassword != "" && len(c.Security.AdminPassword) < 12 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 12 characters in production")
	}
	if c.AdminEnabled() && c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production with admin credentials. " +
			"Set specific origins: CORS_ORIGINS=https://yourdomain.com")
	}
	return c.validateRateLimits()
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// IsProduction reports whether ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// validateRateLimits validates the rate limit bounds
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validateLogging validates the log level and format
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
