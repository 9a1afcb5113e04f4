// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad timezone", func(c *Config) { c.Sync.Timezone = "Mars/Olympus" }, "SYNC_TIMEZONE"},
		{"cutoff out of range", func(c *Config) { c.Sync.CutoffHour = 24 }, "SYNC_CUTOFF_HOUR"},
		{"unsorted brackets", func(c *Config) { c.Sync.GoalBrackets = []float64{45, 35} }, "ascending"},
		{"duplicate brackets", func(c *Config) { c.Sync.GoalBrackets = []float64{35, 35} }, "duplicates"},
		{"empty brackets", func(c *Config) { c.Sync.GoalBrackets = nil }, "empty"},
		{"zero workers", func(c *Config) { c.Sync.Workers = 0 }, "SYNC_WORKERS"},
		{"club url scheme", func(c *Config) { c.Leaderboard.ClubURL = "ftp://strava.com/clubs/x" }, "STRAVA_CLUB_URL"},
		{"fixture skips url", func(c *Config) {
			c.Leaderboard.ClubURL = ""
			c.Leaderboard.FixtureDir = "/fixtures"
		}, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "sqlite" }, "DATABASE_DRIVER"},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = "postgres" }, "DATABASE_URL"},
		{"half admin credentials", func(c *Config) { c.Security.AdminUsername = "admin" }, "ADMIN_USERNAME"},
		{"wildcard cors in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.AdminUsername = "admin"
			c.Security.AdminPassword = "a-long-enough-password"
		}, "CORS_ORIGINS"},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
