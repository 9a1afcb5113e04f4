// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Leaderboard LeaderboardConfig `koanf:"leaderboard"`
	Sync        SyncConfig        `koanf:"sync"`
	Database    DatabaseConfig    `koanf:"database"`
	Server      ServerConfig      `koanf:"server"`
	API         APIConfig         `koanf:"api"`
	Security    SecurityConfig    `koanf:"security"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// LeaderboardConfig describes where the club leaderboard is loaded from.
type LeaderboardConfig struct {
	// ClubURL is the club page rendering the current week leaderboard.
	ClubURL string `koanf:"club_url"`

	// PreviousURL renders the previous week leaderboard. Empty disables
	// previous-week refreshes over HTTP.
	PreviousURL string `koanf:"previous_url"`

	// CookieFile is a JSON cookie export used to authenticate. Optional.
	CookieFile string `koanf:"cookie_file"`

	// FixtureDir serves current.html and previous.html from disk instead of
	// the network. Used for development and demos.
	FixtureDir string `koanf:"fixture_dir"`

	UserAgent         string  `koanf:"user_agent"`
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// SyncConfig controls the synchronization engine.
type SyncConfig struct {
	Enabled      bool          `koanf:"enabled"`
	Interval     time.Duration `koanf:"interval"`
	RunOnStartup bool          `koanf:"run_on_startup"`

	// Timezone is the canonical IANA zone in which challenge weeks start.
	Timezone string `koanf:"timezone"`

	// StaleAfter is how old current-week data may get before a refresh.
	StaleAfter time.Duration `koanf:"stale_after"`

	// CutoffHour suppresses time-aware passes on Monday before this hour.
	CutoffHour int  `koanf:"cutoff_hour"`
	TimeAware  bool `koanf:"time_aware"`

	PageTimeout time.Duration `koanf:"page_timeout"`
	Workers     int           `koanf:"workers"`

	// GoalBrackets are the ascending goals inferred for new aggregates.
	GoalBrackets []float64 `koanf:"goal_brackets"`
}

// DatabaseConfig selects and configures the persistence store.
type DatabaseConfig struct {
	// Driver is "duckdb" or "postgres".
	Driver string `koanf:"driver"`

	// DuckDB
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`

	// PostgreSQL
	DSN      string `koanf:"dsn"`
	MaxConns int32  `koanf:"max_conns"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// APIConfig holds read path settings.
type APIConfig struct {
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// SecurityConfig holds admin credentials and request limits.
type SecurityConfig struct {
	AdminUsername     string        `koanf:"admin_username"`
	AdminPassword     string        `koanf:"admin_password"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, an optional YAML file and the
// environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Location returns the canonical challenge timezone. Validate guarantees it
// loads; UTC is returned otherwise.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Sync.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AdminEnabled reports whether admin credentials are configured.
func (c *Config) AdminEnabled() bool {
	return c.Security.AdminUsername != "" && c.Security.AdminPassword != ""
}
