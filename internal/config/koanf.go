// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/runboard/config.yaml",
	"/etc/runboard/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultClubURL is the club whose leaderboard is synchronized by default.
const DefaultClubURL = "https://www.strava.com/clubs/hienvuong"

// DefaultGoalBrackets are the weekly goals new aggregates are bucketed into.
var DefaultGoalBrackets = []float64{35, 45, 55, 65, 75, 85, 100}

func defaultConfig() *Config {
	return &Config{
		Leaderboard: LeaderboardConfig{
			ClubURL:           DefaultClubURL,
			UserAgent:         "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
			RequestsPerSecond: 0.5,
		},
		Sync: SyncConfig{
			Enabled:      true,
			Interval:     15 * time.Minute,
			RunOnStartup: true,
			Timezone:     "Asia/Ho_Chi_Minh",
			StaleAfter:   time.Hour,
			CutoffHour:   8,
			TimeAware:    true,
			PageTimeout:  30 * time.Second,
			Workers:      4,
			GoalBrackets: append([]float64(nil), DefaultGoalBrackets...),
		},
		Database: DatabaseConfig{
			Driver:                 "duckdb",
			Path:                   "/data/runboard.duckdb",
			MaxMemory:              "512MB",
			Threads:                0, // 0 = use runtime.NumCPU()
			PreserveInsertionOrder: true,
			MaxConns:               8,
		},
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		API: APIConfig{
			CacheTTL: time.Minute,
		},
		Security: SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults
//  2. Optional YAML config file
//  3. Environment variables
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// STRAVA_CLUB_URL -> leaderboard.club_url
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// floatSliceConfigPaths are parsed from comma-separated env values into
// numbers.
var floatSliceConfigPaths = []string{
	"sync.goal_brackets",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		if parts := splitCSV(strVal); len(parts) > 0 {
			if err := k.Set(path, parts); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}

	for _, path := range floatSliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := splitCSV(strVal)
		values := make([]float64, 0, len(parts))
		for _, p := range parts {
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return fmt.Errorf("%s: invalid number %q: %w", path, p, err)
			}
			values = append(values, v)
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Leaderboard
	"strava_club_url":         "leaderboard.club_url",
	"strava_previous_url":     "leaderboard.previous_url",
	"strava_cookie_file":      "leaderboard.cookie_file",
	"leaderboard_fixture_dir": "leaderboard.fixture_dir",
	"leaderboard_user_agent":  "leaderboard.user_agent",
	"leaderboard_rps":         "leaderboard.requests_per_second",

	// Sync
	"sync_enabled":       "sync.enabled",
	"sync_interval":      "sync.interval",
	"sync_on_startup":    "sync.run_on_startup",
	"sync_timezone":      "sync.timezone",
	"sync_stale_after":   "sync.stale_after",
	"sync_cutoff_hour":   "sync.cutoff_hour",
	"sync_time_aware":    "sync.time_aware",
	"sync_page_timeout":  "sync.page_timeout",
	"sync_workers":       "sync.workers",
	"sync_goal_brackets": "sync.goal_brackets",

	// Database
	"database_driver":    "database.driver",
	"duckdb_path":        "database.path",
	"duckdb_max_memory":  "database.max_memory",
	"duckdb_threads":     "database.threads",
	"database_url":       "database.dsn",
	"database_max_conns": "database.max_conns",

	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// API
	"api_cache_ttl": "api.cache_ttl",

	// Security
	"admin_username":      "security.admin_username",
	"admin_password":      "security.admin_password",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable to its koanf path. Unmapped
// variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
