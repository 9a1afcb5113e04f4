// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

/*
Package config provides configuration management for Runboard.

# Configuration Sources

Configuration is layered with koanf, highest priority last:

 1. Built-in defaults (defaultConfig)
 2. YAML file: $CONFIG_PATH, ./config.yaml, /etc/runboard/config.yaml
 3. Environment variables (explicit mapping, unmapped variables ignored)

# Configuration Structure

  - LeaderboardConfig: club page URLs, cookie file, fixture directory, pacing
  - SyncConfig: scheduler interval, canonical timezone, staleness, Monday
    cutoff hour, page timeout, worker count, goal brackets
  - DatabaseConfig: duckdb (default) or postgres
  - ServerConfig, APIConfig, SecurityConfig, LoggingConfig

# Example

	STRAVA_CLUB_URL=https://www.strava.com/clubs/hienvuong
	STRAVA_COOKIE_FILE=/data/cookies.json
	SYNC_TIMEZONE=Asia/Ho_Chi_Minh
	SYNC_GOAL_BRACKETS=35,45,55,65,75,85,100
	ADMIN_USERNAME=admin
	ADMIN_PASSWORD=change-me-please
*/
package config
