// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

/*
Package main is the entry point for the Runboard server.

Runboard keeps a weekly running challenge leaderboard in sync with a club
leaderboard page. A scheduler refreshes the current and previous challenge
weeks when their stored data is stale, provisions unknown athletes and
serves standings over a small JSON API.

# Application Architecture

	runboard (root supervisor)
	├── sync-layer
	│   └── sync-scheduler  (periodic SyncIfNeeded)
	└── api-layer
	    └── http-server     (chi router, /api/v1, /metrics)

Initialization order:

 1. Configuration: koanf with defaults, optional YAML file and environment
 2. Logging: zerolog, bridged to slog for suture events
 3. Store: DuckDB (default) or PostgreSQL, migrations applied on open
 4. Standings service with a short TTL cache
 5. Leaderboard session (HTTP with cookie file, or fixtures) behind a
    circuit breaker, and the sync manager
 6. HTTP router and server
 7. Supervisor tree, until SIGINT or SIGTERM

# Configuration

Commonly used environment variables:

	STRAVA_CLUB_URL        club leaderboard page
	STRAVA_COOKIE_FILE     JSON cookie export for an authenticated session
	SYNC_TIMEZONE          canonical challenge timezone (Asia/Ho_Chi_Minh)
	SYNC_INTERVAL          scheduler period (15m)
	DATABASE_DRIVER        duckdb or postgres
	DATABASE_URL           PostgreSQL DSN
	ADMIN_USERNAME         Basic Auth user for admin endpoints
	ADMIN_PASSWORD         Basic Auth password for admin endpoints

Set CONFIG_PATH to load a YAML file; environment variables take precedence.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests, the scheduler waits for a running pass to observe
cancellation, and the store is closed.
*/
package main
