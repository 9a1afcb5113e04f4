// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

/*
Package database provides the default DuckDB persistence store.

Schema (see migrations.go):

	users              id (sequence), handle UNIQUE, first_name, last_name,
	                   origin, created_at
	weekly_aggregates  (user_id, start_date) PRIMARY KEY, end_date,
	                   distance_goal, total_distance, runs, average_pace,
	                   elevation_gain, created_at, updated_at, synced_at

Write semantics:

  - CreateUser is insert-or-do-nothing on the handle; losing the race
    returns models.ErrDuplicateHandle so the caller can re-read.
  - UpsertAggregate replaces the statistics of an existing row and never
    its goal. Writes to the same (user, window) key are serialized by a
    per-key mutex and retried on DuckDB transaction conflicts; writes to
    different keys proceed in parallel.
  - SetGoal (registration) writes only the goal and updated_at, leaving
    synced_at untouched so registration never masks stale sync data.

Dates are exchanged with DuckDB as YYYY-MM-DD strings and timestamps are
stored as UTC TIMESTAMP values.
*/
package database
