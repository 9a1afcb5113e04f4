// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

/*
Package pgstore is the PostgreSQL implementation of the Runboard store.

It mirrors the DuckDB store in internal/database method for method so the
sync engine, standings service and API can run against either backend. It
is selected with database.driver: postgres and a DATABASE_URL DSN.

Differences from the DuckDB store:

  - Per-key write serialization uses pg_advisory_xact_lock instead of an
    in-process mutex, so concurrent writers in different processes are
    serialized too.
  - A session-scoped pg_try_advisory_lock backs the RunLocker used by the
    sync manager to keep one sync pass running across replicas.
  - Unique violations are detected through pgconn.PgError code 23505.

Integration tests run against a real server through testcontainers and are
guarded by the integration build tag.
*/
package pgstore
