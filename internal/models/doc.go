// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

/*
Package models defines data structures for the Runboard application.

Key Components:

  - User: a club member, registered locally or provisioned from the leaderboard
  - Aggregate: one member's statistics for one challenge window
  - AggregateWrite: the sync write of an Aggregate (stats replace, goal preserved)
  - Standing: an Aggregate joined with its user and status for the read path
  - APIResponse: standardized API response wrapper

Persistence sentinel errors shared by every store implementation also live
here so that the sync engine can depend on them without importing a driver.
*/
package models
