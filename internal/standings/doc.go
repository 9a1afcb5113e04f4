// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

/*
Package standings serves the weekly results table.

A table lists every aggregate of a window ordered goal-set first, then by
completion percentage and distance. Each row carries the status label from
package status. For the current window only, users that have no aggregate
yet are appended as "no goal set" so the club can see who still has to
register a goal.

Results are cached per window and cleared by every write that goes through
the service and by completed sync passes (see Invalidate).
*/
package standings
