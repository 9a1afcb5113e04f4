// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

/*
Package sync keeps stored weekly aggregates in step with the club
leaderboard.

Key Components:

  - Policy: decides whether the current and previous weeks need a refresh.
    Pure; it never touches the network or the store.
  - Reconciler: maps an external athlete id to a local user, creating the
    user on first sight. Concurrent creators converge on one user.
  - Upserter: writes one athlete's weekly statistics. A new aggregate gets
    a goal inferred from its distance; an existing goal is never replaced.
  - Manager: runs a pass end to end and owns the periodic scheduler.

A Pass:

 1. Read the last sync time of the current and previous windows.
 2. Ask the Policy. When nothing is stale, return an empty Result.
 3. Load and extract the current leaderboard, then the previous one when the
    policy asks for it.
 4. For each athlete, resolve the user and upsert the aggregate. Athletes
    are processed concurrently with a bounded errgroup; one failure never
    stops the others.

Error Handling:

  - A page timeout or authentication failure yields an empty fetch for that
    period and is logged as a warning.
  - Malformed leaderboard rows are skipped and counted.
  - Persistence failures are wrapped in *PersistenceError and collected in
    Summary. Summary.Err joins them.
  - ErrSyncInProgress is returned when a pass is already running.

Logging:

Every pass gets a run id and a logger teed into a bounded
logging.Collector. The logger travels in the context, so the reconciler,
upserter and browser session log through logging.Ctx(ctx). The captured
lines are returned in Result.Logs.

Usage Example:

	mgr := sync.NewManager(cfg, store, session)
	res, err := mgr.SyncIfNeeded(ctx, false, true)
	if errors.Is(err, sync.ErrSyncInProgress) {
	    // another pass is running
	}
	fmt.Println(res.Decision.Reason, res.Summary.Processed)
*/
package sync
