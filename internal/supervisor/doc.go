// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

/*
Package supervisor runs the server under a suture v4 supervisor tree.

	runboard (root)
	├── sync-layer
	│   └── sync-scheduler   (services.SyncService)
	└── api-layer
	    └── http-server      (services.HTTPServerService)

A service that returns an error is restarted with backoff. When failures
exceed FailureThreshold the supervisor waits FailureBackoff before trying
again; failures decay at FailureDecay per second. Layers are isolated, so a
scheduler that keeps failing (for example, expired leaderboard cookies) does
not take the API down.

Supervisor events are logged through sutureslog, bridged to zerolog with
logging.NewSlogLogger:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddSyncService(services.NewSyncService(syncManager))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 10*time.Second))
	return tree.Serve(ctx)
*/
package supervisor
