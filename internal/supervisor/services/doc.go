// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

/*
Package services adapts runboard components to suture.Service.

  - SyncService: Start/Stop lifecycle of the sync scheduler
  - HTTPServerService: binds the API address and shuts the server down
    gracefully when the supervisor stops

Each wrapper implements fmt.Stringer so suture event logs name the service.
*/
package services
