// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

// Package testinfra provides container-backed infrastructure for
// integration tests.
//
// It uses testcontainers-go to start a real PostgreSQL server for the
// pgstore tests:
//
//	func TestStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, pg)
//	    // connect with pg.DSN
//	}
//
// Every file carries the integration build tag, so these tests only run
// with:
//
//	go test -tags integration ./...
//
// Tests are skipped when Docker is unavailable. The first run pulls the
// postgres image.
package testinfra
