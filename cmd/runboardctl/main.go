// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

// Command runboardctl runs one-off sync passes, parses saved leaderboard
// pages and prints standings.
package main

import (
	"context"
	"os"

	"github.com/tomtom215/runboard/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Run(context.Background(), os.Args, version); err != nil {
		os.Exit(1)
	}
}
