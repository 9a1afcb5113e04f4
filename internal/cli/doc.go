// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

// Package cli implements runboardctl, the operator command line.
//
// Commands:
//
//	runboardctl sync [--force] [--time-aware] [--json]
//	runboardctl extract [--file page.html] [--json]
//	runboardctl standings [--week 2026-03-09] [--json]
//	runboardctl migrate
//
// Commands that touch the store or the leaderboard read the same
// configuration as the server (defaults, optional YAML file, environment).
package cli
