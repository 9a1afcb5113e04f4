// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

// Package logging provides zerolog-based structured logging for Runboard.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})
//	logging.Info().Str("club_url", url).Msg("Scheduler started")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Athlete skipped")
//
// # Scoped sync logging
//
// A sync pass never reconfigures the global logger. The sync manager builds
// a per-pass logger that tees into a Collector and stores it in the context
// with ContextWithLogger; every component logs through Ctx(ctx), so the lines
// of that pass, and only that pass, end up in the Collector:
//
//	c := logging.NewCollector(0)
//	l := logging.Tee(c.Writer()).With().Str("component", "sync").Logger()
//	ctx = logging.ContextWithLogger(ctx, l)
//	...
//	lines := c.Lines()
//
// # Configuration
//
// Environment variables (via internal/config): LOG_LEVEL, LOG_FORMAT,
// LOG_CALLER.
//
// # slog bridge
//
// NewSlogLogger adapts zerolog for libraries that take *slog.Logger, such as
// sutureslog in the supervisor tree.
package logging
