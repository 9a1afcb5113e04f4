// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

/*
Package api provides the HTTP surface of runboard on a chi router.

Endpoints:

	GET  /api/v1/health               liveness and readiness summary
	GET  /api/v1/health/live          process is up
	GET  /api/v1/health/ready         store reachable
	GET  /api/v1/standings?week=      weekly results table
	GET  /api/v1/weeks                most recent challenge weeks
	GET  /api/v1/sync/status          freshness and last pass summary
	POST /api/v1/users                register a local user (admin)
	PUT  /api/v1/users/{handle}/goal  set the current week goal (admin)
	POST /api/v1/sync                 run a sync pass now (admin)
	GET  /metrics                     Prometheus metrics

Every JSON endpoint answers with models.APIResponse. Admin endpoints use HTTP
Basic Auth against security.admin_username and security.admin_password and
are disabled (403) when either is empty.

Middleware:

  - middleware.RequestID and middleware.PrometheusMetrics
  - go-chi/cors for CORS, go-chi/httprate for per-IP limits
  - chi Recoverer and RealIP
*/
package api
