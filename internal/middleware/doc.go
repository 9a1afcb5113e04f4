// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: assigns or propagates X-Request-ID and stores it in the
    request context for logging.Ctx
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled
    by chi route pattern

Both are plain func(http.Handler) http.Handler and mount directly on a chi
router:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

CORS and rate limiting come from go-chi/cors and go-chi/httprate and are
configured in the api package.
*/
package middleware
