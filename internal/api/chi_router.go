// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/runboard/internal/config"
	"github.com/tomtom215/runboard/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router using the security section of cfg.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFromConfig(cfg)),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to ALL routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		// Public read path
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Get("/standings", router.handler.Standings)
			r.Get("/weeks", router.handler.Weeks)
			r.Get("/sync/status", router.handler.SyncStatus)
		})

		// Admin writes
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom(RateLimitWrite))
			r.Use(router.chiMiddleware.AdminAuth())
			r.Post("/users", router.handler.RegisterUser)
			r.Put("/users/{handle}/goal", router.handler.SetGoal)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom(RateLimitSync))
			r.Use(router.chiMiddleware.AdminAuth())
			r.Post("/sync", router.handler.TriggerSync)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
