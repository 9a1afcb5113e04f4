// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/runboard/internal/metrics"
)

func TestPrometheusMetrics(t *testing.T) {
	t.Run("labels by route pattern", func(t *testing.T) {
		r := chi.NewRouter()
		r.Use(PrometheusMetrics)
		r.Put("/api/v1/users/{handle}/goal", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodPut, "/api/v1/users/{handle}/goal", "204")
		before := testutil.ToFloat64(counter)

		for _, handle := range []string{"an", "binh", "chi"} {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/users/"+handle+"/goal", nil))
			if rec.Code != http.StatusNoContent {
				t.Errorf("Expected status 204, got %d", rec.Code)
			}
		}

		if got := testutil.ToFloat64(counter) - before; got != 3 {
			t.Errorf("Expected 3 requests under one pattern, got %v", got)
		}
	})

	t.Run("captures error status", func(t *testing.T) {
		handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.WriteHeader(http.StatusOK)
		}))

		counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodPost, "unmatched", "500")
		before := testutil.ToFloat64(counter)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/nowhere", nil))

		if got := testutil.ToFloat64(counter) - before; got != 1 {
			t.Errorf("Expected first status to be recorded, got delta %v", got)
		}
	})

	t.Run("implicit 200", func(t *testing.T) {
		handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("OK"))
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", rec.Code)
		}
		if got := testutil.ToFloat64(metrics.APIActiveRequests); got != 0 {
			t.Errorf("Expected no active requests after completion, got %v", got)
		}
	})
}
