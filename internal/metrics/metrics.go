// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of store query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// Sync Metrics
	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Duration of sync passes in seconds",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	SyncRecordsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_records_processed_total",
			Help: "Total number of athlete records persisted by sync passes",
		},
	)

	SyncErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_errors_total",
			Help: "Total number of failed sync passes",
		},
		[]string{"error_type"},
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_last_success_timestamp",
			Help: "Unix timestamp of the last successful sync pass",
		},
	)

	SyncDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_decisions_total",
			Help: "Sync policy outcomes by reason",
		},
		[]string{"reason"},
	)

	SyncRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_rejected_in_progress_total",
			Help: "Sync triggers rejected because a pass was already running",
		},
	)

	// Leaderboard Metrics
	LeaderboardFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leaderboard_fetch_duration_seconds",
			Help:    "Duration of leaderboard page loads in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"period", "result"},
	)

	LeaderboardRowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leaderboard_rows_skipped_total",
			Help: "Leaderboard rows skipped because a field was missing or malformed",
		},
		[]string{"period", "field"},
	)

	AthletesUpserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "athletes_upserted_total",
			Help: "Athlete aggregates written by sync passes",
		},
		[]string{"period"},
	)

	AthletesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "athletes_failed_total",
			Help: "Athlete records that failed to persist",
		},
		[]string{"period"},
	)

	// Standings Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordDBQuery records a store query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordSyncOperation records a finished sync pass
func RecordSyncOperation(duration time.Duration, recordsProcessed int, err error) {
	SyncDuration.Observe(duration.Seconds())
	SyncRecordsProcessed.Add(float64(recordsProcessed))
	if err != nil {
		SyncErrors.WithLabelValues(syncErrorType(err)).Inc()
		return
	}
	SyncLastSuccess.Set(float64(time.Now().Unix()))
}

// syncErrorType buckets a sync error by the stage that produced it.
func syncErrorType(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "leaderboard"), strings.Contains(msg, "page"):
		return "leaderboard"
	case strings.Contains(msg, "persist"), strings.Contains(msg, "database"):
		return "database"
	default:
		return "other"
	}
}

// RecordLeaderboardFetch records one page load for a period
func RecordLeaderboardFetch(period string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	LeaderboardFetchDuration.WithLabelValues(period, result).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
