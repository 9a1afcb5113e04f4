// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

/*
Package metrics provides Prometheus metrics for Runboard.

All collectors are registered with the default registry through promauto
and exposed at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Sync Metrics:
  - sync_duration_seconds: duration of passes that fetched at least one page
  - sync_records_processed_total
  - sync_errors_total{error_type}: leaderboard, database or other
  - sync_last_success_timestamp
  - sync_decisions_total{reason}: policy outcome of every SyncIfNeeded call
  - sync_rejected_in_progress_total

Leaderboard Metrics:
  - leaderboard_fetch_duration_seconds{period, result}
  - leaderboard_rows_skipped_total{period, field}
  - athletes_upserted_total{period}
  - athletes_failed_total{period}

Store and cache:
  - db_query_duration_seconds{operation, table}
  - db_query_errors_total{operation, table, error_type}
  - cache_hits_total{cache_type}, cache_misses_total{cache_type}

Circuit breaker (leaderboard session):
  - circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total{name, result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name, from_state, to_state}

# Usage

	start := time.Now()
	res, err := manager.SyncIfNeeded(ctx, false, true)
	metrics.RecordSyncOperation(time.Since(start), res.Processed, err)

# Thread Safety

Prometheus collectors are safe for concurrent use.
*/
package metrics
