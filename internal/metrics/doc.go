// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and are
exposed at /metrics in Prometheus text format:

	curl http://localhost:8000/metrics

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Document Store Metrics:
  - mongo_query_duration_seconds: Operation latency (histogram)
    Labels: operation, collection
  - mongo_query_errors_total: Failed operations (counter)

Upstream Metrics:
  - banidb_requests_total: BaniDB requests (counter)
    Labels: endpoint, status
  - banidb_request_duration_seconds: BaniDB latency (histogram)
  - banidb_rate_limited_total: HTTP 429 responses (counter)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests by result (counter)
  - circuit_breaker_consecutive_failures: Consecutive failures (gauge)
  - circuit_breaker_state_transitions_total: Transitions (counter)

Recommender Metrics:
  - recommender_builds_total, recommender_build_duration_seconds
  - recommender_reweights_total, recommender_reweight_duration_seconds
  - recommender_state: 0=uninitialized, 1=ready, 2=unavailable
  - recommender_corpus_size, recommender_features, recommender_weighted_rows
  - recommendation_duration_seconds, recommendation_results
  - recommender_feedback_queue_depth, recommender_feedback_signals_total

Cache and Content Metrics:
  - response_cache_hits_total, response_cache_misses_total, response_cache_errors_total
  - content_lookups_total, interactions_logged_total, query_intents_total
  - warmup_items_total

# Usage

	start := time.Now()
	// ... handle request ...
	metrics.RecordAPIRequest(r.Method, "/shabad/{id}", "200", time.Since(start))

The recommender reports through RecommenderObserver:

	engine.SetObserver(metrics.RecommenderObserver{})

# Thread Safety

All metric operations are safe for concurrent use.
*/
package metrics
