// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

/*
Package middleware provides chi-compatible HTTP middleware.

Key Components:

  - RequestID: X-Request-ID propagation and request/correlation IDs in the
    logging context
  - PrometheusMetrics: request count, duration and in-flight gauge, labelled
    by chi route pattern
  - PerformanceMonitor: sliding window of per-route latencies with
    percentiles, served by GET /stats, plus slow request logging

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(perf.Middleware)
	r.Use(middleware.PrometheusMetrics)

Route patterns are only known after routing, so PrometheusMetrics and
PerformanceMonitor read them once the wrapped handler returns.

See Also:

  - internal/api: router and handlers
  - internal/metrics: Prometheus metric definitions
*/
package middleware
