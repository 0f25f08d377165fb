// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

/*
Package api provides the HTTP surface of Bani AI using the Chi router.

Every route is served at the root and again under /api/v1:

	GET  /                      service banner
	POST /query                 intent detection, search or recommendations
	GET  /shabad/{id}           shabad by ID (store, then BaniDB)
	POST /like/{id}             record a like and reweight recommendations
	GET  /ang/{ang}?source=G    page of a source
	GET  /random?source=G       random shabad from BaniDB
	GET  /metadata              raags, writers and sources
	GET  /recommend/{id}        similar shabads, top_n query parameter
	GET  /stats                 interaction counts, recommender and latency stats
	GET  /health/live           liveness probe
	GET  /health/ready          readiness probe (MongoDB ping, recommender state)
	GET  /metrics               Prometheus exposition
	GET  /swagger/*             Swagger UI

Responses use the models.APIResponse envelope:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "...", "query_time_ms": 3, "cached": true}
	}

Errors carry a machine-readable code:

	INVALID_ID            400  path ID is not a positive integer
	VALIDATION_ERROR      400  body or query parameter failed validation
	NOT_FOUND             404  content unavailable locally and upstream
	RATE_LIMIT_EXCEEDED   429  too many requests from one client
	UPSTREAM_UNAVAILABLE  503  BaniDB failed or its circuit is open
	INTERNAL_ERROR        500  anything else

Middleware Stack (outermost first):

  - RequestID: X-Request-ID and logging context
  - RealIP, Recoverer: chi built-ins
  - CORS: go-chi/cors, origins from security.cors_origins
  - Compress: chi built-in gzip for JSON
  - PerformanceMonitor and PrometheusMetrics: latency window and metrics
  - Timeout: per-request deadline from server.timeout
  - RateLimit: go-chi/httprate keyed by client IP (health and metrics exempt)
*/
package api
