// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Document store query performance (MongoDB)
// - API endpoint latency and throughput
// - Upstream BaniDB requests and circuit breaker state
// - Response cache efficiency
// - Recommender builds, feedback and query latency

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mongo_query_duration_seconds",
			Help:    "Duration of MongoDB operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongo_query_errors_total",
			Help: "Total number of MongoDB operation errors",
		},
		[]string{"operation", "collection"},
	)

	// API Endpoint Metrics
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
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Upstream (BaniDB) Metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banidb_requests_total",
			Help: "Total number of BaniDB API requests",
		},
		[]string{"endpoint", "status"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "banidb_request_duration_seconds",
			Help:    "BaniDB API request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	UpstreamRateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banidb_rate_limited_total",
			Help: "Total number of HTTP 429 responses from BaniDB",
		},
		[]string{"endpoint"},
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

	// Response Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_cache_hits_total",
			Help: "Total number of upstream response cache hits",
		},
		[]string{"backend"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_cache_misses_total",
			Help: "Total number of upstream response cache misses",
		},
		[]string{"backend"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_cache_errors_total",
			Help: "Total number of response cache backend errors",
		},
		[]string{"backend", "operation"},
	)

	// Content Metrics
	ContentLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_lookups_total",
			Help: "Total number of content lookups by kind and source",
		},
		[]string{"kind", "source"}, // source: "store", "upstream", "miss"
	)

	InteractionsLogged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_logged_total",
			Help: "Total number of interaction events logged",
		},
		[]string{"kind", "result"},
	)

	QueryIntents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_intents_total",
			Help: "Total number of natural-language queries by detected intent",
		},
		[]string{"intent", "language"},
	)

	WarmupItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warmup_items_total",
			Help: "Total number of items processed by cache warm-up",
		},
		[]string{"kind", "result"},
	)

	// Recommender Metrics
	RecommenderSignals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_signals_total",
			Help: "Total number of feedback and content signals sent to the recommend service",
		},
		[]string{"signal", "outcome"}, // outcome: queued, coalesced
	)

	RecommenderBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_builds_total",
			Help: "Total number of feature matrix builds",
		},
		[]string{"result"},
	)

	RecommenderBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommender_build_duration_seconds",
			Help:    "Duration of feature matrix builds in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	RecommenderReweights = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_reweights_total",
			Help: "Total number of feedback reweight passes",
		},
		[]string{"result"},
	)

	RecommenderReweightDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommender_reweight_duration_seconds",
			Help:    "Duration of feedback reweight passes in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	RecommenderState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_state",
			Help: "Recommender state (0=uninitialized, 1=ready, 2=unavailable)",
		},
	)

	RecommenderCorpusSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_corpus_size",
			Help: "Number of records in the current feature matrix",
		},
	)

	RecommenderFeatures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recommender_features",
			Help: "Number of feature columns by block",
		},
		[]string{"block"}, // "text", "categorical"
	)

	RecommenderWeightedRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_weighted_rows",
			Help: "Number of rows carrying a non-default feedback weight",
		},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Latency of similarity queries in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	RecommendationResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_results",
			Help:    "Number of records returned per similarity query",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
		},
	)

	FeedbackQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_feedback_queue_depth",
			Help: "Number of pending feedback signals",
		},
	)

	FeedbackSignals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_feedback_signals_total",
			Help: "Total number of feedback signals by outcome",
		},
		[]string{"outcome"}, // "queued", "coalesced"
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database operation metric
func RecordDBQuery(operation, collection string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, collection).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a request rejected by the API rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordUpstreamRequest records a BaniDB request. status is the HTTP status
// code, or "error" when no response was received.
func RecordUpstreamRequest(endpoint string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	UpstreamRequestsTotal.WithLabelValues(endpoint, label).Inc()
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordCacheLookup records a response cache hit or miss
func RecordCacheLookup(backend string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(backend).Inc()
	} else {
		CacheMisses.WithLabelValues(backend).Inc()
	}
}

// RecordContentLookup records where a content lookup was served from.
// Failed lookups are counted under source "miss".
func RecordContentLookup(kind, source string, err error) {
	if err != nil || source == "" {
		source = "miss"
	}
	ContentLookups.WithLabelValues(kind, source).Inc()
}

// RecordQueryIntent records a classified query
func RecordQueryIntent(intent, language string) {
	QueryIntents.WithLabelValues(intent, language).Inc()
}

// RecordInteraction records an interaction log attempt
func RecordInteraction(kind string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	InteractionsLogged.WithLabelValues(kind, result).Inc()
}

// RecordWarmupItem records one warm-up fetch
func RecordWarmupItem(kind string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	WarmupItems.WithLabelValues(kind, result).Inc()
}

// RecordRecommenderSignal records a feedback or content signal
func RecordRecommenderSignal(signal string, queued bool) {
	outcome := "coalesced"
	if queued {
		outcome = "queued"
	}
	RecommenderSignals.WithLabelValues(signal, outcome).Inc()
}

// RecordRecommenderBuild records a feature matrix build
func RecordRecommenderBuild(duration time.Duration, err error) {
	RecommenderBuildDuration.Observe(duration.Seconds())
	RecommenderBuilds.WithLabelValues(resultLabel(err)).Inc()
}

// RecordRecommenderReweight records a feedback reweight pass
func RecordRecommenderReweight(duration time.Duration, err error) {
	RecommenderReweightDuration.Observe(duration.Seconds())
	RecommenderReweights.WithLabelValues(resultLabel(err)).Inc()
}

// RecordRecommendation records a similarity query
func RecordRecommendation(duration time.Duration, results int) {
	RecommendationDuration.Observe(duration.Seconds())
	RecommendationResults.Observe(float64(results))
}

// UpdateRecommenderGauges sets the snapshot gauges
func UpdateRecommenderGauges(state float64, corpusSize, textFeatures, categoricalFeatures, weightedRows int) {
	RecommenderState.Set(state)
	RecommenderCorpusSize.Set(float64(corpusSize))
	RecommenderFeatures.WithLabelValues("text").Set(float64(textFeatures))
	RecommenderFeatures.WithLabelValues("categorical").Set(float64(categoricalFeatures))
	RecommenderWeightedRows.Set(float64(weightedRows))
}

func resultLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
