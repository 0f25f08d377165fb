// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

// Package main is the entry point for the Bani AI server.
//
// Bani AI serves Gurbani content from BaniDB through a MongoDB read-through
// cache and recommends similar shabads using TF-IDF features of their
// translations plus raag, writer and source categories. Likes shift the
// ranking toward liked shabads.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
//  2. Logging: zerolog with the configured level and format
//  3. MongoDB: connect, ping and create indexes
//  4. BaniDB: rate-limited client, circuit breaker, response cache
//  5. Recommendation engine and its supervised service
//  6. Interaction logging: direct inserts, or the BadgerDB WAL when enabled
//  7. HTTP server: chi router, Prometheus metrics and Swagger docs
//  8. Supervisor tree: recommend, warm-up, WAL and HTTP services
//
// # Configuration
//
// The Mongo connection comes from MONGO_URI, or from MONGO_DB_USERNAME,
// MONGO_DB_PASSWORD and MONGO_DB_CLUSTER_NAME for Atlas. Everything else
// has a default; see internal/config.
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The supervisor drains the
// HTTP server for up to SHUTDOWN_TIMEOUT and stops the background services,
// then the WAL, the cache and the Mongo client are closed.
//
// # Example Usage
//
//	export MONGO_URI=mongodb://localhost:27017
//	export LOG_FORMAT=console
//	./baniai
//
//	curl localhost:8000/shabad/1
//	curl -X POST localhost:8000/query -d '{"text":"recommend something","language":"en"}'
//
// @title Bani AI API
// @version 1.0
// @description Gurbani content service with BaniDB caching and content-based shabad recommendations.
// @description
// @description ## Error Responses
// @description
// @description Errors use the standard envelope with `status: "error"` and an
// @description `error` object carrying `code`, `message` and optional `details`.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address.
// @description Health probes and /metrics are not limited.
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @BasePath /
//
// @tag.name Core
// @tag.description Banner, statistics and health probes
//
// @tag.name Content
// @tag.description Shabads, angs, metadata, likes and natural language queries
//
// @tag.name Recommendations
// @tag.description Similar shabads ranked by the TF-IDF engine
package main
