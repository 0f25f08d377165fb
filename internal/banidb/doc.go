// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

// Package banidb is a client for the BaniDB v2 REST API.
//
// The layers compose through the API interface:
//
//	api := banidb.NewClient(cfg, logger)                        // rate limited HTTP
//	api = banidb.NewCircuitBreakerClient(api, settings, logger) // fail fast
//	api = banidb.NewCachedClient(api, store, ttl, logger)       // immutable payloads
//
// Responses are decoded into typed structs. Metadata listings (raags, writers,
// sources) are passed through as raw JSON because they are stored and served
// verbatim.
package banidb
