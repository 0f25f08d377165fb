// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

// Package content is the caching layer between the HTTP handlers, the
// MongoDB document store and the BaniDB API.
//
// Lookups try the store first. On a miss the item is fetched from BaniDB,
// normalised into a models type, stored, and returned. Every lookup reports
// where its value came from through Result.Source.
//
// Views and likes are appended to the interaction log through an
// InteractionLogger: DirectLogger inserts into MongoDB, WALLogger writes to
// the BadgerDB write-ahead log first so events survive a store outage.
//
// Query routes free text by intent:
//
//	search    → regex search over cached shabads, then BaniDB search
//	recommend → similar shabads to the most recently viewed or liked one
//	general   → "Could not understand query"
//
// Warmup pre-fetches a range of shabads and the metadata listings and then
// rebuilds the recommender.
package content
