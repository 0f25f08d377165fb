// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

// Package database is the MongoDB document store for cached content and
// usage events.
//
// # Overview
//
// The store is a cache in front of BaniDB plus an append-only interaction
// log. Cached documents are immutable once written; writes are upserts keyed
// by the natural key of each collection.
//
// # Architecture
//
//   - database.go: connection lifecycle (Connect, Ping, Close)
//   - indexes.go: idempotent index creation at startup
//   - filters.go: bson filter and option builders
//   - shabads.go: shabads collection (lookup, upsert, regex search, corpus listing)
//   - angs.go: angs collection, keyed by (ang, source)
//   - interactions.go: interactions collection (append, latest, recent)
//   - metadata.go: raags/writers/sources listings stored verbatim
//   - provider.go: RecommendationProvider, the recommender's corpus and
//     interaction source
//
// # Collections
//
//	shabads       {shabad_id (unique), text, translation, raag, writer, cached_at}
//	angs          {ang, source (unique together), verses[{line_id, gurmukhi, translation, page_no}]}
//	interactions  {event_id (unique, sparse), shabad_id | ang+source, interaction_type, timestamp}
//	metadata      {type (unique), data, updated_at}
//
// # Observability
//
// Every query is timed into the mongo_query_duration_seconds histogram and
// failures are counted by operation and collection.
package database
