// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

/*
Package cache provides the response cache placed in front of the BaniDB API.

Payloads that rarely change upstream (raags, writers, sources, ang pages) are
stored as encoded JSON bytes so that every backend shares one representation.

# Backends

  - MemoryStore: in-process LRUCache with per-entry TTL (default)
  - RedisStore: shared cache over github.com/redis/go-redis/v9
  - NopStore: disables caching

New selects a backend from Config and optionally wraps it with WithPrefix.

# Usage

	store, err := cache.New(ctx, cache.Config{Backend: cache.BackendMemory, TTL: time.Hour})
	if err != nil {
	    return err
	}
	defer store.Close()

	if err := cache.SetJSON(ctx, store, "raags", raags, 0); err != nil {
	    logger.Warn().Err(err).Msg("cache write failed")
	}
	cached, ok, err := cache.GetJSON[[]Raag](ctx, store, "raags")

# Thread Safety

All Store implementations are safe for concurrent use.
*/
package cache
