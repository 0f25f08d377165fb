// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/baniai/internal/banidb"
	"github.com/tomtom215/baniai/internal/cache"
	"github.com/tomtom215/baniai/internal/config"
)

// initUpstream builds the BaniDB client stack:
//
//	CachedClient → CircuitBreakerClient → Client
//
// The cache sits outside the breaker so cached payloads are served while
// the breaker is open. The returned store must be closed on shutdown.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initUpstream(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (banidb.API, cache.Store, error) {
	var api banidb.API = banidb.NewClient(banidb.Config{
		BaseURL:        cfg.BaniDB.BaseURL,
		Timeout:        cfg.BaniDB.Timeout,
		RateLimit:      cfg.BaniDB.RateLimit,
		Burst:          cfg.BaniDB.Burst,
		MaxRetries:     cfg.BaniDB.MaxRetries,
		RetryBaseDelay: cfg.BaniDB.RetryBaseDelay,
		UserAgent:      cfg.BaniDB.UserAgent,
	}, logger)

	if cfg.BaniDB.BreakerEnabled {
		api = banidb.NewCircuitBreakerClient(api, banidb.BreakerSettings{
			MaxRequests:  cfg.BaniDB.BreakerMaxRequests,
			Interval:     cfg.BaniDB.BreakerInterval,
			Timeout:      cfg.BaniDB.BreakerTimeout,
			MinRequests:  cfg.BaniDB.BreakerMinRequests,
			FailureRatio: cfg.BaniDB.BreakerFailureRatio,
		}, logger)
	} else {
		logger.Warn().Msg("BaniDB circuit breaker disabled (BANIDB_BREAKER_ENABLED=false)")
	}

	store, err := cache.New(ctx, cache.Config{
		Backend:       cache.Backend(cfg.Cache.Backend),
		TTL:           cfg.Cache.TTL,
		Capacity:      cfg.Cache.Capacity,
		RedisAddr:     cfg.Cache.RedisAddr,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
		KeyPrefix:     cfg.Cache.KeyPrefix,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init %s cache: %w", cfg.Cache.Backend, err)
	}

	logger.Info().
		Str("base_url", cfg.BaniDB.BaseURL).
		Float64("rate_limit", cfg.BaniDB.RateLimit).
		Str("cache_backend", store.Name()).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("BaniDB client initialized")

	return banidb.NewCachedClient(api, store, cfg.Cache.TTL, logger), store, nil
}
