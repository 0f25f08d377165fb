// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package banidb

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/baniai/internal/cache"
)

// CachedClient serves immutable BaniDB payloads (shabads, angs and metadata)
// from a response cache. Random and Search always go upstream.
type CachedClient struct {
	api    API
	store  cache.Store
	ttl    time.Duration
	logger zerolog.Logger
}

var _ API = (*CachedClient)(nil)

// NewCachedClient wraps api with store. A non-positive ttl uses the store default.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCachedClient(api API, store cache.Store, ttl time.Duration, logger zerolog.Logger) *CachedClient {
	return &CachedClient{
		api:    api,
		store:  store,
		ttl:    ttl,
		logger: logger.With().Str("component", "banidb_cache").Logger(),
	}
}

// Shabad returns a cached shabad or fetches it.
func (c *CachedClient) Shabad(ctx context.Context, id int) (*Shabad, error) {
	return cachedFetch(ctx, c, fmt.Sprintf("shabad:%d", id), func() (*Shabad, error) {
		return c.api.Shabad(ctx, id)
	})
}

// Ang returns a cached ang or fetches it.
func (c *CachedClient) Ang(ctx context.Context, ang int, source string) (*Ang, error) {
	return cachedFetch(ctx, c, fmt.Sprintf("ang:%s:%d", source, ang), func() (*Ang, error) {
		return c.api.Ang(ctx, ang, source)
	})
}

// Random always queries BaniDB.
func (c *CachedClient) Random(ctx context.Context, source string) (*Shabad, error) {
	return c.api.Random(ctx, source)
}

// Search always queries BaniDB.
func (c *CachedClient) Search(ctx context.Context, query string, searchType SearchType) (*SearchResult, error) {
	return c.api.Search(ctx, query, searchType)
}

// Metadata returns a cached listing or fetches it.
func (c *CachedClient) Metadata(ctx context.Context, kind MetadataKind) (Metadata, error) {
	key := "metadata:" + string(kind)
	if raw, err := c.store.Get(ctx, key); err == nil {
		return Metadata(raw), nil
	}

	data, err := c.api.Metadata(ctx, kind)
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to cache metadata")
	}
	return data, nil
}

// cachedFetch reads key as JSON, falling back to fetch and storing its result.
// Cache errors never fail the call.
func cachedFetch[T any](ctx context.Context, c *CachedClient, key string, fetch func() (*T, error)) (*T, error) {
	if v, ok, err := cache.GetJSON[T](ctx, c.store, key); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("ignoring unreadable cache entry")
	} else if ok {
		return &v, nil
	}

	v, err := fetch()
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, c.store, key, v, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to cache response")
	}
	return v, nil
}
