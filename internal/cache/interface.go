// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// ErrNotFound is returned by Store.Get when the key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

// Store is a byte-oriented key/value cache with expiry.
//
// Usage:
//
//	var s Store = NewMemoryStore(10000, 10*time.Minute)
//	_ = s.Set(ctx, "ang:G:1", payload, time.Hour)
//	if data, err := s.Get(ctx, "ang:G:1"); err == nil {
//	    // Use cached payload
//	}
type Store interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value for ttl. A non-positive ttl uses the store default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Backend selects a Store implementation.
type Backend string

const (
	// BackendMemory is an in-process LRU (default).
	BackendMemory Backend = "memory"

	// BackendRedis shares the cache across instances.
	BackendRedis Backend = "redis"

	// BackendNone disables caching.
	BackendNone Backend = "none"
)

// Config holds configuration for creating a Store.
type Config struct {
	Backend Backend

	// TTL is the default time-to-live for entries.
	TTL time.Duration

	// Capacity is the maximum number of entries (memory backend only).
	Capacity int

	// Redis connection settings (redis backend only).
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// KeyPrefix namespaces all keys.
	KeyPrefix string
}

// New creates a Store for cfg. The redis backend pings the server before returning.
func New(ctx context.Context, cfg Config) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.Backend {
	case BackendMemory, "":
		store = NewMemoryStore(cfg.Capacity, cfg.TTL)
	case BackendRedis:
		store, err = NewRedisStore(ctx, RedisOptions{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			DB:         cfg.RedisDB,
			DefaultTTL: cfg.TTL,
		})
		if err != nil {
			return nil, err
		}
	case BackendNone:
		store = NopStore{}
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}

	if cfg.KeyPrefix != "" {
		store = WithPrefix(store, cfg.KeyPrefix)
	}
	return store, nil
}

// GetJSON decodes the cached value for key into a T.
// The boolean is false on a miss; decode failures are returned as errors.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var zero T
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return v, true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data, ttl)
}

// NopStore never stores anything.
type NopStore struct{}

func (NopStore) Name() string { return string(BackendNone) }

func (NopStore) Get(context.Context, string) ([]byte, error) { return nil, ErrNotFound }

func (NopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NopStore) Delete(context.Context, string) error { return nil }

func (NopStore) Close() error { return nil }

// prefixStore namespaces keys of an underlying store.
type prefixStore struct {
	Store
	prefix string
}

// WithPrefix returns a Store that prepends prefix to every key.
func WithPrefix(s Store, prefix string) Store {
	return &prefixStore{Store: s, prefix: prefix}
}

func (p *prefixStore) Get(ctx context.Context, key string) ([]byte, error) {
	return p.Store.Get(ctx, p.prefix+key)
}

func (p *prefixStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return p.Store.Set(ctx, p.prefix+key, value, ttl)
}

func (p *prefixStore) Delete(ctx context.Context, key string) error {
	return p.Store.Delete(ctx, p.prefix+key)
}
