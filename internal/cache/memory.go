// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package cache

import (
	"context"
	"time"

	"github.com/tomtom215/baniai/internal/metrics"
)

// MemoryStore is a Store backed by an in-process LRUCache.
type MemoryStore struct {
	lru *LRUCache
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore(capacity int, defaultTTL time.Duration) *MemoryStore {
	return &MemoryStore{lru: NewLRUCache(capacity, defaultTTL)}
}

func (m *MemoryStore) Name() string { return string(BackendMemory) }

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := m.lru.Get(key)
	metrics.RecordCacheLookup(m.Name(), ok)
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.lru.Add(key, value, ttl)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.lru.Remove(key)
	return nil
}

func (m *MemoryStore) Close() error {
	m.lru.Clear()
	return nil
}

// Len returns the number of entries held.
func (m *MemoryStore) Len() int {
	return m.lru.Len()
}

// Sweep removes expired entries.
func (m *MemoryStore) Sweep() int {
	return m.lru.CleanupExpired()
}
