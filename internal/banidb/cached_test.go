// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package banidb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/baniai/internal/cache"
)

func TestCachedClient(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	store := cache.NewMemoryStore(100, time.Minute)
	c := NewCachedClient(api, store, 0, zerolog.Nop())

	for i := 0; i < 3; i++ {
		s, err := c.Shabad(ctx, 5)
		if err != nil || s.ShabadInfo.ShabadID != 5 {
			t.Fatalf("Shabad() = %+v, %v", s, err)
		}
		a, err := c.Ang(ctx, 12, "G")
		if err != nil || a.PageNumber() != 12 {
			t.Fatalf("Ang() = %+v, %v", a, err)
		}
		m, err := c.Metadata(ctx, MetadataSources)
		if err != nil || string(m) != `{"kind":"sources"}` {
			t.Fatalf("Metadata() = %s, %v", m, err)
		}
		if _, err := c.Random(ctx, "G"); err != nil {
			t.Fatalf("Random() error = %v", err)
		}
	}

	tests := []struct {
		op   string
		want int
	}{
		{"shabad", 1},
		{"ang", 1},
		{"metadata", 1},
		{"random", 3},
	}
	for _, tt := range tests {
		if got := api.count(tt.op); got != tt.want {
			t.Errorf("%s upstream calls = %d, want %d", tt.op, got, tt.want)
		}
	}
}

func TestCachedClient_ErrorsNotCached(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.setErr(ErrNotFound)
	c := NewCachedClient(api, cache.NewMemoryStore(10, time.Minute), 0, zerolog.Nop())

	if _, err := c.Shabad(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Shabad() error = %v", err)
	}
	api.setErr(nil)
	if _, err := c.Shabad(ctx, 1); err != nil {
		t.Fatalf("Shabad() after recovery error = %v", err)
	}
	if api.count("shabad") != 2 {
		t.Errorf("upstream calls = %d, want 2", api.count("shabad"))
	}
}

func TestCachedClient_CorruptEntryRefetches(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	store := cache.NewMemoryStore(10, time.Minute)
	_ = store.Set(ctx, "shabad:3", []byte("{broken"), 0)
	c := NewCachedClient(api, store, 0, zerolog.Nop())

	s, err := c.Shabad(ctx, 3)
	if err != nil || s.ShabadInfo.ShabadID != 3 {
		t.Fatalf("Shabad() = %+v, %v", s, err)
	}
	if api.count("shabad") != 1 {
		t.Errorf("upstream calls = %d, want 1", api.count("shabad"))
	}
}
