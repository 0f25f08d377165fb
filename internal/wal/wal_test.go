// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package wal

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

type testInteraction struct {
	EventID  string `json:"event_id"`
	UserID   string `json:"user_id"`
	Action   string `json:"action"`
	ShabadID int    `json:"shabad_id"`
}

func createTestConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Enabled:         true,
		InMemory:        true,
		RetryInterval:   50 * time.Millisecond,
		MaxRetries:      3,
		RetryBackoff:    time.Millisecond,
		CompactInterval: 50 * time.Millisecond,
		EntryTTL:        time.Hour,
		GCRatio:         0.5,
		CloseTimeout:    5 * time.Second,
	}
}

func openTestWAL(t *testing.T) *BadgerWAL {
	t.Helper()
	cfg := createTestConfig(t)
	w, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

// putEntry stores an entry directly, bypassing Write, so tests can control
// CreatedAt and Attempts.
func putEntry(t *testing.T, w *BadgerWAL, entry *Entry) {
	t.Helper()
	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal entry: %v", err)
	}
	err = w.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixPending+entry.ID), data)
	})
	if err != nil {
		t.Fatalf("put entry: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := createTestConfig(t)

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"disabled skips checks", func(c *Config) { c.Enabled = false; c.MaxRetries = 0 }, ""},
		{"empty path on disk", func(c *Config) { c.InMemory = false; c.Path = "" }, "Path"},
		{"zero retry interval", func(c *Config) { c.RetryInterval = 0 }, "RetryInterval"},
		{"zero max retries", func(c *Config) { c.MaxRetries = 0 }, "MaxRetries"},
		{"zero backoff", func(c *Config) { c.RetryBackoff = 0 }, "RetryBackoff"},
		{"zero compact interval", func(c *Config) { c.CompactInterval = 0 }, "CompactInterval"},
		{"short ttl", func(c *Config) { c.EntryTTL = time.Second }, "EntryTTL"},
		{"gc ratio of one", func(c *Config) { c.GCRatio = 1 }, "GCRatio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("Validate() error = %v, want ConfigError", err)
			}
			if cerr.Field != tt.wantErr {
				t.Errorf("Field = %q, want %q", cerr.Field, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfigValidWhenEnabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Enabled = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig() with Enabled = true: %v", err)
	}
}

func TestOpenNilConfig(t *testing.T) {
	t.Parallel()

	if _, err := Open(nil); err == nil {
		t.Error("Open(nil) should fail")
	}
}

func TestWriteConfirmLifecycle(t *testing.T) {
	t.Parallel()

	w := openTestWAL(t)
	ctx := context.Background()

	id, err := w.Write(ctx, &testInteraction{EventID: "ev-1", UserID: "u1", Action: "like", ShabadID: 1})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if id == "" {
		t.Fatal("Write() returned empty ID")
	}

	pending, err := w.GetPending(ctx)
	if err != nil {
		t.Fatalf("GetPending() error = %v", err)
	}
	if len(pending) != 1 || pending[0].ID != id {
		t.Fatalf("GetPending() = %+v, want one entry %s", pending, id)
	}

	var got testInteraction
	if err := json.Unmarshal(pending[0].Payload, &got); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if got.EventID != "ev-1" || got.ShabadID != 1 {
		t.Errorf("payload = %+v", got)
	}

	if err := w.Confirm(ctx, id); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}

	stats := w.Stats()
	if stats.PendingCount != 0 || stats.ConfirmedCount != 1 {
		t.Errorf("Stats() pending=%d confirmed=%d, want 0 and 1", stats.PendingCount, stats.ConfirmedCount)
	}
	if stats.TotalWrites != 1 || stats.TotalConfirms != 1 {
		t.Errorf("Stats() writes=%d confirms=%d", stats.TotalWrites, stats.TotalConfirms)
	}

	if err := w.Confirm(ctx, id); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("second Confirm() error = %v, want ErrEntryNotFound", err)
	}
}

func TestWriteErrors(t *testing.T) {
	t.Parallel()

	w := openTestWAL(t)
	ctx := context.Background()

	if _, err := w.Write(ctx, nil); !errors.Is(err, ErrNilEvent) {
		t.Errorf("Write(nil) error = %v, want ErrNilEvent", err)
	}
	if err := w.Confirm(ctx, ""); !errors.Is(err, ErrEmptyEntryID) {
		t.Errorf("Confirm(\"\") error = %v, want ErrEmptyEntryID", err)
	}
	if err := w.UpdateAttempt(ctx, "", "x"); !errors.Is(err, ErrEmptyEntryID) {
		t.Errorf("UpdateAttempt(\"\") error = %v, want ErrEmptyEntryID", err)
	}
	if err := w.UpdateAttempt(ctx, "missing", "x"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("UpdateAttempt(missing) error = %v, want ErrEntryNotFound", err)
	}
}

func TestOperationsAfterClose(t *testing.T) {
	t.Parallel()

	cfg := createTestConfig(t)
	w, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	ctx := context.Background()
	if _, err := w.Write(ctx, &testInteraction{}); !errors.Is(err, ErrWALClosed) {
		t.Errorf("Write() after close = %v", err)
	}
	if _, err := w.GetPending(ctx); !errors.Is(err, ErrWALClosed) {
		t.Errorf("GetPending() after close = %v", err)
	}
	if err := w.RunGC(); !errors.Is(err, ErrWALClosed) {
		t.Errorf("RunGC() after close = %v", err)
	}
}

func TestUpdateAttempt(t *testing.T) {
	t.Parallel()

	w := openTestWAL(t)
	ctx := context.Background()

	id, err := w.Write(ctx, &testInteraction{EventID: "ev-2"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := w.UpdateAttempt(ctx, id, "server selection timeout"); err != nil {
			t.Fatalf("UpdateAttempt() error = %v", err)
		}
	}

	pending, err := w.GetPending(ctx)
	if err != nil {
		t.Fatalf("GetPending() error = %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}
	if pending[0].Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", pending[0].Attempts)
	}
	if pending[0].LastError != "server selection timeout" {
		t.Errorf("LastError = %q", pending[0].LastError)
	}
	if pending[0].LastAttemptAt.IsZero() {
		t.Error("LastAttemptAt not set")
	}
}

func TestDeleteEntry(t *testing.T) {
	t.Parallel()

	w := openTestWAL(t)
	ctx := context.Background()

	id, err := w.Write(ctx, &testInteraction{EventID: "ev-3"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.DeleteEntry(ctx, id); err != nil {
		t.Fatalf("DeleteEntry() error = %v", err)
	}
	if n := w.Stats().PendingCount; n != 0 {
		t.Errorf("PendingCount = %d, want 0", n)
	}
}

func TestGetPendingCanceledContext(t *testing.T) {
	t.Parallel()

	w := openTestWAL(t)
	if _, err := w.Write(context.Background(), &testInteraction{EventID: "ev-4"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := w.GetPending(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("GetPending() error = %v, want context.Canceled", err)
	}
}

func TestClaimEntry(t *testing.T) {
	t.Parallel()

	w := openTestWAL(t)

	var wg sync.WaitGroup
	var claims atomic.Int32
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if w.TryClaimEntry("entry-1") {
				claims.Add(1)
			}
		}()
	}
	wg.Wait()

	if claims.Load() != 1 {
		t.Errorf("claims = %d, want 1", claims.Load())
	}
	w.ReleaseEntry("entry-1")
	if !w.TryClaimEntry("entry-1") {
		t.Error("claim after release should succeed")
	}
}

func TestConcurrentWrites(t *testing.T) {
	t.Parallel()

	w := openTestWAL(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := w.Write(ctx, &testInteraction{ShabadID: i}); err != nil {
				t.Errorf("Write() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if n := w.Stats().PendingCount; n != 20 {
		t.Errorf("PendingCount = %d, want 20", n)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	t.Parallel()

	cfg := createTestConfig(t)
	cfg.InMemory = false
	cfg.Path = filepath.Join(t.TempDir(), "wal")
	ctx := context.Background()

	w, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	id, err := w.Write(ctx, &testInteraction{EventID: "ev-persist"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	w, err = Open(&cfg)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer w.Close()

	pending, err := w.GetPending(ctx)
	if err != nil {
		t.Fatalf("GetPending() error = %v", err)
	}
	if len(pending) != 1 || pending[0].ID != id {
		t.Errorf("pending after reopen = %+v", pending)
	}
	if err := w.RunGC(); err != nil {
		t.Errorf("RunGC() error = %v", err)
	}
}
