// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package wal

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCompactorRemovesConfirmedAndExpired(t *testing.T) {
	w := openTestWAL(t)
	ctx := context.Background()

	id, err := w.Write(ctx, &testInteraction{EventID: "confirmed"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Confirm(ctx, id); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if _, err := w.Write(ctx, &testInteraction{EventID: "still-pending"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	putEntry(t, w, &Entry{ID: "old", Payload: []byte(`{}`), CreatedAt: time.Now().Add(-2 * time.Hour)})

	before := testutil.ToFloat64(walCompactionsTotal)
	removed := NewCompactor(w).RunNow()

	if removed != 2 {
		t.Errorf("RunNow() = %d, want 2", removed)
	}
	stats := w.Stats()
	if stats.PendingCount != 1 || stats.ConfirmedCount != 0 {
		t.Errorf("Stats() pending=%d confirmed=%d, want 1 and 0", stats.PendingCount, stats.ConfirmedCount)
	}
	if got := testutil.ToFloat64(walCompactionsTotal); got != before+1 {
		t.Errorf("wal_compactions_total = %v, want %v", got, before+1)
	}
}

func TestCompactorEmptyWAL(t *testing.T) {
	t.Parallel()

	c := NewCompactor(openTestWAL(t))
	if removed := c.RunNow(); removed != 0 {
		t.Errorf("RunNow() = %d, want 0", removed)
	}
	if c.GetStats().LastRun.IsZero() {
		t.Error("LastRun not recorded")
	}
}

func TestCompactorLoop(t *testing.T) {
	t.Parallel()

	w := openTestWAL(t)
	ctx := context.Background()
	id, err := w.Write(ctx, &testInteraction{EventID: "c"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Confirm(ctx, id); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}

	c := NewCompactor(w)
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !c.IsRunning() {
		t.Fatal("IsRunning() = false after Start")
	}

	deadline := time.Now().Add(2 * time.Second)
	for w.Stats().ConfirmedCount != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	c.Stop()
	c.Stop()

	if c.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}
	if n := w.Stats().ConfirmedCount; n != 0 {
		t.Errorf("ConfirmedCount = %d, want 0", n)
	}
}
