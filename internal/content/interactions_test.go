// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/baniai/internal/models"
	"github.com/tomtom215/baniai/internal/wal"
)

func openTestWAL(t *testing.T) *wal.BadgerWAL {
	t.Helper()
	cfg := wal.DefaultConfig()
	cfg.Enabled = true
	cfg.InMemory = true
	cfg.SyncWrites = false
	cfg.RetryBackoff = time.Millisecond
	w, err := wal.Open(&cfg)
	if err != nil {
		t.Fatalf("wal.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestDirectLoggerRejectsUnknownType(t *testing.T) {
	t.Parallel()

	store := &fakeInteractions{}
	err := NewDirectLogger(store).Log(context.Background(), &models.Interaction{ShabadID: 1, Type: "share"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Log() error = %v, want ErrInvalidInput", err)
	}
	if len(store.all()) != 0 {
		t.Error("invalid interaction was stored")
	}
}

func TestWALLoggerInsertsAndConfirms(t *testing.T) {
	t.Parallel()

	w := openTestWAL(t)
	store := &fakeInteractions{}
	l := NewWALLogger(w, store, nil, zerolog.Nop())

	in := &models.Interaction{ShabadID: 12, Type: models.InteractionLike}
	if err := l.Log(context.Background(), in); err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	if in.EventID == "" {
		t.Error("EventID not assigned")
	}

	stored := store.all()
	if len(stored) != 1 || stored[0].EventID != in.EventID {
		t.Fatalf("stored = %+v", stored)
	}
	stats := w.Stats()
	if stats.PendingCount != 0 || stats.ConfirmedCount != 1 {
		t.Errorf("WAL pending=%d confirmed=%d, want 0 and 1", stats.PendingCount, stats.ConfirmedCount)
	}
}

func TestWALLoggerKeepsEntryWhenStoreIsDown(t *testing.T) {
	t.Parallel()

	w := openTestWAL(t)
	store := &fakeInteractions{}
	store.setErr(errBoom)
	l := NewWALLogger(w, store, nil, zerolog.Nop())
	ctx := context.Background()

	if err := l.Log(ctx, &models.Interaction{ShabadID: 4, Type: models.InteractionView}); err != nil {
		t.Fatalf("Log() error = %v, want nil while the WAL holds the event", err)
	}
	if n := w.Stats().PendingCount; n != 1 {
		t.Fatalf("PendingCount = %d, want 1", n)
	}

	// Store recovers; the retry loop replays through the same logger
	// once the first backoff has elapsed.
	store.setErr(nil)
	time.Sleep(20 * time.Millisecond)
	res := wal.NewRetryLoop(w, l).RunPass(ctx)
	if res.Published != 1 {
		t.Fatalf("RunPass() = %+v, want 1 published", res)
	}
	stored := store.all()
	if len(stored) != 1 || stored[0].ShabadID != 4 || stored[0].Type != models.InteractionView {
		t.Errorf("stored = %+v", stored)
	}
}

func TestWALLoggerSignalsFeedbackWhenReplayedLikeIsStored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		kind         string
		wantFeedback int
	}{
		{"like", models.InteractionLike, 1},
		{"view", models.InteractionView, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := openTestWAL(t)
			store := &fakeInteractions{}
			store.setErr(errBoom)
			events := &countingEvents{}
			l := NewWALLogger(w, store, events, zerolog.Nop())
			ctx := context.Background()

			if err := l.Log(ctx, &models.Interaction{ShabadID: 7, Type: tt.kind}); err != nil {
				t.Fatalf("Log() error = %v", err)
			}
			if events.feedback != 0 {
				t.Fatalf("feedback before the insert = %d, want 0", events.feedback)
			}

			store.setErr(nil)
			time.Sleep(20 * time.Millisecond)
			if res := wal.NewRetryLoop(w, l).RunPass(ctx); res.Published != 1 {
				t.Fatalf("RunPass() = %+v, want 1 published", res)
			}
			if n := len(store.all()); n != 1 {
				t.Fatalf("stored = %d, want 1", n)
			}
			events.mu.Lock()
			defer events.mu.Unlock()
			if events.feedback != tt.wantFeedback {
				t.Errorf("feedback after replay = %d, want %d", events.feedback, tt.wantFeedback)
			}
		})
	}
}

func TestWALLoggerReplayIsIdempotent(t *testing.T) {
	t.Parallel()

	w := openTestWAL(t)
	store := &fakeInteractions{}
	l := NewWALLogger(w, store, nil, zerolog.Nop())
	ctx := context.Background()

	in := &models.Interaction{ShabadID: 8, Type: models.InteractionLike}
	if err := l.Log(ctx, in); err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	entryID, err := w.Write(ctx, in)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if err := l.PublishEntry(ctx, &wal.Entry{ID: entryID, Payload: mustPending(t, w, entryID)}); err != nil {
		t.Fatalf("PublishEntry() error = %v", err)
	}
	if n := len(store.all()); n != 1 {
		t.Errorf("stored = %d, want 1 after replaying the same event", n)
	}
}

func TestWALLoggerPublishEntryRejectsCorruptPayload(t *testing.T) {
	t.Parallel()

	l := NewWALLogger(openTestWAL(t), &fakeInteractions{}, nil, zerolog.Nop())
	if err := l.PublishEntry(context.Background(), &wal.Entry{ID: "x", Payload: []byte("{")}); err == nil {
		t.Error("PublishEntry() with corrupt payload should fail")
	}
}

type failingWAL struct {
	walWriter
}

func (failingWAL) Write(context.Context, interface{}) (string, error) {
	return "", wal.ErrWALClosed
}

func TestWALLoggerFallsBackToDirectInsert(t *testing.T) {
	t.Parallel()

	store := &fakeInteractions{}
	l := newWALLogger(failingWAL{}, store, nil, zerolog.Nop())

	if err := l.Log(context.Background(), &models.Interaction{ShabadID: 2, Type: models.InteractionView}); err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	if n := len(store.all()); n != 1 {
		t.Errorf("stored = %d, want 1", n)
	}

	store.setErr(errBoom)
	if err := l.Log(context.Background(), &models.Interaction{ShabadID: 2, Type: models.InteractionView}); !errors.Is(err, errBoom) {
		t.Errorf("Log() error = %v, want store error when both paths fail", err)
	}
}

func mustPending(t *testing.T, w *wal.BadgerWAL, id string) []byte {
	t.Helper()
	pending, err := w.GetPending(context.Background())
	if err != nil {
		t.Fatalf("GetPending() error = %v", err)
	}
	for _, e := range pending {
		if e.ID == id {
			return e.Payload
		}
	}
	t.Fatalf("entry %s not pending", id)
	return nil
}
