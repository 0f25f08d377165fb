// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package wal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/baniai/internal/logging"
)

// Publisher stores the payload of a pending entry in its final destination.
// Implementations must be idempotent: an entry can be published more than
// once if the process dies between publish and Confirm.
type Publisher interface {
	PublishEntry(ctx context.Context, entry *Entry) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, entry *Entry) error

// PublishEntry calls f.
func (f PublisherFunc) PublishEntry(ctx context.Context, entry *Entry) error {
	return f(ctx, entry)
}

// maxBackoff caps the exponential retry delay.
const maxBackoff = 5 * time.Minute

// publishTimeout bounds a single publish attempt.
const publishTimeout = 10 * time.Second

type retryResult int

const (
	retryResultSkipped retryResult = iota
	retryResultSucceeded
	retryResultFailed
	retryResultDropped
)

// PassResult summarizes one scan over the pending entries.
type PassResult struct {
	Scanned   int
	Published int
	Failed    int
	Skipped   int
	Dropped   int
}

// RetryLoop periodically publishes pending entries. The first pass runs
// immediately on Start, which recovers entries left by a previous process.
type RetryLoop struct {
	wal       *BadgerWAL
	publisher Publisher
	config    Config

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	running  bool
	stopping bool
	stopDone chan struct{}

	statsMu  sync.Mutex
	lastPass PassResult
	lastRun  time.Time
}

// NewRetryLoop creates a retry loop for w.
func NewRetryLoop(w *BadgerWAL, publisher Publisher) *RetryLoop {
	return &RetryLoop{
		wal:       w,
		publisher: publisher,
		config:    w.GetConfig(),
	}
}

// Start launches the loop. Calling Start on a running loop is a no-op.
func (r *RetryLoop) Start(ctx context.Context) error {
	if r.publisher == nil {
		return errors.New("wal retry loop: publisher is nil")
	}

	r.mu.Lock()
	for r.stopping {
		stopDone := r.stopDone
		r.mu.Unlock()
		<-stopDone
		r.mu.Lock()
	}
	if r.running {
		r.mu.Unlock()
		return nil
	}

	r.ctx, r.cancel = context.WithCancel(ctx)
	r.running = true
	r.stopDone = make(chan struct{})
	loopCtx := r.ctx
	done := r.stopDone
	r.mu.Unlock()

	go r.run(loopCtx, done)

	logging.Info().
		Dur("interval", r.config.RetryInterval).
		Int("max_retries", r.config.MaxRetries).
		Msg("WAL retry loop started")
	return nil
}

// Stop cancels the loop and waits for the current pass to finish.
func (r *RetryLoop) Stop() {
	r.mu.Lock()
	if !r.running || r.stopping {
		r.mu.Unlock()
		return
	}
	r.cancel()
	r.running = false
	r.stopping = true
	stopDone := r.stopDone
	r.mu.Unlock()

	<-stopDone

	r.mu.Lock()
	r.stopping = false
	r.mu.Unlock()

	logging.Info().Msg("WAL retry loop stopped")
}

// IsRunning reports whether the loop goroutine is active.
func (r *RetryLoop) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *RetryLoop) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	if res := r.RunPass(ctx); res.Scanned > 0 {
		RecordWALRecoveredEntries(res.Published)
		logging.Info().
			Int("pending", res.Scanned).
			Int("published", res.Published).
			Int("failed", res.Failed).
			Msg("WAL recovery pass complete")
	}

	ticker := time.NewTicker(r.config.RetryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunPass(ctx)
		}
	}
}

// RunPass scans pending entries once and publishes those due for retry.
func (r *RetryLoop) RunPass(ctx context.Context) PassResult {
	var res PassResult

	entries, err := r.wal.GetPending(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, ErrWALClosed) {
			logging.Error().Err(err).Msg("WAL retry: failed to list pending entries")
		}
		return res
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		res.Scanned++
		switch r.processEntry(ctx, entry) {
		case retryResultSucceeded:
			res.Published++
		case retryResultFailed:
			res.Failed++
		case retryResultDropped:
			res.Dropped++
		default:
			res.Skipped++
		}
	}

	RecordWALPendingEntries(int64(res.Scanned - res.Published - res.Dropped))

	r.statsMu.Lock()
	r.lastPass = res
	r.lastRun = time.Now()
	r.statsMu.Unlock()

	if res.Published > 0 || res.Failed > 0 || res.Dropped > 0 {
		logging.Debug().
			Int("published", res.Published).
			Int("failed", res.Failed).
			Int("dropped", res.Dropped).
			Msg("WAL retry pass")
	}
	return res
}

func (r *RetryLoop) processEntry(ctx context.Context, entry *Entry) retryResult {
	if !r.wal.TryClaimEntry(entry.ID) {
		return retryResultSkipped
	}
	defer r.wal.ReleaseEntry(entry.ID)

	if time.Since(entry.CreatedAt) > r.config.EntryTTL {
		RecordWALExpiredEntry()
		return r.drop(ctx, entry, "expired")
	}
	if entry.Attempts >= r.config.MaxRetries {
		RecordWALMaxRetriesExceeded()
		return r.drop(ctx, entry, "max retries exceeded")
	}
	if !r.isReadyForRetry(entry) {
		return retryResultSkipped
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	err := r.publisher.PublishEntry(pubCtx, entry)
	cancel()
	if err != nil {
		RecordWALPublishFailure()
		if uerr := r.wal.UpdateAttempt(ctx, entry.ID, logging.SanitizeError(err)); uerr != nil && !errors.Is(uerr, ErrEntryNotFound) {
			logging.Warn().Err(uerr).Str("entry_id", entry.ID).Msg("WAL retry: failed to record attempt")
		}
		return retryResultFailed
	}

	if err := r.wal.Confirm(ctx, entry.ID); err != nil && !errors.Is(err, ErrEntryNotFound) {
		logging.Warn().Err(err).Str("entry_id", entry.ID).Msg("WAL retry: confirm failed after publish")
	}
	return retryResultSucceeded
}

func (r *RetryLoop) drop(ctx context.Context, entry *Entry, reason string) retryResult {
	logging.Warn().
		Str("entry_id", entry.ID).
		Int("attempts", entry.Attempts).
		Str("last_error", entry.LastError).
		Str("reason", reason).
		Msg("WAL retry: dropping interaction")
	if err := r.wal.DeleteEntry(ctx, entry.ID); err != nil {
		logging.Warn().Err(err).Str("entry_id", entry.ID).Msg("WAL retry: failed to delete entry")
	}
	return retryResultDropped
}

func (r *RetryLoop) isReadyForRetry(entry *Entry) bool {
	if entry.Attempts == 0 || entry.LastAttemptAt.IsZero() {
		return true
	}
	return time.Since(entry.LastAttemptAt) >= calculateBackoff(r.config.RetryBackoff, entry.Attempts)
}

// calculateBackoff returns base * 2^(attempts-1), capped at maxBackoff.
func calculateBackoff(base time.Duration, attempts int) time.Duration {
	if attempts <= 0 || base <= 0 {
		return 0
	}
	backoff := base
	for i := 1; i < attempts; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	if backoff > maxBackoff {
		return maxBackoff
	}
	return backoff
}

// RetryStats describes the most recent pass.
type RetryStats struct {
	Running  bool
	LastRun  time.Time
	LastPass PassResult
}

// GetStats returns the loop state.
func (r *RetryLoop) GetStats() RetryStats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	return RetryStats{
		Running:  r.IsRunning(),
		LastRun:  r.lastRun,
		LastPass: r.lastPass,
	}
}
