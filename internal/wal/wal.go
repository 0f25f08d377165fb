// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package wal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/baniai/internal/logging"
)

// WAL persists interactions before they are inserted into MongoDB.
// Payloads are stored as raw JSON so the log does not depend on the
// interaction type.
type WAL interface {
	// Write persists an event and returns its entry ID.
	Write(ctx context.Context, event interface{}) (entryID string, err error)

	// Confirm marks an entry as stored. Confirmed entries are removed by
	// the compactor.
	Confirm(ctx context.Context, entryID string) error

	// GetPending returns all unconfirmed entries.
	GetPending(ctx context.Context) ([]*Entry, error)

	// UpdateAttempt records a failed insert attempt.
	UpdateAttempt(ctx context.Context, entryID string, lastError string) error

	// DeleteEntry removes an entry regardless of state.
	DeleteEntry(ctx context.Context, entryID string) error

	Stats() Stats
	Close() error
}

// Entry is a single record in the log.
type Entry struct {
	ID            string          `json:"id"`
	Payload       json.RawMessage `json:"payload"`
	CreatedAt     time.Time       `json:"created_at"`
	Attempts      int             `json:"attempts"`
	LastAttemptAt time.Time       `json:"last_attempt_at,omitempty"`
	LastError     string          `json:"last_error,omitempty"`
	Confirmed     bool            `json:"confirmed"`
	ConfirmedAt   *time.Time      `json:"confirmed_at,omitempty"`
}

// Stats is a point-in-time view of the log.
type Stats struct {
	PendingCount   int64
	ConfirmedCount int64
	TotalWrites    int64
	TotalConfirms  int64
	TotalRetries   int64
	DBSizeBytes    int64
}

// Key prefixes separate the two entry states.
const (
	prefixPending   = "pending:"
	prefixConfirmed = "confirmed:"
)

// BadgerWAL implements WAL on top of BadgerDB.
type BadgerWAL struct {
	db     *badger.DB
	config Config

	mu     sync.RWMutex
	closed bool

	// processing holds entry IDs currently owned by a writer or the retry
	// loop so the same interaction is not inserted twice concurrently.
	processing sync.Map

	totalWrites   atomic.Int64
	totalConfirms atomic.Int64
	totalRetries  atomic.Int64
}

// Open opens (or creates) the log described by cfg.
func Open(cfg *Config) (*BadgerWAL, error) {
	if cfg == nil {
		return nil, errors.New("wal config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.Compression = options.Snappy
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB at %s: %w", cfg.Path, err)
	}

	w := &BadgerWAL{
		db:     db,
		config: *cfg,
	}

	stats := w.Stats()
	RecordWALPendingEntries(stats.PendingCount)
	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Int64("pending", stats.PendingCount).
		Msg("Interaction WAL opened")

	return w, nil
}

// Write serializes event and stores it as a pending entry.
func (w *BadgerWAL) Write(ctx context.Context, event interface{}) (string, error) {
	start := time.Now()
	defer func() {
		RecordWALWriteLatency(time.Since(start).Seconds())
	}()

	if w.isClosed() {
		return "", ErrWALClosed
	}
	if event == nil {
		return "", ErrNilEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		RecordWALWriteFailure()
		return "", fmt.Errorf("marshal event: %w", err)
	}

	entry := &Entry{
		ID:        uuid.New().String(),
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		RecordWALWriteFailure()
		return "", fmt.Errorf("marshal entry: %w", err)
	}

	err = w.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(prefixPending+entry.ID), data)
		if w.config.EntryTTL > 0 {
			e = e.WithTTL(w.config.EntryTTL)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		RecordWALWriteFailure()
		return "", fmt.Errorf("write to BadgerDB: %w", err)
	}

	w.totalWrites.Add(1)
	RecordWALWrite()
	return entry.ID, nil
}

// Confirm moves a pending entry to the confirmed prefix.
func (w *BadgerWAL) Confirm(ctx context.Context, entryID string) error {
	if w.isClosed() {
		return ErrWALClosed
	}
	if entryID == "" {
		return ErrEmptyEntryID
	}

	pendingKey := []byte(prefixPending + entryID)
	confirmedKey := []byte(prefixConfirmed + entryID)

	err := w.db.Update(func(txn *badger.Txn) error {
		entry, err := readEntry(txn, pendingKey)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		entry.Confirmed = true
		entry.ConfirmedAt = &now

		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal confirmed entry: %w", err)
		}
		if err := txn.Set(confirmedKey, data); err != nil {
			return fmt.Errorf("set confirmed entry: %w", err)
		}
		if err := txn.Delete(pendingKey); err != nil {
			return fmt.Errorf("delete pending entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.totalConfirms.Add(1)
	RecordWALConfirm()
	return nil
}

// GetPending returns every pending entry in key order.
func (w *BadgerWAL) GetPending(ctx context.Context) ([]*Entry, error) {
	if w.isClosed() {
		return nil, ErrWALClosed
	}

	var entries []*Entry
	err := w.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixPending)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			item := it.Item()
			var entry Entry
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				logging.Warn().Err(err).Str("key", string(item.Key())).Msg("WAL failed to unmarshal entry")
				continue
			}
			entries = append(entries, &entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate pending entries: %w", err)
	}
	return entries, nil
}

// UpdateAttempt increments the attempt counter of a pending entry.
func (w *BadgerWAL) UpdateAttempt(ctx context.Context, entryID string, lastError string) error {
	if w.isClosed() {
		return ErrWALClosed
	}
	if entryID == "" {
		return ErrEmptyEntryID
	}

	key := []byte(prefixPending + entryID)
	err := w.db.Update(func(txn *badger.Txn) error {
		entry, err := readEntry(txn, key)
		if err != nil {
			return err
		}

		entry.Attempts++
		entry.LastAttemptAt = time.Now().UTC()
		entry.LastError = lastError

		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}

		e := badger.NewEntry(key, data)
		if w.config.EntryTTL > 0 {
			// Keep the original deadline rather than extending it on every retry.
			remaining := w.config.EntryTTL - time.Since(entry.CreatedAt)
			if remaining < time.Second {
				remaining = time.Second
			}
			e = e.WithTTL(remaining)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return err
	}

	w.totalRetries.Add(1)
	RecordWALRetry()
	return nil
}

// DeleteEntry removes the entry under both prefixes.
func (w *BadgerWAL) DeleteEntry(ctx context.Context, entryID string) error {
	if w.isClosed() {
		return ErrWALClosed
	}
	if entryID == "" {
		return ErrEmptyEntryID
	}

	return w.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(prefixPending + entryID)); err != nil {
			return fmt.Errorf("delete pending entry: %w", err)
		}
		if err := txn.Delete([]byte(prefixConfirmed + entryID)); err != nil {
			return fmt.Errorf("delete confirmed entry: %w", err)
		}
		return nil
	})
}

// Stats counts entries by prefix. Key-only iteration keeps it cheap.
func (w *BadgerWAL) Stats() Stats {
	stats := Stats{
		TotalWrites:   w.totalWrites.Load(),
		TotalConfirms: w.totalConfirms.Load(),
		TotalRetries:  w.totalRetries.Load(),
	}
	if w.isClosed() {
		return stats
	}

	_ = w.db.View(func(txn *badger.Txn) error {
		stats.PendingCount = countPrefix(txn, prefixPending)
		stats.ConfirmedCount = countPrefix(txn, prefixConfirmed)
		return nil
	})

	lsm, vlog := w.db.Size()
	stats.DBSizeBytes = lsm + vlog
	return stats
}

// TryClaimEntry marks an entry as in flight. It returns false when another
// goroutine already owns it.
func (w *BadgerWAL) TryClaimEntry(entryID string) bool {
	_, loaded := w.processing.LoadOrStore(entryID, struct{}{})
	return !loaded
}

// ReleaseEntry releases a claim taken with TryClaimEntry.
func (w *BadgerWAL) ReleaseEntry(entryID string) {
	w.processing.Delete(entryID)
}

// GetConfig returns the configuration the log was opened with.
func (w *BadgerWAL) GetConfig() Config {
	return w.config
}

// RunGC runs BadgerDB value log GC until nothing is left to rewrite.
func (w *BadgerWAL) RunGC() error {
	if w.isClosed() {
		return ErrWALClosed
	}
	if w.config.InMemory {
		return nil
	}

	start := time.Now()
	defer func() {
		RecordWALGCLatency(time.Since(start).Seconds())
	}()

	for {
		err := w.db.RunValueLogGC(w.config.GCRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Close closes the database, giving up after CloseTimeout.
func (w *BadgerWAL) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	timeout := w.config.CloseTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	done := make(chan error, 1)
	go func() {
		done <- w.db.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("close BadgerDB: %w", err)
		}
		logging.Info().Msg("Interaction WAL closed")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("close BadgerDB: timed out after %v", timeout)
	}
}

func (w *BadgerWAL) isClosed() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.closed
}

func readEntry(txn *badger.Txn, key []byte) (*Entry, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}

	var entry Entry
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &entry)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal entry: %w", err)
	}
	return &entry, nil
}

func countPrefix(txn *badger.Txn, prefix string) int64 {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var n int64
	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		n++
	}
	return n
}

var (
	// ErrWALClosed is returned after Close.
	ErrWALClosed = errors.New("WAL is closed")

	// ErrNilEvent is returned when Write receives nil.
	ErrNilEvent = errors.New("event cannot be nil")

	// ErrEmptyEntryID is returned for an empty entry ID.
	ErrEmptyEntryID = errors.New("entry ID cannot be empty")

	// ErrEntryNotFound is returned when no pending entry has the ID.
	ErrEntryNotFound = errors.New("entry not found")
)
