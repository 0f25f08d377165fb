// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package wal

import (
	"context"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/baniai/internal/logging"
)

// Compactor removes confirmed and expired entries and runs value log GC.
type Compactor struct {
	wal    *BadgerWAL
	config Config

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu               sync.Mutex
	running          bool
	lastRun          time.Time
	lastEntriesCount int64
}

// NewCompactor creates a compactor for w.
func NewCompactor(w *BadgerWAL) *Compactor {
	return &Compactor{
		wal:    w,
		config: w.GetConfig(),
	}
}

// Start launches the compaction loop.
func (c *Compactor) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil
	}
	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.running = true
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run(loopCtx)

	logging.Info().Dur("interval", c.config.CompactInterval).Msg("WAL compactor started")
	return nil
}

// Stop cancels the loop and waits for it to exit.
func (c *Compactor) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.cancel()
	c.running = false
	c.mu.Unlock()

	c.wg.Wait()
	logging.Info().Msg("WAL compactor stopped")
}

// IsRunning reports whether the loop is active.
func (c *Compactor) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Compactor) run(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CompactInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.compact()
		}
	}
}

// RunNow compacts immediately and returns the number of removed entries.
func (c *Compactor) RunNow() int64 {
	return c.compact()
}

func (c *Compactor) compact() int64 {
	start := time.Now()

	confirmed, err := c.deleteConfirmedEntries()
	if err != nil {
		logging.Error().Err(err).Msg("WAL compaction failed to delete confirmed entries")
	}
	expired, err := c.deleteExpiredEntries()
	if err != nil {
		logging.Error().Err(err).Msg("WAL compaction failed to delete expired entries")
	}
	if err := c.wal.RunGC(); err != nil {
		logging.Error().Err(err).Msg("WAL compaction GC error")
	}

	total := confirmed + expired

	c.mu.Lock()
	c.lastRun = time.Now()
	c.lastEntriesCount = total
	c.mu.Unlock()

	duration := time.Since(start)
	RecordWALCompaction(total, duration.Seconds())

	if total > 0 {
		logging.Info().
			Int64("confirmed", confirmed).
			Int64("expired", expired).
			Dur("duration", duration).
			Msg("WAL compaction removed entries")
	}
	return total
}

func (c *Compactor) deleteConfirmedEntries() (int64, error) {
	var count int64
	err := c.wal.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)

		var keys [][]byte
		prefix := []byte(prefixConfirmed)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	return count, err
}

func (c *Compactor) deleteExpiredEntries() (int64, error) {
	var count int64
	cutoff := time.Now().Add(-c.config.EntryTTL)

	err := c.wal.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)

		var keys [][]byte
		prefix := []byte(prefixPending)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var entry Entry
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				continue
			}
			if entry.CreatedAt.Before(cutoff) {
				keys = append(keys, item.KeyCopy(nil))
			}
		}
		it.Close()

		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
			count++
			RecordWALExpiredEntry()
		}
		return nil
	})
	return count, err
}

// CompactorStats describes the most recent compaction.
type CompactorStats struct {
	Running          bool
	LastRun          time.Time
	LastEntriesCount int64
}

// GetStats returns the compactor state.
func (c *Compactor) GetStats() CompactorStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CompactorStats{
		Running:          c.running,
		LastRun:          c.lastRun,
		LastEntriesCount: c.lastEntriesCount,
	}
}
