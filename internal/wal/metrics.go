// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package wal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	walWritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wal_writes_total",
		Help: "Total number of interactions written to the WAL",
	})

	walWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wal_write_failures_total",
		Help: "Total number of failed WAL writes",
	})

	walConfirmsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wal_confirms_total",
		Help: "Total number of WAL entries confirmed as stored in MongoDB",
	})

	walRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wal_retries_total",
		Help: "Total number of failed insert attempts recorded on WAL entries",
	})

	walPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wal_publish_failures_total",
		Help: "Total number of MongoDB insert failures from the WAL retry loop",
	})

	walPendingEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wal_pending_entries",
		Help: "Current number of interactions waiting to be stored",
	})

	walWriteLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wal_write_latency_seconds",
		Help:    "WAL write latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	walRecoveredEntries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wal_recovered_entries_total",
		Help: "Total number of entries stored by the startup recovery pass",
	})

	walMaxRetriesExceeded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wal_max_retries_exceeded_total",
		Help: "Total number of entries dropped after the maximum attempts",
	})

	walExpiredEntries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wal_expired_entries_total",
		Help: "Total number of entries that expired before being stored",
	})

	walCompactionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wal_compactions_total",
		Help: "Total number of WAL compaction runs",
	})

	walEntriesCompacted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wal_entries_compacted_total",
		Help: "Total number of entries removed during compaction",
	})

	walCompactionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wal_compaction_latency_seconds",
		Help:    "WAL compaction latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	walGCLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wal_gc_latency_seconds",
		Help:    "BadgerDB value log GC latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})
)

// RecordWALWrite increments the write counter.
func RecordWALWrite() { walWritesTotal.Inc() }

// RecordWALWriteFailure increments the write failure counter.
func RecordWALWriteFailure() { walWriteFailures.Inc() }

// RecordWALWriteLatency observes a write duration.
func RecordWALWriteLatency(seconds float64) { walWriteLatency.Observe(seconds) }

// RecordWALConfirm increments the confirm counter.
func RecordWALConfirm() { walConfirmsTotal.Inc() }

// RecordWALRetry increments the retry counter.
func RecordWALRetry() { walRetriesTotal.Inc() }

// RecordWALPublishFailure increments the publish failure counter.
func RecordWALPublishFailure() { walPublishFailures.Inc() }

// RecordWALPendingEntries sets the pending gauge.
func RecordWALPendingEntries(n int64) {
	if n < 0 {
		n = 0
	}
	walPendingEntries.Set(float64(n))
}

// RecordWALRecoveredEntries adds n recovered entries.
func RecordWALRecoveredEntries(n int) {
	if n > 0 {
		walRecoveredEntries.Add(float64(n))
	}
}

// RecordWALMaxRetriesExceeded increments the dropped-after-retries counter.
func RecordWALMaxRetriesExceeded() { walMaxRetriesExceeded.Inc() }

// RecordWALExpiredEntry increments the expired counter.
func RecordWALExpiredEntry() { walExpiredEntries.Inc() }

// RecordWALCompaction records one compaction run.
func RecordWALCompaction(removed int64, seconds float64) {
	walCompactionsTotal.Inc()
	walCompactionLatency.Observe(seconds)
	if removed > 0 {
		walEntriesCompacted.Add(float64(removed))
	}
}

// RecordWALGCLatency observes a GC duration.
func RecordWALGCLatency(seconds float64) { walGCLatency.Observe(seconds) }
