// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package wal

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCounters(t *testing.T) {
	// Cannot use t.Parallel() - shared global metrics

	tests := []struct {
		name   string
		record func()
		metric prometheus.Counter
	}{
		{"RecordWALWrite", RecordWALWrite, walWritesTotal},
		{"RecordWALWriteFailure", RecordWALWriteFailure, walWriteFailures},
		{"RecordWALConfirm", RecordWALConfirm, walConfirmsTotal},
		{"RecordWALRetry", RecordWALRetry, walRetriesTotal},
		{"RecordWALPublishFailure", RecordWALPublishFailure, walPublishFailures},
		{"RecordWALMaxRetriesExceeded", RecordWALMaxRetriesExceeded, walMaxRetriesExceeded},
		{"RecordWALExpiredEntry", RecordWALExpiredEntry, walExpiredEntries},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(tt.metric)
			tt.record()
			if got := testutil.ToFloat64(tt.metric); got != before+1 {
				t.Errorf("counter = %v, want %v", got, before+1)
			}
		})
	}
}

func TestMetricsPendingGaugeClampsNegative(t *testing.T) {
	RecordWALPendingEntries(7)
	if got := testutil.ToFloat64(walPendingEntries); got != 7 {
		t.Errorf("wal_pending_entries = %v, want 7", got)
	}
	RecordWALPendingEntries(-3)
	if got := testutil.ToFloat64(walPendingEntries); got != 0 {
		t.Errorf("wal_pending_entries = %v, want 0", got)
	}
}

func TestMetricsRecoveredIgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(walRecoveredEntries)
	RecordWALRecoveredEntries(0)
	RecordWALRecoveredEntries(4)
	if got := testutil.ToFloat64(walRecoveredEntries); got != before+4 {
		t.Errorf("wal_recovered_entries_total = %v, want %v", got, before+4)
	}
}
