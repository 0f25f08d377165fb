// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

// Package wal is a BadgerDB write-ahead log for user interactions.
//
// When enabled, every interaction is written to the log before it is
// inserted into MongoDB, so an Atlas outage does not lose likes or views:
//
//	Interaction → WAL Write → Mongo insert → WAL Confirm
//	                              ↓ (on failure)
//	                        entry kept for the retry loop
//
// # Components
//
//   - BadgerWAL: entry storage under "pending:" and "confirmed:" prefixes
//   - RetryLoop: publishes pending entries with exponential backoff; its
//     first pass recovers entries left by a previous process
//   - Compactor: removes confirmed and expired entries, runs value log GC
//
// Inserts are idempotent through the unique event_id index on the
// interactions collection, so an entry published twice is stored once.
//
// # Usage
//
//	w, err := wal.Open(&cfg)
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	loop := wal.NewRetryLoop(w, wal.PublisherFunc(insertInteraction))
//	_ = loop.Start(ctx)
//	defer loop.Stop()
package wal
