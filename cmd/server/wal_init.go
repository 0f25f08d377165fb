// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/baniai/internal/config"
	"github.com/tomtom215/baniai/internal/content"
	"github.com/tomtom215/baniai/internal/logging"
	"github.com/tomtom215/baniai/internal/supervisor"
	"github.com/tomtom215/baniai/internal/supervisor/services"
	"github.com/tomtom215/baniai/internal/wal"
)

// WALComponents holds the open write-ahead log, if any.
type WALComponents struct {
	wal    *wal.BadgerWAL
	logger content.InteractionLogger
}

// initWAL chooses how interactions are persisted. With WAL_ENABLED the
// events go through BadgerDB first and the retry loop and compactor are
// added to the data layer; otherwise they are inserted directly. events
// hears about likes the retry loop stores.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initWAL(cfg *config.Config, store content.InteractionStore, events content.RecommenderEvents, tree *supervisor.SupervisorTree, logger zerolog.Logger) (*WALComponents, error) {
	if !cfg.WAL.Enabled {
		logger.Warn().Msg("WAL disabled (WAL_ENABLED=false). Interactions are lost while MongoDB is unreachable.")
		return &WALComponents{logger: content.NewDirectLogger(store)}, nil
	}

	walCfg := wal.DefaultConfig()
	walCfg.Enabled = true
	walCfg.Path = cfg.WAL.Path
	walCfg.SyncWrites = cfg.WAL.SyncWrites
	walCfg.RetryInterval = cfg.WAL.RetryInterval
	walCfg.MaxRetries = cfg.WAL.MaxRetries
	walCfg.RetryBackoff = cfg.WAL.RetryBackoff
	walCfg.CompactInterval = cfg.WAL.CompactInterval
	walCfg.EntryTTL = cfg.WAL.EntryTTL
	if err := walCfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info().Str("path", walCfg.Path).Bool("sync_writes", walCfg.SyncWrites).Msg("Initializing WAL...")
	w, err := wal.Open(&walCfg)
	if err != nil {
		return nil, err
	}

	walLogger := content.NewWALLogger(w, store, events, logger)

	// The retry loop's first pass recovers entries left by a previous run.
	tree.AddDataService(services.NewWALRetryLoopService(wal.NewRetryLoop(w, walLogger)))
	tree.AddDataService(services.NewWALCompactorService(wal.NewCompactor(w)))

	logger.Info().
		Dur("retry_interval", walCfg.RetryInterval).
		Dur("compact_interval", walCfg.CompactInterval).
		Msg("WAL retry loop and compactor added to supervisor tree")

	return &WALComponents{wal: w, logger: walLogger}, nil
}

// InteractionLogger returns the logger the content service should use.
func (c *WALComponents) InteractionLogger() content.InteractionLogger {
	return c.logger
}

// Close closes the WAL after the supervisor has stopped its services.
func (c *WALComponents) Close() {
	if c == nil || c.wal == nil {
		return
	}
	stats := c.wal.Stats()
	if err := c.wal.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing WAL")
		return
	}
	logging.Info().
		Int64("pending", stats.PendingCount).
		Int64("total_writes", stats.TotalWrites).
		Msg("WAL closed")
}
