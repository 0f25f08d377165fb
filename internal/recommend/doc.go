// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

// Package recommend implements content-based "more like this" recommendations
// for cached shabads.
//
// # Architecture
//
// The package is split into three pure components and one orchestrator:
//
//   - FeatureBuilder: fits a TF-IDF vocabulary over record translations and a
//     one-hot encoding over the two categorical attributes (raag, writer),
//     producing a dense FeatureMatrix whose rows follow corpus order.
//   - SimilarityIndex: cosine nearest neighbours over a FeatureMatrix.
//   - FeedbackReweighter: scales matrix rows by 1 + likes*LikeWeight.
//   - Engine: owns the corpus and matrix, moves through the
//     Uninitialized, Ready and Unavailable states, and swaps in complete
//     replacement snapshots on build and feedback.
//
// The components never perform I/O. The Engine reads its corpus and
// interaction log through the CorpusSource and InteractionSource interfaces,
// which the database package implements.
//
// # Reweighting Modes
//
// ReweightFromBase recomputes weights against the matrix produced by the last
// build, so repeated feedback with an unchanged log is idempotent.
// ReweightCumulative applies weights to the current, already weighted matrix;
// each pass compounds multiplicatively on liked rows. Cumulative mode is kept
// for parity with deployments that relied on that drift.
//
// # Concurrency
//
// Reads take a snapshot pointer under a read lock and never observe a partially
// built matrix. Builds and reweights are serialised by a dedicated write mutex
// and publish their result with a single pointer swap.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), provider, provider, logger)
//	if err != nil {
//	    return err
//	}
//	if err := engine.Initialize(ctx); err != nil {
//	    logger.Warn().Err(err).Msg("recommender unavailable")
//	}
//	similar := engine.Recommend(42, 3)
package recommend
