// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/baniai/internal/config"
	"github.com/tomtom215/baniai/internal/database"
	"github.com/tomtom215/baniai/internal/metrics"
	"github.com/tomtom215/baniai/internal/recommend"
	"github.com/tomtom215/baniai/internal/supervisor/services"
)

// RecommendComponents holds the engine and the service that owns its
// write side.
type RecommendComponents struct {
	Engine  *recommend.Engine
	Service *services.RecommendService
}

// initRecommend creates the engine over the Mongo collections. The engine
// is empty until the service's initial build runs under the supervisor.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, db *database.DB, logger zerolog.Logger) (*RecommendComponents, error) {
	engineCfg := buildEngineConfig(cfg)

	provider := database.NewRecommendationProvider(db)
	engine, err := recommend.NewEngine(engineCfg, provider, provider, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	engine.SetObserver(metrics.RecommenderObserver{})

	svc := services.NewRecommendService(engine, services.RecommendServiceConfig{
		BuildOnStartup:  cfg.Recommend.BuildOnStartup,
		RebuildInterval: cfg.Recommend.RebuildInterval,
		QueueSize:       cfg.Recommend.FeedbackQueueSize,
		BuildTimeout:    cfg.Recommend.BuildTimeout,
	}, logger)

	logger.Info().
		Int("max_features", engineCfg.MaxFeatures).
		Float64("like_weight", engineCfg.LikeWeight).
		Str("reweight_mode", string(engineCfg.ReweightMode)).
		Dur("rebuild_interval", cfg.Recommend.RebuildInterval).
		Msg("Recommendation engine initialized")

	return &RecommendComponents{Engine: engine, Service: svc}, nil
}

// buildEngineConfig maps cfg onto the engine defaults. Zero sizes keep the
// default; LikeWeight is always taken, so like_weight: 0 turns reweighting
// off.
func buildEngineConfig(cfg *config.Config) recommend.Config {
	engineCfg := recommend.DefaultConfig()
	r := cfg.Recommend
	engineCfg.LikeWeight = r.LikeWeight
	if r.MaxFeatures > 0 {
		engineCfg.MaxFeatures = r.MaxFeatures
	}
	if r.DefaultTopN > 0 {
		engineCfg.DefaultTopN = r.DefaultTopN
	}
	if r.MaxTopN > 0 {
		engineCfg.MaxTopN = r.MaxTopN
	}
	if r.MaxRows > 0 {
		engineCfg.MaxRows = r.MaxRows
	}
	if r.MaxInteractions > 0 {
		engineCfg.MaxInteractions = r.MaxInteractions
	}
	if r.ReweightMode != "" {
		engineCfg.ReweightMode = recommend.ReweightMode(r.ReweightMode)
	}
	return engineCfg
}
