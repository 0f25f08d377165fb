// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/baniai/internal/metrics"
	"github.com/tomtom215/baniai/internal/recommend"
)

// RecommendEngine is the lifecycle subset of *recommend.Engine.
type RecommendEngine interface {
	Initialize(ctx context.Context) error
	Rebuild(ctx context.Context) error
	OnFeedback(ctx context.Context) error
}

// RecommendServiceConfig holds the engine schedule.
type RecommendServiceConfig struct {
	// BuildOnStartup runs Initialize when the service starts.
	BuildOnStartup bool

	// RebuildInterval is the periodic rebuild period. Zero disables it.
	RebuildInterval time.Duration

	// QueueSize is the feedback signal buffer. Signals beyond it are
	// coalesced into the pending reweight.
	QueueSize int

	// BuildTimeout bounds one build or reweight.
	BuildTimeout time.Duration
}

const (
	defaultQueueSize    = 256
	defaultBuildTimeout = 5 * time.Minute
)

// RecommendService owns the engine's write side: the initial build, periodic
// rebuilds, and reweights triggered by likes. Request handlers only read.
type RecommendService struct {
	engine   RecommendEngine
	config   RecommendServiceConfig
	logger   zerolog.Logger
	feedback chan struct{}
	content  chan struct{}
	name     string
}

// NewRecommendService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecommendService(engine RecommendEngine, cfg RecommendServiceConfig, logger zerolog.Logger) *RecommendService {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.BuildTimeout <= 0 {
		cfg.BuildTimeout = defaultBuildTimeout
	}
	return &RecommendService{
		engine:   engine,
		config:   cfg,
		logger:   logger.With().Str("service", "recommend").Logger(),
		feedback: make(chan struct{}, cfg.QueueSize),
		content:  make(chan struct{}, 1),
		name:     "recommend-service",
	}
}

// NotifyFeedback schedules a reweight. It never blocks.
func (s *RecommendService) NotifyFeedback() {
	select {
	case s.feedback <- struct{}{}:
		metrics.RecordRecommenderSignal("feedback", true)
	default:
		metrics.RecordRecommenderSignal("feedback", false)
	}
}

// NotifyContentAdded schedules a rebuild. It never blocks.
func (s *RecommendService) NotifyContentAdded() {
	select {
	case s.content <- struct{}{}:
		metrics.RecordRecommenderSignal("content", true)
	default:
		metrics.RecordRecommenderSignal("content", false)
	}
}

// Serve implements suture.Service.
func (s *RecommendService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("build_on_startup", s.config.BuildOnStartup).
		Dur("rebuild_interval", s.config.RebuildInterval).
		Int("queue_size", s.config.QueueSize).
		Msg("recommendation service starting")

	if s.config.BuildOnStartup {
		s.run(ctx, "initial build", s.engine.Initialize)
	}

	var tick <-chan time.Time
	if s.config.RebuildInterval > 0 {
		ticker := time.NewTicker(s.config.RebuildInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("recommendation service shutting down")
			return ctx.Err()

		case <-tick:
			s.run(ctx, "scheduled rebuild", s.engine.Rebuild)

		case <-s.content:
			// A rebuild also reloads interactions, so queued likes are covered.
			s.drain(s.feedback)
			s.run(ctx, "content rebuild", s.engine.Rebuild)

		case <-s.feedback:
			n := 1 + s.drain(s.feedback)
			s.logger.Debug().Int("signals", n).Msg("applying feedback")
			s.run(ctx, "feedback reweight", s.engine.OnFeedback)
		}
	}
}

// drain empties ch without blocking and returns how many signals it held.
func (s *RecommendService) drain(ch chan struct{}) int {
	n := 0
	for {
		select {
		case <-ch:
			n++
		default:
			return n
		}
	}
}

func (s *RecommendService) run(ctx context.Context, what string, fn func(context.Context) error) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.BuildTimeout)
	defer cancel()

	start := time.Now()
	err := fn(runCtx)
	switch {
	case err == nil:
		s.logger.Debug().Str("op", what).Dur("duration", time.Since(start)).Msg("recommender updated")
	case errors.Is(err, recommend.ErrNotReady):
		s.logger.Debug().Str("op", what).Msg("recommender not built yet")
	case ctx.Err() != nil:
		// shutting down
	default:
		s.logger.Warn().Err(err).Str("op", what).Msg("recommender update failed, serving previous state")
	}
}

// String implements fmt.Stringer.
func (s *RecommendService) String() string {
	return s.name
}
