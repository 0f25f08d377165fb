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
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/baniai/internal/content"
)

// WarmupRunner is satisfied by *content.Service.
type WarmupRunner interface {
	Warmup(ctx context.Context, opts content.WarmupOptions) (content.WarmupReport, error)
}

// WarmupService primes the document store once. Per-item failures are part
// of the report, so only an invalid range or cancellation surfaces as an
// error; either way the service does not run again.
type WarmupService struct {
	runner  WarmupRunner
	opts    content.WarmupOptions
	timeout time.Duration
	logger  zerolog.Logger
	name    string
}

// NewWarmupService creates the service. A non-positive timeout means no
// deadline beyond the supervisor's context.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewWarmupService(runner WarmupRunner, opts content.WarmupOptions, timeout time.Duration, logger zerolog.Logger) *WarmupService {
	return &WarmupService{
		runner:  runner,
		opts:    opts,
		timeout: timeout,
		logger:  logger.With().Str("service", "warmup").Logger(),
		name:    "warmup-service",
	}
}

// Serve implements suture.Service.
func (s *WarmupService) Serve(ctx context.Context) error {
	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.logger.Info().
		Int("start_id", s.opts.StartID).
		Int("end_id", s.opts.EndID).
		Int("concurrency", s.opts.Concurrency).
		Msg("cache warm-up starting")

	report, err := s.runner.Warmup(runCtx, s.opts)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		level := s.logger.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			level = s.logger.Warn()
		}
		level.Err(err).Msg("cache warm-up aborted")
		return suture.ErrDoNotRestart
	}

	event := s.logger.Info()
	if report.Failed > 0 || report.MetadataFailed > 0 || report.RebuildError != "" {
		event = s.logger.Warn()
	}
	event.
		Int64("fetched", report.Fetched).
		Int64("already_cached", report.AlreadyCached).
		Int64("failed", report.Failed).
		Int64("metadata_cached", report.MetadataCached).
		Int64("metadata_failed", report.MetadataFailed).
		Str("rebuild_error", report.RebuildError).
		Dur("duration", report.Duration).
		Msg("cache warm-up complete")
	return suture.ErrDoNotRestart
}

// String implements fmt.Stringer.
func (s *WarmupService) String() string {
	return s.name
}
