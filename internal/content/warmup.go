// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package content

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/baniai/internal/banidb"
	"github.com/tomtom215/baniai/internal/database"
	"github.com/tomtom215/baniai/internal/logging"
	"github.com/tomtom215/baniai/internal/metrics"
	"github.com/tomtom215/baniai/internal/models"
)

// WarmupOptions selects what Warmup fetches.
type WarmupOptions struct {
	StartID     int
	EndID       int
	Concurrency int
}

// WarmupReport counts the outcome of a warm-up run.
type WarmupReport struct {
	Fetched        int64         `json:"fetched"`
	AlreadyCached  int64         `json:"already_cached"`
	Failed         int64         `json:"failed"`
	MetadataCached int64         `json:"metadata_cached"`
	MetadataFailed int64         `json:"metadata_failed"`
	RebuildError   string        `json:"rebuild_error,omitempty"`
	Duration       time.Duration `json:"duration"`
}

// Warmup caches shabads StartID..EndID and the metadata listings, then
// rebuilds the recommender. Per-item failures are counted, not returned;
// only invalid options or cancellation produce an error.
func (s *Service) Warmup(ctx context.Context, opts WarmupOptions) (WarmupReport, error) {
	var report WarmupReport
	if opts.StartID <= 0 || opts.EndID < opts.StartID {
		return report, fmt.Errorf("%w: warm-up range %d..%d", ErrInvalidInput, opts.StartID, opts.EndID)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}

	ctx = logging.ContextWithNewCorrelationID(ctx)
	log := logging.Ctx(ctx).With().Str("component", "warmup").Logger()
	start := time.Now()

	var fetched, cached, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for id := opts.StartID; id <= opts.EndID; id++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			switch err := s.warmShabad(gctx, id); {
			case err == nil:
				fetched.Add(1)
			case errors.Is(err, errAlreadyCached):
				cached.Add(1)
			default:
				failed.Add(1)
				log.Debug().Err(err).Int("shabad_id", id).Msg("Warm-up fetch failed")
			}
			return nil
		})
	}
	_ = g.Wait()

	report.Fetched = fetched.Load()
	report.AlreadyCached = cached.Load()
	report.Failed = failed.Load()

	if err := ctx.Err(); err != nil {
		report.Duration = time.Since(start)
		return report, err
	}

	report.MetadataCached, report.MetadataFailed = s.warmMetadata(ctx)

	if err := s.recommender.Rebuild(ctx); err != nil {
		report.RebuildError = err.Error()
		log.Warn().Err(err).Msg("Recommender rebuild after warm-up failed")
	}

	report.Duration = time.Since(start)
	log.Info().
		Int64("fetched", report.Fetched).
		Int64("already_cached", report.AlreadyCached).
		Int64("failed", report.Failed).
		Int64("metadata_cached", report.MetadataCached).
		Dur("duration", report.Duration).
		Msg("Warm-up complete")
	return report, nil
}

var errAlreadyCached = errors.New("already cached")

// fetchShabadQuiet stores a shabad without notifying the recommender; the
// warm-up rebuilds once at the end.
func (s *Service) fetchShabadQuiet(ctx context.Context, id int) (*models.Shabad, error) {
	raw, err := s.upstream.Shabad(ctx, id)
	if err != nil {
		return nil, err
	}
	shabad, err := ShabadFromUpstream(raw)
	if err != nil {
		return nil, err
	}
	if err := s.shabads.Upsert(ctx, shabad); err != nil {
		return nil, err
	}
	return shabad, nil
}

func (s *Service) warmShabad(ctx context.Context, id int) error {
	if _, err := s.shabads.Get(ctx, id); err == nil {
		return errAlreadyCached
	} else if !errors.Is(err, database.ErrNotFound) {
		metrics.RecordWarmupItem("shabad", err)
		return err
	}

	_, err := s.fetchShabadQuiet(ctx, id)
	metrics.RecordWarmupItem("shabad", err)
	return err
}

// warmMetadata fetches every listing from BaniDB in parallel and stores it.
func (s *Service) warmMetadata(ctx context.Context) (cached, failed int64) {
	var ok, bad atomic.Int64

	var g errgroup.Group
	for _, kind := range banidb.MetadataKinds {
		g.Go(func() error {
			data, err := s.upstream.Metadata(ctx, kind)
			if err == nil {
				err = s.metadata.Upsert(ctx, string(kind), data)
			}
			metrics.RecordWarmupItem("metadata", err)
			if err != nil {
				bad.Add(1)
				s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("Warm-up metadata fetch failed")
				return nil
			}
			ok.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return ok.Load(), bad.Load()
}
