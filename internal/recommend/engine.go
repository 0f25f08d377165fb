// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages.
// Metrics are reported through the Observer interface and data is read
// through CorpusSource and InteractionSource.

// Observer receives build and reweight outcomes. Implementations must be
// safe for concurrent use.
type Observer interface {
	ObserveBuild(duration time.Duration, stats Stats, err error)
	ObserveReweight(duration time.Duration, stats Stats, err error)
	ObserveRecommend(duration time.Duration, results int)
}

type nopObserver struct{}

func (nopObserver) ObserveBuild(time.Duration, Stats, error)    {}
func (nopObserver) ObserveReweight(time.Duration, Stats, error) {}
func (nopObserver) ObserveRecommend(time.Duration, int)         {}

// snapshot is an immutable view published by a build or reweight.
type snapshot struct {
	corpus  Corpus
	base    *FeatureMatrix
	current *FeatureMatrix
	weights []float64
	index   *SimilarityIndex
}

func (s *snapshot) weightedRows() int {
	n := 0
	for _, w := range s.weights {
		if w != 1 {
			n++
		}
	}
	return n
}

// Engine is the recommender service. It is safe for concurrent use.
type Engine struct {
	config     Config
	logger     zerolog.Logger
	builder    *FeatureBuilder
	reweighter *FeedbackReweighter
	observer   atomic.Pointer[observerBox]

	corpusSource      CorpusSource
	interactionSource InteractionSource

	// writeMu serialises builds and reweights.
	writeMu sync.Mutex

	mu           sync.RWMutex
	snap         *snapshot
	state        State
	lastErr      error
	builtAt      time.Time
	reweightedAt time.Time

	builds    atomic.Int64
	reweights atomic.Int64
}

// NewEngine creates an engine reading from the given sources.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, corpus CorpusSource, interactions InteractionSource, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if corpus == nil {
		return nil, errors.New("corpus source is required")
	}
	if interactions == nil {
		return nil, errors.New("interaction source is required")
	}

	e := &Engine{
		config:            cfg,
		logger:            logger.With().Str("component", "recommend").Logger(),
		builder:           NewFeatureBuilder(cfg.MaxFeatures),
		reweighter:        NewFeedbackReweighter(cfg.LikeWeight),
		corpusSource:      corpus,
		interactionSource: interactions,
	}
	e.SetObserver(nil)
	return e, nil
}

// observerBox gives atomic.Pointer a concrete type to hold an Observer.
type observerBox struct{ Observer }

// SetObserver installs an observer. Passing nil restores the no-op observer.
// It may be called while the engine is serving.
func (e *Engine) SetObserver(obs Observer) {
	if obs == nil {
		obs = nopObserver{}
	}
	e.observer.Store(&observerBox{obs})
}

func (e *Engine) obs() Observer {
	return e.observer.Load().Observer
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Initialize loads the corpus, builds the feature matrix and applies the
// current interaction log. On failure the engine becomes Unavailable unless a
// previous build is still being served.
func (e *Engine) Initialize(ctx context.Context) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return e.build(ctx)
}

// Rebuild re-runs Initialize against the stored sources.
func (e *Engine) Rebuild(ctx context.Context) error {
	return e.Initialize(ctx)
}

func (e *Engine) build(ctx context.Context) error {
	start := time.Now()
	e.builds.Add(1)

	snap, err := e.buildSnapshot(ctx)
	if err != nil {
		e.mu.Lock()
		e.lastErr = err
		if e.snap == nil {
			e.state = StateUnavailable
		}
		e.mu.Unlock()

		e.logger.Error().Err(err).Msg("recommender build failed")
		e.obs().ObserveBuild(time.Since(start), e.Stats(), err)
		return err
	}

	now := time.Now()
	e.mu.Lock()
	e.snap = snap
	e.state = StateReady
	e.lastErr = nil
	e.builtAt = now
	e.reweightedAt = now
	e.mu.Unlock()

	stats := e.Stats()
	e.logger.Info().
		Int("corpus_size", stats.CorpusSize).
		Int("features", stats.Features).
		Int("weighted_rows", stats.WeightedRows).
		Dur("duration", time.Since(start)).
		Msg("recommender built")
	e.obs().ObserveBuild(time.Since(start), stats, nil)
	return nil
}

func (e *Engine) buildSnapshot(ctx context.Context) (*snapshot, error) {
	corpus, err := e.corpusSource.FetchCorpus(ctx, e.config.MaxRows)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	if len(corpus) > e.config.MaxRows {
		corpus = corpus[:e.config.MaxRows]
	}

	base, err := e.builder.Build(corpus)
	if err != nil {
		return nil, fmt.Errorf("build features: %w", err)
	}

	snap := &snapshot{
		corpus:  corpus,
		base:    base,
		current: base,
		weights: uniformWeights(len(corpus)),
	}

	events, err := e.interactionSource.FetchInteractions(ctx, e.config.MaxInteractions)
	if err != nil {
		// The unweighted matrix is still useful.
		e.logger.Warn().Err(err).Msg("could not load interactions, serving unweighted matrix")
	} else if weighted, weights, rerr := e.reweighter.Reweight(base, corpus, events); rerr != nil {
		e.logger.Warn().Err(rerr).Msg("initial reweight failed, serving unweighted matrix")
	} else {
		snap.current = weighted
		snap.weights = weights
	}

	snap.index = NewSimilarityIndex(snap.current, corpus)
	return snap, nil
}

// OnFeedback reloads the interaction log and swaps in a reweighted matrix.
// Any failure leaves the previous matrix in place.
func (e *Engine) OnFeedback(ctx context.Context) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	start := time.Now()
	e.reweights.Add(1)

	err := e.reweight(ctx)
	if err != nil {
		e.mu.Lock()
		e.lastErr = err
		e.mu.Unlock()
		if !errors.Is(err, ErrNotReady) {
			e.logger.Warn().Err(err).Msg("feedback reweight failed")
		}
	}
	e.obs().ObserveReweight(time.Since(start), e.Stats(), err)
	return err
}

func (e *Engine) reweight(ctx context.Context) error {
	e.mu.RLock()
	prev := e.snap
	e.mu.RUnlock()
	if prev == nil {
		return ErrNotReady
	}

	events, err := e.interactionSource.FetchInteractions(ctx, e.config.MaxInteractions)
	if err != nil {
		return fmt.Errorf("%w: load interactions: %w", ErrReweight, err)
	}

	from := prev.base
	if e.config.ReweightMode == ReweightCumulative {
		from = prev.current
	}

	weighted, weights, err := e.reweighter.Reweight(from, prev.corpus, events)
	if err != nil {
		return err
	}

	next := &snapshot{
		corpus:  prev.corpus,
		base:    prev.base,
		current: weighted,
		weights: weights,
		index:   NewSimilarityIndex(weighted, prev.corpus),
	}

	e.mu.Lock()
	e.snap = next
	e.reweightedAt = time.Now()
	e.mu.Unlock()

	e.logger.Debug().
		Int("events", len(events)).
		Int("weighted_rows", next.weightedRows()).
		Msg("feedback applied")
	return nil
}

// Recommend returns up to topN records similar to id. It returns an empty
// slice when the engine is not Ready or the id is unknown.
func (e *Engine) Recommend(id, topN int) []ContentRecord {
	scored := e.RecommendScored(id, topN)
	out := make([]ContentRecord, len(scored))
	for i, s := range scored {
		out[i] = s.ContentRecord
	}
	return out
}

// RecommendScored is Recommend with similarity scores.
func (e *Engine) RecommendScored(id, topN int) []ScoredRecord {
	start := time.Now()

	e.mu.RLock()
	snap, state := e.snap, e.state
	e.mu.RUnlock()

	if state != StateReady || snap == nil {
		return []ScoredRecord{}
	}

	topN = e.ClampTopN(topN)
	results := snap.index.Recommend(id, topN)
	e.obs().ObserveRecommend(time.Since(start), len(results))
	return results
}

// ClampTopN returns the result count a query for topN yields at most:
// DefaultTopN for non-positive values, capped at MaxTopN.
func (e *Engine) ClampTopN(topN int) int {
	if topN <= 0 {
		return e.config.DefaultTopN
	}
	return min(topN, e.config.MaxTopN)
}

// Contains reports whether id is part of the current corpus.
func (e *Engine) Contains(id int) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap != nil && e.snap.index.Contains(id)
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Stats returns a description of the current snapshot.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := Stats{
		State:        e.state.String(),
		ReweightMode: string(e.config.ReweightMode),
		BuiltAt:      e.builtAt,
		ReweightedAt: e.reweightedAt,
		Builds:       e.builds.Load(),
		Reweights:    e.reweights.Load(),
	}
	if e.lastErr != nil {
		stats.LastError = e.lastErr.Error()
	}
	if e.snap != nil {
		stats.CorpusSize = len(e.snap.corpus)
		stats.Features = e.snap.current.Width()
		stats.TextFeatures = e.snap.current.TextWidth()
		stats.CategoricalFeatures = e.snap.current.CategoricalWidth()
		stats.WeightedRows = e.snap.weightedRows()
	}
	return stats
}

// Weights returns a copy of the current row weights in corpus order.
func (e *Engine) Weights() []float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.snap == nil {
		return nil
	}
	return append([]float64(nil), e.snap.weights...)
}

// Row returns a copy of the current feature row for id.
func (e *Engine) Row(id int) ([]float64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.snap == nil {
		return nil, false
	}
	pos, ok := e.snap.index.positions[id]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), e.snap.current.Row(pos)...), true
}

func uniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}
