// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/baniai/internal/content"
	"github.com/tomtom215/baniai/internal/middleware"
	"github.com/tomtom215/baniai/internal/models"
	"github.com/tomtom215/baniai/internal/recommend"
)

// ContentService is the content layer used by the handlers.
// *content.Service implements it.
type ContentService interface {
	Shabad(ctx context.Context, id int) content.Result[*models.Shabad]
	Ang(ctx context.Context, ang int, source string) content.Result[*models.Ang]
	Random(ctx context.Context, source string) content.Result[*models.Shabad]
	Like(ctx context.Context, id int) (string, error)
	Metadata(ctx context.Context) (models.MetadataResponse, bool, error)
	Query(ctx context.Context, text, language string) (models.QueryResponse, error)
}

// Recommender answers direct similarity queries. *recommend.Engine
// implements it.
type Recommender interface {
	RecommendScored(id, topN int) []recommend.ScoredRecord
	ClampTopN(topN int) int
	Contains(id int) bool
	State() recommend.State
	Stats() recommend.Stats
}

// Pinger checks a dependency. *database.DB implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// InteractionCounter reports interaction totals by type.
// *database.InteractionRepository implements it.
type InteractionCounter interface {
	CountByType(ctx context.Context) (map[string]int64, error)
}

var _ ContentService = (*content.Service)(nil)
var _ Recommender = (*recommend.Engine)(nil)

// Deps are the handler dependencies. Content and Recommender are required.
type Deps struct {
	Content      ContentService
	Recommender  Recommender
	DB           Pinger
	Interactions InteractionCounter
	PerfMon      *middleware.PerformanceMonitor
	Version      string

	// DefaultTopN is used by /recommend when top_n is absent.
	DefaultTopN int
	// ReadyTimeout bounds the dependency checks of /health/ready.
	ReadyTimeout time.Duration
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response and parameter helpers
//   - handlers_content.go: shabad, ang, random, like, metadata, query
//   - handlers_recommend.go: direct recommendations and stats
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	content      ContentService
	recommender  Recommender
	db           Pinger
	interactions InteractionCounter
	perfMon      *middleware.PerformanceMonitor
	version      string
	defaultTopN  int
	readyTimeout time.Duration
	startTime    time.Time
}

// NewHandler creates the API handler.
func NewHandler(deps Deps) (*Handler, error) {
	if deps.Content == nil {
		return nil, errors.New("api: content service is required")
	}
	if deps.Recommender == nil {
		return nil, errors.New("api: recommender is required")
	}

	h := &Handler{
		content:      deps.Content,
		recommender:  deps.Recommender,
		db:           deps.DB,
		interactions: deps.Interactions,
		perfMon:      deps.PerfMon,
		version:      deps.Version,
		defaultTopN:  deps.DefaultTopN,
		readyTimeout: deps.ReadyTimeout,
		startTime:    time.Now(),
	}
	if h.defaultTopN <= 0 {
		h.defaultTopN = 3
	}
	if h.readyTimeout <= 0 {
		h.readyTimeout = 2 * time.Second
	}
	if h.perfMon == nil {
		h.perfMon = middleware.NewPerformanceMonitor(1000, middleware.DefaultSlowRequestThreshold)
	}
	return h, nil
}

// PerformanceMonitor returns the latency window served by /stats.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}
