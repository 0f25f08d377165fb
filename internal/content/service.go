// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/baniai/internal/banidb"
	"github.com/tomtom215/baniai/internal/database"
	"github.com/tomtom215/baniai/internal/intent"
	"github.com/tomtom215/baniai/internal/logging"
	"github.com/tomtom215/baniai/internal/metrics"
	"github.com/tomtom215/baniai/internal/models"
	"github.com/tomtom215/baniai/internal/recommend"
	"github.com/tomtom215/baniai/internal/validation"
)

// ShabadStore is the shabads collection.
type ShabadStore interface {
	Get(ctx context.Context, id int) (*models.Shabad, error)
	Upsert(ctx context.Context, s *models.Shabad) error
	Search(ctx context.Context, tokens []string, limit int) ([]models.Shabad, error)
}

// AngStore is the angs collection.
type AngStore interface {
	Get(ctx context.Context, ang int, source string) (*models.Ang, error)
	Upsert(ctx context.Context, a *models.Ang) error
}

// MetadataStore is the metadata collection.
type MetadataStore interface {
	Get(ctx context.Context, kind string) (models.RawJSON, error)
	Upsert(ctx context.Context, kind string, data models.RawJSON) error
}

// InteractionStore is the interactions collection.
type InteractionStore interface {
	Insert(ctx context.Context, in *models.Interaction) error
	Latest(ctx context.Context) (*models.Interaction, error)
}

// Recommender is the part of recommend.Engine used here.
type Recommender interface {
	Recommend(id, topN int) []recommend.ContentRecord
	Rebuild(ctx context.Context) error
}

// RecommenderEvents is notified when feedback or new content should reach
// the recommender. The recommend supervisor service implements it with a
// coalescing queue.
type RecommenderEvents interface {
	NotifyFeedback()
	NotifyContentAdded()
}

type nopEvents struct{}

func (nopEvents) NotifyFeedback()     {}
func (nopEvents) NotifyContentAdded() {}

// Config tunes the caching layer.
type Config struct {
	// SearchLimit caps store search results.
	SearchLimit int

	// RecommendTopN is the number of recommendations returned by Query.
	RecommendTopN int
}

// DefaultConfig returns the defaults used by the HTTP API.
func DefaultConfig() Config {
	return Config{SearchLimit: 10, RecommendTopN: 3}
}

// Deps are the collaborators of a Service. Interactions defaults to a
// DirectLogger over InteractionStore; Events defaults to a no-op.
type Deps struct {
	Shabads          ShabadStore
	Angs             AngStore
	Metadata         MetadataStore
	InteractionStore InteractionStore
	Interactions     InteractionLogger
	Upstream         banidb.API
	Recommender      Recommender
	Events           RecommenderEvents
}

// Service implements the content operations behind the HTTP API.
type Service struct {
	config       Config
	shabads      ShabadStore
	angs         AngStore
	metadata     MetadataStore
	history      InteractionStore
	interactions InteractionLogger
	upstream     banidb.API
	recommender  Recommender
	events       RecommenderEvents
	logger       zerolog.Logger
}

// NewService validates deps and creates a Service.
func NewService(cfg Config, deps Deps, logger zerolog.Logger) (*Service, error) {
	switch {
	case deps.Shabads == nil:
		return nil, errors.New("content: shabad store is required")
	case deps.Angs == nil:
		return nil, errors.New("content: ang store is required")
	case deps.Metadata == nil:
		return nil, errors.New("content: metadata store is required")
	case deps.InteractionStore == nil:
		return nil, errors.New("content: interaction store is required")
	case deps.Upstream == nil:
		return nil, errors.New("content: upstream client is required")
	case deps.Recommender == nil:
		return nil, errors.New("content: recommender is required")
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = DefaultConfig().SearchLimit
	}
	if cfg.RecommendTopN <= 0 {
		cfg.RecommendTopN = DefaultConfig().RecommendTopN
	}

	s := &Service{
		config:       cfg,
		shabads:      deps.Shabads,
		angs:         deps.Angs,
		metadata:     deps.Metadata,
		history:      deps.InteractionStore,
		interactions: deps.Interactions,
		upstream:     deps.Upstream,
		recommender:  deps.Recommender,
		events:       deps.Events,
		logger:       logger.With().Str("component", "content").Logger(),
	}
	if s.interactions == nil {
		s.interactions = NewDirectLogger(deps.InteractionStore)
	}
	if s.events == nil {
		s.events = nopEvents{}
	}
	return s, nil
}

// Shabad returns a shabad from the store, falling back to BaniDB and
// caching the result. A successful lookup is logged as a view.
func (s *Service) Shabad(ctx context.Context, id int) Result[*models.Shabad] {
	if id <= 0 {
		return failed[*models.Shabad](fmt.Errorf("%w: shabad id %d", ErrInvalidInput, id))
	}

	res := s.lookupShabad(ctx, id)
	metrics.RecordContentLookup("shabad", string(res.Source), res.Err)
	if res.Err != nil {
		return res
	}
	s.logInteraction(ctx, &models.Interaction{ShabadID: id, Type: models.InteractionView})
	return res
}

func (s *Service) lookupShabad(ctx context.Context, id int) Result[*models.Shabad] {
	stored, err := s.shabads.Get(ctx, id)
	if err == nil {
		return Result[*models.Shabad]{Value: stored, Source: SourceStore}
	}
	if !errors.Is(err, database.ErrNotFound) {
		s.logger.Warn().Err(err).Int("shabad_id", id).Msg("Shabad store lookup failed, trying BaniDB")
	}

	shabad, err := s.fetchShabad(ctx, id)
	if err != nil {
		return failed[*models.Shabad](fmt.Errorf("shabad %d: %w: %w", id, ErrNotFound, err))
	}
	return Result[*models.Shabad]{Value: shabad, Source: SourceUpstream}
}

// fetchShabad fetches, normalises and stores a shabad.
func (s *Service) fetchShabad(ctx context.Context, id int) (*models.Shabad, error) {
	raw, err := s.upstream.Shabad(ctx, id)
	if err != nil {
		return nil, err
	}
	shabad, err := ShabadFromUpstream(raw)
	if err != nil {
		return nil, err
	}
	s.storeShabad(ctx, shabad)
	return shabad, nil
}

func (s *Service) storeShabad(ctx context.Context, shabad *models.Shabad) {
	if err := s.shabads.Upsert(ctx, shabad); err != nil {
		s.logger.Warn().Err(err).Int("shabad_id", shabad.ShabadID).Msg("Failed to cache shabad")
		return
	}
	s.events.NotifyContentAdded()
}

// Ang returns a page of source from the store, falling back to BaniDB.
// A successful lookup is logged as a view_ang.
func (s *Service) Ang(ctx context.Context, ang int, source string) Result[*models.Ang] {
	if source == "" {
		source = models.DefaultSource
	}
	if ang <= 0 {
		return failed[*models.Ang](fmt.Errorf("%w: ang %d", ErrInvalidInput, ang))
	}
	if verr := validation.ValidateVar("source", source, "source_id"); verr != nil {
		return failed[*models.Ang](fmt.Errorf("%w: %w", ErrInvalidInput, verr))
	}

	res := s.lookupAng(ctx, ang, source)
	metrics.RecordContentLookup("ang", string(res.Source), res.Err)
	if res.Err != nil {
		return res
	}
	s.logInteraction(ctx, &models.Interaction{Ang: ang, Source: source, Type: models.InteractionViewAng})
	return res
}

func (s *Service) lookupAng(ctx context.Context, ang int, source string) Result[*models.Ang] {
	stored, err := s.angs.Get(ctx, ang, source)
	if err == nil {
		return Result[*models.Ang]{Value: stored, Source: SourceStore}
	}
	if !errors.Is(err, database.ErrNotFound) {
		s.logger.Warn().Err(err).Int("ang", ang).Str("source", source).Msg("Ang store lookup failed, trying BaniDB")
	}

	raw, err := s.upstream.Ang(ctx, ang, source)
	if err != nil {
		return failed[*models.Ang](fmt.Errorf("ang %d/%s: %w: %w", ang, source, ErrNotFound, err))
	}
	page, err := AngFromUpstream(raw, ang, source)
	if err != nil {
		return failed[*models.Ang](fmt.Errorf("ang %d/%s: %w: %w", ang, source, ErrNotFound, err))
	}
	if err := s.angs.Upsert(ctx, page); err != nil {
		s.logger.Warn().Err(err).Int("ang", ang).Str("source", source).Msg("Failed to cache ang")
	}
	return Result[*models.Ang]{Value: page, Source: SourceUpstream}
}

// Random returns a random shabad of source from BaniDB, caches it and logs
// a view.
func (s *Service) Random(ctx context.Context, source string) Result[*models.Shabad] {
	if source == "" {
		source = models.DefaultSource
	}
	if verr := validation.ValidateVar("source", source, "source_id"); verr != nil {
		return failed[*models.Shabad](fmt.Errorf("%w: %w", ErrInvalidInput, verr))
	}

	raw, err := s.upstream.Random(ctx, source)
	if err == nil {
		var shabad *models.Shabad
		shabad, err = ShabadFromUpstream(raw)
		if err == nil {
			s.storeShabad(ctx, shabad)
			metrics.RecordContentLookup("random", string(SourceUpstream), nil)
			s.logInteraction(ctx, &models.Interaction{ShabadID: shabad.ShabadID, Type: models.InteractionView})
			return Result[*models.Shabad]{Value: shabad, Source: SourceUpstream}
		}
	}

	metrics.RecordContentLookup("random", string(SourceUpstream), err)
	if errors.Is(err, ErrUpstream) {
		return failed[*models.Shabad](fmt.Errorf("random shabad: %w", err))
	}
	return failed[*models.Shabad](fmt.Errorf("random shabad: %w: %w", ErrUpstream, err))
}

// Like records a like for id and notifies the recommender. Unlike views, a
// failure to record the like is returned.
func (s *Service) Like(ctx context.Context, id int) (string, error) {
	if id <= 0 {
		return "", fmt.Errorf("%w: shabad id %d", ErrInvalidInput, id)
	}
	if err := s.interactions.Log(ctx, &models.Interaction{ShabadID: id, Type: models.InteractionLike}); err != nil {
		return "", fmt.Errorf("record like for shabad %d: %w", id, err)
	}
	s.events.NotifyFeedback()
	return fmt.Sprintf("Shabad %d liked", id), nil
}

// Metadata returns the raags, writers and sources listings. Each listing
// is read from the store and independently falls back to BaniDB.
func (s *Service) Metadata(ctx context.Context) (models.MetadataResponse, bool, error) {
	results := make([]Result[models.RawJSON], len(banidb.MetadataKinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range banidb.MetadataKinds {
		g.Go(func() error {
			results[i] = s.metadataListing(gctx, kind)
			return results[i].Err
		})
	}
	if err := g.Wait(); err != nil {
		return models.MetadataResponse{}, false, err
	}

	cached := true
	for _, r := range results {
		cached = cached && r.Cached()
	}
	return models.MetadataResponse{
		Raags:   results[0].Value,
		Writers: results[1].Value,
		Sources: results[2].Value,
	}, cached, nil
}

func (s *Service) metadataListing(ctx context.Context, kind banidb.MetadataKind) Result[models.RawJSON] {
	stored, err := s.metadata.Get(ctx, string(kind))
	if err == nil {
		metrics.RecordContentLookup("metadata", string(SourceStore), nil)
		return Result[models.RawJSON]{Value: stored, Source: SourceStore}
	}
	if !errors.Is(err, database.ErrNotFound) {
		s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("Metadata store lookup failed, trying BaniDB")
	}

	data, err := s.upstream.Metadata(ctx, kind)
	metrics.RecordContentLookup("metadata", string(SourceUpstream), err)
	if err != nil {
		return failed[models.RawJSON](fmt.Errorf("%s metadata: %w: %w", kind, ErrUpstream, err))
	}
	if err := s.metadata.Upsert(ctx, string(kind), data); err != nil {
		s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("Failed to cache metadata")
	}
	return Result[models.RawJSON]{Value: models.RawJSON(data), Source: SourceUpstream}
}

// Query tokenizes text, detects its intent and routes it.
func (s *Service) Query(ctx context.Context, text, language string) (models.QueryResponse, error) {
	lang := intent.ParseLanguage(language)
	classified := intent.Classify(text, lang)

	resp := models.QueryResponse{
		Intent:   string(classified.Intent),
		Language: string(classified.Language),
		Tokens:   classified.Tokens,
	}
	metrics.RecordQueryIntent(resp.Intent, resp.Language)

	switch classified.Intent {
	case intent.Search:
		shabads, source, err := s.search(ctx, text, classified)
		if err != nil {
			return resp, err
		}
		resp.Shabads = shabads
		resp.Source = string(source)
	case intent.Recommend:
		recs, err := s.recommendFromLatest(ctx)
		if err != nil {
			return resp, err
		}
		resp.Recommendations = recs
	default:
		resp.Message = "Could not understand query"
	}
	return resp, nil
}

// search looks in the store first. When nothing matches it asks BaniDB and
// caches the shabad of every hit.
func (s *Service) search(ctx context.Context, text string, q intent.Result) ([]models.Shabad, Source, error) {
	stored, err := s.shabads.Search(ctx, q.Tokens, s.config.SearchLimit)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Store search failed, trying BaniDB")
	}
	if len(stored) > 0 {
		return stored, SourceStore, nil
	}

	searchType := banidb.SearchFullWordEnglish
	if q.Language == intent.Punjabi {
		searchType = banidb.SearchFullWordGurmukhi
	}
	result, err := s.upstream.Search(ctx, text, searchType)
	if err != nil {
		return nil, SourceUpstream, fmt.Errorf("search %q: %w: %w", logging.SanitizeInput(text), ErrUpstream, err)
	}

	ids := result.ShabadIDs()
	if len(ids) > s.config.SearchLimit {
		ids = ids[:s.config.SearchLimit]
	}
	out := make([]models.Shabad, 0, len(ids))
	for _, id := range ids {
		if stored, err := s.shabads.Get(ctx, id); err == nil {
			out = append(out, *stored)
			continue
		}
		shabad, err := s.fetchShabad(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Int("shabad_id", id).Msg("Failed to cache search hit")
			continue
		}
		out = append(out, *shabad)
	}
	return out, SourceUpstream, nil
}

// recommendFromLatest recommends shabads similar to the newest interaction
// that references a shabad. No history yields no recommendations.
func (s *Service) recommendFromLatest(ctx context.Context) ([]models.Shabad, error) {
	latest, err := s.history.Latest(ctx)
	if errors.Is(err, database.ErrNotFound) {
		return []models.Shabad{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest interaction: %w", err)
	}

	recs := s.recommender.Recommend(latest.ShabadID, s.config.RecommendTopN)
	out := make([]models.Shabad, 0, len(recs))
	for _, r := range recs {
		out = append(out, database.RecordToShabad(r))
	}
	return out, nil
}

func (s *Service) logInteraction(ctx context.Context, in *models.Interaction) {
	if err := s.interactions.Log(ctx, in); err != nil {
		s.logger.Warn().
			Str("interaction_type", in.Type).
			Int("shabad_id", in.ShabadID).
			Int("ang", in.Ang).
			Str("error", logging.SanitizeError(err)).
			Msg("Failed to log interaction")
	}
}
