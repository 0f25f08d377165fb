// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package database

import (
	"context"

	"github.com/tomtom215/baniai/internal/models"
	"github.com/tomtom215/baniai/internal/recommend"
)

// RecommendationProvider feeds the recommender from the document store.
type RecommendationProvider struct {
	shabads      *ShabadRepository
	interactions *InteractionRepository
}

var (
	_ recommend.CorpusSource      = (*RecommendationProvider)(nil)
	_ recommend.InteractionSource = (*RecommendationProvider)(nil)
)

// NewRecommendationProvider creates a provider over db.
func NewRecommendationProvider(db *DB) *RecommendationProvider {
	return &RecommendationProvider{shabads: db.Shabads, interactions: db.Interactions}
}

// FetchCorpus returns up to limit cached shabads ordered by shabad_id.
func (p *RecommendationProvider) FetchCorpus(ctx context.Context, limit int) (recommend.Corpus, error) {
	shabads, err := p.shabads.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	return ShabadsToCorpus(shabads), nil
}

// FetchInteractions returns up to limit of the most recent shabad events.
func (p *RecommendationProvider) FetchInteractions(ctx context.Context, limit int) ([]recommend.InteractionEvent, error) {
	rows, err := p.interactions.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return InteractionsToEvents(rows), nil
}

// ShabadToRecord projects a cached shabad into the recommender's record type.
func ShabadToRecord(s *models.Shabad) recommend.ContentRecord {
	return recommend.ContentRecord{
		ID:          s.ShabadID,
		Text:        s.Text,
		Translation: s.Translation,
		CategoryA:   s.Raag,
		CategoryB:   s.Writer,
	}
}

// RecordToShabad is the inverse of ShabadToRecord.
func RecordToShabad(r recommend.ContentRecord) models.Shabad {
	return models.Shabad{
		ShabadID:    r.ID,
		Text:        r.Text,
		Translation: r.Translation,
		Raag:        r.CategoryA,
		Writer:      r.CategoryB,
	}
}

// ShabadsToCorpus converts shabads in order.
func ShabadsToCorpus(shabads []models.Shabad) recommend.Corpus {
	corpus := make(recommend.Corpus, len(shabads))
	for i := range shabads {
		corpus[i] = ShabadToRecord(&shabads[i])
	}
	return corpus
}

// InteractionsToEvents converts stored interactions, skipping rows with an
// unknown type or without a shabad.
func InteractionsToEvents(rows []models.Interaction) []recommend.InteractionEvent {
	events := make([]recommend.InteractionEvent, 0, len(rows))
	for _, row := range rows {
		kind, ok := recommend.ParseInteractionKind(row.Type)
		if !ok || row.ShabadID <= 0 {
			continue
		}
		events = append(events, recommend.InteractionEvent{
			ContentID: row.ShabadID,
			Kind:      kind,
			Timestamp: row.Timestamp,
		})
	}
	return events
}
