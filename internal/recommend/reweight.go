// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package recommend

import (
	"fmt"
)

// FeedbackReweighter scales matrix rows by how often their record was liked.
type FeedbackReweighter struct {
	likeWeight float64
}

// NewFeedbackReweighter creates a reweighter adding likeWeight per like.
func NewFeedbackReweighter(likeWeight float64) *FeedbackReweighter {
	return &FeedbackReweighter{likeWeight: likeWeight}
}

// Weights returns one weight per corpus row: 1 + likes*likeWeight.
// Events for ids outside the corpus and non-like events are ignored.
func (r *FeedbackReweighter) Weights(corpus Corpus, events []InteractionEvent) []float64 {
	likes := make(map[int]int)
	for _, ev := range events {
		if ev.Kind == KindLike {
			likes[ev.ContentID]++
		}
	}

	weights := make([]float64, len(corpus))
	for i, rec := range corpus {
		weights[i] = 1 + float64(likes[rec.ID])*r.likeWeight
	}
	return weights
}

// Reweight returns a new matrix with every row scaled by its weight, and the
// weights used. The input matrix is not modified.
func (r *FeedbackReweighter) Reweight(m *FeatureMatrix, corpus Corpus, events []InteractionEvent) (*FeatureMatrix, []float64, error) {
	if m == nil {
		return nil, nil, fmt.Errorf("%w: nil matrix", ErrReweight)
	}
	if m.Len() != len(corpus) {
		return nil, nil, fmt.Errorf("%w: matrix has %d rows, corpus has %d records", ErrReweight, m.Len(), len(corpus))
	}
	weights := r.Weights(corpus, events)
	return m.scaled(weights), weights, nil
}
