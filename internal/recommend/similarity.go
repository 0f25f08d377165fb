// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package recommend

import (
	"math"
	"sort"
)

// SimilarityIndex answers cosine nearest-neighbour queries over one matrix.
// It is immutable once built and safe for concurrent use.
type SimilarityIndex struct {
	matrix    *FeatureMatrix
	corpus    Corpus
	positions map[int]int
	norms     []float64
}

// NewSimilarityIndex precomputes row norms for matrix. The matrix and corpus
// must have the same length.
func NewSimilarityIndex(matrix *FeatureMatrix, corpus Corpus) *SimilarityIndex {
	norms := make([]float64, matrix.Len())
	for i := range norms {
		norms[i] = l2Norm(matrix.Row(i))
	}
	return &SimilarityIndex{
		matrix:    matrix,
		corpus:    corpus,
		positions: corpus.positions(),
		norms:     norms,
	}
}

// Contains reports whether id is in the indexed corpus.
func (s *SimilarityIndex) Contains(id int) bool {
	_, ok := s.positions[id]
	return ok
}

// Recommend returns the topN records most similar to id, best first.
// Unknown ids yield an empty slice. The queried row itself is never returned.
func (s *SimilarityIndex) Recommend(id, topN int) []ScoredRecord {
	q, ok := s.positions[id]
	if !ok || topN <= 0 {
		return []ScoredRecord{}
	}

	type candidate struct {
		pos   int
		score float64
	}

	query := s.matrix.Row(q)
	candidates := make([]candidate, 0, s.matrix.Len())
	for i := 0; i < s.matrix.Len(); i++ {
		if i == q {
			continue
		}
		candidates = append(candidates, candidate{pos: i, score: s.cosine(query, q, i)})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score > candidates[b].score
		}
		return candidates[a].pos < candidates[b].pos
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	out := make([]ScoredRecord, len(candidates))
	for i, c := range candidates {
		out[i] = ScoredRecord{ContentRecord: s.corpus[c.pos], Score: c.score}
	}
	return out
}

func (s *SimilarityIndex) cosine(query []float64, q, i int) float64 {
	if s.norms[q] == 0 || s.norms[i] == 0 {
		return 0
	}
	row := s.matrix.Row(i)
	var dot float64
	for j, v := range query {
		dot += v * row[j]
	}
	return dot / (s.norms[q] * s.norms[i])
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Mismatched lengths and zero vectors yield 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	na, nb := l2Norm(a), l2Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (na * nb)
}

func l2Norm(v []float64) float64 {
	var sumSq float64
	for _, x := range v {
		sumSq += x * x
	}
	return math.Sqrt(sumSq)
}
