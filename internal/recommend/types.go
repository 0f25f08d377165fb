// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package recommend

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Sentinel errors returned by the recommendation core.
var (
	// ErrEmptyCorpus is returned by FeatureBuilder.Build when the corpus has no records.
	ErrEmptyCorpus = errors.New("recommend: empty corpus")

	// ErrReweight wraps failures while applying feedback weights.
	// The previous matrix is always left in place when it is returned.
	ErrReweight = errors.New("recommend: reweight failed")

	// ErrNotReady is returned by feedback operations before a successful build.
	ErrNotReady = errors.New("recommend: engine not ready")
)

// ContentRecord is one unit of content in the corpus.
// For shabads CategoryA is the raag and CategoryB is the writer.
type ContentRecord struct {
	ID          int    `json:"shabad_id"`
	Text        string `json:"text"`
	Translation string `json:"translation"`
	CategoryA   string `json:"raag"`
	CategoryB   string `json:"writer"`
}

// Corpus is an ordered set of records. Position i corresponds to matrix row i.
type Corpus []ContentRecord

// IDs returns the record IDs in corpus order.
func (c Corpus) IDs() []int {
	ids := make([]int, len(c))
	for i, rec := range c {
		ids[i] = rec.ID
	}
	return ids
}

// positions maps record ID to its first position in the corpus.
func (c Corpus) positions() map[int]int {
	pos := make(map[int]int, len(c))
	for i, rec := range c {
		if _, seen := pos[rec.ID]; !seen {
			pos[rec.ID] = i
		}
	}
	return pos
}

// InteractionKind classifies an interaction event.
type InteractionKind string

const (
	// KindView is logged when a shabad is opened.
	KindView InteractionKind = "view"

	// KindLike is logged when a shabad is liked. Only likes affect weights.
	KindLike InteractionKind = "like"

	// KindViewAng is logged when an ang (page) is opened.
	KindViewAng InteractionKind = "view_ang"
)

// String returns the stored representation of the kind.
func (k InteractionKind) String() string {
	return string(k)
}

// Valid reports whether k is a known kind.
func (k InteractionKind) Valid() bool {
	switch k {
	case KindView, KindLike, KindViewAng:
		return true
	default:
		return false
	}
}

// ParseInteractionKind parses a stored kind, case-insensitively.
func ParseInteractionKind(s string) (InteractionKind, bool) {
	k := InteractionKind(strings.ToLower(strings.TrimSpace(s)))
	return k, k.Valid()
}

// InteractionEvent is an append-only log entry.
type InteractionEvent struct {
	ContentID int             `json:"shabad_id"`
	Kind      InteractionKind `json:"interaction_type"`
	Timestamp time.Time       `json:"timestamp"`
}

// ScoredRecord is a recommendation with its cosine similarity to the query.
type ScoredRecord struct {
	ContentRecord
	Score float64 `json:"score"`
}

// State is the lifecycle state of an Engine.
type State int

const (
	// StateUninitialized means no build has been attempted.
	StateUninitialized State = iota

	// StateReady means a matrix is available for queries.
	StateReady

	// StateUnavailable means the last build failed and no matrix is available.
	StateUnavailable
)

// String returns the state name used in logs and health output.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// CorpusSource loads the cached content corpus.
type CorpusSource interface {
	// FetchCorpus returns at most limit records in a stable order.
	FetchCorpus(ctx context.Context, limit int) (Corpus, error)
}

// InteractionSource loads the interaction log.
type InteractionSource interface {
	// FetchInteractions returns at most limit events.
	FetchInteractions(ctx context.Context, limit int) ([]InteractionEvent, error)
}

// Stats describes the current engine snapshot.
type Stats struct {
	State               string    `json:"state"`
	CorpusSize          int       `json:"corpus_size"`
	Features            int       `json:"features"`
	TextFeatures        int       `json:"text_features"`
	CategoricalFeatures int       `json:"categorical_features"`
	WeightedRows        int       `json:"weighted_rows"`
	ReweightMode        string    `json:"reweight_mode"`
	BuiltAt             time.Time `json:"built_at,omitempty"`
	ReweightedAt        time.Time `json:"reweighted_at,omitempty"`
	Builds              int64     `json:"builds"`
	Reweights           int64     `json:"reweights"`
	LastError           string    `json:"last_error,omitempty"`
}
