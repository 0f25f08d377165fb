// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// RawJSON is a JSON value passed through without decoding.
type RawJSON = json.RawMessage

// Interaction types stored in the interactions collection.
const (
	InteractionView    = "view"
	InteractionLike    = "like"
	InteractionViewAng = "view_ang"
)

// DefaultSource is the Sri Guru Granth Sahib source ID.
const DefaultSource = "G"

// Shabad is a cached shabad. Text is the Gurmukhi of all verses joined by
// spaces; Translation is the English translation joined the same way.
type Shabad struct {
	ShabadID    int       `bson:"shabad_id" json:"shabad_id" validate:"required,gt=0"`
	Text        string    `bson:"text" json:"text"`
	Translation string    `bson:"translation" json:"translation"`
	Raag        string    `bson:"raag" json:"raag"`
	Writer      string    `bson:"writer" json:"writer"`
	CachedAt    time.Time `bson:"cached_at,omitempty" json:"cached_at,omitempty"`
}

// AngVerse is one line of a cached ang.
type AngVerse struct {
	LineID      int    `bson:"line_id" json:"line_id"`
	Gurmukhi    string `bson:"gurmukhi" json:"gurmukhi"`
	Translation string `bson:"translation" json:"translation"`
	PageNo      int    `bson:"page_no" json:"page_no"`
}

// Ang is a cached page of a source.
type Ang struct {
	Ang      int        `bson:"ang" json:"ang" validate:"required,gt=0"`
	Source   string     `bson:"source" json:"source" validate:"required,max=8"`
	Verses   []AngVerse `bson:"verses" json:"verses" validate:"required,min=1"`
	CachedAt time.Time  `bson:"cached_at,omitempty" json:"cached_at,omitempty"`
}

// Interaction is an append-only usage event. Shabad events set ShabadID;
// ang events set Ang and Source.
//
// EventID is assigned by the write-ahead log and makes replays idempotent.
type Interaction struct {
	EventID   string    `bson:"event_id,omitempty" json:"event_id,omitempty"`
	ShabadID  int       `bson:"shabad_id,omitempty" json:"shabad_id,omitempty"`
	Ang       int       `bson:"ang,omitempty" json:"ang,omitempty"`
	Source    string    `bson:"source,omitempty" json:"source,omitempty"`
	Type      string    `bson:"interaction_type" json:"interaction_type" validate:"required,oneof=view like view_ang"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}
