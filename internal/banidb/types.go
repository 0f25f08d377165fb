// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package banidb

import (
	"github.com/goccy/go-json"
)

// LocalizedName is a name with an English rendering, as used for raags and writers.
type LocalizedName struct {
	ID       int    `json:"raagId,omitempty"`
	Unicode  string `json:"unicode,omitempty"`
	Gurmukhi string `json:"gurmukhi,omitempty"`
	English  string `json:"english"`
}

// SourceRef identifies the scripture a shabad or ang belongs to.
type SourceRef struct {
	SourceID string `json:"sourceId"`
	Unicode  string `json:"unicode,omitempty"`
	English  string `json:"english,omitempty"`
	PageNo   int    `json:"pageNo,omitempty"`
}

// ShabadInfo is the header block of a shabad response.
type ShabadInfo struct {
	ShabadID int           `json:"shabadId"`
	PageNo   int           `json:"pageNo"`
	Source   SourceRef     `json:"source"`
	Raag     LocalizedName `json:"raag"`
	Writer   LocalizedName `json:"writer"`
}

// VerseText holds the Gurmukhi renderings of a verse.
type VerseText struct {
	Gurmukhi string `json:"gurmukhi"`
	Unicode  string `json:"unicode"`
}

// EnglishTranslations holds the English translations BaniDB publishes.
type EnglishTranslations struct {
	BDB string `json:"bdb"`
	MS  string `json:"ms"`
	SSK string `json:"ssk"`
}

// Translation groups translations by language.
type Translation struct {
	En EnglishTranslations `json:"en"`
}

// Verse is one line of a shabad or ang.
type Verse struct {
	VerseID     int         `json:"verseId"`
	ShabadID    int         `json:"shabadId"`
	Verse       VerseText   `json:"verse"`
	Translation Translation `json:"translation"`
	PageNo      int         `json:"pageNo"`
	LineNo      int         `json:"lineNo"`
}

// English returns the first non-empty English translation of the verse.
func (v *Verse) English() string {
	for _, s := range []string{v.Translation.En.BDB, v.Translation.En.MS, v.Translation.En.SSK} {
		if s != "" {
			return s
		}
	}
	return ""
}

// Shabad is the response of /shabads/{id} and /random/{source}.
type Shabad struct {
	ShabadInfo ShabadInfo `json:"shabadInfo"`
	Verses     []Verse    `json:"verses"`
}

// Ang is the response of /angs/{ang}/{source}.
// Depending on API version the lines arrive under "page" or "verses".
type Ang struct {
	PageNo int       `json:"pageNo"`
	Source SourceRef `json:"source"`
	Page   []Verse   `json:"page"`
	Verses []Verse   `json:"verses"`
}

// AllVerses returns the lines of the ang regardless of which field carried them.
func (a *Ang) AllVerses() []Verse {
	if len(a.Page) > 0 {
		return a.Page
	}
	return a.Verses
}

// PageNumber returns the ang number, falling back to the lines when the header omits it.
func (a *Ang) PageNumber() int {
	if a.PageNo > 0 {
		return a.PageNo
	}
	if a.Source.PageNo > 0 {
		return a.Source.PageNo
	}
	for _, v := range a.AllVerses() {
		if v.PageNo > 0 {
			return v.PageNo
		}
	}
	return 0
}

// ResultsInfo describes a search result page.
type ResultsInfo struct {
	TotalResults int `json:"totalResults"`
	PageResults  int `json:"pageResults"`
}

// SearchHit is a matching verse.
type SearchHit struct {
	Verse
	Writer LocalizedName `json:"writer"`
	Raag   LocalizedName `json:"raag"`
}

// SearchResult is the response of /search/{query}.
type SearchResult struct {
	ResultsInfo ResultsInfo `json:"resultsInfo"`
	Verses      []SearchHit `json:"verses"`
}

// ShabadIDs returns the distinct shabad IDs of the hits in result order.
func (r *SearchResult) ShabadIDs() []int {
	seen := make(map[int]struct{}, len(r.Verses))
	ids := make([]int, 0, len(r.Verses))
	for i := range r.Verses {
		id := r.Verses[i].ShabadID
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// MetadataKind names one of the metadata listings.
type MetadataKind string

const (
	MetadataRaags   MetadataKind = "raags"
	MetadataWriters MetadataKind = "writers"
	MetadataSources MetadataKind = "sources"
)

// MetadataKinds lists every metadata listing in response order.
var MetadataKinds = []MetadataKind{MetadataRaags, MetadataWriters, MetadataSources}

// Valid reports whether k is a known listing.
func (k MetadataKind) Valid() bool {
	switch k {
	case MetadataRaags, MetadataWriters, MetadataSources:
		return true
	}
	return false
}

// Metadata is an untyped metadata listing, stored and returned verbatim.
type Metadata = json.RawMessage

// SearchType is the BaniDB searchtype query parameter.
type SearchType int

const (
	// SearchFirstLetterStart matches the first letters of each word from the start of a line.
	SearchFirstLetterStart SearchType = 0
	// SearchFirstLetterAnywhere matches first letters anywhere in a line.
	SearchFirstLetterAnywhere SearchType = 1
	// SearchFullWordGurmukhi matches whole Gurmukhi words.
	SearchFullWordGurmukhi SearchType = 2
	// SearchFullWordEnglish matches words of the English translation.
	SearchFullWordEnglish SearchType = 3
)
