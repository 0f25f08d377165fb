// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

// Package intent classifies short user queries as search, recommend or
// general requests using per-language keyword lists.
package intent

import (
	"strings"
)

// Intent is the detected purpose of a query.
type Intent string

const (
	Search    Intent = "search"
	Recommend Intent = "recommend"
	General   Intent = "general"
)

// Language is a query language code.
type Language string

const (
	English Language = "en"
	Punjabi Language = "pa"
)

// ParseLanguage maps a request language code to a Language.
// Anything other than "pa" is treated as English.
func ParseLanguage(s string) Language {
	if strings.EqualFold(strings.TrimSpace(s), string(Punjabi)) {
		return Punjabi
	}
	return English
}

type keywordSet map[string]struct{}

func newKeywordSet(words ...string) keywordSet {
	set := make(keywordSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func (k keywordSet) matchesAny(tokens []string) bool {
	for _, t := range tokens {
		if _, ok := k[t]; ok {
			return true
		}
	}
	return false
}

var (
	searchKeywords = map[Language]keywordSet{
		English: newKeywordSet("find", "search", "shabad"),
		Punjabi: newKeywordSet("ਲੱਭੋ", "ਖੋਜ", "ਸਬਦ"),
	}
	recommendKeywords = map[Language]keywordSet{
		English: newKeywordSet("recommend", "similar"),
		Punjabi: newKeywordSet("ਸਿਫਾਰਸ", "ਹੋਰ"),
	}
)

// Detect returns the intent of tokens. Search keywords take precedence over
// recommend keywords.
func Detect(tokens []string, lang Language) Intent {
	if lang != Punjabi {
		lang = English
	}
	switch {
	case searchKeywords[lang].matchesAny(tokens):
		return Search
	case recommendKeywords[lang].matchesAny(tokens):
		return Recommend
	default:
		return General
	}
}

// Result is a tokenized and classified query.
type Result struct {
	Intent   Intent   `json:"intent"`
	Language Language `json:"language"`
	Tokens   []string `json:"tokens"`
}

// Classify tokenizes text for lang and detects its intent.
func Classify(text string, lang Language) Result {
	tokens := Tokenize(text, lang)
	return Result{
		Intent:   Detect(tokens, lang),
		Language: lang,
		Tokens:   tokens,
	}
}
