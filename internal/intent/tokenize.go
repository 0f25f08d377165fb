// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package intent

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Gurmukhi punctuation.
const (
	danda       = '\u0964'
	doubleDanda = '\u0965'
)

// zeroWidth lists invisible joiners stripped before Punjabi tokenization.
var zeroWidth = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\ufeff", "",
)

// contractionSuffixes are clitic endings split off a word and discarded,
// leaving the stem. Longer endings come first so "n't" wins over "'t".
var contractionSuffixes = []string{
	"n't", "'re", "'ll", "'ve", "'s", "'d", "'m", "'",
}

// TokenizeEnglish lowercases text and returns its alphanumeric tokens.
// Contraction and possessive endings are split off and dropped; any token
// still holding a non-alphanumeric character is discarded.
func TokenizeEnglish(text string) []string {
	lower := cases.Lower(language.English).String(text)
	lower = strings.ReplaceAll(lower, "’", "'")
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '\'') || unicode.IsSymbol(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = stripContraction(f)
		if f != "" && isAlnum(f) {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func stripContraction(word string) string {
	for _, suffix := range contractionSuffixes {
		if stem, ok := strings.CutSuffix(word, suffix); ok {
			return stem
		}
	}
	return word
}

// TokenizePunjabi normalises Gurmukhi text to NFC, strips zero-width
// characters and splits on whitespace and punctuation, including the danda
// and double danda.
func TokenizePunjabi(text string) []string {
	normalized := norm.NFC.String(zeroWidth.Replace(text))
	return strings.FieldsFunc(normalized, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || r == danda || r == doubleDanda
	})
}

// Tokenize dispatches on language. Unknown languages use English rules.
func Tokenize(text string, lang Language) []string {
	if lang == Punjabi {
		return TokenizePunjabi(text)
	}
	return TokenizeEnglish(text)
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
