// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package recommend

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern matches runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// FeatureMatrix is a dense row-major matrix. Row i describes corpus position i.
// Columns are the text block followed by the categorical block.
type FeatureMatrix struct {
	rows       [][]float64
	vocabulary []string // text column names, sorted
	categories []string // categorical column names, "a:<value>" then "b:<value>"
}

// Len returns the number of rows.
func (m *FeatureMatrix) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rows)
}

// Width returns the number of columns.
func (m *FeatureMatrix) Width() int {
	return m.TextWidth() + m.CategoricalWidth()
}

// TextWidth returns the number of TF-IDF columns.
func (m *FeatureMatrix) TextWidth() int {
	if m == nil {
		return 0
	}
	return len(m.vocabulary)
}

// CategoricalWidth returns the number of one-hot columns.
func (m *FeatureMatrix) CategoricalWidth() int {
	if m == nil {
		return 0
	}
	return len(m.categories)
}

// Row returns row i. The slice aliases the matrix and must not be modified.
func (m *FeatureMatrix) Row(i int) []float64 {
	return m.rows[i]
}

// Vocabulary returns a copy of the text column names.
func (m *FeatureMatrix) Vocabulary() []string {
	return append([]string(nil), m.vocabulary...)
}

// Categories returns a copy of the categorical column names.
func (m *FeatureMatrix) Categories() []string {
	return append([]string(nil), m.categories...)
}

// scaled returns a new matrix with row i multiplied by weights[i].
func (m *FeatureMatrix) scaled(weights []float64) *FeatureMatrix {
	rows := make([][]float64, len(m.rows))
	for i, row := range m.rows {
		out := make([]float64, len(row))
		w := weights[i]
		for j, v := range row {
			out[j] = v * w
		}
		rows[i] = out
	}
	return &FeatureMatrix{rows: rows, vocabulary: m.vocabulary, categories: m.categories}
}

// FeatureBuilder turns a corpus into a FeatureMatrix. It is stateless between
// calls; every Build fits a fresh vocabulary.
type FeatureBuilder struct {
	maxFeatures int
	stopWords   map[string]struct{}
}

// NewFeatureBuilder creates a builder capped at maxFeatures text columns.
func NewFeatureBuilder(maxFeatures int) *FeatureBuilder {
	if maxFeatures < 1 {
		maxFeatures = DefaultConfig().MaxFeatures
	}
	return &FeatureBuilder{maxFeatures: maxFeatures, stopWords: EnglishStopWords()}
}

// Build fits TF-IDF over translations and one-hot encodes both categories.
// A corpus whose translations hold no usable terms yields a zero-width text block.
func (b *FeatureBuilder) Build(corpus Corpus) (*FeatureMatrix, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	counts := make([]map[string]int, len(corpus))
	for i, rec := range corpus {
		counts[i] = b.termCounts(rec.Translation)
	}
	vocabulary := b.fitVocabulary(counts)
	text := tfidf(counts, vocabulary)

	categories, catIndex := fitCategories(corpus)

	rows := make([][]float64, len(corpus))
	for i, rec := range corpus {
		row := make([]float64, len(vocabulary)+len(categories))
		copy(row, text[i])
		row[len(vocabulary)+catIndex["a:"+rec.CategoryA]] = 1
		row[len(vocabulary)+catIndex["b:"+rec.CategoryB]] = 1
		rows[i] = row
	}

	return &FeatureMatrix{rows: rows, vocabulary: vocabulary, categories: categories}, nil
}

// Tokenize lowercases s and returns its terms with stop words removed.
func (b *FeatureBuilder) Tokenize(s string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(s), -1)
	terms := raw[:0]
	for _, t := range raw {
		if _, stop := b.stopWords[t]; !stop {
			terms = append(terms, t)
		}
	}
	return terms
}

func (b *FeatureBuilder) termCounts(s string) map[string]int {
	counts := make(map[string]int)
	for _, t := range b.Tokenize(s) {
		counts[t]++
	}
	return counts
}

// fitVocabulary keeps the maxFeatures terms with the highest total count,
// ties broken alphabetically, and returns them sorted alphabetically.
func (b *FeatureBuilder) fitVocabulary(counts []map[string]int) []string {
	totals := make(map[string]int)
	for _, doc := range counts {
		for t, n := range doc {
			totals[t] += n
		}
	}

	terms := make([]string, 0, len(totals))
	for t := range totals {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if totals[terms[i]] != totals[terms[j]] {
			return totals[terms[i]] > totals[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > b.maxFeatures {
		terms = terms[:b.maxFeatures]
	}
	sort.Strings(terms)
	return terms
}

// tfidf returns L2-normalised raw-count TF-IDF rows using smoothed IDF:
// idf(t) = ln((1+n)/(1+df(t))) + 1.
func tfidf(counts []map[string]int, vocabulary []string) [][]float64 {
	n := float64(len(counts))
	idf := make([]float64, len(vocabulary))
	for j, term := range vocabulary {
		df := 0
		for _, doc := range counts {
			if doc[term] > 0 {
				df++
			}
		}
		idf[j] = math.Log((1+n)/(1+float64(df))) + 1
	}

	rows := make([][]float64, len(counts))
	for i, doc := range counts {
		row := make([]float64, len(vocabulary))
		var sumSq float64
		for j, term := range vocabulary {
			if c := doc[term]; c > 0 {
				row[j] = float64(c) * idf[j]
				sumSq += row[j] * row[j]
			}
		}
		if sumSq > 0 {
			norm := math.Sqrt(sumSq)
			for j := range row {
				row[j] /= norm
			}
		}
		rows[i] = row
	}
	return rows
}

// fitCategories returns the one-hot column names and their offsets.
// CategoryA values come first, then CategoryB values, each sorted.
func fitCategories(corpus Corpus) ([]string, map[string]int) {
	seenA := make(map[string]struct{})
	seenB := make(map[string]struct{})
	for _, rec := range corpus {
		seenA[rec.CategoryA] = struct{}{}
		seenB[rec.CategoryB] = struct{}{}
	}

	valuesA := sortedKeys(seenA)
	valuesB := sortedKeys(seenB)

	names := make([]string, 0, len(valuesA)+len(valuesB))
	for _, v := range valuesA {
		names = append(names, "a:"+v)
	}
	for _, v := range valuesB {
		names = append(names, "b:"+v)
	}

	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}
	return names, index
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
