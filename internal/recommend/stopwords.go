// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package recommend

import (
	"bufio"
	"embed"
	"strings"
	"sync"
)

//go:embed stopwords/english.txt
var stopWordsFS embed.FS

var (
	englishStopWordsOnce sync.Once
	englishStopWords     map[string]struct{}
)

// EnglishStopWords returns the stop-word set applied to translations.
// The returned map is shared and must not be modified.
func EnglishStopWords() map[string]struct{} {
	englishStopWordsOnce.Do(func() {
		englishStopWords = loadStopWords("stopwords/english.txt")
	})
	return englishStopWords
}

func loadStopWords(path string) map[string]struct{} {
	words := make(map[string]struct{}, 320)
	f, err := stopWordsFS.Open(path)
	if err != nil {
		return words
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		words[strings.ToLower(w)] = struct{}{}
	}
	return words
}
