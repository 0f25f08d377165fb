// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package database

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// searchPattern builds a case-insensitive alternation of the tokens.
// Tokens are matched literally; blank tokens are dropped.
func searchPattern(tokens []string) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(tok))
	}
	return strings.Join(parts, "|")
}

// shabadSearchFilter matches shabads whose text or translation contains any token.
// It returns nil when no usable token remains.
func shabadSearchFilter(tokens []string) bson.D {
	pattern := searchPattern(tokens)
	if pattern == "" {
		return nil
	}
	re := primitive.Regex{Pattern: pattern, Options: "i"}
	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "text", Value: re}},
		bson.D{{Key: "translation", Value: re}},
	}}}
}

func shabadFilter(id int) bson.D {
	return bson.D{{Key: "shabad_id", Value: id}}
}

func angFilter(ang int, source string) bson.D {
	return bson.D{{Key: "ang", Value: ang}, {Key: "source", Value: source}}
}

func metadataFilter(kind string) bson.D {
	return bson.D{{Key: "type", Value: kind}}
}

// shabadInteractionFilter selects events that reference a shabad.
func shabadInteractionFilter() bson.D {
	return bson.D{{Key: "shabad_id", Value: bson.D{{Key: "$gt", Value: 0}}}}
}

// newestFirst sorts by timestamp descending.
func newestFirst() bson.D {
	return bson.D{{Key: "timestamp", Value: -1}}
}
