// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package database

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tomtom215/baniai/internal/models"
	"github.com/tomtom215/baniai/internal/recommend"
)

func TestSearchPattern(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{"single", []string{"waheguru"}, "waheguru"},
		{"alternation", []string{"find", "naam"}, "find|naam"},
		{"blank tokens dropped", []string{" ", "naam", ""}, "naam"},
		{"metacharacters escaped", []string{"a.b", "(x)"}, `a\.b|\(x\)`},
		{"gurmukhi", []string{"ਨਾਮੁ"}, "ਨਾਮੁ"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := searchPattern(tt.tokens); got != tt.want {
				t.Errorf("searchPattern() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShabadSearchFilter(t *testing.T) {
	if f := shabadSearchFilter([]string{"", " "}); f != nil {
		t.Errorf("shabadSearchFilter(blank) = %v, want nil", f)
	}

	f := shabadSearchFilter([]string{"naam"})
	if len(f) != 1 || f[0].Key != "$or" {
		t.Fatalf("filter = %v", f)
	}
	clauses, ok := f[0].Value.(bson.A)
	if !ok || len(clauses) != 2 {
		t.Fatalf("$or clauses = %v", f[0].Value)
	}
	for i, field := range []string{"text", "translation"} {
		clause := clauses[i].(bson.D)
		if clause[0].Key != field {
			t.Errorf("clause %d key = %q, want %q", i, clause[0].Key, field)
		}
		re := clause[0].Value.(primitive.Regex)
		if re.Pattern != "naam" || re.Options != "i" {
			t.Errorf("clause %d regex = %+v", i, re)
		}
	}
}

func TestIndexSpecs(t *testing.T) {
	specs := indexSpecs()

	unique := map[string]bool{}
	for _, s := range specs {
		unique[s.collection+"."+s.name] = s.unique
	}
	want := map[string]bool{
		"shabads.shabad_id":           true,
		"angs.ang_source":             true,
		"interactions.shabad_id":      false,
		"interactions.timestamp_desc": false,
		"interactions.event_id":       true,
		"metadata.type":               true,
	}
	for key, wantUnique := range want {
		got, ok := unique[key]
		if !ok {
			t.Errorf("missing index %s", key)
			continue
		}
		if got != wantUnique {
			t.Errorf("index %s unique = %v, want %v", key, got, wantUnique)
		}
	}

	for _, s := range specs {
		if s.collection == CollectionInteractions && s.name == "timestamp_desc" {
			if s.keys[0].Value != -1 {
				t.Errorf("timestamp index direction = %v, want -1", s.keys[0].Value)
			}
		}
	}
}

func TestWrapFindErr(t *testing.T) {
	if err := wrapFindErr(mongo.ErrNoDocuments, "shabad 1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("wrapFindErr(no documents) = %v, want ErrNotFound", err)
	}
	other := errors.New("socket closed")
	err := wrapFindErr(other, "shabad 1")
	if errors.Is(err, ErrNotFound) || !errors.Is(err, other) {
		t.Errorf("wrapFindErr(other) = %v", err)
	}
	if !isNotFound(fmt.Errorf("wrapped: %w", mongo.ErrNoDocuments)) {
		t.Error("isNotFound() should see through wrapping")
	}
}

func TestMetadataJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"object", `{"rows":[{"raagId":1,"english":"Asa"}]}`},
		{"array", `[{"id":"G","english":"Sri Guru Granth Sahib Ji"}]`},
		{"gurmukhi", `{"unicode":"ਆਸਾ"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := jsonToRawValue([]byte(tt.in))
			if err != nil {
				t.Fatalf("jsonToRawValue() error = %v", err)
			}
			out, err := rawValueToJSON(v)
			if err != nil {
				t.Fatalf("rawValueToJSON() error = %v", err)
			}
			if string(out) != tt.in {
				t.Errorf("round trip = %s, want %s", out, tt.in)
			}
		})
	}

	if _, err := jsonToRawValue([]byte("{broken")); err == nil {
		t.Error("jsonToRawValue(invalid) expected error")
	}
}

func TestConversions(t *testing.T) {
	s := models.Shabad{ShabadID: 3, Text: "ਸੋਦਰੁ", Translation: "That Door", Raag: "Asa", Writer: "Guru Nanak Dev Ji"}
	rec := ShabadToRecord(&s)
	if rec.ID != 3 || rec.CategoryA != "Asa" || rec.CategoryB != "Guru Nanak Dev Ji" || rec.Translation != "That Door" {
		t.Errorf("ShabadToRecord() = %+v", rec)
	}
	if back := RecordToShabad(rec); back != s {
		t.Errorf("RecordToShabad() = %+v, want %+v", back, s)
	}

	corpus := ShabadsToCorpus([]models.Shabad{{ShabadID: 2}, {ShabadID: 1}})
	if ids := corpus.IDs(); len(ids) != 2 || ids[0] != 2 || ids[1] != 1 {
		t.Errorf("ShabadsToCorpus() order = %v", ids)
	}

	now := time.Now()
	events := InteractionsToEvents([]models.Interaction{
		{ShabadID: 1, Type: "like", Timestamp: now},
		{ShabadID: 2, Type: "view", Timestamp: now},
		{Ang: 5, Source: "G", Type: "view_ang", Timestamp: now},
		{ShabadID: 4, Type: "bookmark", Timestamp: now},
	})
	if len(events) != 2 {
		t.Fatalf("InteractionsToEvents() len = %d, want 2", len(events))
	}
	if events[0].Kind != recommend.KindLike || events[0].ContentID != 1 {
		t.Errorf("events[0] = %+v", events[0])
	}
}
