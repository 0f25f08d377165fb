// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

//go:build integration

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/baniai/internal/config"
	"github.com/tomtom215/baniai/internal/models"
	"github.com/tomtom215/baniai/internal/testinfra"
)

func setupMongo(t *testing.T) *DB {
	t.Helper()
	testinfra.SkipIfNoDocker(t)
	ctx := context.Background()

	container, err := testinfra.NewMongoContainer(ctx)
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	t.Cleanup(func() { testinfra.CleanupContainer(t, ctx, container) })

	db, err := Connect(ctx, &config.MongoConfig{
		URI:                    container.URI,
		Database:               "baniai_test",
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 10 * time.Second,
		QueryTimeout:           5 * time.Second,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close(context.Background()) })

	if err := db.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes() error = %v", err)
	}
	// Second call must be a no-op.
	if err := db.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes() second call error = %v", err)
	}
	return db
}

func TestShabadRepository_Integration(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()

	if _, err := db.Shabads.Get(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	for _, s := range []models.Shabad{
		{ShabadID: 2, Text: "ਸੋ ਦਰੁ", Translation: "That Door of Yours", Raag: "Asa", Writer: "Guru Nanak Dev Ji"},
		{ShabadID: 1, Text: "ੴ ਸਤਿ ਨਾਮੁ", Translation: "One Universal Creator God. The Name Is Truth.", Raag: "Jap", Writer: "Guru Nanak Dev Ji"},
	} {
		s := s
		if err := db.Shabads.Upsert(ctx, &s); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}
	// Upserting again must not duplicate.
	if err := db.Shabads.Upsert(ctx, &models.Shabad{ShabadID: 1, Translation: "updated", Raag: "Jap"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	n, err := db.Shabads.Count(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Count() = %d, %v; want 2", n, err)
	}

	list, err := db.Shabads.List(ctx, 10)
	if err != nil || len(list) != 2 || list[0].ShabadID != 1 {
		t.Fatalf("List() = %+v, %v", list, err)
	}

	hits, err := db.Shabads.Search(ctx, []string{"DOOR"}, 10)
	if err != nil || len(hits) != 1 || hits[0].ShabadID != 2 {
		t.Errorf("Search(DOOR) = %+v, %v", hits, err)
	}
	hits, err = db.Shabads.Search(ctx, []string{"ਸੋ"}, 10)
	if err != nil || len(hits) != 1 {
		t.Errorf("Search(gurmukhi) = %+v, %v", hits, err)
	}
}

func TestAngAndMetadata_Integration(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()

	ang := &models.Ang{Ang: 1, Source: "G", Verses: []models.AngVerse{{LineID: 1, Gurmukhi: "ੴ", Translation: "One", PageNo: 1}}}
	if err := db.Angs.Upsert(ctx, ang); err != nil {
		t.Fatalf("Angs.Upsert() error = %v", err)
	}
	got, err := db.Angs.Get(ctx, 1, "G")
	if err != nil || len(got.Verses) != 1 || got.Verses[0].LineID != 1 {
		t.Fatalf("Angs.Get() = %+v, %v", got, err)
	}
	if _, err := db.Angs.Get(ctx, 1, "D"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Angs.Get(other source) error = %v", err)
	}

	raw := models.RawJSON(`{"rows":[{"raagId":1,"english":"Asa"}]}`)
	if err := db.Metadata.Upsert(ctx, "raags", raw); err != nil {
		t.Fatalf("Metadata.Upsert() error = %v", err)
	}
	data, err := db.Metadata.Get(ctx, "raags")
	if err != nil || string(data) != string(raw) {
		t.Errorf("Metadata.Get() = %s, %v", data, err)
	}
	if _, err := db.Metadata.Get(ctx, "writers"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Metadata.Get(missing) error = %v", err)
	}
}

func TestInteractionRepository_Integration(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	events := []models.Interaction{
		{ShabadID: 1, Type: models.InteractionView, Timestamp: base},
		{ShabadID: 2, Type: models.InteractionLike, Timestamp: base.Add(time.Minute)},
		{Ang: 3, Source: "G", Type: models.InteractionViewAng, Timestamp: base.Add(2 * time.Minute)},
		{EventID: "evt-1", ShabadID: 2, Type: models.InteractionLike, Timestamp: base.Add(3 * time.Minute)},
	}
	for i := range events {
		if err := db.Interactions.Insert(ctx, &events[i]); err != nil {
			t.Fatalf("Insert(%d) error = %v", i, err)
		}
	}
	// Replaying a WAL event is idempotent.
	replay := events[3]
	if err := db.Interactions.Insert(ctx, &replay); err != nil {
		t.Fatalf("Insert(replay) error = %v", err)
	}

	latest, err := db.Interactions.Latest(ctx)
	if err != nil || latest.ShabadID != 2 || latest.EventID != "evt-1" {
		t.Fatalf("Latest() = %+v, %v", latest, err)
	}

	recent, err := db.Interactions.Recent(ctx, 10)
	if err != nil || len(recent) != 3 {
		t.Fatalf("Recent() = %+v, %v; want 3 shabad events", recent, err)
	}

	counts, err := db.Interactions.CountByType(ctx)
	if err != nil || counts["like"] != 2 || counts["view"] != 1 || counts["view_ang"] != 1 {
		t.Errorf("CountByType() = %v, %v", counts, err)
	}

	provider := NewRecommendationProvider(db)
	ev, err := provider.FetchInteractions(ctx, 2)
	if err != nil || len(ev) != 2 || ev[0].ContentID != 2 {
		t.Errorf("FetchInteractions() = %+v, %v", ev, err)
	}
}
