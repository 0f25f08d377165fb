// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/baniai/internal/models"
)

// InteractionRepository accesses the append-only interactions collection.
type InteractionRepository struct {
	db   *DB
	coll *mongo.Collection
}

// Insert appends an event. An event whose event_id is already stored is
// treated as success, so replays from the write-ahead log are idempotent.
func (r *InteractionRepository) Insert(ctx context.Context, in *models.Interaction) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now().UTC()
	}
	start := time.Now()
	_, err := r.coll.InsertOne(ctx, in)
	if err != nil && in.EventID != "" && mongo.IsDuplicateKeyError(err) {
		err = nil
	}
	observe("insert", CollectionInteractions, start, err)
	if err != nil {
		return fmt.Errorf("insert %s interaction: %w", in.Type, err)
	}
	return nil
}

// Latest returns the most recent event that references a shabad, or ErrNotFound.
func (r *InteractionRepository) Latest(ctx context.Context) (*models.Interaction, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	var in models.Interaction
	err := r.coll.FindOne(ctx, shabadInteractionFilter(), options.FindOne().SetSort(newestFirst())).Decode(&in)
	observe("latest", CollectionInteractions, start, err)
	if err != nil {
		return nil, wrapFindErr(err, "latest interaction")
	}
	return &in, nil
}

// Recent returns up to limit shabad events, newest first.
func (r *InteractionRepository) Recent(ctx context.Context, limit int) ([]models.Interaction, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	opts := options.Find().SetSort(newestFirst()).SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, shabadInteractionFilter(), opts)
	if err != nil {
		observe("recent", CollectionInteractions, start, err)
		return nil, fmt.Errorf("find interactions: %w", err)
	}
	out := []models.Interaction{}
	err = cur.All(ctx, &out)
	observe("recent", CollectionInteractions, start, err)
	if err != nil {
		return nil, fmt.Errorf("decode interactions: %w", err)
	}
	return out, nil
}

// CountByType returns event counts keyed by interaction_type.
func (r *InteractionRepository) CountByType(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$interaction_type"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	start := time.Now()
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		observe("count_by_type", CollectionInteractions, start, err)
		return nil, fmt.Errorf("aggregate interactions: %w", err)
	}
	var rows []struct {
		Type  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	err = cur.All(ctx, &rows)
	observe("count_by_type", CollectionInteractions, start, err)
	if err != nil {
		return nil, fmt.Errorf("decode interaction counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}
