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

// ShabadRepository accesses the shabads collection.
type ShabadRepository struct {
	db   *DB
	coll *mongo.Collection
}

// Get returns the cached shabad or ErrNotFound.
func (r *ShabadRepository) Get(ctx context.Context, id int) (*models.Shabad, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	var s models.Shabad
	err := r.coll.FindOne(ctx, shabadFilter(id)).Decode(&s)
	observe("find_one", CollectionShabads, start, err)
	if err != nil {
		return nil, wrapFindErr(err, fmt.Sprintf("shabad %d", id))
	}
	return &s, nil
}

// Upsert stores s keyed by shabad_id.
func (r *ShabadRepository) Upsert(ctx context.Context, s *models.Shabad) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if s.CachedAt.IsZero() {
		s.CachedAt = time.Now().UTC()
	}
	start := time.Now()
	_, err := r.coll.UpdateOne(ctx, shabadFilter(s.ShabadID),
		bson.D{{Key: "$set", Value: s}},
		options.Update().SetUpsert(true))
	observe("upsert", CollectionShabads, start, err)
	if err != nil {
		return fmt.Errorf("upsert shabad %d: %w", s.ShabadID, err)
	}
	return nil
}

// Search returns up to limit shabads whose text or translation matches any token.
func (r *ShabadRepository) Search(ctx context.Context, tokens []string, limit int) ([]models.Shabad, error) {
	filter := shabadSearchFilter(tokens)
	if filter == nil {
		return []models.Shabad{}, nil
	}
	return r.find(ctx, "search", filter, options.Find().SetLimit(int64(limit)))
}

// List returns up to limit shabads ordered by shabad_id.
func (r *ShabadRepository) List(ctx context.Context, limit int) ([]models.Shabad, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "shabad_id", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, "list", bson.D{}, opts)
}

// Count returns the number of cached shabads.
func (r *ShabadRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	observe("count", CollectionShabads, start, err)
	if err != nil {
		return 0, fmt.Errorf("count shabads: %w", err)
	}
	return n, nil
}

func (r *ShabadRepository) find(ctx context.Context, op string, filter bson.D, opts *options.FindOptions) ([]models.Shabad, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		observe(op, CollectionShabads, start, err)
		return nil, fmt.Errorf("%s shabads: %w", op, err)
	}
	out := []models.Shabad{}
	err = cur.All(ctx, &out)
	observe(op, CollectionShabads, start, err)
	if err != nil {
		return nil, fmt.Errorf("decode shabads: %w", err)
	}
	return out, nil
}
