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

// AngRepository accesses the angs collection.
type AngRepository struct {
	db   *DB
	coll *mongo.Collection
}

// Get returns the cached ang or ErrNotFound.
func (r *AngRepository) Get(ctx context.Context, ang int, source string) (*models.Ang, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	var a models.Ang
	err := r.coll.FindOne(ctx, angFilter(ang, source)).Decode(&a)
	observe("find_one", CollectionAngs, start, err)
	if err != nil {
		return nil, wrapFindErr(err, fmt.Sprintf("ang %d/%s", ang, source))
	}
	return &a, nil
}

// Upsert stores a keyed by (ang, source).
func (r *AngRepository) Upsert(ctx context.Context, a *models.Ang) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if a.CachedAt.IsZero() {
		a.CachedAt = time.Now().UTC()
	}
	start := time.Now()
	_, err := r.coll.UpdateOne(ctx, angFilter(a.Ang, a.Source),
		bson.D{{Key: "$set", Value: a}},
		options.Update().SetUpsert(true))
	observe("upsert", CollectionAngs, start, err)
	if err != nil {
		return fmt.Errorf("upsert ang %d/%s: %w", a.Ang, a.Source, err)
	}
	return nil
}
