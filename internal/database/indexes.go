// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// indexSpec describes one index to create.
type indexSpec struct {
	collection string
	name       string
	keys       bson.D
	unique     bool
	sparse     bool
}

// indexSpecs lists every index the store relies on.
func indexSpecs() []indexSpec {
	return []indexSpec{
		{collection: CollectionShabads, name: "shabad_id", keys: bson.D{{Key: "shabad_id", Value: 1}}, unique: true},
		{collection: CollectionAngs, name: "ang_source", keys: bson.D{{Key: "ang", Value: 1}, {Key: "source", Value: 1}}, unique: true},
		{collection: CollectionInteractions, name: "shabad_id", keys: bson.D{{Key: "shabad_id", Value: 1}}},
		{collection: CollectionInteractions, name: "timestamp_desc", keys: bson.D{{Key: "timestamp", Value: -1}}},
		{collection: CollectionInteractions, name: "event_id", keys: bson.D{{Key: "event_id", Value: 1}}, unique: true, sparse: true},
		{collection: CollectionMetadata, name: "type", keys: bson.D{{Key: "type", Value: 1}}, unique: true},
	}
}

func (s indexSpec) model() mongo.IndexModel {
	opts := options.Index().SetName(s.name)
	if s.unique {
		opts.SetUnique(true)
	}
	if s.sparse {
		opts.SetSparse(true)
	}
	return mongo.IndexModel{Keys: s.keys, Options: opts}
}

// EnsureIndexes creates all indexes. Existing identical indexes are a no-op.
// Every index is attempted; failures are joined.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var errs []error
	for _, spec := range indexSpecs() {
		start := time.Now()
		_, err := d.db.Collection(spec.collection).Indexes().CreateOne(ctx, spec.model())
		observe("create_index", spec.collection, start, err)
		if err != nil {
			d.logger.Error().Err(err).
				Str("collection", spec.collection).
				Str("index", spec.name).
				Msg("failed to create index")
			errs = append(errs, fmt.Errorf("index %s.%s: %w", spec.collection, spec.name, err))
			continue
		}
		d.logger.Debug().Str("collection", spec.collection).Str("index", spec.name).Msg("index ready")
	}
	return errors.Join(errs...)
}
