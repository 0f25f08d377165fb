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

// metadataDoc is a stored listing. Data holds the listing converted from JSON.
type metadataDoc struct {
	Type      string        `bson:"type"`
	Data      bson.RawValue `bson:"data"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

// MetadataRepository stores the raags, writers and sources listings verbatim.
type MetadataRepository struct {
	db   *DB
	coll *mongo.Collection
}

// Get returns the stored listing of kind as JSON, or ErrNotFound.
func (r *MetadataRepository) Get(ctx context.Context, kind string) (models.RawJSON, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	var doc metadataDoc
	err := r.coll.FindOne(ctx, metadataFilter(kind)).Decode(&doc)
	observe("find_one", CollectionMetadata, start, err)
	if err != nil {
		return nil, wrapFindErr(err, "metadata "+kind)
	}
	return rawValueToJSON(doc.Data)
}

// Upsert stores data, a JSON document, under kind.
func (r *MetadataRepository) Upsert(ctx context.Context, kind string, data models.RawJSON) error {
	value, err := jsonToRawValue(data)
	if err != nil {
		return fmt.Errorf("convert %s metadata: %w", kind, err)
	}

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	doc := metadataDoc{Type: kind, Data: value, UpdatedAt: time.Now().UTC()}
	start := time.Now()
	_, err = r.coll.UpdateOne(ctx, metadataFilter(kind),
		bson.D{{Key: "$set", Value: doc}},
		options.Update().SetUpsert(true))
	observe("upsert", CollectionMetadata, start, err)
	if err != nil {
		return fmt.Errorf("upsert %s metadata: %w", kind, err)
	}
	return nil
}

// jsonToRawValue converts any JSON value (object, array or scalar) into a
// BSON value by wrapping it in a single-field document.
func jsonToRawValue(data []byte) (bson.RawValue, error) {
	if len(data) == 0 {
		data = []byte("null")
	}
	wrapped := make([]byte, 0, len(data)+6)
	wrapped = append(wrapped, `{"v":`...)
	wrapped = append(wrapped, data...)
	wrapped = append(wrapped, '}')

	var doc bson.Raw
	if err := bson.UnmarshalExtJSON(wrapped, false, &doc); err != nil {
		return bson.RawValue{}, err
	}
	return doc.Lookup("v"), nil
}

// rawValueToJSON converts a stored BSON value back to relaxed JSON.
func rawValueToJSON(v bson.RawValue) (models.RawJSON, error) {
	out, err := bson.MarshalExtJSON(bson.D{{Key: "v", Value: v}}, false, false)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	// Strip the {"v": ... } wrapper.
	const prefix = `{"v":`
	if len(out) < len(prefix)+1 || string(out[:len(prefix)]) != prefix {
		return nil, fmt.Errorf("unexpected metadata encoding")
	}
	return models.RawJSON(out[len(prefix) : len(out)-1]), nil
}
