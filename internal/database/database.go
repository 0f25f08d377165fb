// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package database

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tomtom215/baniai/internal/config"
	"github.com/tomtom215/baniai/internal/metrics"
)

// Collection names.
const (
	CollectionShabads      = "shabads"
	CollectionAngs         = "angs"
	CollectionInteractions = "interactions"
	CollectionMetadata     = "metadata"
)

// DB wraps a MongoDB client and the application database.
type DB struct {
	client       *mongo.Client
	db           *mongo.Database
	queryTimeout time.Duration
	logger       zerolog.Logger
	closed       atomic.Bool

	Shabads      *ShabadRepository
	Angs         *AngRepository
	Interactions *InteractionRepository
	Metadata     *MetadataRepository
}

// Connect opens a client, verifies it with a ping and wires the repositories.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Connect(ctx context.Context, cfg *config.MongoConfig, logger zerolog.Logger) (*DB, error) {
	uri, err := cfg.ConnectionURI()
	if err != nil {
		return nil, err
	}

	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background()) // best-effort cleanup on failed startup
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	d := newDB(client, cfg.Database, cfg.QueryTimeout, logger)
	d.logger.Info().Str("database", cfg.Database).Msg("MongoDB connected")
	return d, nil
}

func newDB(client *mongo.Client, name string, queryTimeout time.Duration, logger zerolog.Logger) *DB {
	if queryTimeout <= 0 {
		queryTimeout = 10 * time.Second
	}
	d := &DB{
		client:       client,
		db:           client.Database(name),
		queryTimeout: queryTimeout,
		logger:       logger.With().Str("component", "database").Logger(),
	}
	d.Shabads = &ShabadRepository{db: d, coll: d.db.Collection(CollectionShabads)}
	d.Angs = &AngRepository{db: d, coll: d.db.Collection(CollectionAngs)}
	d.Interactions = &InteractionRepository{db: d, coll: d.db.Collection(CollectionInteractions)}
	d.Metadata = &MetadataRepository{db: d, coll: d.db.Collection(CollectionMetadata)}
	return d
}

// Ping checks that the primary is reachable.
func (d *DB) Ping(ctx context.Context) error {
	if d.closed.Load() {
		return ErrNotConnected
	}
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	return d.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client. It is safe to call more than once.
func (d *DB) Close(ctx context.Context) error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := d.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	d.logger.Info().Msg("MongoDB disconnected")
	return nil
}

// withTimeout bounds a single query by the configured query timeout.
func (d *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.queryTimeout)
}

// observe records a query metric. Not-found results are not errors.
func observe(operation, collection string, start time.Time, err error) {
	if isNotFound(err) {
		err = nil
	}
	metrics.RecordDBQuery(operation, collection, time.Since(start), err)
}

func isNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
