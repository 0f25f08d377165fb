// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultMongoImage is the MongoDB image used for document store tests
	DefaultMongoImage = "mongo:7.0"

	// DefaultMongoPort is the MongoDB wire protocol port
	DefaultMongoPort = "27017"

	// DefaultRedisImage is the Redis image used for cache tests
	DefaultRedisImage = "redis:7-alpine"

	// DefaultRedisPort is the Redis protocol port
	DefaultRedisPort = "6379"
)

// MongoContainer represents a running MongoDB container.
type MongoContainer struct {
	testcontainers.Container
	URI string
}

// RedisContainer represents a running Redis container.
type RedisContainer struct {
	testcontainers.Container
	Addr string
}

// StoreOption configures a store container.
type StoreOption func(*storeConfig)

type storeConfig struct {
	image        string
	startTimeout time.Duration
}

// WithImage sets a custom Docker image.
func WithImage(image string) StoreOption {
	return func(c *storeConfig) {
		c.image = image
	}
}

// WithStartTimeout sets the timeout for waiting for the container to start.
func WithStartTimeout(timeout time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.startTimeout = timeout
	}
}

// NewMongoContainer starts a standalone MongoDB server.
//
// Example:
//
//	mongo, err := testinfra.NewMongoContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, mongo)
//	client, err := database.Connect(ctx, database.Options{URI: mongo.URI, Database: "test"})
func NewMongoContainer(ctx context.Context, opts ...StoreOption) (*MongoContainer, error) {
	cfg := applyStoreOptions(DefaultMongoImage, opts)

	container, endpoint, err := startStoreContainer(ctx, cfg, DefaultMongoPort,
		wait.ForAll(
			wait.ForListeningPort(DefaultMongoPort+"/tcp"),
			wait.ForLog("Waiting for connections"),
		))
	if err != nil {
		return nil, fmt.Errorf("create mongo container: %w", err)
	}

	return &MongoContainer{
		Container: container,
		URI:       "mongodb://" + endpoint,
	}, nil
}

// NewRedisContainer starts a Redis server.
func NewRedisContainer(ctx context.Context, opts ...StoreOption) (*RedisContainer, error) {
	cfg := applyStoreOptions(DefaultRedisImage, opts)

	container, endpoint, err := startStoreContainer(ctx, cfg, DefaultRedisPort,
		wait.ForAll(
			wait.ForListeningPort(DefaultRedisPort+"/tcp"),
			wait.ForLog("Ready to accept connections"),
		))
	if err != nil {
		return nil, fmt.Errorf("create redis container: %w", err)
	}

	return &RedisContainer{
		Container: container,
		Addr:      endpoint,
	}, nil
}

func applyStoreOptions(image string, opts []StoreOption) *storeConfig {
	cfg := &storeConfig{
		image:        image,
		startTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// startStoreContainer starts a container and returns its host:port endpoint.
func startStoreContainer(ctx context.Context, cfg *storeConfig, port string, strategy *wait.MultiStrategy) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{port + "/tcp"},
		WaitingFor:   strategy.WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, "", fmt.Errorf("get container host: %w", err)
	}

	mapped, err := container.MappedPort(ctx, port)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, "", fmt.Errorf("get mapped port: %w", err)
	}

	return container, fmt.Sprintf("%s:%s", host, mapped.Port()), nil
}
