// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/baniai/docs" // swagger spec for /swagger/*
	"github.com/tomtom215/baniai/internal/api"
	"github.com/tomtom215/baniai/internal/config"
	"github.com/tomtom215/baniai/internal/content"
	"github.com/tomtom215/baniai/internal/database"
	"github.com/tomtom215/baniai/internal/logging"
	"github.com/tomtom215/baniai/internal/middleware"
	"github.com/tomtom215/baniai/internal/supervisor"
	"github.com/tomtom215/baniai/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	logger := logging.Logger()

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("database", cfg.Mongo.Database).
		Str("cache_backend", cfg.Cache.Backend).
		Bool("wal_enabled", cfg.WAL.Enabled).
		Msg("Starting Bani AI with supervisor tree")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout+cfg.Mongo.ServerSelectionTimeout)
	db, err := database.Connect(connectCtx, &cfg.Mongo, logger)
	connectCancel()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		if err := db.Close(closeCtx); err != nil {
			logging.Error().Err(err).Msg("Error closing MongoDB client")
		}
	}()

	indexCtx, indexCancel := context.WithTimeout(ctx, cfg.Mongo.QueryTimeout)
	if err := db.EnsureIndexes(indexCtx); err != nil {
		// Queries still work without indexes, only slower.
		logging.Error().Err(err).Msg("Failed to create MongoDB indexes")
	}
	indexCancel()

	upstream, cacheStore, err := initUpstream(ctx, cfg, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize BaniDB client")
	}
	defer func() {
		if err := cacheStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache")
		}
	}()

	// sutureslog needs a *slog.Logger; the adapter routes it into zerolog.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	rec, err := initRecommend(cfg, db, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendations")
	}

	walComponents, err := initWAL(cfg, db.Interactions, rec.Service, tree, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize WAL")
	}
	defer walComponents.Close()

	contentSvc, err := content.NewService(content.Config{
		SearchLimit:   content.DefaultConfig().SearchLimit,
		RecommendTopN: cfg.Recommend.DefaultTopN,
	}, content.Deps{
		Shabads:          db.Shabads,
		Angs:             db.Angs,
		Metadata:         db.Metadata,
		InteractionStore: db.Interactions,
		Interactions:     walComponents.InteractionLogger(),
		Upstream:         upstream,
		Recommender:      rec.Engine,
		Events:           rec.Service,
	}, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create content service")
	}

	handler, err := api.NewHandler(api.Deps{
		Content:      contentSvc,
		Recommender:  rec.Engine,
		DB:           db,
		Interactions: db.Interactions,
		PerfMon:      middleware.NewPerformanceMonitor(1000, middleware.DefaultSlowRequestThreshold),
		Version:      version,
		DefaultTopN:  cfg.Recommend.DefaultTopN,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create API handler")
	}

	chiMiddleware := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*). Set explicit origins in production.")
	}

	router := api.NewRouter(handler, chiMiddleware, cfg.Server.Timeout)

	// WriteTimeout leaves headroom over the handler timeout so the 503
	// written by the timeout middleware reaches the client.
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	tree.AddRecommendService(rec.Service)
	if cfg.Warmup.Enabled {
		tree.AddRecommendService(services.NewWarmupService(contentSvc, content.WarmupOptions{
			StartID:     cfg.Warmup.StartID,
			EndID:       cfg.Warmup.EndID,
			Concurrency: cfg.Warmup.Concurrency,
		}, cfg.Warmup.Timeout, logger))
		logging.Info().
			Int("start_id", cfg.Warmup.StartID).
			Int("end_id", cfg.Warmup.EndID).
			Msg("Cache warm-up added to supervisor tree")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
