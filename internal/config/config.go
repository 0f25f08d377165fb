// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Configuration Categories:
//
//  1. Storage:
//     - Mongo: document store holding shabads, angs, interactions and metadata
//     - Cache: upstream response cache (memory or Redis)
//     - WAL: BadgerDB outbox for interaction events
//
//  2. Upstream:
//     - BaniDB: REST client, rate limit and circuit breaker
//
//  3. Recommendation:
//     - Recommend: TF-IDF engine, rebuild schedule and feedback queue
//     - Warmup: startup cache priming
//
//  4. HTTP:
//     - Server: listener and timeouts
//     - Security: CORS and rate limiting
//
//  5. Observability:
//     - Logging: level, format and caller
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	db, err := database.Connect(ctx, &cfg.Mongo, logger)
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Mongo     MongoConfig     `koanf:"mongo"`
	BaniDB    BaniDBConfig    `koanf:"banidb"`
	Cache     CacheConfig     `koanf:"cache"`
	Recommend RecommendConfig `koanf:"recommend"`
	Warmup    WarmupConfig    `koanf:"warmup"`
	WAL       WALConfig       `koanf:"wal"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`          // per-request handler timeout
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"` // graceful drain on stop
	Environment     string        `koanf:"environment"`      // "development", "staging", "production" (default: "development")
}

// MongoConfig holds document store connection settings.
//
// When URI is empty the connection string is assembled from Username,
// Password and ClusterName (see ConnectionURI).
//
// Environment Variables:
//   - MONGO_URI: full connection string, overrides the parts below
//   - MONGO_DB_USERNAME, MONGO_DB_PASSWORD: Atlas credentials
//   - MONGO_DB_CLUSTER_NAME: Atlas cluster id, e.g. "abc123"
//   - MONGO_DB_APP_NAME: driver application name
//   - MONGO_DB_NAME: database name (default: baniaidb)
type MongoConfig struct {
	URI                    string        `koanf:"uri"`
	Username               string        `koanf:"username"`
	Password               string        `koanf:"password"`
	ClusterName            string        `koanf:"cluster_name"`
	AppName                string        `koanf:"app_name"`
	Database               string        `koanf:"database"`
	ConnectTimeout         time.Duration `koanf:"connect_timeout"`
	ServerSelectionTimeout time.Duration `koanf:"server_selection_timeout"`
	QueryTimeout           time.Duration `koanf:"query_timeout"`
	MaxPoolSize            uint64        `koanf:"max_pool_size"`
}

// BaniDBConfig holds the upstream BaniDB client settings.
type BaniDBConfig struct {
	BaseURL        string        `koanf:"base_url"`
	Timeout        time.Duration `koanf:"timeout"`
	RateLimit      float64       `koanf:"rate_limit"` // requests per second, 0 disables
	Burst          int           `koanf:"burst"`
	MaxRetries     int           `koanf:"max_retries"` // HTTP 429 retries
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`
	UserAgent      string        `koanf:"user_agent"`

	// Circuit breaker
	BreakerEnabled      bool          `koanf:"breaker_enabled"`
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
}

// CacheConfig holds the upstream response cache settings.
type CacheConfig struct {
	// Backend is "memory", "redis" or "none".
	// Default: memory
	Backend       string        `koanf:"backend"`
	TTL           time.Duration `koanf:"ttl"`
	Capacity      int           `koanf:"capacity"` // memory backend entry limit
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
	KeyPrefix     string        `koanf:"key_prefix"`
}

// RecommendConfig holds recommendation engine settings.
//
// Environment Variables:
//   - RECOMMEND_MAX_FEATURES: TF-IDF vocabulary cap (default: 500)
//   - RECOMMEND_LIKE_WEIGHT: weight added per like (default: 0.2)
//   - RECOMMEND_REWEIGHT_MODE: base or cumulative (default: base)
//   - RECOMMEND_REBUILD_INTERVAL: periodic rebuild, 0 disables (default: 15m)
//   - RECOMMEND_FEEDBACK_QUEUE_SIZE: buffered feedback signals (default: 256)
//   - RECOMMEND_BUILD_TIMEOUT: bound on one build or reweight (default: 5m)
type RecommendConfig struct {
	MaxFeatures       int           `koanf:"max_features"`
	LikeWeight        float64       `koanf:"like_weight"`
	DefaultTopN       int           `koanf:"default_top_n"`
	MaxTopN           int           `koanf:"max_top_n"`
	MaxRows           int           `koanf:"max_rows"`
	MaxInteractions   int           `koanf:"max_interactions"`
	ReweightMode      string        `koanf:"reweight_mode"`
	BuildOnStartup    bool          `koanf:"build_on_startup"`
	RebuildInterval   time.Duration `koanf:"rebuild_interval"`
	FeedbackQueueSize int           `koanf:"feedback_queue_size"`
	BuildTimeout      time.Duration `koanf:"build_timeout"`
}

// WarmupConfig controls cache priming at startup.
type WarmupConfig struct {
	Enabled     bool          `koanf:"enabled"`
	StartID     int           `koanf:"start_id"`
	EndID       int           `koanf:"end_id"`
	Concurrency int           `koanf:"concurrency"`
	Timeout     time.Duration `koanf:"timeout"` // whole warm-up pass
}

// WALConfig holds the interaction outbox settings.
type WALConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Path            string        `koanf:"path"`
	SyncWrites      bool          `koanf:"sync_writes"`
	RetryInterval   time.Duration `koanf:"retry_interval"`
	MaxRetries      int           `koanf:"max_retries"`
	RetryBackoff    time.Duration `koanf:"retry_backoff"`
	CompactInterval time.Duration `koanf:"compact_interval"`
	EntryTTL        time.Duration `koanf:"entry_ttl"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// Load reads configuration using Koanf with layered sources.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
