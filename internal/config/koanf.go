// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/baniai/config.yaml",
	"/etc/baniai/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultDatabase is the MongoDB database used when none is configured.
const DefaultDatabase = "baniaidb"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Mongo: MongoConfig{
			Database:               DefaultDatabase,
			ConnectTimeout:         10 * time.Second,
			ServerSelectionTimeout: 10 * time.Second,
			QueryTimeout:           10 * time.Second,
			MaxPoolSize:            50,
		},
		BaniDB: BaniDBConfig{
			BaseURL:             "https://api.banidb.com/v2",
			Timeout:             15 * time.Second,
			RateLimit:           10,
			Burst:               20,
			MaxRetries:          3,
			RetryBaseDelay:      time.Second,
			UserAgent:           "baniai/1.0",
			BreakerEnabled:      true,
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      2 * time.Minute,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
		},
		Cache: CacheConfig{
			Backend:   "memory",
			TTL:       24 * time.Hour,
			Capacity:  5000,
			RedisAddr: "localhost:6379",
			KeyPrefix: "baniai:",
		},
		Recommend: RecommendConfig{
			MaxFeatures:       500,
			LikeWeight:        0.2,
			DefaultTopN:       3,
			MaxTopN:           50,
			MaxRows:           1000,
			MaxInteractions:   1000,
			ReweightMode:      "base",
			BuildOnStartup:    true,
			RebuildInterval:   15 * time.Minute,
			FeedbackQueueSize: 256,
			BuildTimeout:      5 * time.Minute,
		},
		Warmup: WarmupConfig{
			Enabled:     true,
			StartID:     1,
			EndID:       100,
			Concurrency: 4,
			Timeout:     5 * time.Minute,
		},
		WAL: WALConfig{
			Enabled:         false,
			Path:            "/data/wal",
			SyncWrites:      true,
			RetryInterval:   30 * time.Second,
			MaxRetries:      100,
			RetryBackoff:    5 * time.Second,
			CompactInterval: time.Hour,
			EntryTTL:        7 * 24 * time.Hour,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			TrustedProxies:    []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources.
// Precedence: ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" when none is found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// MongoDB
	"mongo_uri":                      "mongo.uri",
	"mongo_db_username":              "mongo.username",
	"mongo_db_password":              "mongo.password",
	"mongo_db_cluster_name":          "mongo.cluster_name",
	"mongo_db_app_name":              "mongo.app_name",
	"mongo_db_name":                  "mongo.database",
	"mongo_connect_timeout":          "mongo.connect_timeout",
	"mongo_server_selection_timeout": "mongo.server_selection_timeout",
	"mongo_query_timeout":            "mongo.query_timeout",
	"mongo_max_pool_size":            "mongo.max_pool_size",

	// BaniDB upstream
	"banidb_base_url":              "banidb.base_url",
	"banidb_timeout":               "banidb.timeout",
	"banidb_rate_limit":            "banidb.rate_limit",
	"banidb_burst":                 "banidb.burst",
	"banidb_max_retries":           "banidb.max_retries",
	"banidb_retry_base_delay":      "banidb.retry_base_delay",
	"banidb_user_agent":            "banidb.user_agent",
	"banidb_breaker_enabled":       "banidb.breaker_enabled",
	"banidb_breaker_max_requests":  "banidb.breaker_max_requests",
	"banidb_breaker_interval":      "banidb.breaker_interval",
	"banidb_breaker_timeout":       "banidb.breaker_timeout",
	"banidb_breaker_min_requests":  "banidb.breaker_min_requests",
	"banidb_breaker_failure_ratio": "banidb.breaker_failure_ratio",

	// Response cache
	"cache_backend":    "cache.backend",
	"cache_ttl":        "cache.ttl",
	"cache_capacity":   "cache.capacity",
	"cache_key_prefix": "cache.key_prefix",
	"redis_addr":       "cache.redis_addr",
	"redis_password":   "cache.redis_password",
	"redis_db":         "cache.redis_db",

	// Recommendation engine
	"recommend_max_features":        "recommend.max_features",
	"recommend_like_weight":         "recommend.like_weight",
	"recommend_default_top_n":       "recommend.default_top_n",
	"recommend_max_top_n":           "recommend.max_top_n",
	"recommend_max_rows":            "recommend.max_rows",
	"recommend_max_interactions":    "recommend.max_interactions",
	"recommend_reweight_mode":       "recommend.reweight_mode",
	"recommend_build_on_startup":    "recommend.build_on_startup",
	"recommend_rebuild_interval":    "recommend.rebuild_interval",
	"recommend_feedback_queue_size": "recommend.feedback_queue_size",
	"recommend_build_timeout":       "recommend.build_timeout",

	// Warm-up
	"warmup_enabled":     "warmup.enabled",
	"warmup_start_id":    "warmup.start_id",
	"warmup_end_id":      "warmup.end_id",
	"warmup_concurrency": "warmup.concurrency",
	"warmup_timeout":     "warmup.timeout",

	// Interaction WAL
	"wal_enabled":          "wal.enabled",
	"wal_path":             "wal.path",
	"wal_sync_writes":      "wal.sync_writes",
	"wal_retry_interval":   "wal.retry_interval",
	"wal_max_retries":      "wal.max_retries",
	"wal_retry_backoff":    "wal.retry_backoff",
	"wal_compact_interval": "wal.compact_interval",
	"wal_entry_ttl":        "wal.entry_ttl",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"trusted_proxies":     "security.trusted_proxies",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - MONGO_DB_USERNAME -> mongo.username
//   - RECOMMEND_REBUILD_INTERVAL -> recommend.rebuild_interval
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated environment variables
	// never leak into the configuration.
	return ""
}
