// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

/*
Package config provides centralized configuration management for Bani AI.

Configuration is layered with Koanf v2: struct defaults, then an optional
YAML file (CONFIG_PATH, ./config.yaml or /etc/baniai/config.yaml), then
environment variables. Only environment variables listed in the mapping
table are read; anything else in the environment is ignored.

# Environment Variables

HTTP Server (ServerConfig):
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8000)
  - HTTP_TIMEOUT: Per-request timeout (default: 30s)
  - ENVIRONMENT: development, staging or production

MongoDB (MongoConfig):
  - MONGO_URI: Full connection string
  - MONGO_DB_USERNAME, MONGO_DB_PASSWORD, MONGO_DB_CLUSTER_NAME: Atlas parts
    used when MONGO_URI is empty
  - MONGO_DB_APP_NAME: Driver application name
  - MONGO_DB_NAME: Database (default: baniaidb)

BaniDB (BaniDBConfig):
  - BANIDB_BASE_URL: API root (default: https://api.banidb.com/v2)
  - BANIDB_RATE_LIMIT, BANIDB_BURST: Client-side token bucket
  - BANIDB_BREAKER_*: Circuit breaker tuning

Cache (CacheConfig):
  - CACHE_BACKEND: memory, redis or none (default: memory)
  - CACHE_TTL: Entry lifetime (default: 24h)
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB: Redis backend

Recommendation (RecommendConfig):
  - RECOMMEND_MAX_FEATURES, RECOMMEND_LIKE_WEIGHT, RECOMMEND_REWEIGHT_MODE
  - RECOMMEND_REBUILD_INTERVAL: Periodic rebuild, 0 disables

Warm-up (WarmupConfig):
  - WARMUP_ENABLED, WARMUP_START_ID, WARMUP_END_ID, WARMUP_CONCURRENCY

Interaction WAL (WALConfig):
  - WAL_ENABLED, WAL_PATH, WAL_RETRY_INTERVAL, WAL_MAX_RETRIES

Security (SecurityConfig):
  - CORS_ORIGINS, TRUSTED_PROXIES: Comma-separated lists
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging (LoggingConfig):
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatalf("Failed to load config: %v", err)
	}
	uri, _ := cfg.Mongo.ConnectionURI()

# Validation

Load rejects out-of-range ports, durations and sizes, unknown enum values
and missing MongoDB credentials. Error messages name the environment
variable to fix.
*/
package config
