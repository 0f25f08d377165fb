// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateMongo,
		c.validateBaniDB,
		c.validateCache,
		c.validateRecommend,
		c.validateWarmup,
		c.validateWAL,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// validateMongo validates document store settings
func (c *Config) validateMongo() error {
	if c.Mongo.URI == "" {
		if c.Mongo.Username == "" || c.Mongo.Password == "" || c.Mongo.ClusterName == "" {
			return fmt.Errorf("MONGO_URI or MONGO_DB_USERNAME, MONGO_DB_PASSWORD and MONGO_DB_CLUSTER_NAME are required")
		}
		if containsPlaceholder(c.Mongo.Password) {
			return fmt.Errorf("MONGO_DB_PASSWORD contains a placeholder value")
		}
	} else if err := validateMongoURI(c.Mongo.URI); err != nil {
		return err
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("MONGO_DB_NAME must not be empty")
	}
	if c.Mongo.ConnectTimeout <= 0 {
		return fmt.Errorf("MONGO_CONNECT_TIMEOUT must be positive")
	}
	if c.Mongo.QueryTimeout <= 0 {
		return fmt.Errorf("MONGO_QUERY_TIMEOUT must be positive")
	}
	return nil
}

// validateBaniDB validates upstream client settings
func (c *Config) validateBaniDB() error {
	if err := validateHTTPURL(c.BaniDB.BaseURL, "BANIDB_BASE_URL"); err != nil {
		return err
	}
	if c.BaniDB.Timeout <= 0 {
		return fmt.Errorf("BANIDB_TIMEOUT must be positive")
	}
	if c.BaniDB.RateLimit < 0 {
		return fmt.Errorf("BANIDB_RATE_LIMIT must not be negative")
	}
	if c.BaniDB.MaxRetries < 0 {
		return fmt.Errorf("BANIDB_MAX_RETRIES must not be negative")
	}
	if c.BaniDB.BreakerEnabled {
		if c.BaniDB.BreakerFailureRatio <= 0 || c.BaniDB.BreakerFailureRatio > 1 {
			return fmt.Errorf("BANIDB_BREAKER_FAILURE_RATIO must be in (0, 1]")
		}
		if c.BaniDB.BreakerTimeout <= 0 {
			return fmt.Errorf("BANIDB_BREAKER_TIMEOUT must be positive")
		}
	}
	return nil
}

var validCacheBackends = map[string]bool{
	"memory": true,
	"redis":  true,
	"none":   true,
}

// validateCache validates response cache settings
func (c *Config) validateCache() error {
	if !validCacheBackends[c.Cache.Backend] {
		return fmt.Errorf("CACHE_BACKEND must be one of: memory, redis, none")
	}
	switch c.Cache.Backend {
	case "memory":
		if c.Cache.Capacity < 1 {
			return fmt.Errorf("CACHE_CAPACITY must be positive for the memory backend")
		}
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
	}
	return nil
}

// validateRecommend validates engine settings
func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.MaxFeatures < 1 {
		return fmt.Errorf("RECOMMEND_MAX_FEATURES must be positive")
	}
	if r.LikeWeight < 0 {
		return fmt.Errorf("RECOMMEND_LIKE_WEIGHT must not be negative")
	}
	if r.DefaultTopN < 1 || r.MaxTopN < r.DefaultTopN {
		return fmt.Errorf("RECOMMEND_DEFAULT_TOP_N must be positive and not exceed RECOMMEND_MAX_TOP_N")
	}
	if r.MaxRows < 1 || r.MaxInteractions < 1 {
		return fmt.Errorf("RECOMMEND_MAX_ROWS and RECOMMEND_MAX_INTERACTIONS must be positive")
	}
	if r.ReweightMode != "base" && r.ReweightMode != "cumulative" {
		return fmt.Errorf("RECOMMEND_REWEIGHT_MODE must be one of: base, cumulative")
	}
	if r.RebuildInterval < 0 {
		return fmt.Errorf("RECOMMEND_REBUILD_INTERVAL must not be negative")
	}
	if r.FeedbackQueueSize < 1 {
		return fmt.Errorf("RECOMMEND_FEEDBACK_QUEUE_SIZE must be positive")
	}
	if r.BuildTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_BUILD_TIMEOUT must be positive")
	}
	return nil
}

// validateWarmup validates cache priming settings
func (c *Config) validateWarmup() error {
	if !c.Warmup.Enabled {
		return nil
	}
	if c.Warmup.StartID < 1 || c.Warmup.EndID < c.Warmup.StartID {
		return fmt.Errorf("WARMUP_START_ID must be positive and not exceed WARMUP_END_ID")
	}
	if c.Warmup.Concurrency < 1 {
		return fmt.Errorf("WARMUP_CONCURRENCY must be positive")
	}
	return nil
}

// validateWAL validates outbox settings
func (c *Config) validateWAL() error {
	if !c.WAL.Enabled {
		return nil
	}
	if c.WAL.Path == "" {
		return fmt.Errorf("WAL_PATH is required when WAL_ENABLED=true")
	}
	if c.WAL.RetryInterval <= 0 {
		return fmt.Errorf("WAL_RETRY_INTERVAL must be positive")
	}
	if c.WAL.MaxRetries < 1 {
		return fmt.Errorf("WAL_MAX_RETRIES must be positive")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateSecurity validates CORS and rate limiting
func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true when a production deployment accepts any origin.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.IsProduction() && c.hasWildcardCORS()
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns are values that indicate a credential was never filled in.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_PASSWORD",
	"PLACEHOLDER",
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
