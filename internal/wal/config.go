// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package wal

import (
	"fmt"
	"time"
)

// Config holds the interaction outbox configuration.
type Config struct {
	// Enabled turns the outbox on. When false interactions are inserted
	// into MongoDB directly.
	Enabled bool

	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// InMemory opens BadgerDB without touching disk. Used by tests.
	InMemory bool

	// SyncWrites forces an fsync after every write.
	SyncWrites bool

	// RetryInterval is how often the retry loop scans pending entries.
	RetryInterval time.Duration

	// MaxRetries is the number of failed inserts after which an entry is dropped.
	MaxRetries int

	// RetryBackoff is the base delay of the exponential backoff.
	RetryBackoff time.Duration

	// CompactInterval is how often confirmed entries are removed.
	CompactInterval time.Duration

	// EntryTTL bounds how long an unconfirmed entry is kept.
	EntryTTL time.Duration

	// GCRatio is passed to BadgerDB value log GC.
	GCRatio float64

	// CloseTimeout bounds Close.
	CloseTimeout time.Duration
}

// DefaultConfig returns the outbox defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:         false,
		Path:            "/data/wal",
		SyncWrites:      true,
		RetryInterval:   30 * time.Second,
		MaxRetries:      100,
		RetryBackoff:    5 * time.Second,
		CompactInterval: time.Hour,
		EntryTTL:        7 * 24 * time.Hour,
		GCRatio:         0.5,
		CloseTimeout:    30 * time.Second,
	}
}

// Validate checks the configuration. A disabled outbox is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Path == "" && !c.InMemory {
		return &ConfigError{Field: "Path", Message: "cannot be empty"}
	}
	if c.RetryInterval <= 0 {
		return &ConfigError{Field: "RetryInterval", Message: "must be positive"}
	}
	if c.MaxRetries < 1 {
		return &ConfigError{Field: "MaxRetries", Message: "must be at least 1"}
	}
	if c.RetryBackoff <= 0 {
		return &ConfigError{Field: "RetryBackoff", Message: "must be positive"}
	}
	if c.CompactInterval <= 0 {
		return &ConfigError{Field: "CompactInterval", Message: "must be positive"}
	}
	if c.EntryTTL < time.Minute {
		return &ConfigError{Field: "EntryTTL", Message: "must be at least 1m"}
	}
	if c.GCRatio <= 0 || c.GCRatio >= 1 {
		return &ConfigError{Field: "GCRatio", Message: "must be between 0 and 1 (exclusive)"}
	}
	return nil
}

// ConfigError describes an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("wal config: %s %s", e.Field, e.Message)
}
