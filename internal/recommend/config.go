// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package recommend

import (
	"fmt"
)

// ReweightMode selects which matrix feedback weights are applied to.
type ReweightMode string

const (
	// ReweightFromBase applies weights to the matrix of the last build.
	ReweightFromBase ReweightMode = "base"

	// ReweightCumulative applies weights to the current matrix.
	// Weights compound across passes.
	ReweightCumulative ReweightMode = "cumulative"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// MaxFeatures caps the TF-IDF vocabulary size.
	// Default: 500.
	MaxFeatures int `json:"max_features"`

	// LikeWeight is added to a row weight for every like of that record.
	// Default: 0.2.
	LikeWeight float64 `json:"like_weight"`

	// DefaultTopN is used when a caller passes a non-positive topN.
	// Default: 3.
	DefaultTopN int `json:"default_top_n"`

	// MaxTopN bounds topN for a single query.
	// Default: 50.
	MaxTopN int `json:"max_top_n"`

	// MaxRows caps the number of records loaded into the corpus.
	// Default: 1000.
	MaxRows int `json:"max_rows"`

	// MaxInteractions caps the number of interaction events read per pass.
	// Default: 1000.
	MaxInteractions int `json:"max_interactions"`

	// ReweightMode is "base" or "cumulative".
	// Default: base.
	ReweightMode ReweightMode `json:"reweight_mode"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		MaxFeatures:     500,
		LikeWeight:      0.2,
		DefaultTopN:     3,
		MaxTopN:         50,
		MaxRows:         1000,
		MaxInteractions: 1000,
		ReweightMode:    ReweightFromBase,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.MaxFeatures < 1 {
		return fmt.Errorf("max_features must be positive, got %d", c.MaxFeatures)
	}
	if c.LikeWeight < 0 {
		return fmt.Errorf("like_weight must be non-negative, got %f", c.LikeWeight)
	}
	if c.DefaultTopN < 1 {
		return fmt.Errorf("default_top_n must be positive, got %d", c.DefaultTopN)
	}
	if c.MaxTopN < c.DefaultTopN {
		return fmt.Errorf("max_top_n (%d) must be >= default_top_n (%d)", c.MaxTopN, c.DefaultTopN)
	}
	if c.MaxRows < 1 {
		return fmt.Errorf("max_rows must be positive, got %d", c.MaxRows)
	}
	if c.MaxInteractions < 1 {
		return fmt.Errorf("max_interactions must be positive, got %d", c.MaxInteractions)
	}
	switch c.ReweightMode {
	case ReweightFromBase, ReweightCumulative:
	default:
		return fmt.Errorf("reweight_mode must be %q or %q, got %q", ReweightFromBase, ReweightCumulative, c.ReweightMode)
	}
	return nil
}
