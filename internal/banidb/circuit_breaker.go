// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package banidb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/baniai/internal/metrics"
)

// ErrUnavailable is returned when the circuit breaker rejects a call.
var ErrUnavailable = errors.New("banidb: upstream unavailable")

// BreakerSettings tunes the circuit breaker.
type BreakerSettings struct {
	MaxRequests  uint32        // probes allowed in half-open state
	Interval     time.Duration // closed-state count reset window
	Timeout      time.Duration // open duration before probing
	MinRequests  uint32        // minimum samples before tripping
	FailureRatio float64       // trip threshold
}

// DefaultBreakerSettings opens after 60% failures over at least 10 requests
// and probes again after two minutes.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      2 * time.Minute,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// CircuitBreakerClient wraps an API with a circuit breaker so an unhealthy
// BaniDB fails fast instead of tying up request goroutines.
//
// Not-found answers are successful round trips and do not count as failures.
type CircuitBreakerClient struct {
	api    API
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
	logger zerolog.Logger
}

var _ API = (*CircuitBreakerClient)(nil)

// NewCircuitBreakerClient wraps api.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCircuitBreakerClient(api API, settings BreakerSettings, logger zerolog.Logger) *CircuitBreakerClient {
	name := "banidb-api"
	logger = logger.With().Str("component", "circuit_breaker").Str("breaker", name).Logger()

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= settings.FailureRatio
			if shouldTrip {
				logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("opening circuit")
			}
			return shouldTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logger.Info().Str("from", fromStr).Str("to", toStr).Msg("circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
	})

	return &CircuitBreakerClient{api: api, cb: cb, name: name, logger: logger}
}

// State returns the breaker state name.
func (c *CircuitBreakerClient) State() string {
	return stateToString(c.cb.State())
}

func (c *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := c.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "rejected").Inc()
			c.logger.Warn().Err(err).Msg("request rejected")
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		if errors.Is(err, ErrNotFound) {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
			return nil, err
		}
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(c.name).Set(float64(c.cb.Counts().ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(c.name).Set(0)
	return result, nil
}

// castResult type-asserts a breaker result.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Shabad fetches a shabad with circuit breaker protection.
func (c *CircuitBreakerClient) Shabad(ctx context.Context, id int) (*Shabad, error) {
	return castResult[*Shabad](c.execute(func() (interface{}, error) {
		return c.api.Shabad(ctx, id)
	}))
}

// Ang fetches an ang with circuit breaker protection.
func (c *CircuitBreakerClient) Ang(ctx context.Context, ang int, source string) (*Ang, error) {
	return castResult[*Ang](c.execute(func() (interface{}, error) {
		return c.api.Ang(ctx, ang, source)
	}))
}

// Random fetches a random shabad with circuit breaker protection.
func (c *CircuitBreakerClient) Random(ctx context.Context, source string) (*Shabad, error) {
	return castResult[*Shabad](c.execute(func() (interface{}, error) {
		return c.api.Random(ctx, source)
	}))
}

// Search runs a search with circuit breaker protection.
func (c *CircuitBreakerClient) Search(ctx context.Context, query string, searchType SearchType) (*SearchResult, error) {
	return castResult[*SearchResult](c.execute(func() (interface{}, error) {
		return c.api.Search(ctx, query, searchType)
	}))
}

// Metadata fetches a metadata listing with circuit breaker protection.
func (c *CircuitBreakerClient) Metadata(ctx context.Context, kind MetadataKind) (Metadata, error) {
	return castResult[Metadata](c.execute(func() (interface{}, error) {
		return c.api.Metadata(ctx, kind)
	}))
}
