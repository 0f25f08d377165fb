// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package content

import "errors"

var (
	// ErrInvalidInput is returned for non-positive IDs and malformed sources.
	ErrInvalidInput = errors.New("content: invalid input")

	// ErrNotFound is returned when an item is neither stored nor available upstream.
	ErrNotFound = errors.New("content: not found")

	// ErrUpstream is returned when BaniDB fails for an item that is only
	// available upstream, such as a random shabad.
	ErrUpstream = errors.New("content: upstream unavailable")
)

// Source says where a lookup result came from.
type Source string

const (
	SourceStore    Source = "store"
	SourceUpstream Source = "upstream"
)

// Result is the outcome of a lookup.
type Result[T any] struct {
	Value  T
	Source Source
	Err    error
}

// Cached reports whether the value was served from the document store.
func (r Result[T]) Cached() bool {
	return r.Source == SourceStore
}

// Unwrap returns the value and error.
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

func failed[T any](err error) Result[T] {
	return Result[T]{Err: err}
}
