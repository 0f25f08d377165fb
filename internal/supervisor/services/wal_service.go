// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package services

import (
	"context"
	"fmt"
)

// WALStartStopper matches the lifecycle of *wal.RetryLoop and *wal.Compactor.
type WALStartStopper interface {
	Start(ctx context.Context) error
	Stop()
	IsRunning() bool
}

// startStopService adapts a Start/Stop component to Serve.
type startStopService struct {
	component WALStartStopper
	name      string
}

// Serve starts the component, blocks until ctx is canceled, then stops it.
// A Start failure is returned so the supervisor retries with backoff.
func (s *startStopService) Serve(ctx context.Context) error {
	if err := s.component.Start(ctx); err != nil {
		return fmt.Errorf("%s start failed: %w", s.name, err)
	}
	<-ctx.Done()
	s.component.Stop()
	return ctx.Err()
}

func (s *startStopService) String() string {
	return s.name
}

// WALRetryLoopService supervises the loop that stores pending interactions.
//
//	loop := wal.NewRetryLoop(w, walLogger)
//	tree.AddDataService(services.NewWALRetryLoopService(loop))
type WALRetryLoopService struct {
	startStopService
}

// NewWALRetryLoopService wraps retryLoop.
func NewWALRetryLoopService(retryLoop WALStartStopper) *WALRetryLoopService {
	return &WALRetryLoopService{startStopService{component: retryLoop, name: "wal-retry-loop"}}
}

// WALCompactorService supervises confirmed-entry cleanup and value log GC.
type WALCompactorService struct {
	startStopService
}

// NewWALCompactorService wraps compactor.
func NewWALCompactorService(compactor WALStartStopper) *WALCompactorService {
	return &WALCompactorService{startStopService{component: compactor, name: "wal-compactor"}}
}
