// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

/*
Package services adapts application components to suture's Serve pattern.

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Runs ListenAndServe and drains connections on cancellation

Recommendation Engine (RecommendService):
  - Initial build, periodic rebuild and the feedback queue
  - Implements content.RecommenderEvents; like signals are coalesced so a
    burst of likes costs one reweight

Warm-up (WarmupService):
  - Primes the document store from BaniDB once per process
  - Returns suture.ErrDoNotRestart after the pass

WAL (WALRetryLoopService, WALCompactorService):
  - Wrap wal.RetryLoop and wal.Compactor (Start/Stop lifecycle)

Each wrapper implements fmt.Stringer so supervisor events name the service.
*/
package services
