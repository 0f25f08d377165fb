// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to run the real backing stores the
// service depends on, so repository and cache tests exercise actual wire
// behaviour instead of mocks.
//
// # Containers
//
//   - MongoContainer: standalone MongoDB for internal/database
//   - RedisContainer: Redis for the internal/cache RedisStore
//
// # Usage
//
//	func TestShabadRepository(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//
//	    mongo, err := testinfra.NewMongoContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mongo)
//	    // ...
//	}
//
// # Build Tags
//
// All files in this package carry the integration build tag:
//
//	go test -tags integration ./...
//
// Tests are skipped gracefully if Docker is unavailable.
package testinfra
