// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

/*
Package supervisor runs the long-lived parts of the service under suture v4.

Services are grouped into three child supervisors so a failing layer
restarts on its own without taking the others down:

	RootSupervisor ("baniai")
	├── DataSupervisor ("data-layer")
	│   ├── WALRetryLoopService (if WAL_ENABLED)
	│   └── WALCompactorService (if WAL_ENABLED)
	├── RecommendSupervisor ("recommend-layer")
	│   ├── RecommendService
	│   └── WarmupService (if WARMUP_ENABLED, runs once)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (start, stop, backoff, panics) are logged through the
sutureslog adapter.

# Usage

	tree, err := supervisor.NewSupervisorTree(slogger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddRecommendService(recSvc)
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

See the services subpackage for the individual wrappers.
*/
package supervisor
