// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

/*
Package supervisor provides process supervision for deputyrec using suture v4.

# Overview

Services are organized into two layers for failure isolation:

	RootSupervisor ("deputyrec")
	├── DataSupervisor ("data-layer")
	│   ├── ModelService (one-shot: dataset load, enrichment, model build)
	│   └── EnrichService (if ENRICH_ENABLED and ENRICH_REFRESH_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

The HTTP server starts immediately. Until the model service installs a
model, query endpoints answer 503 and the readiness probe reports
not_ready.

# Logging

Supervisor events (service start, failure, backoff) are logged through a
*slog.Logger via sutureslog. Use logging.NewSlogLogger to route them
through zerolog.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewModelService(load, services.ModelServiceConfig{}, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 30*time.Second, logger))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}
*/
package supervisor
