// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

/*
Package main is the entry point for the deputyrec server.

deputyrec serves content-based recommendations of similar legislators
(deputies). It loads a tabular dataset of deputies, cleans and weights
their features, and answers "who is most like this deputy" over HTTP.

# Application Architecture

	RootSupervisor ("deputyrec")
	├── DataSupervisor ("data-layer")
	│   ├── ModelService (dataset → enrichment → recommender, one-shot)
	│   └── EnrichService (optional, ENRICH_REFRESH_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (Chi router)

Startup order:

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Enrichment (optional): BadgerDB label store and OpenAI classifiers
 4. HTTP handler and router; probes answer before the model is ready
 5. Supervisor tree: the model service loads the dataset, derives
    cost_per_proposition, fills missing enrichment labels and builds or
    loads the cached model, then installs it into the handler

If the model cannot be built after three attempts the process exits with
status 1.

# Example Usage

	export DATASET_PATH=/data/gold/deputies.parquet
	export RECOMMEND_CACHE_PATH=/data/model
	./deputyrec

	curl 'localhost:3860/api/v1/deputies/204554/similar?top_n=5'

With LLM enrichment of missing ideology and agenda labels:

	export ENRICH_ENABLED=true
	export OPENAI_API_KEY=sk-...
	export ENRICH_REFRESH_INTERVAL=24h
	./deputyrec

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for up to HTTP_SHUTDOWN_TIMEOUT.
*/
package main
