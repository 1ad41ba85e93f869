// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

/*
Package config provides centralized configuration management for deputyrec.

# Configuration Sources

Configuration is layered with koanf, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, then config.yaml, config.yml,
    /etc/deputyrec/config.yaml and /etc/deputyrec/config.yml
 3. Environment variables, through an explicit name mapping

# Environment Variables

Dataset:
  - DATASET_PATH: CSV or Parquet dataset (required)
  - DATASET_FORMAT: auto, csv or duckdb (default: auto)
  - DATASET_TEXT_COLUMN: proposition text column (default: propositions_list)
  - DATASET_DERIVE_COST: derive cost_per_proposition (default: true)

Recommender:
  - RECOMMEND_CACHE_PATH: model artifact directory (default: /data/model)
  - RECOMMEND_BACKEND: auto, dense or sparse (default: auto)
  - RECOMMEND_DEFAULT_TOP_N / RECOMMEND_MAX_TOP_N (default: 5 / 100)
  - RECOMMEND_EXPLAIN_FIELDS: comma-separated column or column=Label entries
  - RECOMMEND_RESPONSE_CACHE_SIZE / RECOMMEND_RESPONSE_CACHE_TTL

Enrichment:
  - ENRICH_ENABLED: fill missing labels with an LLM (default: false)
  - OPENAI_API_KEY: required when enrichment is enabled
  - OPENAI_BASE_URL / OPENAI_MODEL (default model: gpt-4o-mini)
  - ENRICH_FEATURES: comma-separated (default: ideology,agenda_category)
  - ENRICH_LABEL_STORE_PATH: BadgerDB directory (default: /data/labels)
  - ENRICH_REFRESH_INTERVAL: background refresh, 0 disables

Server and security:
  - HTTP_HOST / HTTP_PORT (default: 0.0.0.0 / 3860)
  - CORS_ORIGINS: comma-separated origins (default: *)
  - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW / DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Validate reports the first invalid setting by its environment variable name.
*/
package config
