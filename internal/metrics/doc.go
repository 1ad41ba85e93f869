// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Model Metrics:
  - deputyrec_model_build_duration_seconds: Time to a ready model (histogram)
    Labels: source (cache, build)
  - deputyrec_model_cache_events_total: Artifact cache events (counter)
    Labels: event (hit, miss, corrupt, write, error)
  - deputyrec_dataset_rows: Deputies in the model (gauge)
  - deputyrec_feature_columns: Preprocessed feature columns (gauge)

Recommendation Metrics:
  - deputyrec_recommendation_requests_total: Queries (counter)
    Labels: lookup (id, name), outcome (success, not_found, error)
  - deputyrec_recommendation_duration_seconds: Query latency (histogram)
  - deputyrec_response_cache_hits_total / _misses_total: Response cache (counters)

Enrichment Metrics:
  - deputyrec_enrichment_calls_total: Classification calls (counter)
    Labels: feature, source (store, openai, static), outcome (labeled, no_label, error)
  - deputyrec_enrichment_duration_seconds: Classification latency (histogram)
  - deputyrec_enrichment_last_run_timestamp: Last refresh (gauge)
  - deputyrec_circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
    Labels: name

HTTP Metrics:
  - api_requests_total: Requests (counter)
    Labels: method, endpoint (chi route pattern), status_code
  - api_request_duration_seconds: Latency (histogram)
  - api_active_requests: In-flight requests (gauge)

# Usage

	start := time.Now()
	resp, err := rec.RecommendByID(id, topN)
	metrics.RecordRecommendation("id", outcome, time.Since(start))
*/
package metrics
