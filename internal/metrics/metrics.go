// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Model cache event labels.
const (
	CacheEventHit     = "hit"
	CacheEventMiss    = "miss"
	CacheEventCorrupt = "corrupt"
	CacheEventWrite   = "write"
	CacheEventError   = "error"
)

// Circuit breaker state values exported by CircuitBreakerState.
const (
	BreakerClosed   = 0
	BreakerHalfOpen = 1
	BreakerOpen     = 2
)

var (
	// Model Metrics
	ModelBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deputyrec_model_build_duration_seconds",
			Help:    "Time to obtain a ready similarity model",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"source"}, // "cache", "build"
	)

	ModelCacheEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deputyrec_model_cache_events_total",
			Help: "Model artifact cache events",
		},
		[]string{"event"}, // "hit", "miss", "corrupt", "write", "error"
	)

	DatasetRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "deputyrec_dataset_rows",
			Help: "Number of deputies in the loaded model",
		},
	)

	FeatureColumns = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "deputyrec_feature_columns",
			Help: "Number of preprocessed feature columns",
		},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deputyrec_recommendation_requests_total",
			Help: "Similarity queries by lookup type and outcome",
		},
		[]string{"lookup", "outcome"}, // lookup: "id", "name"; outcome: "success", "not_found", "error"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deputyrec_recommendation_duration_seconds",
			Help:    "Similarity query latency",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"lookup"},
	)

	// Enrichment Metrics
	EnrichmentCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deputyrec_enrichment_calls_total",
			Help: "Classification calls by feature, source and outcome",
		},
		[]string{"feature", "source", "outcome"}, // outcome: "labeled", "no_label", "error"
	)

	EnrichmentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deputyrec_enrichment_duration_seconds",
			Help:    "Classification call latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	EnrichmentLastRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "deputyrec_enrichment_last_run_timestamp",
			Help: "Unix timestamp of the last completed enrichment refresh",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "deputyrec_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Response Cache Metrics
	ResponseCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deputyrec_response_cache_hits_total",
			Help: "Similarity responses served from the in-memory cache",
		},
	)

	ResponseCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deputyrec_response_cache_misses_total",
			Help: "Similarity responses computed on demand",
		},
	)
)

// RecordModelReady records how long it took to obtain a ready model and the
// resulting model size.
func RecordModelReady(source string, duration time.Duration, rows, cols int) {
	ModelBuildDuration.WithLabelValues(source).Observe(duration.Seconds())
	DatasetRows.Set(float64(rows))
	FeatureColumns.Set(float64(cols))
}

// RecordModelCacheEvent records a model artifact cache event.
func RecordModelCacheEvent(event string) {
	ModelCacheEvents.WithLabelValues(event).Inc()
}

// RecordRecommendation records a similarity query.
func RecordRecommendation(lookup, outcome string, duration time.Duration) {
	RecommendationRequests.WithLabelValues(lookup, outcome).Inc()
	RecommendationDuration.WithLabelValues(lookup).Observe(duration.Seconds())
}

// RecordEnrichmentCall records one classification attempt.
func RecordEnrichmentCall(feature, source, outcome string, duration time.Duration) {
	EnrichmentCalls.WithLabelValues(feature, source, outcome).Inc()
	EnrichmentDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordEnrichmentRun marks the completion of an enrichment refresh.
func RecordEnrichmentRun() {
	EnrichmentLastRun.Set(float64(time.Now().Unix()))
}

// SetCircuitBreakerState exports the state of a named circuit breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordResponseCache records a response cache lookup.
func RecordResponseCache(hit bool) {
	if hit {
		ResponseCacheHits.Inc()
	} else {
		ResponseCacheMisses.Inc()
	}
}
