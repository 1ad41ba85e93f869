// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package api

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/deputyrec/internal/cache"
	"github.com/tomtom215/deputyrec/internal/recommend"
)

// Recommender is the query surface the handlers need.
// *recommend.Recommender implements it.
type Recommender interface {
	RecommendByID(id int64, topN int) (*recommend.Response, error)
	RecommendByName(name string, topN int) (*recommend.Response, error)
	Profile(id int64) (*recommend.Profile, error)
	Status() recommend.Status
	Len() int
	DefaultTopN() int
	MaxTopN() int
}

// modelRef boxes the interface so it can live in an atomic.Pointer.
type modelRef struct {
	rec Recommender
}

// HandlerConfig configures the query response cache.
type HandlerConfig struct {
	// ResponseCacheSize is the LRU capacity. Zero disables caching.
	ResponseCacheSize int

	// ResponseCacheTTL bounds how long a cached response is served.
	ResponseCacheTTL time.Duration
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and model wiring (this file)
//   - handlers_helpers.go: response and parameter helpers
//   - handlers_health.go: liveness and readiness probes
//   - handlers_deputies.go: similarity and profile endpoints
type Handler struct {
	model     atomic.Pointer[modelRef]
	responses *cache.LRU[*recommend.Response]
	startTime time.Time
	logger    zerolog.Logger
}

// NewHandler creates a handler with no model. Query endpoints answer 503
// and the readiness probe reports not_ready until SetRecommender is called.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(cfg HandlerConfig, logger zerolog.Logger) *Handler {
	h := &Handler{
		startTime: time.Now(),
		logger:    logger.With().Str("component", "api").Logger(),
	}
	if cfg.ResponseCacheSize > 0 {
		h.responses = cache.NewLRU[*recommend.Response](cfg.ResponseCacheSize, cfg.ResponseCacheTTL)
	}
	return h
}

// SetRecommender installs the model used by query endpoints and drops any
// cached responses computed by the previous one.
//
// Thread Safety: Safe for concurrent access.
func (h *Handler) SetRecommender(rec Recommender) {
	h.model.Store(&modelRef{rec: rec})
	if h.responses != nil {
		h.responses.Clear()
	}
	h.logger.Info().Int("deputies", rec.Len()).Msg("Recommender installed")
}

// recommender returns the current model, or nil before one is installed.
func (h *Handler) recommender() Recommender {
	ref := h.model.Load()
	if ref == nil {
		return nil
	}
	return ref.rec
}

// CacheStats returns response cache counters. ok is false when the cache
// is disabled.
func (h *Handler) CacheStats() (stats cache.Stats, ok bool) {
	if h.responses == nil {
		return cache.Stats{}, false
	}
	return h.responses.Stats(), true
}
