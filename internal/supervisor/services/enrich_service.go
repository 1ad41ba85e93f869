// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Refresher runs one enrichment pass. *enrich.Refresher implements it.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// EnrichServiceConfig holds configuration for the enrichment refresh service.
type EnrichServiceConfig struct {
	// Interval between refresh passes. Must be positive.
	Interval time.Duration

	// RunTimeout bounds a single pass. Zero means 30 minutes.
	RunTimeout time.Duration
}

// EnrichService periodically labels deputies missing an enrichment value so
// the label store is warm for the next model build. The running model is
// never modified.
type EnrichService struct {
	refresher Refresher
	config    EnrichServiceConfig
	logger    zerolog.Logger
	name      string
}

// NewEnrichService creates a new enrichment refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEnrichService(refresher Refresher, cfg EnrichServiceConfig, logger zerolog.Logger) *EnrichService {
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 30 * time.Minute
	}
	return &EnrichService{
		refresher: refresher,
		config:    cfg,
		logger:    logger.With().Str("service", "enrich").Logger(),
		name:      "enrich-refresh",
	}
}

// Serve implements suture.Service. A failed pass is logged and retried on
// the next tick.
func (s *EnrichService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.config.Interval).Msg("Enrichment refresh service starting")

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Enrichment refresh service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *EnrichService) refresh(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	start := time.Now()
	if err := s.refresher.Refresh(runCtx); err != nil {
		s.logger.Warn().Err(err).Msg("Enrichment refresh failed")
		return
	}
	s.logger.Info().Dur("duration", time.Since(start)).Msg("Enrichment refresh complete")
}

// String returns the service name for logging.
func (s *EnrichService) String() string {
	return s.name
}
