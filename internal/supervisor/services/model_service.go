// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// ModelLoader loads the dataset, builds the model and installs it.
type ModelLoader func(ctx context.Context) error

// ModelServiceConfig holds configuration for the model service.
type ModelServiceConfig struct {
	// MaxAttempts bounds how many times a failed load is retried by the
	// supervisor. Zero means 3.
	MaxAttempts int

	// Timeout bounds a single load. Zero means no limit.
	Timeout time.Duration

	// OnGiveUp is called once MaxAttempts loads have failed.
	OnGiveUp func(err error)
}

// ModelService loads the model once in the background so the HTTP server can
// answer health probes while a large dataset is processed.
//
// A failed load returns its error and the supervisor restarts the service
// with backoff. After a successful load the service returns
// suture.ErrDoNotRestart.
type ModelService struct {
	load     ModelLoader
	config   ModelServiceConfig
	logger   zerolog.Logger
	attempts atomic.Int32
	name     string
}

// NewModelService creates a model loading service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewModelService(load ModelLoader, cfg ModelServiceConfig, logger zerolog.Logger) *ModelService {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &ModelService{
		load:   load,
		config: cfg,
		logger: logger.With().Str("service", "model").Logger(),
		name:   "model-loader",
	}
}

// Serve implements suture.Service.
func (s *ModelService) Serve(ctx context.Context) error {
	attempt := int(s.attempts.Add(1))

	loadCtx := ctx
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	s.logger.Info().Int("attempt", attempt).Msg("Loading similarity model")

	err := s.load(loadCtx)
	if err == nil {
		s.logger.Info().Dur("duration", time.Since(start)).Msg("Similarity model ready")
		return suture.ErrDoNotRestart
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if attempt >= s.config.MaxAttempts {
		s.logger.Error().Err(err).Int("attempts", attempt).Msg("Giving up on model load")
		if s.config.OnGiveUp != nil {
			s.config.OnGiveUp(err)
		}
		return suture.ErrDoNotRestart
	}

	s.logger.Warn().Err(err).Int("attempt", attempt).Msg("Model load failed, will retry")
	return fmt.Errorf("load model: %w", err)
}

// Attempts returns how many loads have been started.
func (s *ModelService) Attempts() int {
	return int(s.attempts.Load())
}

// String implements fmt.Stringer for logging.
func (s *ModelService) String() string {
	return s.name
}
