// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/deputyrec/internal/config"
	"github.com/tomtom215/deputyrec/internal/dataset"
	"github.com/tomtom215/deputyrec/internal/enrich"
	"github.com/tomtom215/deputyrec/internal/logging"
	"github.com/tomtom215/deputyrec/internal/recommend/feature"
)

// enrichComponents holds the label store and one caching OpenAI provider
// per enriched feature. The zero value means enrichment is disabled.
type enrichComponents struct {
	store   *enrich.LabelStore
	targets []enrich.Target
}

// initEnrichment opens the label store and builds the providers when
// ENRICH_ENABLED is set.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initEnrichment(cfg *config.Config, logger zerolog.Logger) (*enrichComponents, error) {
	if !cfg.Enrich.Enabled {
		logger.Info().Msg("Enrichment disabled (ENRICH_ENABLED=false)")
		return &enrichComponents{}, nil
	}

	store, err := enrich.OpenLabelStore(cfg.Enrich.LabelStorePath)
	if err != nil {
		return nil, err
	}

	oc := openAIConfig(cfg.Enrich)
	targets := make([]enrich.Target, 0, len(cfg.Enrich.Features))
	for _, name := range cfg.Enrich.Features {
		labels, err := enrich.LabelSetFor(name)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		provider, err := enrich.NewOpenAIProvider(oc, labels, logger)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("create provider for %s: %w", name, err)
		}
		targets = append(targets, enrich.Target{
			Feature:  name,
			Provider: enrich.NewCachingProvider(store, provider, name, "openai", logger),
		})
	}

	logger.Info().
		Strs("features", cfg.Enrich.Features).
		Str("model", oc.Model).
		Str("label_store", cfg.Enrich.LabelStorePath).
		Msg("Enrichment enabled")

	return &enrichComponents{store: store, targets: targets}, nil
}

// openAIConfig maps the enrich settings onto enrich.OpenAIConfig.
func openAIConfig(ec config.EnrichConfig) enrich.OpenAIConfig {
	oc := enrich.DefaultOpenAIConfig()
	oc.APIKey = ec.APIKey
	oc.BaseURL = ec.BaseURL
	if ec.Model != "" {
		oc.Model = ec.Model
	}
	oc.Timeout = ec.Timeout
	oc.MaxRetries = ec.MaxRetries
	oc.RequestsPerSecond = ec.RequestsPerSecond
	oc.Burst = ec.Burst
	oc.BreakerFailures = ec.BreakerFailures
	oc.BreakerTimeout = ec.BreakerTimeout
	oc.MaxInputChars = ec.MaxInputChars
	return oc
}

func (e *enrichComponents) enabled() bool {
	return e != nil && len(e.targets) > 0
}

// targetsFor returns the targets whose feature the schema declares as
// categorical. Labels for any other column would never reach the model.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *enrichComponents) targetsFor(schema *feature.Schema, logger zerolog.Logger) []enrich.Target {
	if !e.enabled() {
		return nil
	}
	targets := make([]enrich.Target, 0, len(e.targets))
	for _, target := range e.targets {
		d, ok := schema.Descriptor(target.Feature)
		if !ok || d.Kind != feature.KindCategorical {
			logger.Warn().Str("feature", target.Feature).Msg("Enrichment feature is not a categorical schema feature, skipping")
			continue
		}
		targets = append(targets, target)
	}
	return targets
}

// apply fills missing enrichment values in t for the schema's categorical
// features. Provider failures leave values missing; only cancellation stops
// the run.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *enrichComponents) apply(ctx context.Context, t *dataset.Table, schema *feature.Schema, textColumn string, logger zerolog.Logger) error {
	for _, target := range e.targetsFor(schema, logger) {
		stats, err := enrich.Apply(ctx, t, target.Feature, textColumn, target.Provider, logger)
		if err != nil {
			return fmt.Errorf("enrich %s: %w", target.Feature, err)
		}
		logger.Info().
			Str("feature", stats.Feature).
			Int("missing", stats.Missing).
			Int("labeled", stats.Labeled).
			Int("failed", stats.Failed).
			Msg("Enrichment applied")
	}
	return nil
}

// Close releases the label store.
func (e *enrichComponents) Close() {
	if e == nil || e.store == nil {
		return
	}
	if err := e.store.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing label store")
	}
}
