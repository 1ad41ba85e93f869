// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/deputyrec/internal/metrics"
)

// CachingProvider answers from the label store first and falls back to an
// upstream provider, persisting whatever the upstream returns.
type CachingProvider struct {
	store    *LabelStore
	upstream Provider
	feature  string
	source   string
	logger   zerolog.Logger
}

// NewCachingProvider wraps upstream. source names the upstream in stored
// labels and metrics (for example "openai").
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCachingProvider(store *LabelStore, upstream Provider, feature, source string, logger zerolog.Logger) *CachingProvider {
	return &CachingProvider{
		store:    store,
		upstream: upstream,
		feature:  feature,
		source:   source,
		logger:   logger.With().Str("component", "enrich").Str("feature", feature).Logger(),
	}
}

// Classify implements Provider.
func (p *CachingProvider) Classify(ctx context.Context, e Entity) (string, bool, error) {
	start := time.Now()
	stored, ok, err := p.store.Get(ctx, p.feature, e.ID)
	if err != nil {
		return "", false, fmt.Errorf("read label store: %w", err)
	}
	if ok {
		metrics.RecordEnrichmentCall(p.feature, "store", "labeled", time.Since(start))
		return stored.Value, true, nil
	}

	label, ok, err := p.upstream.Classify(ctx, e)
	if err != nil || !ok {
		return "", false, err
	}

	if err := p.store.Put(ctx, Label{DeputyID: e.ID, Feature: p.feature, Value: label, Source: p.source}); err != nil {
		// The label is still usable for this run.
		p.logger.Warn().Err(err).Int64("deputy_id", e.ID).Msg("failed to persist label")
	}
	return label, true, nil
}
