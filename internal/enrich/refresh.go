// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package enrich

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/deputyrec/internal/dataset"
	"github.com/tomtom215/deputyrec/internal/metrics"
)

// Target pairs a feature column with the provider that labels it.
type Target struct {
	Feature  string
	Provider Provider
}

// Refresher runs every target over a private copy of the dataset. With
// caching providers this warms the label store for the next model build
// without touching the running model.
type Refresher struct {
	table      *dataset.Table
	targets    []Target
	textColumn string
	logger     zerolog.Logger

	mu        sync.Mutex
	lastStats []ApplyStats
}

// NewRefresher creates a refresher. table is cloned on every run and never modified.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRefresher(table *dataset.Table, targets []Target, textColumn string, logger zerolog.Logger) *Refresher {
	if textColumn == "" {
		textColumn = DefaultTextColumn
	}
	return &Refresher{
		table:      table,
		targets:    targets,
		textColumn: textColumn,
		logger:     logger.With().Str("component", "enrich").Logger(),
	}
}

// Refresh runs one pass over all targets.
func (r *Refresher) Refresh(ctx context.Context) error {
	work := r.table.Clone()
	stats := make([]ApplyStats, 0, len(r.targets))

	for _, target := range r.targets {
		s, err := Apply(ctx, work, target.Feature, r.textColumn, target.Provider, r.logger)
		if err != nil {
			return fmt.Errorf("refresh %s: %w", target.Feature, err)
		}
		stats = append(stats, s)
	}

	r.mu.Lock()
	r.lastStats = stats
	r.mu.Unlock()
	metrics.RecordEnrichmentRun()
	return nil
}

// LastStats returns the statistics of the last successful run.
func (r *Refresher) LastStats() []ApplyStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ApplyStats, len(r.lastStats))
	copy(out, r.lastStats)
	return out
}
