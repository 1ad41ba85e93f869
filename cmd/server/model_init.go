// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package main

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/deputyrec/internal/api"
	"github.com/tomtom215/deputyrec/internal/config"
	"github.com/tomtom215/deputyrec/internal/dataset"
	"github.com/tomtom215/deputyrec/internal/enrich"
	"github.com/tomtom215/deputyrec/internal/recommend"
	"github.com/tomtom215/deputyrec/internal/recommend/feature"
	"github.com/tomtom215/deputyrec/internal/recommend/matrix"
	"github.com/tomtom215/deputyrec/internal/supervisor"
	"github.com/tomtom215/deputyrec/internal/supervisor/services"
)

// modelLoader runs the load pipeline: dataset, derived columns, enrichment,
// then the recommender. The result is installed into the API handler.
type modelLoader struct {
	cfg        *config.Config
	handler    *api.Handler
	enrichment *enrichComponents
	tree       *supervisor.SupervisorTree
	logger     zerolog.Logger

	refreshOnce sync.Once
}

// Load implements services.ModelLoader.
func (l *modelLoader) Load(ctx context.Context) error {
	schema, err := buildSchema(l.cfg.Recommend.Features)
	if err != nil {
		return err
	}

	raw, err := dataset.Load(ctx, l.cfg.Dataset.Path, l.cfg.Dataset.Format, datasetColumns(schema, l.cfg))
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", l.cfg.Dataset.Path, recommend.AsDataIntegrity(err))
	}
	l.logger.Info().Int("rows", raw.Len()).Str("path", l.cfg.Dataset.Path).Msg("Dataset loaded")

	if l.cfg.Dataset.DeriveCost {
		added, err := dataset.DeriveCostPerProposition(raw)
		if err != nil {
			return fmt.Errorf("derive %s: %w", dataset.CostPerPropositionColumn, err)
		}
		if added {
			l.logger.Debug().Str("column", dataset.CostPerPropositionColumn).Msg("Derived column added")
		}
	}

	if err := l.enrichment.apply(ctx, raw, schema, l.cfg.Dataset.TextColumn, l.logger); err != nil {
		return err
	}

	rc, err := buildRecommendConfig(l.cfg, schema)
	if err != nil {
		return err
	}
	rec, err := recommend.New(ctx, rc, raw, l.logger)
	if err != nil {
		return fmt.Errorf("build recommender: %w", err)
	}
	l.handler.SetRecommender(rec)

	l.startRefresh(raw, schema)
	return nil
}

// startRefresh adds the enrichment refresh service once a dataset is known.
func (l *modelLoader) startRefresh(raw *dataset.Table, schema *feature.Schema) {
	if !l.enrichment.enabled() || l.cfg.Enrich.RefreshInterval <= 0 {
		return
	}
	l.refreshOnce.Do(func() {
		targets := l.enrichment.targetsFor(schema, l.logger)
		if len(targets) == 0 {
			return
		}
		refresher := enrich.NewRefresher(raw, targets, l.cfg.Dataset.TextColumn, l.logger)
		l.tree.AddDataService(services.NewEnrichService(refresher, services.EnrichServiceConfig{
			Interval: l.cfg.Enrich.RefreshInterval,
		}, l.logger))
	})
}

// buildSchema returns the configured feature schema, or the built-in one
// when no override is set.
func buildSchema(features []config.FeatureConfig) (*feature.Schema, error) {
	if len(features) == 0 {
		return feature.DefaultSchema(), nil
	}

	descriptors := make([]feature.Descriptor, len(features))
	for i, f := range features {
		kind, err := feature.ParseKind(f.Kind)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", f.Name, err)
		}
		tier, err := feature.ParseTier(f.Tier)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", f.Name, err)
		}
		descriptors[i] = feature.Descriptor{Name: strings.TrimSpace(f.Name), Kind: kind, Tier: tier}
	}

	schema, err := feature.NewSchema(descriptors...)
	if err != nil {
		return nil, fmt.Errorf("invalid feature schema: %w", err)
	}
	return schema, nil
}

// datasetColumns lists the columns to read: the schema features, the inputs
// of derived columns and the enrichment text column.
func datasetColumns(schema *feature.Schema, cfg *config.Config) dataset.Columns {
	cols := schema.Columns()
	if cfg.Dataset.DeriveCost && !slices.Contains(cols.Numeric, dataset.TotalExpensesColumn) {
		cols.Numeric = append(cols.Numeric, dataset.TotalExpensesColumn)
	}
	if cfg.Enrich.Enabled && cfg.Dataset.TextColumn != "" && !slices.Contains(cols.String, cfg.Dataset.TextColumn) {
		cols.String = append(cols.String, cfg.Dataset.TextColumn)
	}
	return cols
}

// buildRecommendConfig maps the recommend settings onto recommend.Config.
func buildRecommendConfig(cfg *config.Config, schema *feature.Schema) (*recommend.Config, error) {
	backend, err := matrix.ParseBackend(cfg.Recommend.Backend)
	if err != nil {
		return nil, err
	}

	rc := recommend.DefaultConfig()
	rc.Schema = schema
	rc.CachePath = cfg.Recommend.CachePath
	rc.Backend = backend
	rc.SparseDensityThreshold = cfg.Recommend.SparseDensityThreshold
	rc.LockTimeout = cfg.Recommend.LockTimeout
	rc.DefaultTopN = cfg.Recommend.DefaultTopN
	rc.MaxTopN = cfg.Recommend.MaxTopN

	if fields := cfg.Recommend.ParsedExplainFields(); len(fields) > 0 {
		rc.ExplainFields = make([]recommend.ExplainField, len(fields))
		for i, f := range fields {
			rc.ExplainFields[i] = recommend.ExplainField{Name: f.Name, Label: f.Label}
		}
	}

	if err := rc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recommend configuration: %w", err)
	}
	return rc, nil
}
