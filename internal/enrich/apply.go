// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package enrich

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/tomtom215/deputyrec/internal/dataset"
)

// DefaultTextColumn holds the proposition text sent to providers.
const DefaultTextColumn = "propositions_list"

// ApplyStats summarizes one Apply run.
type ApplyStats struct {
	Feature   string `json:"feature"`
	Missing   int    `json:"missing"`
	Labeled   int    `json:"labeled"`
	Unlabeled int    `json:"unlabeled"`
	Failed    int    `json:"failed"`
}

// Apply fills the missing values of the categorical column feature in t with
// labels from provider. Existing values are never overwritten. If t has no
// such column, one is added. Entity text is read from textColumn when present.
//
// Provider errors are logged and counted; the row stays missing and is
// imputed by the cleaner later. Only context cancellation aborts the run.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Apply(ctx context.Context, t *dataset.Table, feature, textColumn string, provider Provider, logger zerolog.Logger) (ApplyStats, error) {
	stats := ApplyStats{Feature: feature}

	values, ok := t.String(feature)
	if !ok {
		if t.HasColumn(feature) {
			return stats, fmt.Errorf("column %q is not categorical", feature)
		}
		values = make([]string, t.Len())
	}
	values = slices.Clone(values)
	texts, _ := t.String(textColumn)

	// Duplicate ids are classified once.
	resolved := make(map[int64]string)
	for i := range values {
		if values[i] != "" {
			continue
		}
		stats.Missing++

		id := t.ID(i)
		if label, seen := resolved[id]; seen {
			values[i] = label
			if label != "" {
				stats.Labeled++
			} else {
				stats.Unlabeled++
			}
			continue
		}

		e := Entity{ID: id, Name: t.Name(i)}
		if texts != nil {
			e.Text = texts[i]
		}

		label, ok, err := provider.Classify(ctx, e)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.Failed++
			logger.Warn().Err(err).Str("feature", feature).Int64("deputy_id", id).Msg("classification failed")
			continue
		}
		if !ok {
			label = ""
			stats.Unlabeled++
		} else {
			stats.Labeled++
		}
		resolved[id] = label
		values[i] = label
	}

	if err := t.SetString(feature, values); err != nil {
		return stats, fmt.Errorf("set column %s: %w", feature, err)
	}

	logger.Info().
		Str("feature", feature).
		Int("missing", stats.Missing).
		Int("labeled", stats.Labeled).
		Int("unlabeled", stats.Unlabeled).
		Int("failed", stats.Failed).
		Msg("enrichment applied")
	return stats, nil
}
