// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package recommend

import "github.com/tomtom215/deputyrec/internal/recommend/feature"

// tierWeights returns the per-column weight derived from each column's tier.
func tierWeights(cols []feature.Column) []float64 {
	weights := make([]float64, len(cols))
	for j, c := range cols {
		weights[j] = c.ColumnTier().Weight()
	}
	return weights
}

// applyTierWeights scales every column of pm by its tier weight.
// It must run exactly once per matrix; buildModel is the only caller.
func applyTierWeights(pm *ProcessedMatrix) error {
	return pm.Matrix.ScaleColumns(tierWeights(pm.Columns))
}
