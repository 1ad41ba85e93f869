// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package recommend

import (
	"math"

	"github.com/tomtom215/deputyrec/internal/dataset"
	"github.com/tomtom215/deputyrec/internal/recommend/feature"
)

// Clean returns a copy of t with every schema feature imputed:
//
//   - numeric: ±Inf becomes missing, then missing values take the column
//     median; a column with no usable values becomes all zeros
//   - categorical: missing values take the column mode (first seen wins ties)
//
// A schema column absent from t, or a categorical column with no values at
// all, is a *DataIntegrityError. The input table is not modified.
func Clean(t *dataset.Table, schema *feature.Schema) (*dataset.Table, error) {
	for _, name := range schema.NumericFeatures() {
		if _, ok := t.Numeric(name); !ok {
			return nil, missingColumn(t, name, "numeric")
		}
	}
	for _, name := range schema.CategoricalFeatures() {
		if _, ok := t.String(name); !ok {
			return nil, missingColumn(t, name, "categorical")
		}
	}

	out := t.Clone()

	for _, name := range schema.NumericFeatures() {
		col, _ := out.Numeric(name)
		for i, v := range col {
			if math.IsInf(v, 0) {
				col[i] = math.NaN()
			}
		}

		fill := median(present(col))
		if math.IsNaN(fill) {
			fill = 0
		}
		for i, v := range col {
			if dataset.IsMissing(v) {
				col[i] = fill
			}
		}
	}

	for _, name := range schema.CategoricalFeatures() {
		col, _ := out.String(name)
		fill, ok := mode(col)
		if !ok {
			return nil, &DataIntegrityError{Column: name, Reason: "column is fully unusable after cleaning"}
		}
		for i, v := range col {
			if v == "" {
				col[i] = fill
			}
		}
	}

	return out, nil
}

func missingColumn(t *dataset.Table, name, kind string) error {
	if t.HasColumn(name) {
		return &DataIntegrityError{Column: name, Reason: "expected a " + kind + " column"}
	}
	return &DataIntegrityError{Column: name, Reason: "missing from dataset"}
}
