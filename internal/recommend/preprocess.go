// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package recommend

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/deputyrec/internal/dataset"
	"github.com/tomtom215/deputyrec/internal/recommend/feature"
	"github.com/tomtom215/deputyrec/internal/recommend/matrix"
)

// ProcessedMatrix is the preprocessed feature matrix. Row i corresponds to
// row i of the source table; Columns[j] describes matrix column j.
type ProcessedMatrix struct {
	Matrix  matrix.Matrix
	Columns []feature.Column
}

// numericParams holds the fitted statistics of one numeric feature.
type numericParams struct {
	name   string
	tier   feature.Tier
	median float64
	mean   float64
	std    float64
}

// categoricalParams holds the fitted vocabulary of one categorical feature.
type categoricalParams struct {
	name       string
	tier       feature.Tier
	mode       string
	categories []string
	index      map[string]int
}

// Preprocessor turns a table into a numeric feature matrix. Numeric
// features are median-imputed and standardized with the population standard
// deviation; categorical features are mode-imputed and one-hot encoded with
// categories in lexicographic order. Numeric columns come first.
type Preprocessor struct {
	schema      *feature.Schema
	backend     matrix.Backend
	threshold   float64
	numeric     []numericParams
	categorical []categoricalParams
	fitted      bool
}

// NewPreprocessor creates an unfitted preprocessor.
func NewPreprocessor(schema *feature.Schema, backend matrix.Backend, densityThreshold float64) *Preprocessor {
	return &Preprocessor{schema: schema, backend: backend, threshold: densityThreshold}
}

// Fit learns imputation values, standardization statistics and category
// vocabularies from t.
func (p *Preprocessor) Fit(t *dataset.Table) error {
	p.numeric = p.numeric[:0]
	p.categorical = p.categorical[:0]

	for _, name := range p.schema.NumericFeatures() {
		col, ok := t.Numeric(name)
		if !ok {
			return &DataIntegrityError{Column: name, Reason: "missing from dataset"}
		}

		med := median(present(col))
		if math.IsNaN(med) {
			med = 0
		}
		imputed := make([]float64, len(col))
		for i, v := range col {
			if dataset.IsMissing(v) || math.IsInf(v, 0) {
				v = med
			}
			imputed[i] = v
		}

		params := numericParams{name: name, tier: p.schema.Lookup(name), median: med}
		if len(imputed) > 0 {
			params.mean, params.std = stat.PopMeanStdDev(imputed, nil)
		}
		p.numeric = append(p.numeric, params)
	}

	for _, name := range p.schema.CategoricalFeatures() {
		col, ok := t.String(name)
		if !ok {
			return &DataIntegrityError{Column: name, Reason: "missing from dataset"}
		}

		fill, _ := mode(col)
		seen := make(map[string]struct{})
		for _, v := range col {
			if v == "" {
				v = fill
			}
			if v != "" {
				seen[v] = struct{}{}
			}
		}
		categories := make([]string, 0, len(seen))
		for v := range seen {
			categories = append(categories, v)
		}
		slices.Sort(categories)

		index := make(map[string]int, len(categories))
		for i, c := range categories {
			index[c] = i
		}
		p.categorical = append(p.categorical, categoricalParams{
			name:       name,
			tier:       p.schema.Lookup(name),
			mode:       fill,
			categories: categories,
			index:      index,
		})
	}

	p.fitted = true
	return nil
}

// Columns returns the output column provenance. Fit must have been called.
func (p *Preprocessor) Columns() []feature.Column {
	var cols []feature.Column
	for _, np := range p.numeric {
		cols = append(cols, feature.NumericColumn{Source: np.name, Tier: np.tier})
	}
	for _, cp := range p.categorical {
		for _, c := range cp.categories {
			cols = append(cols, feature.CategoricalColumn{Source: cp.name, Category: c, Tier: cp.tier})
		}
	}
	return cols
}

// Transform applies the fitted parameters to t. Categories not seen during
// Fit encode as all zeros.
func (p *Preprocessor) Transform(t *dataset.Table) (*ProcessedMatrix, error) {
	if !p.fitted {
		return nil, errors.New("preprocessor is not fitted")
	}

	columns := p.Columns()
	rows, cols := t.Len(), len(columns)
	data := make([]float64, rows*cols)

	for j, np := range p.numeric {
		col, ok := t.Numeric(np.name)
		if !ok {
			return nil, &DataIntegrityError{Column: np.name, Reason: "missing from dataset"}
		}
		if np.std == 0 {
			continue
		}
		for i, v := range col {
			if dataset.IsMissing(v) || math.IsInf(v, 0) {
				v = np.median
			}
			data[i*cols+j] = (v - np.mean) / np.std
		}
	}

	offset := len(p.numeric)
	for _, cp := range p.categorical {
		col, ok := t.String(cp.name)
		if !ok {
			return nil, &DataIntegrityError{Column: cp.name, Reason: "missing from dataset"}
		}
		for i, v := range col {
			if v == "" {
				v = cp.mode
			}
			if k, ok := cp.index[v]; ok {
				data[i*cols+offset+k] = 1
			}
		}
		offset += len(cp.categories)
	}

	m, err := matrix.New(rows, cols, data, p.backend, p.threshold)
	if err != nil {
		return nil, fmt.Errorf("build feature matrix: %w", err)
	}
	return &ProcessedMatrix{Matrix: m, Columns: columns}, nil
}

// FitTransform is Fit followed by Transform on the same table.
func (p *Preprocessor) FitTransform(t *dataset.Table) (*ProcessedMatrix, error) {
	if err := p.Fit(t); err != nil {
		return nil, err
	}
	return p.Transform(t)
}
