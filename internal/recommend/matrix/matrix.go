// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

// Package matrix provides the feature matrix backends used by the
// recommender and the exact all-pairs cosine similarity over them.
//
// Two backends implement Matrix:
//
//   - Dense: gonum mat.Dense, best when most cells are non-zero
//   - Sparse: compressed sparse row (CSR), best for wide one-hot blocks
//
// Both produce identical similarity matrices for identical input.
package matrix

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a row-major feature matrix. Rows are entities, columns are
// preprocessed features.
type Matrix interface {
	// Dims returns the number of rows and columns.
	Dims() (rows, cols int)

	// At returns the value at row i, column j.
	At(i, j int) float64

	// NNZ returns the number of stored non-zero values.
	NNZ() int

	// ScaleColumns multiplies column j by weights[j] in place.
	ScaleColumns(weights []float64) error

	// CosineSimilarityAll returns the symmetric n×n matrix of row cosine
	// similarities. All-zero rows have similarity 0 with every row,
	// including themselves. Non-zero rows have exactly 1 on the diagonal.
	CosineSimilarityAll() *mat.SymDense

	// State returns a serializable snapshot of the matrix.
	State() State
}

// Backend selects the matrix representation.
type Backend string

// Available backends.
const (
	BackendAuto   Backend = "auto"
	BackendDense  Backend = "dense"
	BackendSparse Backend = "sparse"
)

// DefaultDensityThreshold is the non-zero density below which the auto
// backend picks the sparse representation.
const DefaultDensityThreshold = 0.3

// ParseBackend parses a backend name. Empty means auto.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendAuto:
		return BackendAuto, nil
	case BackendDense:
		return BackendDense, nil
	case BackendSparse:
		return BackendSparse, nil
	default:
		return "", fmt.Errorf("unknown matrix backend %q (expected auto, dense or sparse)", s)
	}
}

// New builds a matrix from row-major data using the requested backend.
// For BackendAuto the sparse backend is used when the fraction of non-zero
// cells is below threshold.
func New(rows, cols int, data []float64, backend Backend, threshold float64) (Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("data length %d does not match %dx%d", len(data), rows, cols)
	}

	switch backend {
	case BackendDense:
		return NewDense(rows, cols, data), nil
	case BackendSparse:
		return NewSparse(rows, cols, data), nil
	case BackendAuto, "":
		if Density(data) < threshold {
			return NewSparse(rows, cols, data), nil
		}
		return NewDense(rows, cols, data), nil
	default:
		return nil, fmt.Errorf("unknown matrix backend %q", backend)
	}
}

// Density returns the fraction of non-zero values in data.
// Empty data has density 0.
func Density(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	nnz := 0
	for _, v := range data {
		if v != 0 {
			nnz++
		}
	}
	return float64(nnz) / float64(len(data))
}

// finishSimilarity forces the diagonal to exactly 1 for non-zero rows and
// clamps off-diagonal values into [-1, 1] to absorb rounding error.
func finishSimilarity(sim *mat.SymDense, norms []float64) {
	n := len(norms)
	for i := 0; i < n; i++ {
		if norms[i] == 0 {
			sim.SetSym(i, i, 0)
		} else {
			sim.SetSym(i, i, 1)
		}
		for j := i + 1; j < n; j++ {
			v := sim.At(i, j)
			if v > 1 || v < -1 {
				sim.SetSym(i, j, math.Max(-1, math.Min(1, v)))
			}
		}
	}
}

// emptySimilarity returns a 0×0 similarity matrix.
func emptySimilarity() *mat.SymDense {
	return &mat.SymDense{}
}
