// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package matrix

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Dense is a Matrix backed by gonum's mat.Dense.
// A matrix with zero rows or columns has no backing mat.Dense.
type Dense struct {
	rows, cols int
	m          *mat.Dense
}

// NewDense copies data (row-major) into a dense matrix.
func NewDense(rows, cols int, data []float64) *Dense {
	d := &Dense{rows: rows, cols: cols}
	if rows > 0 && cols > 0 {
		d.m = mat.NewDense(rows, cols, slices.Clone(data))
	}
	return d
}

// Dims implements Matrix.
func (d *Dense) Dims() (rows, cols int) { return d.rows, d.cols }

// At implements Matrix.
func (d *Dense) At(i, j int) float64 {
	if d.m == nil {
		panic(fmt.Sprintf("matrix: index (%d, %d) out of range for %dx%d", i, j, d.rows, d.cols))
	}
	return d.m.At(i, j)
}

// NNZ implements Matrix.
func (d *Dense) NNZ() int {
	nnz := 0
	for i := 0; i < d.rows && d.m != nil; i++ {
		for _, v := range d.m.RawRowView(i) {
			if v != 0 {
				nnz++
			}
		}
	}
	return nnz
}

// ScaleColumns implements Matrix.
func (d *Dense) ScaleColumns(weights []float64) error {
	if len(weights) != d.cols {
		return fmt.Errorf("got %d weights for %d columns", len(weights), d.cols)
	}
	if d.m == nil {
		return nil
	}
	for i := 0; i < d.rows; i++ {
		floats.Mul(d.m.RawRowView(i), weights)
	}
	return nil
}

// CosineSimilarityAll implements Matrix.
// Rows are L2-normalized and the Gram matrix is computed with a single
// symmetric rank-k update.
func (d *Dense) CosineSimilarityAll() *mat.SymDense {
	if d.rows == 0 {
		return emptySimilarity()
	}
	norms := make([]float64, d.rows)
	if d.m == nil {
		sim := mat.NewSymDense(d.rows, nil)
		finishSimilarity(sim, norms)
		return sim
	}

	unit := mat.NewDense(d.rows, d.cols, nil)
	for i := 0; i < d.rows; i++ {
		row := unit.RawRowView(i)
		copy(row, d.m.RawRowView(i))
		norms[i] = floats.Norm(row, 2)
		if norms[i] != 0 {
			floats.Scale(1/norms[i], row)
		}
	}

	sim := mat.NewSymDense(d.rows, nil)
	sim.SymOuterK(1, unit)
	finishSimilarity(sim, norms)
	return sim
}

// State implements Matrix.
func (d *Dense) State() State {
	data := make([]float64, 0, d.rows*d.cols)
	for i := 0; i < d.rows && d.m != nil; i++ {
		data = append(data, d.m.RawRowView(i)...)
	}
	return State{Backend: BackendDense, Rows: d.rows, Cols: d.cols, Values: data}
}
