// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package matrix

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Sparse is a compressed sparse row (CSR) matrix.
//
// Row i stores its non-zero values in values[indptr[i]:indptr[i+1]] with
// strictly increasing column indices in the parallel indices slice.
type Sparse struct {
	rows, cols int
	indptr     []int
	indices    []int
	values     []float64
}

// NewSparse compresses row-major data into CSR form. Zero cells are dropped.
func NewSparse(rows, cols int, data []float64) *Sparse {
	s := &Sparse{rows: rows, cols: cols, indptr: make([]int, rows+1)}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := data[i*cols+j]; v != 0 {
				s.indices = append(s.indices, j)
				s.values = append(s.values, v)
			}
		}
		s.indptr[i+1] = len(s.values)
	}
	return s
}

// Dims implements Matrix.
func (s *Sparse) Dims() (rows, cols int) { return s.rows, s.cols }

// At implements Matrix.
func (s *Sparse) At(i, j int) float64 {
	if i < 0 || i >= s.rows || j < 0 || j >= s.cols {
		panic(fmt.Sprintf("matrix: index (%d, %d) out of range for %dx%d", i, j, s.rows, s.cols))
	}
	lo, hi := s.indptr[i], s.indptr[i+1]
	k := lo + sort.SearchInts(s.indices[lo:hi], j)
	if k < hi && s.indices[k] == j {
		return s.values[k]
	}
	return 0
}

// NNZ implements Matrix.
func (s *Sparse) NNZ() int { return len(s.values) }

// ScaleColumns implements Matrix. A zero weight leaves explicit zeros in
// the structure, which do not affect dot products.
func (s *Sparse) ScaleColumns(weights []float64) error {
	if len(weights) != s.cols {
		return fmt.Errorf("got %d weights for %d columns", len(weights), s.cols)
	}
	for k, j := range s.indices {
		s.values[k] *= weights[j]
	}
	return nil
}

// CosineSimilarityAll implements Matrix.
func (s *Sparse) CosineSimilarityAll() *mat.SymDense {
	if s.rows == 0 {
		return emptySimilarity()
	}

	norms := make([]float64, s.rows)
	for i := range norms {
		var sum float64
		for _, v := range s.values[s.indptr[i]:s.indptr[i+1]] {
			sum += v * v
		}
		norms[i] = math.Sqrt(sum)
	}

	sim := mat.NewSymDense(s.rows, nil)
	for i := 0; i < s.rows; i++ {
		if norms[i] == 0 {
			continue
		}
		for j := i + 1; j < s.rows; j++ {
			if norms[j] == 0 {
				continue
			}
			sim.SetSym(i, j, s.rowDot(i, j)/(norms[i]*norms[j]))
		}
	}
	finishSimilarity(sim, norms)
	return sim
}

// rowDot merges two sorted index lists.
func (s *Sparse) rowDot(a, b int) float64 {
	ia, ea := s.indptr[a], s.indptr[a+1]
	ib, eb := s.indptr[b], s.indptr[b+1]
	var dot float64
	for ia < ea && ib < eb {
		switch ca, cb := s.indices[ia], s.indices[ib]; {
		case ca == cb:
			dot += s.values[ia] * s.values[ib]
			ia++
			ib++
		case ca < cb:
			ia++
		default:
			ib++
		}
	}
	return dot
}

// State implements Matrix.
func (s *Sparse) State() State {
	return State{
		Backend: BackendSparse,
		Rows:    s.rows,
		Cols:    s.cols,
		Values:  slices.Clone(s.values),
		Indptr:  slices.Clone(s.indptr),
		Indices: slices.Clone(s.indices),
	}
}
