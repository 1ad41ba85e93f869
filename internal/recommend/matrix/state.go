// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package matrix

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// ErrInvalidState is returned when a serialized matrix is inconsistent.
var ErrInvalidState = errors.New("invalid matrix state")

// State is the serializable form of a Matrix.
// Dense matrices store row-major Values. Sparse matrices store CSR arrays.
type State struct {
	Backend Backend
	Rows    int
	Cols    int
	Values  []float64
	Indptr  []int
	Indices []int
}

// FromState rebuilds a Matrix from its serialized form.
func FromState(st State) (Matrix, error) {
	if st.Rows < 0 || st.Cols < 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidState, st.Rows, st.Cols)
	}

	switch st.Backend {
	case BackendDense:
		if len(st.Values) != st.Rows*st.Cols {
			return nil, fmt.Errorf("%w: %d values for %dx%d dense matrix", ErrInvalidState, len(st.Values), st.Rows, st.Cols)
		}
		return NewDense(st.Rows, st.Cols, st.Values), nil

	case BackendSparse:
		if len(st.Indptr) != st.Rows+1 || len(st.Indices) != len(st.Values) {
			return nil, fmt.Errorf("%w: malformed CSR arrays", ErrInvalidState)
		}
		if st.Indptr[0] != 0 || st.Indptr[st.Rows] != len(st.Values) {
			return nil, fmt.Errorf("%w: CSR row pointers out of range", ErrInvalidState)
		}
		for i := 0; i < st.Rows; i++ {
			lo, hi := st.Indptr[i], st.Indptr[i+1]
			if lo > hi {
				return nil, fmt.Errorf("%w: row pointer decreases at row %d", ErrInvalidState, i)
			}
			for k := lo; k < hi; k++ {
				if j := st.Indices[k]; j < 0 || j >= st.Cols || (k > lo && st.Indices[k-1] >= j) {
					return nil, fmt.Errorf("%w: bad column index at row %d", ErrInvalidState, i)
				}
			}
		}
		return &Sparse{
			rows:    st.Rows,
			cols:    st.Cols,
			indptr:  slices.Clone(st.Indptr),
			indices: slices.Clone(st.Indices),
			values:  slices.Clone(st.Values),
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrInvalidState, st.Backend)
	}
}

// PackSymmetric returns the upper triangle (including the diagonal) of sim
// in row-major order.
func PackSymmetric(sim *mat.SymDense) (n int, upper []float64) {
	n = sim.SymmetricDim()
	upper = make([]float64, 0, n*(n+1)/2)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			upper = append(upper, sim.At(i, j))
		}
	}
	return n, upper
}

// UnpackSymmetric is the inverse of PackSymmetric.
func UnpackSymmetric(n int, upper []float64) (*mat.SymDense, error) {
	if n < 0 || len(upper) != n*(n+1)/2 {
		return nil, fmt.Errorf("%w: %d values for %dx%d symmetric matrix", ErrInvalidState, len(upper), n, n)
	}
	if n == 0 {
		return emptySimilarity(), nil
	}
	sim := mat.NewSymDense(n, nil)
	k := 0
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sim.SetSym(i, j, upper[k])
			k++
		}
	}
	return sim, nil
}
