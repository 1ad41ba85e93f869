// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package matrix

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const tolerance = 1e-12

// 4 rows: two parallel vectors, one orthogonal, one zero row.
var sample = []float64{
	1, 2, 0, 0,
	2, 4, 0, 0,
	0, 0, 3, 0,
	0, 0, 0, 0,
}

func backends(t *testing.T, rows, cols int, data []float64) map[string]Matrix {
	t.Helper()
	return map[string]Matrix{
		"dense":  NewDense(rows, cols, data),
		"sparse": NewSparse(rows, cols, data),
	}
}

func TestCosineSimilarityAll(t *testing.T) {
	for name, m := range backends(t, 4, 4, sample) {
		t.Run(name, func(t *testing.T) {
			sim := m.CosineSimilarityAll()

			if n := sim.SymmetricDim(); n != 4 {
				t.Fatalf("SymmetricDim() = %d, want 4", n)
			}

			want := [][]float64{
				{1, 1, 0, 0},
				{1, 1, 0, 0},
				{0, 0, 1, 0},
				{0, 0, 0, 0},
			}
			for i := range want {
				for j := range want[i] {
					if got := sim.At(i, j); math.Abs(got-want[i][j]) > tolerance {
						t.Errorf("sim(%d,%d) = %v, want %v", i, j, got, want[i][j])
					}
				}
			}
		})
	}
}

func TestCosineSimilarityAll_DiagonalAndSymmetry(t *testing.T) {
	data := []float64{
		0.3, -1.2, 0.7, 0, 1,
		-0.5, 0.1, 2.2, 1, 0,
		1.9, 0.4, -0.3, 0, 1,
		0.01, 0.02, 0.03, 1, 1,
	}
	for name, m := range backends(t, 4, 5, data) {
		t.Run(name, func(t *testing.T) {
			sim := m.CosineSimilarityAll()
			for i := 0; i < 4; i++ {
				if sim.At(i, i) != 1 {
					t.Errorf("sim(%d,%d) = %v, want exactly 1", i, i, sim.At(i, i))
				}
				for j := 0; j < 4; j++ {
					if sim.At(i, j) != sim.At(j, i) {
						t.Errorf("sim not symmetric at (%d,%d)", i, j)
					}
					if v := sim.At(i, j); v < -1 || v > 1 {
						t.Errorf("sim(%d,%d) = %v out of [-1, 1]", i, j, v)
					}
				}
			}
		})
	}
}

func TestBackendsAgree(t *testing.T) {
	data := []float64{
		0.5, 0, 0, 1, 0, -2,
		0, 0, 1, 0, 0, 0.25,
		1.5, 1, 0, 0, 1, 0,
	}
	dense := NewDense(3, 6, data).CosineSimilarityAll()
	sparse := NewSparse(3, 6, data).CosineSimilarityAll()

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(dense.At(i, j)-sparse.At(i, j)) > 1e-9 {
				t.Errorf("dense(%d,%d) = %v, sparse = %v", i, j, dense.At(i, j), sparse.At(i, j))
			}
		}
	}
}

func TestScaleColumns(t *testing.T) {
	data := []float64{
		1, 0, 2,
		0, 3, 4,
	}
	weights := []float64{3, 2, 1}
	want := []float64{
		3, 0, 2,
		0, 6, 4,
	}

	for name, m := range backends(t, 2, 3, data) {
		t.Run(name, func(t *testing.T) {
			if err := m.ScaleColumns(weights); err != nil {
				t.Fatalf("ScaleColumns() error = %v", err)
			}
			for i := 0; i < 2; i++ {
				for j := 0; j < 3; j++ {
					if got := m.At(i, j); got != want[i*3+j] {
						t.Errorf("At(%d,%d) = %v, want %v", i, j, got, want[i*3+j])
					}
				}
			}
			if err := m.ScaleColumns([]float64{1}); err == nil {
				t.Error("ScaleColumns() expected error for wrong weight count")
			}
		})
	}

	// Input slice is copied.
	if data[0] != 1 {
		t.Errorf("input data mutated: %v", data[0])
	}
}

func TestWeightingChangesRanking(t *testing.T) {
	// Row 0 agrees with row 1 on column 0 and with row 2 on column 1.
	data := []float64{
		1, 1,
		1, 0,
		0, 1,
	}
	m := NewDense(3, 2, data)
	before := m.CosineSimilarityAll()
	if before.At(0, 1) != before.At(0, 2) {
		t.Fatalf("unweighted similarities should tie: %v vs %v", before.At(0, 1), before.At(0, 2))
	}

	if err := m.ScaleColumns([]float64{3, 1}); err != nil {
		t.Fatal(err)
	}
	after := m.CosineSimilarityAll()
	if after.At(0, 1) <= after.At(0, 2) {
		t.Errorf("high-weight agreement should dominate: sim(0,1)=%v sim(0,2)=%v", after.At(0, 1), after.At(0, 2))
	}
}

func TestEmptyMatrices(t *testing.T) {
	for name, m := range backends(t, 0, 3, nil) {
		t.Run(name+"/no rows", func(t *testing.T) {
			if n := m.CosineSimilarityAll().SymmetricDim(); n != 0 {
				t.Errorf("SymmetricDim() = %d, want 0", n)
			}
		})
	}
	for name, m := range backends(t, 2, 0, nil) {
		t.Run(name+"/no columns", func(t *testing.T) {
			sim := m.CosineSimilarityAll()
			if sim.SymmetricDim() != 2 {
				t.Fatalf("SymmetricDim() = %d, want 2", sim.SymmetricDim())
			}
			if sim.At(0, 0) != 0 || sim.At(0, 1) != 0 {
				t.Error("zero-width rows should have zero similarity")
			}
		})
	}
}

func TestNew(t *testing.T) {
	sparseData := []float64{1, 0, 0, 0, 0, 0, 0, 0, 0, 1}
	denseData := []float64{1, 1, 1, 1, 0, 1, 1, 1, 1, 1}

	tests := []struct {
		name    string
		data    []float64
		backend Backend
		want    Backend
	}{
		{name: "auto sparse", data: sparseData, backend: BackendAuto, want: BackendSparse},
		{name: "auto dense", data: denseData, backend: BackendAuto, want: BackendDense},
		{name: "forced dense", data: sparseData, backend: BackendDense, want: BackendDense},
		{name: "forced sparse", data: denseData, backend: BackendSparse, want: BackendSparse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(2, 5, tt.data, tt.backend, DefaultDensityThreshold)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := m.State().Backend; got != tt.want {
				t.Errorf("backend = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := New(2, 2, []float64{1}, BackendDense, 0.3); err == nil {
		t.Error("New() expected error for short data")
	}
	if _, err := New(1, 1, []float64{1}, Backend("gpu"), 0.3); err == nil {
		t.Error("New() expected error for unknown backend")
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{in: "", want: BackendAuto},
		{in: "Dense", want: BackendDense},
		{in: "sparse", want: BackendSparse},
		{in: "gpu", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBackend(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBackend() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBackend() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStateRoundTrip(t *testing.T) {
	for name, m := range backends(t, 4, 4, sample) {
		t.Run(name, func(t *testing.T) {
			restored, err := FromState(m.State())
			if err != nil {
				t.Fatalf("FromState() error = %v", err)
			}
			r, c := restored.Dims()
			if r != 4 || c != 4 {
				t.Fatalf("Dims() = %d,%d, want 4,4", r, c)
			}
			for i := 0; i < 4; i++ {
				for j := 0; j < 4; j++ {
					if restored.At(i, j) != m.At(i, j) {
						t.Errorf("At(%d,%d) = %v, want %v", i, j, restored.At(i, j), m.At(i, j))
					}
				}
			}
			if restored.NNZ() != m.NNZ() {
				t.Errorf("NNZ() = %d, want %d", restored.NNZ(), m.NNZ())
			}
		})
	}
}

func TestFromState_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		state State
	}{
		{name: "dense short", state: State{Backend: BackendDense, Rows: 2, Cols: 2, Values: []float64{1}}},
		{name: "negative dims", state: State{Backend: BackendDense, Rows: -1}},
		{name: "sparse indptr", state: State{Backend: BackendSparse, Rows: 2, Cols: 2, Indptr: []int{0}}},
		{name: "sparse col range", state: State{Backend: BackendSparse, Rows: 1, Cols: 2, Indptr: []int{0, 1}, Indices: []int{5}, Values: []float64{1}}},
		{name: "sparse unsorted", state: State{Backend: BackendSparse, Rows: 1, Cols: 3, Indptr: []int{0, 2}, Indices: []int{2, 1}, Values: []float64{1, 1}}},
		{name: "unknown backend", state: State{Backend: "gpu"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromState(tt.state)
			if !errors.Is(err, ErrInvalidState) {
				t.Errorf("FromState() error = %v, want ErrInvalidState", err)
			}
		})
	}
}

func TestPackSymmetric(t *testing.T) {
	sim := mat.NewSymDense(3, []float64{
		1, 0.5, 0.25,
		0.5, 1, -0.1,
		0.25, -0.1, 0,
	})
	n, upper := PackSymmetric(sim)
	if n != 3 || len(upper) != 6 {
		t.Fatalf("PackSymmetric() = %d, %d values", n, len(upper))
	}

	restored, err := UnpackSymmetric(n, upper)
	if err != nil {
		t.Fatalf("UnpackSymmetric() error = %v", err)
	}
	if !mat.Equal(sim, restored) {
		t.Error("UnpackSymmetric() did not restore the matrix exactly")
	}

	if _, err := UnpackSymmetric(3, upper[:5]); err == nil {
		t.Error("UnpackSymmetric() expected error for short data")
	}
	if empty, err := UnpackSymmetric(0, nil); err != nil || empty.SymmetricDim() != 0 {
		t.Errorf("UnpackSymmetric(0) = %v, %v", empty, err)
	}
}
