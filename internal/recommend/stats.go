// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package recommend

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/deputyrec/internal/dataset"
)

// present returns the non-missing, finite values of col.
func present(col []float64) []float64 {
	out := make([]float64, 0, len(col))
	for _, v := range col {
		if !dataset.IsMissing(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// median returns the median of values, averaging the two middle values for
// even counts. It returns NaN for an empty slice.
// gonum's stat.Quantile has no midpoint estimator, so this sorts a copy.
func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// mean is the arithmetic mean, NaN for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// mode returns the most frequent non-empty value. Ties resolve to the value
// seen first. ok is false when every value is empty.
func mode(values []string) (string, bool) {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	if len(order) == 0 {
		return "", false
	}

	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best, true
}

// round rounds x to the given number of decimal places.
func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
