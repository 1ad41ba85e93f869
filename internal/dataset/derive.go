// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package dataset

import "math"

// Columns used to derive cost_per_proposition.
const (
	TotalExpensesColumn      = "total_expenses"
	PropositionCountColumn   = "proposition_count"
	CostPerPropositionColumn = "cost_per_proposition"
)

// DeriveCostPerProposition adds cost_per_proposition = total_expenses /
// proposition_count when both inputs exist and the output column does not.
// Division by zero and missing inputs produce a missing value.
// It reports whether the column was added.
func DeriveCostPerProposition(t *Table) (bool, error) {
	if t.HasColumn(CostPerPropositionColumn) {
		return false, nil
	}
	expenses, ok := t.Numeric(TotalExpensesColumn)
	if !ok {
		return false, nil
	}
	counts, ok := t.Numeric(PropositionCountColumn)
	if !ok {
		return false, nil
	}

	out := make([]float64, t.Len())
	for i := range out {
		v := expenses[i] / counts[i]
		if math.IsInf(v, 0) {
			v = math.NaN()
		}
		out[i] = v
	}
	if err := t.SetNumeric(CostPerPropositionColumn, out); err != nil {
		return false, err
	}
	return true, nil
}
