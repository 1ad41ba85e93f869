// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package recommend

import (
	"math"
	"strconv"

	"github.com/tomtom215/deputyrec/internal/dataset"
)

// ExplainField is a field compared in explanations, with its display label.
type ExplainField struct {
	Name  string
	Label string
}

// DefaultExplainFields is the curated list of fields shown with every result.
var DefaultExplainFields = []ExplainField{
	{Name: "ideology", Label: "Categoria Ideológica"},
	{Name: "party_classification", Label: "Classificação Partidária"},
	{Name: "agenda_category", Label: "Categoria da Agenda"},
	{Name: "proposition_count", Label: "Proposições Legislativas"},
	{Name: "cost_per_proposition", Label: "Custo por Proposição"},
	{Name: "attendance_rate", Label: "Frequência em Sessões"},
}

// Explainer describes how two deputies compare on a fixed list of fields.
// Explanations are descriptive only and never affect scores.
type Explainer struct {
	table  *dataset.Table
	fields []ExplainField
}

// NewExplainer returns an explainer over t. Fields absent from t are skipped.
func NewExplainer(t *dataset.Table, fields []ExplainField) *Explainer {
	kept := make([]ExplainField, 0, len(fields))
	for _, f := range fields {
		if t.HasColumn(f.Name) {
			kept = append(kept, f)
		}
	}
	return &Explainer{table: t, fields: kept}
}

// Explain compares row src with row tgt. It returns label → comparison text
// and the names of fields whose values are identical, in field order.
func (e *Explainer) Explain(src, tgt int) (map[string]string, []string) {
	similarities := make(map[string]string, len(e.fields))
	equalFields := make([]string, 0, len(e.fields))

	for _, f := range e.fields {
		a, _ := e.table.Value(f.Name, src)
		b, _ := e.table.Value(f.Name, tgt)

		switch {
		case a.Equal(b):
			similarities[f.Label] = "Equal: " + a.String()
			equalFields = append(equalFields, f.Name)
		case a.Numeric:
			diff := round(math.Abs(a.Num-b.Num), 2)
			similarities[f.Label] = "Difference: " + strconv.FormatFloat(diff, 'f', -1, 64)
		default:
			similarities[f.Label] = a.String() + " → " + b.String()
		}
	}
	return similarities, equalFields
}
