// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

// Package feature describes the features used for deputy similarity: their
// kind (numeric or categorical), their importance tier, and the provenance
// of every column produced by preprocessing.
package feature

import (
	"fmt"
	"strings"
)

// Tier is the importance tier of a feature. Higher tiers receive larger
// weights before similarity is computed.
type Tier int

// Tiers in descending order of importance.
const (
	TierHigh Tier = iota
	TierMedium
	TierLow
)

// Tiers lists every tier from most to least important.
var Tiers = []Tier{TierHigh, TierMedium, TierLow}

// Weight returns the multiplicative weight applied to columns of this tier.
func (t Tier) Weight() float64 {
	switch t {
	case TierHigh:
		return 3
	case TierMedium:
		return 2
	default:
		return 1
	}
}

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	case TierLow:
		return "low"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// ParseTier parses "high", "medium" or "low" (case-insensitive).
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return TierHigh, nil
	case "medium":
		return TierMedium, nil
	case "low":
		return TierLow, nil
	default:
		return TierLow, fmt.Errorf("unknown tier %q (expected high, medium or low)", s)
	}
}

// Kind distinguishes numeric from categorical features.
type Kind int

// Feature kinds.
const (
	KindNumeric Kind = iota
	KindCategorical
)

func (k Kind) String() string {
	if k == KindCategorical {
		return "categorical"
	}
	return "numeric"
}

// ParseKind parses "numeric" or "categorical".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "numeric":
		return KindNumeric, nil
	case "categorical":
		return KindCategorical, nil
	default:
		return KindNumeric, fmt.Errorf("unknown feature kind %q (expected numeric or categorical)", s)
	}
}

// Descriptor declares one input feature.
type Descriptor struct {
	Name string
	Kind Kind
	Tier Tier
}

// Column is the provenance of one preprocessed matrix column. It is either a
// NumericColumn or a CategoricalColumn.
type Column interface {
	// SourceFeature is the input feature this column was derived from.
	SourceFeature() string
	// ColumnTier is the tier used to weight this column.
	ColumnTier() Tier
	// Label is a human-readable column name.
	Label() string

	sealed()
}

// NumericColumn is a standardized numeric feature.
type NumericColumn struct {
	Source string
	Tier   Tier
}

func (c NumericColumn) SourceFeature() string { return c.Source }
func (c NumericColumn) ColumnTier() Tier      { return c.Tier }
func (c NumericColumn) Label() string         { return c.Source }
func (NumericColumn) sealed()                 {}

// CategoricalColumn is the one-hot indicator for Source == Category.
type CategoricalColumn struct {
	Source   string
	Category string
	Tier     Tier
}

func (c CategoricalColumn) SourceFeature() string { return c.Source }
func (c CategoricalColumn) ColumnTier() Tier      { return c.Tier }
func (c CategoricalColumn) Label() string         { return c.Source + "=" + c.Category }
func (CategoricalColumn) sealed()                 {}
