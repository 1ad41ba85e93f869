// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package feature

import (
	"errors"
	"fmt"

	"github.com/tomtom215/deputyrec/internal/dataset"
)

// Schema is a three-tier registry of numeric and categorical features.
// A Schema is immutable after construction.
type Schema struct {
	byName      map[string]Descriptor
	numeric     []string
	categorical []string
}

// NewSchema builds a schema from descriptors. Feature names must be unique,
// non-empty, and must not collide with the id or name columns.
func NewSchema(descriptors ...Descriptor) (*Schema, error) {
	if len(descriptors) == 0 {
		return nil, errors.New("schema requires at least one feature")
	}

	s := &Schema{byName: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		switch {
		case d.Name == "":
			return nil, errors.New("feature name is required")
		case d.Name == dataset.IDColumn || d.Name == dataset.NameColumn:
			return nil, fmt.Errorf("feature name %q is reserved", d.Name)
		case d.Tier < TierHigh || d.Tier > TierLow:
			return nil, fmt.Errorf("feature %q has invalid tier %d", d.Name, int(d.Tier))
		}
		if _, dup := s.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate feature %q", d.Name)
		}
		s.byName[d.Name] = d
	}

	// Stable order: tier first, then declaration order within the tier.
	for _, tier := range Tiers {
		for _, d := range descriptors {
			if d.Tier != tier {
				continue
			}
			if d.Kind == KindCategorical {
				s.categorical = append(s.categorical, d.Name)
			} else {
				s.numeric = append(s.numeric, d.Name)
			}
		}
	}
	return s, nil
}

// MustSchema is NewSchema that panics on error. Used for static schemas.
func MustSchema(descriptors ...Descriptor) *Schema {
	s, err := NewSchema(descriptors...)
	if err != nil {
		panic(err)
	}
	return s
}

// DefaultSchema returns the deputy feature schema.
func DefaultSchema() *Schema {
	return MustSchema(
		Descriptor{Name: "populist_elements", Kind: KindNumeric, Tier: TierHigh},
		Descriptor{Name: "proposition_count", Kind: KindNumeric, Tier: TierHigh},
		Descriptor{Name: "cost_per_proposition", Kind: KindNumeric, Tier: TierHigh},
		Descriptor{Name: "ideology", Kind: KindCategorical, Tier: TierHigh},
		Descriptor{Name: "party_classification", Kind: KindCategorical, Tier: TierHigh},
		Descriptor{Name: "agenda_category", Kind: KindCategorical, Tier: TierHigh},

		Descriptor{Name: "attendance_rate", Kind: KindNumeric, Tier: TierMedium},
		Descriptor{Name: "total_documents", Kind: KindNumeric, Tier: TierMedium},
		Descriptor{Name: "unjustified_absence_count", Kind: KindNumeric, Tier: TierMedium},
		Descriptor{Name: "share_taxi_toll_parking", Kind: KindNumeric, Tier: TierMedium},
		Descriptor{Name: "share_flight_passages", Kind: KindNumeric, Tier: TierMedium},
		Descriptor{Name: "share_office_maintenance", Kind: KindNumeric, Tier: TierMedium},
		Descriptor{Name: "share_fuel_lubricants", Kind: KindNumeric, Tier: TierMedium},

		Descriptor{Name: "state", Kind: KindCategorical, Tier: TierLow},
		Descriptor{Name: "party", Kind: KindCategorical, Tier: TierLow},
	)
}

// Lookup returns the tier of a feature. Unknown features are low tier.
func (s *Schema) Lookup(name string) Tier {
	if d, ok := s.byName[name]; ok {
		return d.Tier
	}
	return TierLow
}

// Descriptor returns the descriptor for name.
func (s *Schema) Descriptor(name string) (Descriptor, bool) {
	d, ok := s.byName[name]
	return d, ok
}

// NumericFeatures returns numeric feature names ordered high, medium, low.
func (s *Schema) NumericFeatures() []string {
	return append([]string(nil), s.numeric...)
}

// CategoricalFeatures returns categorical feature names ordered high, medium, low.
func (s *Schema) CategoricalFeatures() []string {
	return append([]string(nil), s.categorical...)
}

// Columns returns the dataset columns a loader must read for this schema.
func (s *Schema) Columns() dataset.Columns {
	return dataset.Columns{
		Numeric: s.NumericFeatures(),
		String:  s.CategoricalFeatures(),
	}
}
