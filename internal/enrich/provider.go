// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package enrich

import (
	"context"
	"errors"
)

// ErrNoAPIKey is returned when a remote provider is configured without credentials.
var ErrNoAPIKey = errors.New("enrich: api key is required")

// Entity is the input to a classification: one deputy and the free text
// describing its legislative activity.
type Entity struct {
	ID   int64
	Name string
	Text string
}

// Provider produces a categorical label for an entity. ok is false when the
// provider has no label for it; that is not an error.
type Provider interface {
	Classify(ctx context.Context, e Entity) (label string, ok bool, err error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, e Entity) (string, bool, error)

// Classify calls f.
func (f ProviderFunc) Classify(ctx context.Context, e Entity) (string, bool, error) {
	return f(ctx, e)
}

// StaticProvider serves labels from a fixed map keyed by deputy id.
// Used in tests and for offline runs with precomputed labels.
type StaticProvider map[int64]string

// Classify returns the mapped label, if any.
func (p StaticProvider) Classify(_ context.Context, e Entity) (string, bool, error) {
	label, ok := p[e.ID]
	return label, ok && label != "", nil
}
