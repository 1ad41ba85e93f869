// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package enrich

import (
	"fmt"
	"slices"
	"strings"
)

// LabelSet is the closed vocabulary a provider may answer with for one feature.
type LabelSet struct {
	// Feature is the dataset column the labels fill.
	Feature string

	// Description tells the model what the labels mean.
	Description string

	// Labels are the accepted values.
	Labels []string
}

// Built-in label sets.
var (
	IdeologyLabels = LabelSet{
		Feature:     "ideology",
		Description: "the ideological position on the spectrum from progressive to conservative",
		Labels: []string{
			"progressive",
			"moderate_progressive",
			"centrist",
			"moderate_conservative",
			"conservative",
		},
	}

	AgendaLabels = LabelSet{
		Feature:     "agenda_category",
		Description: "the main category of the agenda",
		Labels: []string{
			"economic",
			"social",
			"environmental",
			"technological",
			"cultural",
		},
	}
)

// LabelSetFor returns the built-in label set for feature.
func LabelSetFor(feature string) (LabelSet, error) {
	switch feature {
	case IdeologyLabels.Feature:
		return IdeologyLabels, nil
	case AgendaLabels.Feature:
		return AgendaLabels, nil
	default:
		return LabelSet{}, fmt.Errorf("no label set for feature %q (supported: %s, %s)",
			feature, IdeologyLabels.Feature, AgendaLabels.Feature)
	}
}

// Normalize maps a free-form model answer onto the label set. Case, quotes,
// trailing punctuation and space/hyphen separators are tolerated; anything
// else outside the set is rejected.
func (s LabelSet) Normalize(raw string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.Trim(v, "\"'`.")
	v = strings.NewReplacer(" ", "_", "-", "_").Replace(strings.TrimSpace(v))
	if slices.Contains(s.Labels, v) {
		return v, true
	}
	return "", false
}
