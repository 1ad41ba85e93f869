// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package recommend

// Response is the result of a similarity query.
type Response struct {
	// InputDeputyID is set for lookups by id.
	InputDeputyID *int64 `json:"input_deputy_id,omitempty"`

	// InputDeputy is set for lookups by name.
	InputDeputy string `json:"input_deputy,omitempty"`

	// SimilarDeputies is ordered by descending similarity.
	SimilarDeputies []SimilarDeputy `json:"similar_deputies"`
}

// SimilarDeputy is one ranked result.
type SimilarDeputy struct {
	// DeputyID is the deputy identifier.
	DeputyID int64 `json:"deputy_id"`

	// Name is the deputy display name.
	Name string `json:"name"`

	// SimilarityScore is the cosine similarity rounded to 4 decimals.
	SimilarityScore float64 `json:"similarity_score"`

	// KeySimilarities maps a field label to a short comparison text.
	KeySimilarities map[string]string `json:"key_similarities"`

	// MostSimilarFields lists the fields with identical values.
	MostSimilarFields []string `json:"most_similar_fields"`
}

// Profile compares one deputy against the dataset on every numeric feature.
type Profile struct {
	DeputyID int64           `json:"deputy_id"`
	Name     string          `json:"name"`
	Features []FeatureDetail `json:"features"`
}

// FeatureDetail is one row of a Profile.
type FeatureDetail struct {
	// Feature is the numeric feature name.
	Feature string `json:"feature"`

	// Tier is the feature importance tier.
	Tier string `json:"tier"`

	// Value is the deputy's cleaned value.
	Value float64 `json:"value"`

	// Mean is the dataset mean.
	Mean float64 `json:"mean"`

	// Median is the dataset median.
	Median float64 `json:"median"`

	// PercentDiff is (Value - Mean) / Mean * 100, or 0 when Mean is 0.
	PercentDiff float64 `json:"percent_diff"`
}

// Status describes how the model was obtained.
type Status struct {
	// Rows is the number of deputies in the model.
	Rows int `json:"rows"`

	// Columns is the number of preprocessed feature columns.
	Columns int `json:"columns"`

	// Backend is the matrix backend (dense or sparse).
	Backend string `json:"backend"`

	// FromCache is true when the model was loaded from cached artifacts.
	FromCache bool `json:"from_cache"`

	// DatasetChecksum identifies the cleaned dataset.
	DatasetChecksum string `json:"dataset_checksum"`

	// BuildDurationMS is how long construction took.
	BuildDurationMS int64 `json:"build_duration_ms"`
}
