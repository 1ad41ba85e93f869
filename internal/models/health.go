// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package models

// LivenessStatus is returned by the liveness probe.
type LivenessStatus struct {
	Alive  bool    `json:"alive"`
	Uptime float64 `json:"uptime_seconds"`
}

// ReadinessStatus is returned by the readiness probe. The service is ready
// once a model is loaded and holds at least one deputy.
type ReadinessStatus struct {
	Ready           bool    `json:"ready_to_serve"`
	Deputies        int     `json:"deputies"`
	FeatureColumns  int     `json:"feature_columns"`
	Backend         string  `json:"backend,omitempty"`
	ModelFromCache  bool    `json:"model_from_cache"`
	DatasetChecksum string  `json:"dataset_checksum,omitempty"`
	Uptime          float64 `json:"uptime_seconds"`
}
