// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

// Package recommend finds the deputies most similar to a given deputy.
//
// # Pipeline
//
// Construction runs once and produces an immutable model:
//
//  1. Clean: numeric features are median-imputed (±Inf counts as missing);
//     categorical features are mode-imputed.
//  2. Preprocess: numeric features are standardized with the population
//     standard deviation (zero variance encodes as zeros); categorical
//     features are one-hot encoded in lexicographic category order.
//  3. Weight: every column is scaled by its tier weight (high 3, medium 2,
//     low 1). This happens exactly once per matrix.
//  4. Similarity: all-pairs cosine similarity. A zero row has similarity 0
//     with every row, itself included.
//
// # Caching
//
// When Config.CachePath is set, the weighted matrix and the similarity matrix
// are stored as two checksummed artifacts (see package storage). A missing
// or unusable artifact triggers a rebuild under an exclusive file lock. A
// cached model built from a different dataset is reused with a warning.
//
// # Queries
//
// RecommendByID ranks every other deputy by descending similarity; ties keep
// dataset order and rows sharing the query id are excluded. RecommendByName
// resolves the first exact name match and delegates. Each result carries a
// descriptive comparison over ExplainFields that never affects its score.
//
// # Usage
//
//	rec, err := recommend.New(ctx, cfg, table, logger)
//	if err != nil {
//		return err
//	}
//	resp, err := rec.RecommendByID(204554, 5)
//	if errors.Is(err, recommend.ErrNotFound) {
//		// 404
//	}
//
// # Thread Safety
//
// A Recommender is read-only after New and safe for concurrent use.
package recommend
