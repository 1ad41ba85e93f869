// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

// Package storage persists the computed similarity model so restarts can skip
// preprocessing and the O(n²) similarity computation.
//
// # Artifacts
//
// Two artifacts live under the configured base path:
//
//	data.gob.gz        ProcessedState (feature matrix + column provenance)
//	similarity.gob.gz  SimilarityState (packed upper triangle)
//
// Each file is a gob-encoded storedFile holding ArtifactMetadata and the
// gzip-compressed gob payload. The metadata carries a SHA-256 checksum of the
// uncompressed payload which Load verifies.
//
// # Concurrency
//
// Writers take an exclusive advisory lock on <path>/.lock (gofrs/flock) and
// replace each artifact with write-to-temp plus rename, so concurrent
// processes never read a partially written file.
//
// # Errors
//
// Load wraps ErrCorrupt for undecodable files, format version mismatches and
// checksum failures. A missing file surfaces as os.ErrNotExist.
//
// # Usage
//
//	store, err := storage.NewStore("/var/lib/deputyrec/model")
//	unlock, err := store.Lock(ctx)
//	defer unlock()
//	err = store.Save(ctx, storage.ArtifactSimilarity, state, meta)
//
//	var state storage.SimilarityState
//	meta, err := store.Load(ctx, storage.ArtifactSimilarity, &state)
package storage
