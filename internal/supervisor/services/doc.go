// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

// Package services provides suture.Service wrappers for deputyrec components.
//
//   - HTTPServerService runs the HTTP API and shuts it down gracefully.
//   - ModelService loads the similarity model once, with bounded retries.
//   - EnrichService refreshes enrichment labels on an interval.
//
// Each type implements Serve(ctx) error and String() string.
package services
