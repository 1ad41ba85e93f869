// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

// Package enrich fills categorical deputy attributes (ideology, agenda
// category) that the dataset leaves empty, using a pluggable Provider.
//
// Providers:
//
//   - OpenAIProvider: zero-shot classification of the deputy's proposition
//     list with a chat completion model at temperature 0, limited to a
//     closed LabelSet. Rate limited (x/time/rate) and guarded by a circuit
//     breaker (sony/gobreaker).
//   - CachingProvider: BadgerDB-backed LabelStore in front of any provider.
//   - StaticProvider: fixed map, for tests and offline runs.
//
// Apply runs a provider over one column before the dataset is cleaned.
// Enrichment is best effort: a failed classification leaves the value
// missing and the cleaner imputes it.
//
// Credentials are passed explicitly in OpenAIConfig by the caller.
package enrich
