// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

/*
Package models defines the HTTP API envelope and health payloads.

Every endpoint wraps its payload in APIResponse, so clients can branch on
status and read error.code without knowing which handler answered.
Similarity results themselves are the recommend package types
(recommend.Response, recommend.Profile) placed in APIResponse.Data.
*/
package models
