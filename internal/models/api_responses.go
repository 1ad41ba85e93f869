// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package models

import (
	"time"
)

// APIResponse is the envelope returned by every HTTP endpoint.
//
// Status is "success" or "error" for data endpoints; health probes also use
// "ready" and "not_ready".
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"input_deputy_id": 204554, "similar_deputies": [...]},
//	  "metadata": {"timestamp": "2026-03-02T12:00:00Z", "query_time_ms": 1}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "error": {"code": "DEPUTY_NOT_FOUND", "message": "Deputy 42 not found"},
//	  "metadata": {"timestamp": "2026-03-02T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
// Cached responses report Cached=true and the query time of the lookup.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is the machine-readable error body.
//
// Common error codes:
//   - VALIDATION_ERROR: invalid query or path parameters
//   - DEPUTY_NOT_FOUND: unknown deputy id or name
//   - RECOMMENDATION_ERROR: unexpected failure while ranking
//   - METHOD_NOT_ALLOWED, NOT_FOUND, RATE_LIMIT_EXCEEDED
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
