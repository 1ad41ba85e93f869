// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

/*
Package cache provides a thread-safe, size-bounded LRU cache with TTL
expiration.

The API layer keeps similarity responses here, keyed by query
parameters, so repeated lookups for popular deputies skip ranking and
explanation work. The model is immutable once built, so entries only need
a TTL to bound memory held by stale keys.

# Usage

	responses := cache.NewLRU[*recommend.Response](1000, 5*time.Minute)

	key := cache.GenerateKey("similar", params)
	if resp, ok := responses.Get(key); ok {
	    return resp
	}
	responses.Add(key, resp)

# Thread Safety

All methods are safe for concurrent use. Get mutates recency order, so a
single mutex guards every operation.
*/
package cache
