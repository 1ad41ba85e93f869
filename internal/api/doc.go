// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

/*
Package api exposes the similarity model over HTTP using the Chi router.

# Endpoints

	GET /api/v1/health/live                      liveness probe
	GET /api/v1/health/ready                     readiness probe (503 until a model is loaded)
	GET /api/v1/deputies/{deputyID}/similar      top_n most similar deputies by id
	GET /api/v1/deputies/similar?name=...        top_n most similar deputies by exact name
	GET /api/v1/deputies/{deputyID}/profile      feature values against dataset mean and median
	GET /metrics                                 Prometheus metrics

top_n is optional. It defaults to the configured default and must be an
integer between 0 and the configured maximum.

# Responses

Every JSON body uses the models.APIResponse envelope:

	{"status":"success","data":{...},"metadata":{"timestamp":"...","query_time_ms":1}}
	{"status":"error","error":{"code":"DEPUTY_NOT_FOUND","message":"..."}}

Error codes: VALIDATION_ERROR (400), DEPUTY_NOT_FOUND (404),
METHOD_NOT_ALLOWED (405), RATE_LIMIT_EXCEEDED (429),
RECOMMENDATION_ERROR (500), MODEL_NOT_READY (503).

# Caching

Similarity responses are kept in a cache.LRU keyed by lookup and top_n.
The cache is cleared whenever a new model is installed with
Handler.SetRecommender. Profiles are computed per request.
*/
package api
