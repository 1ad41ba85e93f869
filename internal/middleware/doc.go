// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: request ID propagation into logging context and responses
  - AccessLog: one zerolog event per request
  - PrometheusMetrics: request counters and latency histograms labeled by
    chi route pattern

The router composes them with the chi ecosystem middleware:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(logger))
	r.Use(chimiddleware.Recoverer)

PrometheusMetrics keeps the http.HandlerFunc signature; the api package
adapts it for chi's Use.
*/
package middleware
