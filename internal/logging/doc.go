// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

/*
Package logging provides the zerolog-based global logger for deputyrec.

# Quick Start

	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})

	logging.Info().Str("path", path).Msg("Loading dataset")
	logging.Err(err).Msg("Failed to build model")

Components receive a zerolog.Logger and derive a child with a component
field:

	logger := logging.WithComponent("recommend")

# Request Context

The API request ID middleware stores a request ID in the context; Ctx
attaches it to every event:

	logging.Ctx(r.Context()).Warn().Err(err).Msg("Query failed")

# slog Bridge

SlogHandler adapts zerolog to log/slog for libraries that only accept a
*slog.Logger (the suture supervisor event hook):

	slogger := logging.NewSlogLogger("supervisor")

# Configuration

Level and format come from the logging section of the configuration
(LOG_LEVEL, LOG_FORMAT, LOG_CALLER).

Always terminate event chains with Msg or Send; an unterminated event is
never written.
*/
package logging
