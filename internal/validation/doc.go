// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

// Package validation validates API request parameters with
// go-playground/validator v10 and converts failures into the API error
// format (code VALIDATION_ERROR).
//
// # Quick Start
//
//	type similarByNameRequest struct {
//	    Name string `query:"name" validate:"required,notblank,max=200"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// Bounds that come from configuration use ValidateVar:
//
//	validation.ValidateVar("top_n", topN, "gte=0,lte=100")
//
// # Thread Safety
//
// The validator is a lazily built singleton and safe for concurrent use.
package validation
