// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/deputyrec/internal/cache"
	"github.com/tomtom215/deputyrec/internal/logging"
	"github.com/tomtom215/deputyrec/internal/metrics"
	"github.com/tomtom215/deputyrec/internal/recommend"
	"github.com/tomtom215/deputyrec/internal/validation"
)

// similarByNameRequest holds the validated query of SimilarByName.
type similarByNameRequest struct {
	Name string `query:"name" validate:"required,notblank,max=200"`
}

// similarKey identifies a cached similarity response.
type similarKey struct {
	Lookup string `json:"lookup"`
	ID     int64  `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	TopN   int    `json:"top_n"`
}

// SimilarByID handles GET /api/v1/deputies/{deputyID}/similar?top_n=N
// Returns the N deputies most similar to the given deputy.
func (h *Handler) SimilarByID(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	rec := h.requireModel(w)
	if rec == nil {
		return
	}

	id, verr := parseDeputyID(chi.URLParam(r, "deputyID"))
	if verr != nil {
		respondValidationError(w, verr)
		return
	}
	topN, verr := parseTopN(r, rec.DefaultTopN(), rec.MaxTopN())
	if verr != nil {
		respondValidationError(w, verr)
		return
	}

	key := similarKey{Lookup: "id", ID: id, TopN: topN}
	h.serveSimilar(w, r, key, func() (*recommend.Response, error) {
		return rec.RecommendByID(id, topN)
	})
}

// SimilarByName handles GET /api/v1/deputies/similar?name=...&top_n=N
// The name must match a deputy exactly; the first match is used.
func (h *Handler) SimilarByName(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	rec := h.requireModel(w)
	if rec == nil {
		return
	}

	req := similarByNameRequest{Name: r.URL.Query().Get("name")}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}
	topN, verr := parseTopN(r, rec.DefaultTopN(), rec.MaxTopN())
	if verr != nil {
		respondValidationError(w, verr)
		return
	}

	key := similarKey{Lookup: "name", Name: req.Name, TopN: topN}
	h.serveSimilar(w, r, key, func() (*recommend.Response, error) {
		return rec.RecommendByName(req.Name, topN)
	})
}

// serveSimilar answers from the response cache or runs query and caches
// its successful result.
func (h *Handler) serveSimilar(w http.ResponseWriter, r *http.Request, key similarKey, query func() (*recommend.Response, error)) {
	start := time.Now()
	cacheKey := cache.GenerateKey("similar", key)

	if h.responses != nil {
		if resp, ok := h.responses.Get(cacheKey); ok {
			metrics.RecordResponseCache(true)
			respondSuccess(w, resp, time.Since(start), true)
			return
		}
		metrics.RecordResponseCache(false)
	}

	resp, err := query()
	if err != nil {
		h.respondQueryError(w, r, err)
		return
	}

	if h.responses != nil {
		h.responses.Add(cacheKey, resp)
	}
	respondSuccess(w, resp, time.Since(start), false)
}

// Profile handles GET /api/v1/deputies/{deputyID}/profile
// Compares the deputy's numeric features with the dataset mean and median.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	rec := h.requireModel(w)
	if rec == nil {
		return
	}

	id, verr := parseDeputyID(chi.URLParam(r, "deputyID"))
	if verr != nil {
		respondValidationError(w, verr)
		return
	}

	start := time.Now()
	profile, err := rec.Profile(id)
	if err != nil {
		h.respondQueryError(w, r, err)
		return
	}
	respondSuccess(w, profile, time.Since(start), false)
}

// requireModel returns the installed model or answers 503.
func (h *Handler) requireModel(w http.ResponseWriter) Recommender {
	rec := h.recommender()
	if rec == nil {
		respondError(w, http.StatusServiceUnavailable, "MODEL_NOT_READY", "Similarity model is still loading", nil)
	}
	return rec
}

// respondQueryError maps recommender errors to HTTP responses.
func (h *Handler) respondQueryError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *recommend.NotFoundError
	if errors.As(err, &notFound) {
		respondError(w, http.StatusNotFound, "DEPUTY_NOT_FOUND", notFoundMessage(notFound), nil)
		return
	}

	logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Similarity query failed")
	respondError(w, http.StatusInternalServerError, "RECOMMENDATION_ERROR", "Failed to compute similar deputies", nil)
}

func notFoundMessage(e *recommend.NotFoundError) string {
	if e.ID != nil {
		return fmt.Sprintf("Deputy %d not found", *e.ID)
	}
	return fmt.Sprintf("Deputy %q not found", e.Name)
}
