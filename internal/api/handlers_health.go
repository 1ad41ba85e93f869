// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/deputyrec/internal/models"
)

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, whether or not a model is loaded.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.LivenessStatus{
			Alive:  true,
			Uptime: time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK once a model with at least one deputy is installed,
// 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}

	data := models.ReadinessStatus{Uptime: time.Since(h.startTime).Seconds()}
	if rec := h.recommender(); rec != nil {
		st := rec.Status()
		data.Deputies = rec.Len()
		data.FeatureColumns = st.Columns
		data.Backend = st.Backend
		data.ModelFromCache = st.FromCache
		data.DatasetChecksum = st.DatasetChecksum
		data.Ready = data.Deputies > 0
	}

	statusCode := http.StatusOK
	status := "ready"
	if !data.Ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
