// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/baniai/internal/logging"
	"github.com/tomtom215/baniai/internal/models"
	"github.com/tomtom215/baniai/internal/recommend"
)

// Health check values.
const (
	checkOK          = "ok"
	checkUnreachable = "unreachable"
	checkSkipped     = "not configured"
)

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Kubernetes liveness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthResponse} "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, models.HealthResponse{
		Status:  "alive",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
	}, time.Now(), false)
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// The service is ready when MongoDB answers a ping. A recommender that is
// not built yet degrades the status but does not fail the probe, since
// content endpoints still work.
//
// @Summary Kubernetes readiness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthResponse} "Service is ready"
// @Failure 503 {object} models.APIResponse{data=models.HealthResponse} "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := make(map[string]string, 2)
	ready := true

	switch {
	case h.db == nil:
		checks["mongodb"] = checkSkipped
	default:
		ctx, cancel := context.WithTimeout(r.Context(), h.readyTimeout)
		err := h.db.Ping(ctx)
		cancel()
		if err != nil {
			ready = false
			checks["mongodb"] = checkUnreachable
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check: MongoDB ping failed")
		} else {
			checks["mongodb"] = checkOK
		}
	}

	state := h.recommender.State()
	checks["recommender"] = state.String()

	resp := models.HealthResponse{
		Status:      "ready",
		Version:     h.version,
		Uptime:      time.Since(h.startTime).Seconds(),
		Checks:      checks,
		Recommender: h.recommender.Stats(),
	}
	switch {
	case !ready:
		resp.Status = "not_ready"
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status: "error",
			Data:   resp,
			Metadata: models.Metadata{
				Timestamp:   time.Now().UTC(),
				QueryTimeMS: time.Since(start).Milliseconds(),
			},
			Error: &models.APIError{Code: ErrCodeServiceUnavailable, Message: "MongoDB is unreachable"},
		})
		return
	case state != recommend.StateReady:
		resp.Status = "degraded"
	}
	respondSuccess(w, resp, start, false)
}
