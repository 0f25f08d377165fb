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
	"github.com/tomtom215/baniai/internal/middleware"
	"github.com/tomtom215/baniai/internal/recommend"
)

// RecommendResponse is the result of GET /recommend/{id}.
type RecommendResponse struct {
	ShabadID        int                      `json:"shabad_id"`
	TopN            int                      `json:"top_n"`
	State           string                   `json:"state"`
	Known           bool                     `json:"known"`
	Recommendations []recommend.ScoredRecord `json:"recommendations"`
}

// StatsResponse is the result of GET /stats.
type StatsResponse struct {
	Interactions map[string]int64        `json:"interactions,omitempty"`
	Recommender  recommend.Stats         `json:"recommender"`
	Latency      []middleware.RouteStats `json:"latency"`
}

// Recommend returns shabads similar to the given one.
//
// @Summary Similar shabads
// @Description Ranks the cached corpus by cosine similarity to the shabad's combined text and category features, with like feedback applied. Returns an empty list when the shabad is not cached or the recommender has not been built.
// @Tags Recommendations
// @Produce json
// @Param id path int true "Shabad ID"
// @Param top_n query int false "Number of results, capped at the configured maximum" default(3)
// @Success 200 {object} models.APIResponse{data=RecommendResponse}
// @Failure 400 {object} models.APIResponse "Invalid ID or top_n"
// @Router /recommend/{id} [get]
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	topN, ok := queryInt(w, r, "top_n", h.defaultTopN)
	if !ok {
		return
	}
	if topN <= 0 {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "top_n must be greater than 0",
			map[string]interface{}{"field": "top_n"})
		return
	}

	topN = h.recommender.ClampTopN(topN)
	recs := h.recommender.RecommendScored(id, topN)
	respondSuccess(w, RecommendResponse{
		ShabadID:        id,
		TopN:            topN,
		State:           h.recommender.State().String(),
		Known:           h.recommender.Contains(id),
		Recommendations: recs,
	}, start, false)
}

// Stats reports interaction counts, recommender state and request latency.
//
// @Summary Service statistics
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=StatsResponse}
// @Router /stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	resp := StatsResponse{
		Recommender: h.recommender.Stats(),
		Latency:     h.perfMon.Stats(),
	}

	if h.interactions != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.readyTimeout)
		counts, err := h.interactions.CountByType(ctx)
		cancel()
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to count interactions")
		} else {
			resp.Interactions = counts
		}
	}
	respondSuccess(w, resp, start, false)
}
