// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/baniai/internal/content"
	"github.com/tomtom215/baniai/internal/logging"
	"github.com/tomtom215/baniai/internal/models"
	"github.com/tomtom215/baniai/internal/validation"
)

// Root reports that the service is running.
//
// @Summary Service banner
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.MessageResponse}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, models.MessageResponse{Message: "Bani AI API is running!"}, time.Now(), false)
}

// Query classifies free text and routes it to search, recommendations or
// a fallback message.
//
// @Summary Natural language query
// @Description Tokenizes the text, detects a search, recommend or general intent and answers accordingly. Search reads the document store first and falls back to BaniDB.
// @Tags Content
// @Accept json
// @Produce json
// @Param request body models.QueryRequest true "Query text and language (en or pa)"
// @Success 200 {object} models.APIResponse{data=models.QueryResponse}
// @Failure 400 {object} models.APIResponse "Invalid body"
// @Failure 503 {object} models.APIResponse "BaniDB unavailable"
// @Router /query [post]
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.QueryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	resp, err := h.content.Query(r.Context(), req.Text, req.Language)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("intent", resp.Intent).
		Str("language", resp.Language).
		Int("tokens", len(resp.Tokens)).
		Msg("Query handled")
	respondSuccess(w, resp, start, resp.Source == string(content.SourceStore))
}

// Shabad returns a shabad by ID.
//
// @Summary Get shabad
// @Description Reads the shabad from the document store, falling back to BaniDB and caching the result. Logs a view interaction.
// @Tags Content
// @Produce json
// @Param id path int true "Shabad ID"
// @Success 200 {object} models.APIResponse{data=models.Shabad}
// @Failure 400 {object} models.APIResponse "Invalid ID"
// @Failure 404 {object} models.APIResponse "Shabad not found"
// @Router /shabad/{id} [get]
func (h *Handler) Shabad(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	res := h.content.Shabad(r.Context(), id)
	if res.Err != nil {
		respondServiceError(w, r, res.Err)
		return
	}
	respondSuccess(w, res.Value, start, res.Cached())
}

// Like records a like for a shabad.
//
// @Summary Like shabad
// @Description Logs a like interaction and schedules a recommendation reweight.
// @Tags Content
// @Produce json
// @Param id path int true "Shabad ID"
// @Success 200 {object} models.APIResponse{data=models.MessageResponse}
// @Failure 400 {object} models.APIResponse "Invalid ID"
// @Failure 500 {object} models.APIResponse "Like could not be recorded"
// @Router /like/{id} [post]
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	msg, err := h.content.Like(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, models.MessageResponse{Message: msg}, start, false)
}

// Ang returns one page of a source.
//
// @Summary Get ang
// @Description Reads the page from the document store, falling back to BaniDB. Logs a view_ang interaction.
// @Tags Content
// @Produce json
// @Param ang path int true "Ang (page) number"
// @Param source query string false "Source ID" default(G)
// @Success 200 {object} models.APIResponse{data=models.Ang}
// @Failure 400 {object} models.APIResponse "Invalid ang or source"
// @Failure 404 {object} models.APIResponse "Ang not found"
// @Router /ang/{ang} [get]
func (h *Handler) Ang(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ang, ok := pathID(w, r, "ang")
	if !ok {
		return
	}

	res := h.content.Ang(r.Context(), ang, r.URL.Query().Get("source"))
	if res.Err != nil {
		respondServiceError(w, r, res.Err)
		return
	}
	respondSuccess(w, res.Value, start, res.Cached())
}

// Random returns a random shabad from BaniDB.
//
// @Summary Random shabad
// @Tags Content
// @Produce json
// @Param source query string false "Source ID" default(G)
// @Success 200 {object} models.APIResponse{data=models.Shabad}
// @Failure 400 {object} models.APIResponse "Invalid source"
// @Failure 503 {object} models.APIResponse "BaniDB unavailable"
// @Router /random [get]
func (h *Handler) Random(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	res := h.content.Random(r.Context(), r.URL.Query().Get("source"))
	if res.Err != nil {
		respondServiceError(w, r, res.Err)
		return
	}
	respondSuccess(w, res.Value, start, false)
}

// Metadata returns the raag, writer and source listings.
//
// @Summary Metadata listings
// @Description Each listing is read from the document store and independently falls back to BaniDB.
// @Tags Content
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.MetadataResponse}
// @Failure 503 {object} models.APIResponse "BaniDB unavailable"
// @Router /metadata [get]
func (h *Handler) Metadata(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	resp, cached, err := h.content.Metadata(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, resp, start, cached)
}
