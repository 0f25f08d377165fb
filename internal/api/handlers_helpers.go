// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/baniai/internal/logging"
	"github.com/tomtom215/baniai/internal/models"
	"github.com/tomtom215/baniai/internal/validation"
)

// maxBodyBytes caps request bodies; queries are at most 500 characters.
const maxBodyBytes = 16 << 10

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in a success envelope. start is when the handler
// began; cached reports whether data came from the document store.
func respondSuccess(w http.ResponseWriter, data interface{}, start time.Time, cached bool) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
		},
	})
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondServiceError maps err to a status and code, logs it and responds.
// Server-side failures are logged at error level, client errors at debug.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	m := mapServiceError(err)

	event := logging.Ctx(r.Context()).Debug()
	if m.status >= http.StatusInternalServerError {
		event = logging.Ctx(r.Context()).Error()
	}
	event.
		Str("code", m.code).
		Str("path", logging.SanitizeInput(r.URL.Path)).
		Str("error", logging.SanitizeError(err)).
		Msg("API error")

	respondError(w, m.status, m.code, m.message, nil)
}

// respondValidationError sends a VALIDATION_ERROR for verr.
func respondValidationError(w http.ResponseWriter, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
}

// pathID parses the positive integer path parameter name. It writes an
// INVALID_ID response and returns false when the value is unusable.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidID,
			fmt.Sprintf("%s must be a positive integer", name),
			map[string]interface{}{"value": logging.SanitizeInput(raw)})
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter. A missing parameter
// yields def; a malformed one is reported through ok=false after writing a
// VALIDATION_ERROR response.
func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation,
			fmt.Sprintf("%s must be an integer", name),
			map[string]interface{}{"field": name, "value": logging.SanitizeInput(raw)})
		return 0, false
	}
	return v, true
}

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads at most maxBodyBytes of JSON from r into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return errEmptyBody
	}
	if len(body) > maxBodyBytes {
		return fmt.Errorf("request body exceeds %d bytes", maxBodyBytes)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
