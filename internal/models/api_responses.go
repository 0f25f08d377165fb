// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package models

import (
	"time"
)

// APIResponse is the envelope returned by every JSON endpoint.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"shabad_id": 1, "raag": "Jap", ...},
//	  "metadata": {"timestamp": "2026-01-01T12:00:00Z", "query_time_ms": 4, "cached": true}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "NOT_FOUND", "message": "shabad 99999 not found"},
//	  "metadata": {"timestamp": "2026-01-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how a response was produced.
//
// Cached is true when the payload came from the document store rather than
// BaniDB.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a machine-readable error.
//
// Codes:
//   - INVALID_ID: path parameter is not a positive integer
//   - VALIDATION_ERROR: request body or query parameters failed validation
//   - NOT_FOUND: content does not exist locally or upstream
//   - UPSTREAM_UNAVAILABLE: BaniDB failed or its circuit is open
//   - RATE_LIMIT_EXCEEDED: too many requests from this client
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// MessageResponse carries a plain status message, e.g. for likes and the root endpoint.
type MessageResponse struct {
	Message string `json:"message"`
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Text     string `json:"text" validate:"required,min=1,max=500"`
	Language string `json:"language" validate:"omitempty,oneof=en pa"`
}

// QueryResponse is the result of POST /query. Intent decides which of
// Shabads, Recommendations or Message is set.
type QueryResponse struct {
	Intent          string   `json:"intent"`
	Language        string   `json:"language"`
	Tokens          []string `json:"tokens"`
	Source          string   `json:"source,omitempty"`
	Shabads         []Shabad `json:"shabads,omitempty"`
	Recommendations []Shabad `json:"recommendations,omitempty"`
	Message         string   `json:"message,omitempty"`
}

// MetadataResponse is the result of GET /metadata. Each listing is passed
// through as BaniDB published it.
type MetadataResponse struct {
	Raags   RawJSON `json:"raags"`
	Writers RawJSON `json:"writers"`
	Sources RawJSON `json:"sources"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status      string            `json:"status"`
	Version     string            `json:"version,omitempty"`
	Uptime      float64           `json:"uptime_seconds"`
	Checks      map[string]string `json:"checks,omitempty"`
	Recommender interface{}       `json:"recommender,omitempty"`
}
