// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/baniai/internal/banidb"
	"github.com/tomtom215/baniai/internal/content"
	"github.com/tomtom215/baniai/internal/validation"
)

// Error codes for API responses.
const (
	ErrCodeInvalidID           = "INVALID_ID"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeRateLimited         = "RATE_LIMIT_EXCEEDED"
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ErrCodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// errorMapping is the HTTP rendering of a service error.
type errorMapping struct {
	status  int
	code    string
	message string
}

// mapServiceError classifies an error returned by the content service.
// The message is safe to show to clients; the full error is only logged.
func mapServiceError(err error) errorMapping {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		return errorMapping{http.StatusBadRequest, ErrCodeValidation, verr.ToAPIError().Message}
	case errors.Is(err, content.ErrInvalidInput):
		return errorMapping{http.StatusBadRequest, ErrCodeInvalidID, "ID must be a positive integer"}
	case errors.Is(err, content.ErrNotFound):
		return errorMapping{http.StatusNotFound, ErrCodeNotFound, "Content not found"}
	case errors.Is(err, content.ErrUpstream), errors.Is(err, banidb.ErrUnavailable):
		return errorMapping{http.StatusServiceUnavailable, ErrCodeUpstreamUnavailable, "BaniDB is unavailable, try again later"}
	case errors.Is(err, context.DeadlineExceeded):
		return errorMapping{http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Request timed out"}
	default:
		return errorMapping{http.StatusInternalServerError, ErrCodeInternal, "Internal server error"}
	}
}
