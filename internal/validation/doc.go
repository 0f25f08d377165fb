// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

// Package validation wraps go-playground/validator v10 with a shared
// instance and messages in the API's VALIDATION_ERROR format.
//
// Besides the built-in tags it registers source_id, which accepts BaniDB
// source IDs (G, D, B and so on).
//
//	var req models.QueryRequest
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
//
// Path and query values are checked with ValidateVar:
//
//	if verr := validation.ValidateVar("source", source, "source_id"); verr != nil { ... }
package validation
