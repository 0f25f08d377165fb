// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

// Package logging provides the zerolog-based global logger for Bani AI.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("Server starting")
//	logging.Ctx(ctx).Warn().Err(err).Int("shabad_id", id).Msg("Upstream fetch failed")
//
// Components receive a zerolog.Logger by value and add a component field:
//
//	logger = logger.With().Str("component", "content").Logger()
//
// # Context
//
// The HTTP layer stores a request_id in the request context. Background
// jobs call ContextWithNewCorrelationID once per run. Ctx adds both fields
// when present.
//
// # slog
//
// NewSlogLogger adapts a zerolog.Logger for libraries that log through
// log/slog, such as sutureslog.
//
// # User input
//
// Query text and path values are passed through SanitizeInput before they
// reach a log line. Connection strings go through RedactURI.
package logging
