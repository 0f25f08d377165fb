// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/baniai/internal/middleware"
)

// APIPrefix is the versioned mount point. Routes are also served at the root.
const APIPrefix = "/api/v1"

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	timeout       time.Duration
}

// NewRouter creates a router. A non-positive timeout disables the
// per-request deadline.
func NewRouter(handler *Handler, mw *ChiMiddleware, timeout time.Duration) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		timeout:       timeout,
	}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(chimiddleware.Compress(5, "application/json"))
	r.Use(router.handler.PerformanceMonitor().Middleware)
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// ========================
	// Infrastructure Endpoints
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// One limiter shared by both mount points.
	limiter := router.chiMiddleware.RateLimit("api")

	r.Group(func(r chi.Router) { router.mount(r, limiter) })
	r.Route(APIPrefix, func(r chi.Router) { router.mount(r, limiter) })

	return r
}

// mount registers health and content routes on r.
func (router *Router) mount(r chi.Router, limiter func(http.Handler) http.Handler) {
	h := router.handler

	// Probes are exempt from rate limiting and timeouts.
	r.Get("/health/live", h.HealthLive)
	r.Get("/health/ready", h.HealthReady)

	r.Group(func(r chi.Router) {
		r.Use(limiter)
		r.Use(APISecurityHeaders())
		if router.timeout > 0 {
			r.Use(chimiddleware.Timeout(router.timeout))
		}

		r.Get("/", h.Root)
		r.Post("/query", h.Query)
		r.Get("/shabad/{id}", h.Shabad)
		r.Post("/like/{id}", h.Like)
		r.Get("/ang/{ang}", h.Ang)
		r.Get("/random", h.Random)
		r.Get("/metadata", h.Metadata)
		r.Get("/recommend/{id}", h.Recommend)
		r.Get("/stats", h.Stats)
	})
}
