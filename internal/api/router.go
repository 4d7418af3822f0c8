// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reelfeed/reelfeed/internal/config"
)

// NewRouter assembles the chi router: global middleware, the metrics
// endpoint, and the versioned API routes with per-group rate limits.
func NewRouter(h *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	// CORS must be global to handle OPTIONS preflight.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.API.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		MaxAge:         300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	// Health gets a permissive limit so orchestrator probes never starve.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.API.RateLimitReqs*10, cfg.API.RateLimitWindow))
		r.Get("/", h.Health)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.API.RateLimitReqs, cfg.API.RateLimitWindow))
		r.Use(PrometheusMetrics)

		r.Get("/creators/search", h.CreatorSearch)
		r.Get("/platforms", h.ListPlatforms)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/feed", h.Feed)

			r.Post("/favorites/{creatorID}", h.AddFavorite)
			r.Delete("/favorites/{creatorID}", h.RemoveFavorite)

			r.Put("/platforms", h.SetPlatforms)

			r.Post("/watched/{titleID}", h.MarkWatched)
			r.Delete("/watched/{titleID}", h.UnmarkWatched)
		})
	})

	return r
}
