// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/reelfeed/reelfeed/internal/logging"
	"github.com/reelfeed/reelfeed/internal/models"
	"github.com/reelfeed/reelfeed/internal/provider"
	"github.com/reelfeed/reelfeed/internal/recommend"
)

// FeedEngine computes recommendation feed pages.
type FeedEngine interface {
	Feed(ctx context.Context, userID string, limit int, cursor string) (recommend.FeedPage, error)
}

// CreatorSearcher searches creators by name.
type CreatorSearcher interface {
	SearchCreators(ctx context.Context, query string) ([]models.CreatorSummary, error)
}

// PreferenceStore is the write side of the user preference repository.
type PreferenceStore interface {
	AddFavorite(ctx context.Context, userID, creatorID, name, role string) error
	RemoveFavorite(ctx context.Context, userID, creatorID string) error
	SetPlatforms(ctx context.Context, userID string, slugs []string) error
	MarkWatched(ctx context.Context, userID, titleID string) error
	UnmarkWatched(ctx context.Context, userID, titleID string) error
}

// Handler implements the HTTP endpoints. The user id comes from the URL
// path; authentication happens at an upstream gateway and is out of scope
// here.
type Handler struct {
	engine          FeedEngine
	search          CreatorSearcher
	prefs           PreferenceStore
	defaultPageSize int
	maxPageSize     int
}

// NewHandler wires the endpoint handler.
func NewHandler(engine FeedEngine, search CreatorSearcher, prefs PreferenceStore, defaultPageSize, maxPageSize int) *Handler {
	return &Handler{
		engine:          engine,
		search:          search,
		prefs:           prefs,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// feedRequest carries the validated feed query parameters.
type feedRequest struct {
	Cursor string `validate:"omitempty,max=64"`
}

// Feed serves GET /api/v1/users/{userID}/feed.
//
// limit is clamped to [1, max page size] with out-of-range values falling
// back rather than erroring. The cursor addresses a position inside the
// freshly computed feed; since the feed is recomputed per request the cursor
// is best-effort, and an id that no longer appears restarts from the top.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	limit := getIntParam(r, "limit", h.defaultPageSize)
	if limit < 1 {
		limit = h.defaultPageSize
	}
	if limit > h.maxPageSize {
		limit = h.maxPageSize
	}

	req := feedRequest{Cursor: r.URL.Query().Get("cursor")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	page, err := h.engine.Feed(r.Context(), userID, limit, req.Cursor)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "FEED_ERROR", "failed to compute feed", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.FeedResponse{
			Items:      page.Items,
			Count:      len(page.Items),
			NextCursor: page.NextCursor,
		},
		Metadata: metadataWithCalls(page.ProviderCalls),
	})
}

// CreatorSearch serves GET /api/v1/creators/search?query=.
// Queries shorter than two characters are rejected before any provider
// traffic.
func (h *Handler) CreatorSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if len(query) < 2 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "query must be at least 2 characters", nil)
		return
	}

	results, err := h.search.SearchCreators(r.Context(), query)
	if err != nil {
		if provider.IsRateLimited(err) {
			respondError(w, http.StatusServiceUnavailable, "RATE_LIMIT_EXCEEDED", "metadata provider is rate limiting, retry later", err)
			return
		}
		respondError(w, http.StatusBadGateway, "PROVIDER_ERROR", "creator search failed", err)
		return
	}

	respondData(w, http.StatusOK, models.CreatorSearchResponse{
		Results: results,
		Count:   len(results),
	})
}

// favoriteRequest is the optional body for adding a favorite.
type favoriteRequest struct {
	Name string `json:"name" validate:"omitempty,max=256"`
	Role string `json:"role" validate:"omitempty,oneof=actor director"`
}

// AddFavorite serves POST /api/v1/users/{userID}/favorites/{creatorID}.
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	creatorID := chi.URLParam(r, "creatorID")

	var req favoriteRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
			return
		}
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	if req.Role == "" {
		req.Role = string(models.RoleActor)
	}

	if err := h.prefs.AddFavorite(r.Context(), userID, creatorID, req.Name, req.Role); err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "failed to add favorite", err)
		return
	}
	respondData(w, http.StatusCreated, map[string]string{"creator_id": creatorID})
}

// RemoveFavorite serves DELETE /api/v1/users/{userID}/favorites/{creatorID}.
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	creatorID := chi.URLParam(r, "creatorID")

	if err := h.prefs.RemoveFavorite(r.Context(), userID, creatorID); err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "failed to remove favorite", err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"creator_id": creatorID})
}

// ListPlatforms serves GET /api/v1/platforms: the platform slugs the feed
// can match availability against, for clients building subscription pickers.
func (h *Handler) ListPlatforms(w http.ResponseWriter, r *http.Request) {
	slugs := recommend.KnownPlatforms()
	respondData(w, http.StatusOK, map[string]interface{}{
		"platforms": slugs,
		"count":     len(slugs),
	})
}

// SetPlatforms serves PUT /api/v1/users/{userID}/platforms, replacing the
// subscription set. Unknown slugs are stored as-is; they simply never match
// availability, so they are flagged in the log rather than rejected.
func (h *Handler) SetPlatforms(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req models.SetPlatformsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	for _, slug := range req.Platforms {
		if !recommend.KnownPlatform(slug) {
			logging.Warn().Str("user_id", sanitizeLogValue(userID)).Str("slug", sanitizeLogValue(slug)).
				Msg("storing unrecognized platform slug, it will never match availability")
		}
	}

	if err := h.prefs.SetPlatforms(r.Context(), userID, req.Platforms); err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "failed to set platforms", err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{"platforms": req.Platforms})
}

// MarkWatched serves POST /api/v1/users/{userID}/watched/{titleID}.
func (h *Handler) MarkWatched(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	titleID := chi.URLParam(r, "titleID")

	if err := h.prefs.MarkWatched(r.Context(), userID, titleID); err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "failed to mark watched", err)
		return
	}
	respondData(w, http.StatusCreated, map[string]string{"title_id": titleID})
}

// UnmarkWatched serves DELETE /api/v1/users/{userID}/watched/{titleID}.
func (h *Handler) UnmarkWatched(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	titleID := chi.URLParam(r, "titleID")

	if err := h.prefs.UnmarkWatched(r.Context(), userID, titleID); err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "failed to unmark watched", err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"title_id": titleID})
}
