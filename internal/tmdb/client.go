// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

// Package tmdb implements the movie metadata client: creator search and
// per-creator filmographies.
package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/reelfeed/reelfeed/internal/metrics"
	"github.com/reelfeed/reelfeed/internal/models"
	"github.com/reelfeed/reelfeed/internal/provider"
)

const (
	// DefaultBaseURL is the metadata provider API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"

	imageBaseURL = "https://image.tmdb.org/t/p"

	posterSize  = "w500"
	profileSize = "w185"

	requestTimeout = 10 * time.Second

	// Provider allows ~50 req/s per key; stay well under it.
	requestsPerSecond = 20
)

// Known-for departments kept by creator search. Directing maps to
// RoleDirector, Acting to RoleActor; every other department is discarded.
const (
	departmentActing    = "Acting"
	departmentDirecting = "Directing"
)

// Client talks to the metadata provider. Safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpc = hc }
}

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a metadata client. An empty API key is a configuration error;
// there is no degraded mode without credentials.
func New(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &provider.ConfigError{Provider: "tmdb", Reason: "api key is required"}
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SearchCreators searches people by name and returns creators suitable for
// favoriting. A blank or whitespace-only query returns an empty slice
// without touching the network. Results without a profile image, and
// results from departments other than acting or directing, are discarded.
func (c *Client) SearchCreators(ctx context.Context, query string) ([]models.CreatorSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.CreatorSummary{}, nil
	}

	var payload struct {
		Results []struct {
			ID                 int64  `json:"id"`
			Name               string `json:"name"`
			ProfilePath        string `json:"profile_path"`
			KnownForDepartment string `json:"known_for_department"`
		} `json:"results"`
	}

	params := url.Values{}
	params.Set("query", query)
	if err := c.doGET(ctx, "/search/person", params, &payload); err != nil {
		return nil, err
	}

	creators := make([]models.CreatorSummary, 0, len(payload.Results))
	for _, r := range payload.Results {
		if r.ProfilePath == "" {
			continue
		}
		var role models.CreatorRole
		switch r.KnownForDepartment {
		case departmentDirecting:
			role = models.RoleDirector
		case departmentActing:
			role = models.RoleActor
		default:
			continue
		}
		creators = append(creators, models.CreatorSummary{
			ID:         r.ID,
			Name:       r.Name,
			Role:       role,
			ProfileURL: imageURL(profileSize, r.ProfilePath),
		})
	}
	return creators, nil
}

// Filmography fetches a creator's movie credits and display name. The two
// provider endpoints are independent, so they are fetched concurrently; the
// first error wins. Cast credits are all kept; crew credits are kept only
// when the job is exactly "Director".
func (c *Client) Filmography(ctx context.Context, creatorID int64) (models.Filmography, error) {
	var (
		wg sync.WaitGroup

		credits struct {
			Cast []struct {
				ID          int64  `json:"id"`
				Title       string `json:"title"`
				ReleaseDate string `json:"release_date"`
				PosterPath  string `json:"poster_path"`
			} `json:"cast"`
			Crew []struct {
				ID          int64  `json:"id"`
				Title       string `json:"title"`
				ReleaseDate string `json:"release_date"`
				PosterPath  string `json:"poster_path"`
				Job         string `json:"job"`
			} `json:"crew"`
		}
		creditsErr error

		person struct {
			Name string `json:"name"`
		}
		personErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		creditsErr = c.doGET(ctx, fmt.Sprintf("/person/%d/movie_credits", creatorID), nil, &credits)
	}()
	go func() {
		defer wg.Done()
		personErr = c.doGET(ctx, fmt.Sprintf("/person/%d", creatorID), nil, &person)
	}()
	wg.Wait()

	if creditsErr != nil {
		return models.Filmography{}, creditsErr
	}
	if personErr != nil {
		return models.Filmography{}, personErr
	}

	fg := models.Filmography{
		CreatorName: person.Name,
		Cast:        make([]models.CandidateTitle, 0, len(credits.Cast)),
		Directed:    make([]models.CandidateTitle, 0),
	}
	for _, cr := range credits.Cast {
		fg.Cast = append(fg.Cast, models.CandidateTitle{
			ID:          cr.ID,
			Title:       cr.Title,
			ReleaseDate: cr.ReleaseDate,
			PosterPath:  cr.PosterPath,
		})
	}
	for _, cr := range credits.Crew {
		if cr.Job != "Director" {
			continue
		}
		fg.Directed = append(fg.Directed, models.CandidateTitle{
			ID:          cr.ID,
			Title:       cr.Title,
			ReleaseDate: cr.ReleaseDate,
			PosterPath:  cr.PosterPath,
		})
	}
	return fg, nil
}

// doGET performs a paced, authenticated GET and decodes the JSON response
// into v. Response classification follows the shared provider taxonomy.
func (c *Client) doGET(ctx context.Context, path string, params url.Values, v interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("tmdb: rate limiter: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("tmdb: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("tmdb", "error").Inc()
		return fmt.Errorf("tmdb: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.ProviderRequestsTotal.WithLabelValues("tmdb", "rate_limited").Inc()
		return fmt.Errorf("tmdb: %s: %w", path, provider.ErrRateLimited)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		metrics.ProviderRequestsTotal.WithLabelValues("tmdb", "error").Inc()
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("metadata request failed")
		return &provider.StatusError{Provider: "tmdb", StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("tmdb", "error").Inc()
		return fmt.Errorf("tmdb: decode %s: %w", path, err)
	}

	metrics.ProviderRequestsTotal.WithLabelValues("tmdb", "success").Inc()
	return nil
}

// PosterURL expands a provider poster path into a full image URL.
// An empty path yields an empty URL.
func PosterURL(posterPath string) string {
	return imageURL(posterSize, posterPath)
}

func imageURL(size, path string) string {
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return imageBaseURL + "/" + size + path
}
