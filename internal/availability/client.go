// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

// Package availability implements the streaming-availability provider client,
// its circuit breaker wrapper, and the persistent availability cache.
package availability

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/reelfeed/reelfeed/internal/metrics"
	"github.com/reelfeed/reelfeed/internal/models"
	"github.com/reelfeed/reelfeed/internal/provider"
)

// requestTimeout caps a single availability lookup. The provider is the
// slowest dependency in the request path; a hung lookup must not stall the
// whole feed computation.
const requestTimeout = 15 * time.Second

// maxBodyBytes caps response reads. Availability payloads are small; a
// multi-megabyte body is provider misbehavior.
const maxBodyBytes = 1 << 20

// Client fetches per-title streaming offers. Safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	logger  zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API root (used by tests).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client. The request timeout
// is preserved unless the supplied client sets its own.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc.Timeout == 0 {
			hc.Timeout = requestTimeout
		}
		c.httpc = hc
	}
}

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates an availability client. An empty API key is a
// configuration error; startup fails rather than serving mock data.
func NewClient(baseURL, apiKey string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &provider.ConfigError{Provider: "availability", Reason: "api key is required"}
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: requestTimeout},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Availability returns the streaming offers for one title in one country.
//
// A 404 means the provider has never heard of the title: that is a clean,
// cacheable empty result, not an error. 429 maps to the shared rate-limit
// sentinel. Every other non-2xx status, transport failure or timeout is an
// error and the title stays unresolved for this pass.
func (c *Client) Availability(ctx context.Context, titleID int64, country string) ([]models.AvailabilityRecord, error) {
	reqURL := fmt.Sprintf("%s/titles/%d/offers?country=%s", c.baseURL, titleID, country)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("availability: build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("availability", "error").Inc()
		return nil, fmt.Errorf("availability: title %d: %w", titleID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// Unknown title: clean empty availability.
		metrics.ProviderRequestsTotal.WithLabelValues("availability", "success").Inc()
		return []models.AvailabilityRecord{}, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.ProviderRequestsTotal.WithLabelValues("availability", "rate_limited").Inc()
		return nil, fmt.Errorf("availability: title %d: %w", titleID, provider.ErrRateLimited)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		metrics.ProviderRequestsTotal.WithLabelValues("availability", "error").Inc()
		c.logger.Warn().Int("status", resp.StatusCode).Int64("title_id", titleID).Msg("availability request failed")
		return nil, &provider.StatusError{Provider: "availability", StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("availability", "error").Inc()
		return nil, fmt.Errorf("availability: read body for title %d: %w", titleID, err)
	}

	metrics.ProviderRequestsTotal.WithLabelValues("availability", "success").Inc()
	return normalize(body, c.logger, titleID), nil
}

// offersPayload is the current wire shape.
type offersPayload struct {
	Offers []struct {
		ServiceID   string `json:"service_id"`
		ServiceName string `json:"service_name"`
		Link        string `json:"link"`
		OfferType   string `json:"offer_type"`
	} `json:"offers"`
}

// legacyPayload is the pre-2024 wire shape still emitted by some provider
// regions: a map keyed by service id.
type legacyPayload struct {
	Services map[string]struct {
		Name    string `json:"name"`
		WebLink string `json:"web_link"`
		Type    string `json:"type"`
	} `json:"services"`
}

// normalize decodes either wire shape into AvailabilityRecord values. A body
// matching neither shape is treated as empty availability, not an error;
// both shapes are still live on the provider side and a third would mean a
// contract change worth surfacing only in logs.
func normalize(body []byte, logger zerolog.Logger, titleID int64) []models.AvailabilityRecord {
	var current offersPayload
	if err := json.Unmarshal(body, &current); err == nil && current.Offers != nil {
		records := make([]models.AvailabilityRecord, 0, len(current.Offers))
		for _, o := range current.Offers {
			records = append(records, models.AvailabilityRecord{
				ServiceID: o.ServiceID,
				Name:      o.ServiceName,
				Link:      o.Link,
				Type:      models.OfferType(o.OfferType),
			})
		}
		return records
	}

	var legacy legacyPayload
	if err := json.Unmarshal(body, &legacy); err == nil && legacy.Services != nil {
		records := make([]models.AvailabilityRecord, 0, len(legacy.Services))
		for id, s := range legacy.Services {
			records = append(records, models.AvailabilityRecord{
				ServiceID: id,
				Name:      s.Name,
				Link:      s.WebLink,
				Type:      models.OfferType(s.Type),
			})
		}
		return records
	}

	logger.Warn().Int64("title_id", titleID).Msg("unrecognized availability payload shape, treating as empty")
	return []models.AvailabilityRecord{}
}
