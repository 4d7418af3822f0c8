// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP
// endpoints. It provides consistent structure for both successful and error
// responses.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"count": 2, "items": [...]},
//	  "metadata": {"timestamp": "2026-08-30T12:00:00Z"}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "query must be at least 2 characters"
//	  },
//	  "metadata": {"timestamp": "2026-08-30T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
//
// Fields:
//   - Timestamp: Server time when the response was generated (RFC3339)
//   - ProviderCalls: External availability lookups spent on this request
//     (feed responses only, omitted elsewhere)
type Metadata struct {
	Timestamp     time.Time `json:"timestamp"`
	ProviderCalls int       `json:"provider_calls,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - STORAGE_ERROR: Preference repository failure
//   - PROVIDER_ERROR: Upstream metadata/availability failure
//   - NOT_FOUND: Resource doesn't exist
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// FeedResponse wraps an ordered recommendation page.
//
// Items is the full payload; there are no per-item errors, a feed request
// either fails as a whole or returns a (possibly empty) array. NextCursor is
// the id of the last item, to be passed back as ?cursor= for the next page;
// it is omitted when the page is empty.
type FeedResponse struct {
	Items      []Recommendation `json:"items"`
	Count      int              `json:"count"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// CreatorSearchResponse wraps creator search results.
type CreatorSearchResponse struct {
	Results []CreatorSummary `json:"results"`
	Count   int              `json:"count"`
}
