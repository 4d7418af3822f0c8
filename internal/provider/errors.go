// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

// Package provider defines the shared error taxonomy for external data
// providers (metadata and streaming availability).
package provider

import (
	"errors"
	"fmt"
)

// ErrRateLimited indicates the provider rejected the request with HTTP 429.
// Callers treat the affected item as unresolved and continue.
var ErrRateLimited = errors.New("provider rate limit exceeded")

// StatusError reports a non-2xx provider response that is not a rate limit.
type StatusError struct {
	Provider   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.StatusCode)
}

// ConfigError reports missing or invalid provider credentials detected at
// client construction. It is a hard startup failure, never a runtime one.
type ConfigError struct {
	Provider string
	Reason   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Reason)
}

// IsRateLimited reports whether err is (or wraps) ErrRateLimited.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
