// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

// Package recommend computes per-user recommendation feeds: it aggregates
// candidate titles from favorite creators' filmographies, resolves streaming
// availability under a hard provider-call quota, and assembles the titles
// streamable on the user's subscribed platforms.
package recommend

import (
	"fmt"
)

// Config holds the feed computation knobs. Production uses DefaultConfig;
// tests inject smaller values to exercise quota and batch boundaries.
type Config struct {
	// TargetCount is how many recommendations a feed computation aims for
	// before it stops fetching further batches.
	TargetCount int

	// BatchSize is how many candidate titles are resolved per batch.
	BatchSize int

	// MaxProviderCalls caps external availability lookups per feed request.
	// Cache hits are free; only actual provider fetches spend the budget.
	MaxProviderCalls int

	// MaxResults caps the total recommendations a computation may return.
	MaxResults int

	// Country is the ISO 3166-1 alpha-2 market for availability lookups.
	Country string
}

// DefaultConfig returns the production feed configuration.
func DefaultConfig() Config {
	return Config{
		TargetCount:      20,
		BatchSize:        10,
		MaxProviderCalls: 15,
		MaxResults:       50,
		Country:          "pl",
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c Config) Validate() error {
	if c.TargetCount < 1 {
		return fmt.Errorf("recommend: target count must be positive, got %d", c.TargetCount)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("recommend: batch size must be positive, got %d", c.BatchSize)
	}
	if c.MaxProviderCalls < 0 {
		return fmt.Errorf("recommend: max provider calls must not be negative, got %d", c.MaxProviderCalls)
	}
	if c.MaxResults < 1 {
		return fmt.Errorf("recommend: max results must be positive, got %d", c.MaxResults)
	}
	if len(c.Country) != 2 {
		return fmt.Errorf("recommend: country must be a 2-letter code, got %q", c.Country)
	}
	return nil
}
