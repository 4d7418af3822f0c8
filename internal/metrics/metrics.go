// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

// Package metrics defines the Prometheus instrumentation for Reelfeed.
// All collectors are registered with the default registry via promauto and
// exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, route pattern and
	// status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelfeed_http_requests_total",
			Help: "Total HTTP requests processed, by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes HTTP request latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelfeed_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds, by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// ProviderRequestsTotal counts external provider calls by provider name
	// and outcome (success, error, rate_limited).
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelfeed_provider_requests_total",
			Help: "External provider requests, by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	// AvailabilityCacheHits counts availability cache reads served fresh.
	AvailabilityCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelfeed_availability_cache_hits_total",
			Help: "Availability cache lookups answered by a fresh entry",
		},
	)

	// AvailabilityCacheMisses counts availability cache reads that were
	// absent, stale or unreadable.
	AvailabilityCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelfeed_availability_cache_misses_total",
			Help: "Availability cache lookups that required a provider fetch",
		},
	)

	// FeedProviderCallsPerRequest observes how much of the per-request
	// provider-call quota each feed computation spent.
	FeedProviderCallsPerRequest = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelfeed_feed_provider_calls_per_request",
			Help:    "Availability provider calls spent per feed request",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 10, 12, 15},
		},
	)

	// FeedRecommendationsReturned observes feed result sizes before
	// pagination.
	FeedRecommendationsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelfeed_feed_recommendations_returned",
			Help:    "Recommendations produced per feed computation",
			Buckets: []float64{0, 1, 5, 10, 20, 30, 50},
		},
	)

	// CircuitBreakerState tracks breaker state per breaker name
	// (0=closed, 1=half-open, 2=open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reelfeed_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// CircuitBreakerTransitions counts breaker state changes.
	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelfeed_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions, by breaker and states",
		},
		[]string{"name", "from", "to"},
	)
)
