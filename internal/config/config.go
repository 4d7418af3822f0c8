// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

// Package config loads and validates Reelfeed configuration from layered
// sources: built-in defaults, an optional YAML file, and environment
// variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Reelfeed server.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	TMDB         TMDBConfig         `koanf:"tmdb"`
	Availability AvailabilityConfig `koanf:"availability"`
	Database     DatabaseConfig     `koanf:"database"`
	Cache        CacheConfig        `koanf:"cache"`
	Feed         FeedConfig         `koanf:"feed"`
	API          APIConfig          `koanf:"api"`
	Logging      LoggingConfig      `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// TMDBConfig holds metadata provider settings. APIKey is required; there is
// no degraded or mock mode when it is absent, startup fails.
type TMDBConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
}

// AvailabilityConfig holds streaming-availability provider settings. APIKey
// is required; startup fails without it.
type AvailabilityConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
}

// DatabaseConfig holds the DuckDB preference store settings.
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// CacheConfig holds the Badger availability cache settings.
type CacheConfig struct {
	Path     string        `koanf:"path"`
	InMemory bool          `koanf:"in_memory"`
	TTL      time.Duration `koanf:"ttl"`
}

// FeedConfig holds the recommendation engine knobs. The defaults implement
// the production quota contract; tests inject smaller values.
type FeedConfig struct {
	TargetCount      int    `koanf:"target_count"`
	BatchSize        int    `koanf:"batch_size"`
	MaxProviderCalls int    `koanf:"max_provider_calls"`
	MaxResults       int    `koanf:"max_results"`
	Country          string `koanf:"country"`
}

// APIConfig holds HTTP API behavior settings.
type APIConfig struct {
	DefaultPageSize int           `koanf:"default_page_size"`
	MaxPageSize     int           `koanf:"max_page_size"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Timeout: 30 * time.Second,
		},
		TMDB: TMDBConfig{
			APIKey:  "",
			BaseURL: "https://api.themoviedb.org/3",
		},
		Availability: AvailabilityConfig{
			APIKey:  "",
			BaseURL: "https://api.streamavailability.example/v2",
		},
		Database: DatabaseConfig{
			Path: "/data/reelfeed.duckdb",
		},
		Cache: CacheConfig{
			Path:     "/data/availability-cache",
			InMemory: false,
			TTL:      24 * time.Hour,
		},
		Feed: FeedConfig{
			TargetCount:      20,
			BatchSize:        10,
			MaxProviderCalls: 15,
			MaxResults:       50,
			Country:          "pl",
		},
		API: APIConfig{
			DefaultPageSize: 50,
			MaxPageSize:     50,
			RateLimitReqs:   100,
			RateLimitWindow: 1 * time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for values that would make the server
// unable to operate. Missing provider credentials are a hard startup error;
// there is no mock-data fallback.
func (c *Config) Validate() error {
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("tmdb.api_key is required (set TMDB_API_KEY)")
	}
	if c.Availability.APIKey == "" {
		return fmt.Errorf("availability.api_key is required (set AVAILABILITY_API_KEY)")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Feed.TargetCount < 1 {
		return fmt.Errorf("feed.target_count must be positive, got %d", c.Feed.TargetCount)
	}
	if c.Feed.BatchSize < 1 {
		return fmt.Errorf("feed.batch_size must be positive, got %d", c.Feed.BatchSize)
	}
	if c.Feed.MaxProviderCalls < 0 {
		return fmt.Errorf("feed.max_provider_calls must not be negative, got %d", c.Feed.MaxProviderCalls)
	}
	if c.Feed.MaxResults < 1 {
		return fmt.Errorf("feed.max_results must be positive, got %d", c.Feed.MaxResults)
	}
	if len(c.Feed.Country) != 2 {
		return fmt.Errorf("feed.country must be a 2-letter code, got %q", c.Feed.Country)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("api.default_page_size must be between 1 and max_page_size (%d), got %d",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	return nil
}
