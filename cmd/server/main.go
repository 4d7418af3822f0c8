// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

// Reelfeed server entry point. Startup is strictly sequential: config,
// logging, stores, provider clients, engine, HTTP. A missing provider
// credential fails startup; the server never runs against mock data.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/reelfeed/reelfeed/internal/api"
	"github.com/reelfeed/reelfeed/internal/availability"
	"github.com/reelfeed/reelfeed/internal/config"
	"github.com/reelfeed/reelfeed/internal/logging"
	"github.com/reelfeed/reelfeed/internal/recommend"
	"github.com/reelfeed/reelfeed/internal/store"
	"github.com/reelfeed/reelfeed/internal/tmdb"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().Int("port", cfg.Server.Port).Str("country", cfg.Feed.Country).Msg("starting reelfeed")

	prefStore, err := store.New(cfg.Database.Path,
		store.WithLogger(logging.With().Str("component", "store").Logger()))
	if err != nil {
		return err
	}
	defer prefStore.Close()

	cacheDB, err := openCacheDB(cfg)
	if err != nil {
		return fmt.Errorf("open availability cache: %w", err)
	}
	defer cacheDB.Close()

	cache := availability.NewCache(cacheDB,
		availability.WithTTL(cfg.Cache.TTL),
		availability.WithCacheLogger(logging.With().Str("component", "availability-cache").Logger()))

	metadataClient, err := tmdb.New(cfg.TMDB.APIKey,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithLogger(logging.With().Str("component", "tmdb").Logger()))
	if err != nil {
		return err
	}

	availClient, err := availability.NewClient(cfg.Availability.BaseURL, cfg.Availability.APIKey,
		availability.WithLogger(logging.With().Str("component", "availability").Logger()))
	if err != nil {
		return err
	}
	breaker := availability.NewBreakerClient(availClient,
		logging.With().Str("component", "availability-breaker").Logger())

	engine, err := recommend.NewEngine(
		recommend.Config{
			TargetCount:      cfg.Feed.TargetCount,
			BatchSize:        cfg.Feed.BatchSize,
			MaxProviderCalls: cfg.Feed.MaxProviderCalls,
			MaxResults:       cfg.Feed.MaxResults,
			Country:          cfg.Feed.Country,
		},
		prefStore,
		metadataClient,
		cache,
		breaker,
		logging.With().Str("component", "recommend").Logger(),
	)
	if err != nil {
		return err
	}

	handler := api.NewHandler(engine, metadataClient, prefStore,
		cfg.API.DefaultPageSize, cfg.API.MaxPageSize)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler, cfg),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logging.Info().Msg("shutdown complete")
	return nil
}

// openCacheDB opens the Badger store backing the availability cache.
// Badger's own logger is silenced; cache-level events go through zerolog.
func openCacheDB(cfg *config.Config) (*badger.DB, error) {
	var opts badger.Options
	if cfg.Cache.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Cache.Path)
	}
	opts = opts.WithLogger(nil)

	return badger.Open(opts)
}
