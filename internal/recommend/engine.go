// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

package recommend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/reelfeed/reelfeed/internal/metrics"
	"github.com/reelfeed/reelfeed/internal/models"
)

// Engine orchestrates a feed computation: preference load, candidate
// aggregation, quota-bounded availability resolution, assembly, pagination.
type Engine struct {
	cfg        Config
	store      Store
	aggregator *aggregator
	fetcher    *fetcher
	logger     zerolog.Logger
}

// NewEngine wires an engine from its dependencies. The configuration is
// validated here so a misconfigured engine cannot be constructed.
func NewEngine(
	cfg Config,
	store Store,
	metadata MetadataClient,
	cache AvailabilityCache,
	client AvailabilityResolver,
	logger zerolog.Logger,
) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		cfg:   cfg,
		store: store,
		aggregator: &aggregator{
			metadata: metadata,
			logger:   logger,
		},
		fetcher: &fetcher{
			cfg:    cfg,
			cache:  cache,
			client: client,
			logger: logger,
		},
		logger: logger,
	}, nil
}

// FeedPage is one page of a computed feed.
type FeedPage struct {
	Items []models.Recommendation

	// NextCursor is the id of the last item on this page, or "" when the
	// page is empty. Cursors are best-effort: the feed is recomputed per
	// request, so an id that no longer appears restarts from the top.
	NextCursor string

	// ProviderCalls is how many external availability lookups this
	// computation spent.
	ProviderCalls int
}

// Feed computes the user's recommendation feed and returns the page
// addressed by limit and cursor.
//
// A failure loading favorites or platforms fails the request. A failure
// loading the watched set fails open: the feed is computed as if nothing
// were watched, which at worst recommends something already seen. A user
// with no favorites or no platforms gets an empty feed without any external
// calls.
func (e *Engine) Feed(ctx context.Context, userID string, limit int, cursor string) (FeedPage, error) {
	if limit < 1 || limit > e.cfg.MaxResults {
		limit = e.cfg.MaxResults
	}

	favorites, err := e.store.FavoriteCreatorIDs(ctx, userID)
	if err != nil {
		return FeedPage{}, fmt.Errorf("recommend: load favorites for user %s: %w", userID, err)
	}
	platforms, err := e.store.PlatformSlugs(ctx, userID)
	if err != nil {
		return FeedPage{}, fmt.Errorf("recommend: load platforms for user %s: %w", userID, err)
	}
	if len(favorites) == 0 || len(platforms) == 0 {
		return FeedPage{Items: []models.Recommendation{}}, nil
	}

	watched, err := e.store.WatchedExternalIDs(ctx, userID)
	if err != nil {
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("watched set unavailable, computing feed without it")
		watched = map[string]struct{}{}
	}

	candidates, contributions := e.aggregator.collect(ctx, favorites, watched)

	asm := newAssembler(contributions, favorites, platforms)
	recommendations, callsUsed := e.fetcher.run(ctx, candidates, asm)

	metrics.FeedProviderCallsPerRequest.Observe(float64(callsUsed))
	metrics.FeedRecommendationsReturned.Observe(float64(len(recommendations)))
	e.logger.Debug().
		Str("user_id", userID).
		Int("candidates", len(candidates)).
		Int("recommendations", len(recommendations)).
		Int("provider_calls", callsUsed).
		Msg("feed computed")

	return paginate(recommendations, limit, cursor, callsUsed), nil
}

// paginate slices the computed feed at the cursor. An unknown or empty
// cursor starts from the beginning.
func paginate(recs []models.Recommendation, limit int, cursor string, callsUsed int) FeedPage {
	start := 0
	if cursor != "" {
		for i, r := range recs {
			if r.ID == cursor {
				start = i + 1
				break
			}
		}
	}

	end := start + limit
	if end > len(recs) {
		end = len(recs)
	}

	items := make([]models.Recommendation, end-start)
	copy(items, recs[start:end])

	page := FeedPage{Items: items, ProviderCalls: callsUsed}
	if len(items) > 0 {
		page.NextCursor = items[len(items)-1].ID
	}
	return page
}
