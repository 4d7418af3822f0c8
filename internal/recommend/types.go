// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

package recommend

import (
	"context"

	"github.com/reelfeed/reelfeed/internal/models"
)

// Store supplies the per-user preference data the engine reads. Implemented
// by the DuckDB store; tests use in-memory fakes.
type Store interface {
	// FavoriteCreatorIDs returns favorite creator ids in processing order.
	FavoriteCreatorIDs(ctx context.Context, userID string) ([]string, error)

	// PlatformSlugs returns the user's subscribed platform slugs.
	PlatformSlugs(ctx context.Context, userID string) ([]string, error)

	// WatchedExternalIDs returns the stringified external ids of watched
	// titles.
	WatchedExternalIDs(ctx context.Context, userID string) (map[string]struct{}, error)
}

// MetadataClient supplies creator filmographies.
type MetadataClient interface {
	Filmography(ctx context.Context, creatorID int64) (models.Filmography, error)
}

// AvailabilityResolver performs a live availability lookup for one title.
// Each call spends one unit of the per-request provider quota.
type AvailabilityResolver interface {
	Availability(ctx context.Context, titleID int64, country string) ([]models.AvailabilityRecord, error)
}

// AvailabilityCache is the best-effort availability cache. GetMany never
// fails, it just returns fewer entries; Put errors are logged and ignored
// by the caller.
type AvailabilityCache interface {
	GetMany(ids []int64, country string) map[int64][]models.AvailabilityRecord
	Put(titleID int64, country string, records []models.AvailabilityRecord) error
}
