// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

package recommend

import (
	"context"
	"fmt"

	"github.com/reelfeed/reelfeed/internal/models"
)

// fakeStore serves canned preference data.
type fakeStore struct {
	favorites []string
	favErr    error

	platforms []string
	platErr   error

	watched    map[string]struct{}
	watchedErr error
}

func (f *fakeStore) FavoriteCreatorIDs(_ context.Context, _ string) ([]string, error) {
	return f.favorites, f.favErr
}

func (f *fakeStore) PlatformSlugs(_ context.Context, _ string) ([]string, error) {
	return f.platforms, f.platErr
}

func (f *fakeStore) WatchedExternalIDs(_ context.Context, _ string) (map[string]struct{}, error) {
	if f.watchedErr != nil {
		return nil, f.watchedErr
	}
	if f.watched == nil {
		return map[string]struct{}{}, nil
	}
	return f.watched, nil
}

// fakeMetadata serves canned filmographies keyed by creator id.
type fakeMetadata struct {
	filmographies map[int64]models.Filmography
	errs          map[int64]error
	calls         []int64
}

func (f *fakeMetadata) Filmography(_ context.Context, creatorID int64) (models.Filmography, error) {
	f.calls = append(f.calls, creatorID)
	if err, ok := f.errs[creatorID]; ok {
		return models.Filmography{}, err
	}
	fg, ok := f.filmographies[creatorID]
	if !ok {
		return models.Filmography{}, fmt.Errorf("unknown creator %d", creatorID)
	}
	return fg, nil
}

// fakeResolver serves canned availability and records every call.
type fakeResolver struct {
	records map[int64][]models.AvailabilityRecord
	errs    map[int64]error
	calls   []int64
}

func (f *fakeResolver) Availability(_ context.Context, titleID int64, _ string) ([]models.AvailabilityRecord, error) {
	f.calls = append(f.calls, titleID)
	if err, ok := f.errs[titleID]; ok {
		return nil, err
	}
	if recs, ok := f.records[titleID]; ok {
		return recs, nil
	}
	return []models.AvailabilityRecord{}, nil
}

// fakeCache is an in-memory AvailabilityCache.
type fakeCache struct {
	entries  map[string][]models.AvailabilityRecord
	putErr   error
	putCalls []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]models.AvailabilityRecord)}
}

func (f *fakeCache) key(country string, id int64) string {
	return fmt.Sprintf("%s:%d", country, id)
}

func (f *fakeCache) GetMany(ids []int64, country string) map[int64][]models.AvailabilityRecord {
	found := make(map[int64][]models.AvailabilityRecord)
	for _, id := range ids {
		if recs, ok := f.entries[f.key(country, id)]; ok {
			found[id] = recs
		}
	}
	return found
}

func (f *fakeCache) Put(titleID int64, country string, records []models.AvailabilityRecord) error {
	f.putCalls = append(f.putCalls, titleID)
	if f.putErr != nil {
		return f.putErr
	}
	f.entries[f.key(country, titleID)] = records
	return nil
}

// subscriptionOffer builds a subscription availability record for a service.
func subscriptionOffer(serviceID string) models.AvailabilityRecord {
	return models.AvailabilityRecord{
		ServiceID: serviceID,
		Name:      serviceID,
		Link:      "https://" + serviceID + ".example/watch",
		Type:      models.OfferSubscription,
	}
}

// testConfig returns a config with production shape but test-friendly size.
func testConfig() Config {
	return Config{
		TargetCount:      20,
		BatchSize:        10,
		MaxProviderCalls: 15,
		MaxResults:       50,
		Country:          "pl",
	}
}
