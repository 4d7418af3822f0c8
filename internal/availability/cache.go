// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

package availability

import (
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/reelfeed/reelfeed/internal/metrics"
	"github.com/reelfeed/reelfeed/internal/models"
)

// DefaultTTL is how long a cached availability entry stays fresh.
// Availability changes on a daily cadence at most.
const DefaultTTL = 24 * time.Hour

// cacheKeyPrefix namespaces availability entries in the shared Badger store.
const cacheKeyPrefix = "avail"

// cacheEntry is the stored value: the offers plus when they were fetched.
// Expiry is decided lazily at read time from FetchedAt, so the TTL can be
// tuned without rewriting live entries.
type cacheEntry struct {
	Records   []models.AvailabilityRecord `json:"records"`
	FetchedAt time.Time                   `json:"fetched_at"`
}

// Cache is the persistent per-title availability cache.
//
// It is strictly best-effort: reads degrade to misses and write failures are
// reported to the caller to log and ignore. A broken cache slows the feed
// down (more provider calls spent), it never breaks it.
type Cache struct {
	db     *badger.DB
	ttl    time.Duration
	logger zerolog.Logger

	// now is injectable for TTL boundary tests.
	now func() time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL overrides the freshness window.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock overrides the time source (used by tests).
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// WithCacheLogger sets the cache logger.
func WithCacheLogger(l zerolog.Logger) CacheOption {
	return func(c *Cache) { c.logger = l }
}

// NewCache creates a cache on top of an open Badger store.
func NewCache(db *badger.DB, opts ...CacheOption) *Cache {
	c := &Cache{
		db:     db,
		ttl:    DefaultTTL,
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetMany returns the fresh cached availability for the requested titles.
// Absent, stale and unreadable entries are simply omitted from the result;
// a cache read can shrink the answer but never fail the request. Reading
// does not modify the cache, so repeated reads are idempotent.
func (c *Cache) GetMany(ids []int64, country string) map[int64][]models.AvailabilityRecord {
	found := make(map[int64][]models.AvailabilityRecord, len(ids))
	cutoff := c.now().Add(-c.ttl)

	err := c.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			item, err := txn.Get(cacheKey(country, id))
			if err != nil {
				if !errors.Is(err, badger.ErrKeyNotFound) {
					c.logger.Warn().Err(err).Int64("title_id", id).Msg("cache read failed, treating as miss")
				}
				metrics.AvailabilityCacheMisses.Inc()
				continue
			}

			var entry cacheEntry
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				c.logger.Warn().Err(err).Int64("title_id", id).Msg("cache entry undecodable, treating as miss")
				metrics.AvailabilityCacheMisses.Inc()
				continue
			}

			// Lazy TTL: stale entries count as absent. They are left in
			// place and overwritten by the next successful fetch.
			if !entry.FetchedAt.After(cutoff) {
				metrics.AvailabilityCacheMisses.Inc()
				continue
			}

			found[id] = entry.Records
			metrics.AvailabilityCacheHits.Inc()
		}
		return nil
	})
	if err != nil {
		// Transaction-level failure: everything not yet collected is a miss.
		c.logger.Warn().Err(err).Msg("cache transaction failed, degrading to misses")
	}

	return found
}

// Put upserts the availability for one title with a fresh timestamp. An
// empty records slice is a valid, cacheable value ("confirmed unavailable
// everywhere"). Callers log and ignore the returned error.
func (c *Cache) Put(titleID int64, country string, records []models.AvailabilityRecord) error {
	if records == nil {
		records = []models.AvailabilityRecord{}
	}

	val, err := json.Marshal(cacheEntry{
		Records:   records,
		FetchedAt: c.now(),
	})
	if err != nil {
		return fmt.Errorf("cache: marshal entry for title %d: %w", titleID, err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(cacheKey(country, titleID), val)
	})
	if err != nil {
		return fmt.Errorf("cache: write entry for title %d: %w", titleID, err)
	}
	return nil
}

func cacheKey(country string, titleID int64) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", cacheKeyPrefix, country, titleID))
}
