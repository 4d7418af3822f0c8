// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

package availability

import (
	"testing"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/reelfeed/reelfeed/internal/models"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCachePutGetRoundtrip(t *testing.T) {
	db := openTestDB(t)
	cache := NewCache(db)

	records := []models.AvailabilityRecord{
		{ServiceID: "netflix", Name: "Netflix", Link: "https://netflix.example", Type: models.OfferSubscription},
	}
	if err := cache.Put(550, "pl", records); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got := cache.GetMany([]int64{550, 999}, "pl")
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[550][0].ServiceID != "netflix" {
		t.Errorf("unexpected record: %+v", got[550])
	}

	// Reads are idempotent: same answer again.
	again := cache.GetMany([]int64{550}, "pl")
	if len(again) != 1 || len(again[550]) != 1 {
		t.Errorf("second read differs: %v", again)
	}
}

func TestCacheTTLBoundary(t *testing.T) {
	db := openTestDB(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := base
	cache := NewCache(db, WithClock(func() time.Time { return now }))

	if err := cache.Put(1, "pl", []models.AvailabilityRecord{{ServiceID: "netflix", Type: models.OfferSubscription}}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Just inside the 24h window: still fresh.
	now = base.Add(23*time.Hour + 59*time.Minute)
	if got := cache.GetMany([]int64{1}, "pl"); len(got) != 1 {
		t.Fatal("entry at T+23h59m should be a hit")
	}

	// Just past the window: stale, treated as absent.
	now = base.Add(24*time.Hour + 1*time.Minute)
	if got := cache.GetMany([]int64{1}, "pl"); len(got) != 0 {
		t.Fatal("entry at T+24h01m should be a miss")
	}
}

func TestCacheEmptyListIsCacheable(t *testing.T) {
	db := openTestDB(t)
	cache := NewCache(db)

	if err := cache.Put(42, "pl", []models.AvailabilityRecord{}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got := cache.GetMany([]int64{42}, "pl")
	records, ok := got[42]
	if !ok {
		t.Fatal("cached empty list should be a hit, not a miss")
	}
	if len(records) != 0 {
		t.Errorf("expected empty records, got %v", records)
	}

	// A nil slice is stored the same way.
	if err := cache.Put(43, "pl", nil); err != nil {
		t.Fatalf("Put nil: %v", err)
	}
	got = cache.GetMany([]int64{43}, "pl")
	if records, ok := got[43]; !ok || records == nil || len(records) != 0 {
		t.Errorf("nil records should be cached as empty list, got %v (present=%v)", records, ok)
	}
}

func TestCachePutUpsertsWithFreshTimestamp(t *testing.T) {
	db := openTestDB(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := base
	cache := NewCache(db, WithClock(func() time.Time { return now }))

	if err := cache.Put(7, "pl", []models.AvailabilityRecord{{ServiceID: "hbomax", Type: models.OfferSubscription}}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Refresh just before expiry; the entry gets a new lease.
	now = base.Add(23 * time.Hour)
	if err := cache.Put(7, "pl", []models.AvailabilityRecord{{ServiceID: "netflix", Type: models.OfferSubscription}}); err != nil {
		t.Fatalf("refresh Put: %v", err)
	}

	now = base.Add(30 * time.Hour) // 7h after refresh, 30h after first write
	got := cache.GetMany([]int64{7}, "pl")
	if len(got) != 1 {
		t.Fatal("refreshed entry should still be fresh")
	}
	if got[7][0].ServiceID != "netflix" {
		t.Errorf("upsert did not replace records: %+v", got[7])
	}
}

func TestCacheCountryIsolation(t *testing.T) {
	db := openTestDB(t)
	cache := NewCache(db)

	if err := cache.Put(5, "pl", []models.AvailabilityRecord{{ServiceID: "player", Type: models.OfferSubscription}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got := cache.GetMany([]int64{5}, "de"); len(got) != 0 {
		t.Error("entries must be isolated per country")
	}
}
