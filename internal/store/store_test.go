// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

package store

import (
	"context"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFavoritesRoundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"101", "205", "309"} {
		if err := s.AddFavorite(ctx, "user-1", id, "Creator "+id, "actor"); err != nil {
			t.Fatalf("AddFavorite(%s): %v", id, err)
		}
	}

	ids, err := s.FavoriteCreatorIDs(ctx, "user-1")
	if err != nil {
		t.Fatalf("FavoriteCreatorIDs: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 favorites, got %v", ids)
	}
	if ids[0] != "101" || ids[1] != "205" || ids[2] != "309" {
		t.Errorf("favorites out of insertion order: %v", ids)
	}

	// Other users see nothing.
	other, err := s.FavoriteCreatorIDs(ctx, "user-2")
	if err != nil {
		t.Fatalf("FavoriteCreatorIDs(user-2): %v", err)
	}
	if len(other) != 0 {
		t.Errorf("user isolation broken: %v", other)
	}
}

func TestAddFavoriteUpserts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.AddFavorite(ctx, "user-1", "101", "Old Name", "actor"); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	if err := s.AddFavorite(ctx, "user-1", "101", "New Name", "director"); err != nil {
		t.Fatalf("AddFavorite upsert: %v", err)
	}

	ids, err := s.FavoriteCreatorIDs(ctx, "user-1")
	if err != nil {
		t.Fatalf("FavoriteCreatorIDs: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("upsert should not duplicate, got %v", ids)
	}
}

func TestRemoveFavoriteIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.AddFavorite(ctx, "user-1", "101", "Name", "actor"); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	if err := s.RemoveFavorite(ctx, "user-1", "101"); err != nil {
		t.Fatalf("RemoveFavorite: %v", err)
	}
	if err := s.RemoveFavorite(ctx, "user-1", "101"); err != nil {
		t.Fatalf("second RemoveFavorite must be a no-op: %v", err)
	}

	ids, err := s.FavoriteCreatorIDs(ctx, "user-1")
	if err != nil {
		t.Fatalf("FavoriteCreatorIDs: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no favorites, got %v", ids)
	}
}

func TestSetPlatformsReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SetPlatforms(ctx, "user-1", []string{"netflix", "hbo-max"}); err != nil {
		t.Fatalf("SetPlatforms: %v", err)
	}
	if err := s.SetPlatforms(ctx, "user-1", []string{"disney-plus"}); err != nil {
		t.Fatalf("second SetPlatforms: %v", err)
	}

	slugs, err := s.PlatformSlugs(ctx, "user-1")
	if err != nil {
		t.Fatalf("PlatformSlugs: %v", err)
	}
	if len(slugs) != 1 || slugs[0] != "disney-plus" {
		t.Errorf("replacement not atomic, got %v", slugs)
	}
}

func TestSetPlatformsEmptyClearsAll(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SetPlatforms(ctx, "user-1", []string{"netflix"}); err != nil {
		t.Fatalf("SetPlatforms: %v", err)
	}
	if err := s.SetPlatforms(ctx, "user-1", nil); err != nil {
		t.Fatalf("clearing SetPlatforms: %v", err)
	}

	slugs, err := s.PlatformSlugs(ctx, "user-1")
	if err != nil {
		t.Fatalf("PlatformSlugs: %v", err)
	}
	if len(slugs) != 0 {
		t.Errorf("expected no platforms, got %v", slugs)
	}
}

func TestSetPlatformsDedupesInput(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SetPlatforms(ctx, "user-1", []string{"netflix", "netflix"}); err != nil {
		t.Fatalf("SetPlatforms: %v", err)
	}
	slugs, err := s.PlatformSlugs(ctx, "user-1")
	if err != nil {
		t.Fatalf("PlatformSlugs: %v", err)
	}
	if len(slugs) != 1 {
		t.Errorf("duplicate slugs should collapse, got %v", slugs)
	}
}

func TestWatchedRoundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.MarkWatched(ctx, "user-1", "550"); err != nil {
		t.Fatalf("MarkWatched: %v", err)
	}
	if err := s.MarkWatched(ctx, "user-1", "550"); err != nil {
		t.Fatalf("double MarkWatched must be a no-op: %v", err)
	}
	if err := s.MarkWatched(ctx, "user-1", "999"); err != nil {
		t.Fatalf("MarkWatched: %v", err)
	}

	watched, err := s.WatchedExternalIDs(ctx, "user-1")
	if err != nil {
		t.Fatalf("WatchedExternalIDs: %v", err)
	}
	if len(watched) != 2 {
		t.Fatalf("expected 2 watched titles, got %v", watched)
	}
	if _, ok := watched["550"]; !ok {
		t.Error("missing title 550")
	}

	if err := s.UnmarkWatched(ctx, "user-1", "550"); err != nil {
		t.Fatalf("UnmarkWatched: %v", err)
	}
	if err := s.UnmarkWatched(ctx, "user-1", "550"); err != nil {
		t.Fatalf("second UnmarkWatched must be a no-op: %v", err)
	}

	watched, err = s.WatchedExternalIDs(ctx, "user-1")
	if err != nil {
		t.Fatalf("WatchedExternalIDs: %v", err)
	}
	if _, ok := watched["550"]; ok {
		t.Error("title 550 still watched after unmark")
	}
	if _, ok := watched["999"]; !ok {
		t.Error("title 999 lost")
	}
}
