// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

package recommend

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reelfeed/reelfeed/internal/logging"
	"github.com/reelfeed/reelfeed/internal/models"
)

func title(id int64, name, date string) models.CandidateTitle {
	return models.CandidateTitle{ID: id, Title: name, ReleaseDate: date}
}

func TestCollectDedupesSharedTitles(t *testing.T) {
	shared := title(550, "Fight Club", "1999-10-15")
	md := &fakeMetadata{filmographies: map[int64]models.Filmography{
		1: {CreatorName: "Actor One", Cast: []models.CandidateTitle{shared, title(601, "Solo A", "2001-01-01")}},
		2: {CreatorName: "Actor Two", Cast: []models.CandidateTitle{shared, title(602, "Solo B", "2002-01-01")}},
	}}
	agg := &aggregator{metadata: md, logger: zerolog.Nop()}

	candidates, contributions := agg.collect(context.Background(), []string{"1", "2"}, nil)

	if len(candidates) != 3 {
		t.Fatalf("expected 3 unique candidates, got %d", len(candidates))
	}
	count := 0
	for _, c := range candidates {
		if c.ID == 550 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("shared title appears %d times, want 1", count)
	}
	if got := len(contributions[550]); got != 2 {
		t.Errorf("shared title has %d contributions, want 2", got)
	}
}

func TestCollectContributionDedupByCreatorAndRole(t *testing.T) {
	// Same creator both directing and starring: two contributions. The
	// same (creator, role) pair appearing twice in credits: one.
	movie := title(700, "Double Credit", "2010-05-05")
	md := &fakeMetadata{filmographies: map[int64]models.Filmography{
		9: {
			CreatorName: "Multi Talent",
			Cast:        []models.CandidateTitle{movie, movie},
			Directed:    []models.CandidateTitle{movie},
		},
	}}
	agg := &aggregator{metadata: md, logger: zerolog.Nop()}

	_, contributions := agg.collect(context.Background(), []string{"9"}, nil)

	contribs := contributions[700]
	if len(contribs) != 2 {
		t.Fatalf("expected 2 contributions (actor + director), got %d", len(contribs))
	}
	roles := map[models.CreatorRole]bool{}
	for _, c := range contribs {
		roles[c.Role] = true
	}
	if !roles[models.RoleActor] || !roles[models.RoleDirector] {
		t.Errorf("expected both roles present, got %v", contribs)
	}
}

func TestCollectSortsByReleaseDateDescendingEmptyLast(t *testing.T) {
	md := &fakeMetadata{filmographies: map[int64]models.Filmography{
		1: {CreatorName: "A", Cast: []models.CandidateTitle{
			title(1, "Old", "1995-03-01"),
			title(2, "Undated", ""),
			title(3, "New", "2023-11-20"),
			title(4, "Mid", "2010-06-15"),
		}},
	}}
	agg := &aggregator{metadata: md, logger: zerolog.Nop()}

	candidates, _ := agg.collect(context.Background(), []string{"1"}, nil)

	wantOrder := []int64{3, 4, 1, 2}
	if len(candidates) != len(wantOrder) {
		t.Fatalf("expected %d candidates, got %d", len(wantOrder), len(candidates))
	}
	for i, want := range wantOrder {
		if candidates[i].ID != want {
			t.Errorf("position %d: got title %d, want %d", i, candidates[i].ID, want)
		}
	}
}

func TestCollectFiltersWatchedTitles(t *testing.T) {
	md := &fakeMetadata{filmographies: map[int64]models.Filmography{
		1: {CreatorName: "A", Cast: []models.CandidateTitle{
			title(10, "Seen", "2020-01-01"),
			title(11, "Unseen", "2021-01-01"),
		}},
	}}
	agg := &aggregator{metadata: md, logger: zerolog.Nop()}

	candidates, _ := agg.collect(context.Background(), []string{"1"}, map[string]struct{}{"10": {}})

	if len(candidates) != 1 || candidates[0].ID != 11 {
		t.Fatalf("expected only unwatched title 11, got %v", candidates)
	}
}

func TestCollectSkipsFailingAndInvalidCreators(t *testing.T) {
	md := &fakeMetadata{
		filmographies: map[int64]models.Filmography{
			2: {CreatorName: "Works", Cast: []models.CandidateTitle{title(20, "Kept", "2020-01-01")}},
		},
		errs: map[int64]error{1: errors.New("upstream down")},
	}
	var logBuf bytes.Buffer
	agg := &aggregator{metadata: md, logger: logging.NewTestLogger(&logBuf)}

	candidates, _ := agg.collect(context.Background(), []string{"1", "not-a-number", "2"}, nil)

	if len(candidates) != 1 || candidates[0].ID != 20 {
		t.Fatalf("expected surviving creator's title only, got %v", candidates)
	}
	// The invalid id must not reach the metadata client.
	if len(md.calls) != 2 {
		t.Errorf("expected 2 metadata calls, got %d", len(md.calls))
	}

	logged := logBuf.String()
	if !strings.Contains(logged, "not-a-number") {
		t.Errorf("dropped creator id missing from log output: %s", logged)
	}
	if !strings.Contains(logged, "upstream down") {
		t.Errorf("filmography failure missing from log output: %s", logged)
	}
}
