// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

package recommend

import (
	"sort"
	"strconv"

	"github.com/reelfeed/reelfeed/internal/models"
	"github.com/reelfeed/reelfeed/internal/tmdb"
)

// assembler turns a resolved candidate into a feed entry. It is pure
// mapping: no I/O, no logging, fully determined by its inputs.
type assembler struct {
	contributions map[int64][]models.CreatorContribution
	favoriteSet   map[string]struct{}
	userSlugs     map[string]struct{}
}

func newAssembler(
	contributions map[int64][]models.CreatorContribution,
	favoriteIDs []string,
	platformSlugs []string,
) *assembler {
	favoriteSet := make(map[string]struct{}, len(favoriteIDs))
	for _, id := range favoriteIDs {
		favoriteSet[id] = struct{}{}
	}
	userSlugs := make(map[string]struct{}, len(platformSlugs))
	for _, slug := range platformSlugs {
		userSlugs[slug] = struct{}{}
	}
	return &assembler{
		contributions: contributions,
		favoriteSet:   favoriteSet,
		userSlugs:     userSlugs,
	}
}

// assemble builds the recommendation for a title from its availability
// records. It returns false when the title is not streamable on any of the
// user's subscribed platforms.
//
// Only subscription offers qualify; rent and buy offers never surface.
// Offers from services outside the platform table are ignored. All known
// contributors are listed, with favorites flagged.
func (a *assembler) assemble(title models.CandidateTitle, records []models.AvailabilityRecord) (models.Recommendation, bool) {
	slugSeen := make(map[string]struct{})
	var platforms []string
	for _, r := range records {
		if r.Type != models.OfferSubscription {
			continue
		}
		slug, ok := SlugForServiceID(r.ServiceID)
		if !ok {
			continue
		}
		if _, subscribed := a.userSlugs[slug]; !subscribed {
			continue
		}
		if _, dup := slugSeen[slug]; dup {
			continue
		}
		slugSeen[slug] = struct{}{}
		platforms = append(platforms, slug)
	}
	if len(platforms) == 0 {
		return models.Recommendation{}, false
	}
	// The legacy wire shape arrives as a map, so record order is not
	// deterministic; sort for a stable payload.
	sort.Strings(platforms)

	contribs := a.contributions[title.ID]
	creators := make([]models.CreatorContribution, len(contribs))
	for i, c := range contribs {
		_, fav := a.favoriteSet[c.CreatorID]
		c.IsFavorite = fav
		creators[i] = c
	}

	externalID := strconv.FormatInt(title.ID, 10)
	return models.Recommendation{
		ID:         externalID,
		ExternalID: title.ID,
		MediaType:  "movie",
		Title:      title.Title,
		Year:       releaseYear(title.ReleaseDate),
		PosterURL:  tmdb.PosterURL(title.PosterPath),
		Creators:   creators,
		Platforms:  platforms,
	}, true
}

// releaseYear extracts the year from a YYYY-MM-DD release date. Undated or
// malformed dates yield 0, which the JSON layer omits.
func releaseYear(releaseDate string) int {
	if len(releaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}
