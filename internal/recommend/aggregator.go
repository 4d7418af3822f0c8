// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

package recommend

import (
	"context"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/reelfeed/reelfeed/internal/models"
)

// aggregator builds the candidate title list from favorite creators'
// filmographies. Creators are processed sequentially in stored order; a
// failing creator costs the feed that creator's titles, never the request.
type aggregator struct {
	metadata MetadataClient
	logger   zerolog.Logger
}

// creatorOutcome records how one creator's filmography fetch went, for the
// post-pass log summary.
type creatorOutcome struct {
	creatorID string
	err       error
}

// collect fetches every valid favorite creator's filmography and merges the
// results into a deduplicated, release-date-sorted candidate list plus a
// per-title contribution map.
//
// Non-numeric creator ids are dropped with a warning. Titles in the watched
// set are excluded. A title appearing in several filmographies is kept once
// (first occurrence wins) but accumulates a contribution per (creator, role)
// pair.
func (a *aggregator) collect(
	ctx context.Context,
	favoriteIDs []string,
	watched map[string]struct{},
) ([]models.CandidateTitle, map[int64][]models.CreatorContribution) {
	var (
		candidates    []models.CandidateTitle
		seen          = make(map[int64]struct{})
		contributions = make(map[int64][]models.CreatorContribution)
		outcomes      = make([]creatorOutcome, 0, len(favoriteIDs))
	)

	for _, rawID := range favoriteIDs {
		creatorID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			a.logger.Warn().Str("creator_id", rawID).Msg("dropping non-numeric favorite creator id")
			continue
		}

		fg, err := a.metadata.Filmography(ctx, creatorID)
		outcomes = append(outcomes, creatorOutcome{creatorID: rawID, err: err})
		if err != nil {
			continue
		}

		addTitles := func(titles []models.CandidateTitle, role models.CreatorRole) {
			for _, t := range titles {
				if _, isWatched := watched[strconv.FormatInt(t.ID, 10)]; isWatched {
					continue
				}

				if !hasContribution(contributions[t.ID], rawID, role) {
					contributions[t.ID] = append(contributions[t.ID], models.CreatorContribution{
						CreatorID: rawID,
						Name:      fg.CreatorName,
						Role:      role,
					})
				}

				if _, dup := seen[t.ID]; dup {
					continue
				}
				seen[t.ID] = struct{}{}
				candidates = append(candidates, t)
			}
		}

		addTitles(fg.Cast, models.RoleActor)
		addTitles(fg.Directed, models.RoleDirector)
	}

	a.logOutcomes(outcomes)

	// Newest first; undated titles sink to the end. The sort is stable so
	// equal dates keep their creator-order placement.
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].ReleaseDate, candidates[j].ReleaseDate
		if di == "" {
			return false
		}
		if dj == "" {
			return true
		}
		return di > dj
	})

	return candidates, contributions
}

// hasContribution reports whether a (creator, role) pair is already recorded
// for a title. A creator who both directed and starred contributes twice,
// once per role.
func hasContribution(contribs []models.CreatorContribution, creatorID string, role models.CreatorRole) bool {
	for _, c := range contribs {
		if c.CreatorID == creatorID && c.Role == role {
			return true
		}
	}
	return false
}

// logOutcomes partitions creator outcomes and emits one summary. Individual
// failures are logged at warn level with their creator id.
func (a *aggregator) logOutcomes(outcomes []creatorOutcome) {
	failed := 0
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			a.logger.Warn().Err(o.err).Str("creator_id", o.creatorID).Msg("filmography fetch failed, creator skipped")
		}
	}
	if failed > 0 {
		a.logger.Info().
			Int("creators", len(outcomes)).
			Int("failed", failed).
			Msg("candidate aggregation finished with skipped creators")
	}
}
