// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

package recommend

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/reelfeed/reelfeed/internal/models"
)

// fetcher walks the candidate list in batches, resolving availability
// cache-first under the provider-call quota and assembling recommendations
// from the resolved titles.
type fetcher struct {
	cfg    Config
	cache  AvailabilityCache
	client AvailabilityResolver
	logger zerolog.Logger
}

// run processes candidates until the target count is reached, the
// candidates run out, or the call quota is exhausted. It returns the
// assembled recommendations in candidate order and the number of provider
// calls spent. The target caps the result size exactly: a batch that
// crosses it mid-assembly stops there, never appending the rest of the
// batch.
//
// A title whose availability could not be resolved this pass (no budget
// left, or the fetch errored) is skipped, not treated as unavailable; a
// later request may resolve it.
func (f *fetcher) run(ctx context.Context, candidates []models.CandidateTitle, asm *assembler) ([]models.Recommendation, int) {
	var (
		results   []models.Recommendation
		callsUsed int
		index     int
	)

	for len(results) < f.cfg.TargetCount && index < len(candidates) && callsUsed < f.cfg.MaxProviderCalls {
		end := index + f.cfg.BatchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[index:end]
		index = end

		ids := make([]int64, len(batch))
		for i, t := range batch {
			ids[i] = t.ID
		}

		resolved, calls := f.resolveAvailability(ctx, ids, f.cfg.MaxProviderCalls-callsUsed)
		callsUsed += calls

		for _, title := range batch {
			records, ok := resolved[title.ID]
			if !ok {
				continue
			}
			rec, ok := asm.assemble(title, records)
			if !ok {
				continue
			}
			results = append(results, rec)
			if len(results) >= f.cfg.TargetCount || len(results) >= f.cfg.MaxResults {
				return results, callsUsed
			}
		}
	}

	return results, callsUsed
}

// resolveAvailability answers availability for the given title ids,
// cache-first. Misses spend the remaining call budget in id order; once the
// budget runs out the rest of the batch stays unresolved. Only clean
// provider results are cached, including clean empties; an errored fetch is
// neither cached nor counted as unavailable, but the attempt still spends
// its call.
func (f *fetcher) resolveAvailability(ctx context.Context, ids []int64, budget int) (map[int64][]models.AvailabilityRecord, int) {
	resolved := f.cache.GetMany(ids, f.cfg.Country)

	calls := 0
	for _, id := range ids {
		if _, hit := resolved[id]; hit {
			continue
		}
		if calls >= budget {
			break
		}

		calls++
		records, err := f.client.Availability(ctx, id, f.cfg.Country)
		if err != nil {
			f.logger.Warn().Err(err).Int64("title_id", id).Msg("availability fetch failed, title unresolved")
			continue
		}

		resolved[id] = records
		if err := f.cache.Put(id, f.cfg.Country, records); err != nil {
			f.logger.Warn().Err(err).Int64("title_id", id).Msg("availability cache write failed")
		}
	}

	return resolved, calls
}
