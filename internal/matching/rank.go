package matching

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// rankWorkers bounds the concurrent scoring calls during a catalog scan.
// Scoring a posting is pure, so postings can be scored in any order; results
// are written into per-index slots to keep the catalog order for tie-breaks.
const rankWorkers = 8

// RankJobs scores the candidate against every catalog entry and returns the
// top-K postings sorted by score descending. Ties preserve catalog order.
// topK is clamped to a minimum of 1.
func (e *Engine) RankJobs(ctx context.Context, candidate *CandidateFeatures, catalog []CatalogEntry, topK int) ([]RankedJob, error) {
	ranked := make([]RankedJob, len(catalog))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rankWorkers)
	for i, entry := range catalog {
		g.Go(func() error {
			score, breakdown, err := e.Score(gctx, candidate, entry.Features, candidate.PriorityOrder)
			if err != nil {
				return err
			}
			ranked[i] = RankedJob{
				JobPostingID: entry.JobPostingID,
				Title:        entry.Title,
				Score:        score,
				Breakdown:    breakdown,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if topK < 1 {
		topK = 1
	}
	if topK < len(ranked) {
		ranked = ranked[:topK]
	}
	return ranked, nil
}
