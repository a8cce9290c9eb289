package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// titleSim scores only the job title comparison; every other similarity call
// sees an empty right-hand side and returns zero. This pins each posting's
// total to a known value.
func titleSim(byTitle map[string]float64) simFunc {
	return func(_ context.Context, _, b string) (float64, error) {
		return byTitle[b], nil
	}
}

func rankCatalog() []CatalogEntry {
	job := func(id int64, title string) CatalogEntry {
		return CatalogEntry{
			JobPostingID: id,
			Title:        title,
			Features: &JobFeatures{
				Title:                title,
				Location:             "Tokyo",
				Salary:               500,
				AvailabilityRequired: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			},
		}
	}
	return []CatalogEntry{
		job(1, "Backend Engineer"),
		job(2, "Sales Manager"),
		job(3, "Platform Engineer"),
		job(4, "Account Executive"),
	}
}

func TestRankJobs_SortsDescendingWithStableTies(t *testing.T) {
	engine := NewEngine(titleSim(map[string]float64{
		"Backend Engineer":  1.0,
		"Sales Manager":     0.4,
		"Platform Engineer": 0.8,
		"Account Executive": 0.4,
	}))

	ranked, err := engine.RankJobs(context.Background(), testCandidate(), rankCatalog(), 10)
	require.NoError(t, err)
	require.Len(t, ranked, 4)

	assert.Equal(t, int64(1), ranked[0].JobPostingID)
	assert.Equal(t, int64(3), ranked[1].JobPostingID)
	// Postings 2 and 4 tie; catalog order decides.
	assert.Equal(t, int64(2), ranked[2].JobPostingID)
	assert.Equal(t, int64(4), ranked[3].JobPostingID)
	assert.Equal(t, ranked[2].Score, ranked[3].Score)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestRankJobs_TopKTruncates(t *testing.T) {
	engine := NewEngine(constSim(0.5))

	ranked, err := engine.RankJobs(context.Background(), testCandidate(), rankCatalog(), 3)
	require.NoError(t, err)
	assert.Len(t, ranked, 3)
}

func TestRankJobs_TopKClampedToOne(t *testing.T) {
	engine := NewEngine(constSim(0.5))

	for _, topK := range []int{0, -5} {
		ranked, err := engine.RankJobs(context.Background(), testCandidate(), rankCatalog(), topK)
		require.NoError(t, err)
		assert.Len(t, ranked, 1, "topK=%d", topK)
	}
}

func TestRankJobs_EmptyCatalog(t *testing.T) {
	engine := NewEngine(constSim(0.5))

	ranked, err := engine.RankJobs(context.Background(), testCandidate(), nil, 5)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRankJobs_ScoringFailurePropagates(t *testing.T) {
	engine := NewEngine(failingSim(errors.New("backend down")))

	_, err := engine.RankJobs(context.Background(), testCandidate(), rankCatalog(), 5)
	assert.Error(t, err)
}

func TestRankJobs_CarriesBreakdownAndTitle(t *testing.T) {
	engine := NewEngine(constSim(0.5))

	ranked, err := engine.RankJobs(context.Background(), testCandidate(), rankCatalog(), 1)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.NotEmpty(t, ranked[0].Title)
	assert.Len(t, ranked[0].Breakdown, len(AllFactors))
}
