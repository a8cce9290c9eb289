package matching

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu         sync.Mutex
	candidates map[int64]*CandidateFeatures
	jobs       map[int64]*JobFeatures
	catalog    []CatalogEntry
	saved      []*ScoreRecord
	saveErr    error
}

func (f *fakeStore) CandidateFeatures(_ context.Context, seekerID int64) (*CandidateFeatures, error) {
	return f.candidates[seekerID], nil
}

func (f *fakeStore) JobFeatures(_ context.Context, jobID int64) (*JobFeatures, error) {
	return f.jobs[jobID], nil
}

func (f *fakeStore) Catalog(context.Context) ([]CatalogEntry, error) {
	return f.catalog, nil
}

func (f *fakeStore) SaveScoreRecord(_ context.Context, rec *ScoreRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, rec)
	return nil
}

type fakeExplainer struct {
	reason    string
	summaries []string
}

func (f *fakeExplainer) MatchReason(_ context.Context, summary string) string {
	f.summaries = append(f.summaries, summary)
	return f.reason
}

func newTestService(store *fakeStore, explainer Explainer) *Service {
	svc := NewService(store, NewEngine(constSim(1.0)), explainer)
	svc.syncPersist = true
	return svc
}

func populatedStore() *fakeStore {
	return &fakeStore{
		candidates: map[int64]*CandidateFeatures{7: testCandidate()},
		jobs:       map[int64]*JobFeatures{42: testJob()},
		catalog:    rankCatalog(),
	}
}

func TestMatchByID_ScoresAndPersists(t *testing.T) {
	store := populatedStore()
	svc := newTestService(store, nil)

	result, err := svc.MatchByID(context.Background(), 7, 42)
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.Score)
	assert.Contains(t, result.Message, "Sato Yuki")
	assert.Contains(t, result.Message, "100% match")
	assert.Empty(t, result.Reason)

	require.Len(t, store.saved, 1)
	rec := store.saved[0]
	assert.Equal(t, int64(7), rec.JobSeekerID)
	assert.Equal(t, int64(42), rec.JobPostingID)
	assert.Equal(t, 100.0, rec.Score)
	assert.Empty(t, rec.Explanation)
	assert.NotZero(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestMatchByID_SeekerNotFound(t *testing.T) {
	svc := newTestService(populatedStore(), nil)

	_, err := svc.MatchByID(context.Background(), 999, 42)
	var notFound *ErrSeekerNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(999), notFound.JobSeekerID)
}

func TestMatchByID_JobNotFound(t *testing.T) {
	svc := newTestService(populatedStore(), nil)

	_, err := svc.MatchByID(context.Background(), 7, 999)
	var notFound *ErrJobNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(999), notFound.JobPostingID)
}

func TestMatchByID_PersistenceFailureDoesNotSurface(t *testing.T) {
	store := populatedStore()
	store.saveErr = errors.New("insert failed")
	svc := newTestService(store, nil)

	result, err := svc.MatchByID(context.Background(), 7, 42)
	require.NoError(t, err, "score record writes are best-effort")
	assert.Equal(t, 100.0, result.Score)
}

func TestMatchByIDWithReason_GeneratesAndPersistsReason(t *testing.T) {
	store := populatedStore()
	explainer := &fakeExplainer{reason: "Strong skill overlap with the posting."}
	svc := newTestService(store, explainer)

	result, err := svc.MatchByIDWithReason(context.Background(), 7, 42)
	require.NoError(t, err)

	assert.Equal(t, explainer.reason, result.Reason)
	require.Len(t, explainer.summaries, 1)
	assert.Contains(t, explainer.summaries[0], "Sato Yuki")
	assert.Contains(t, explainer.summaries[0], "Backend Engineer")

	require.Len(t, store.saved, 1)
	assert.Equal(t, explainer.reason, store.saved[0].Explanation)
}

func TestMatchByIDWithReason_NilExplainer(t *testing.T) {
	svc := newTestService(populatedStore(), nil)

	result, err := svc.MatchByIDWithReason(context.Background(), 7, 42)
	require.NoError(t, err)
	assert.Empty(t, result.Reason)
}

func TestScore_DoesNotPersist(t *testing.T) {
	store := populatedStore()
	svc := newTestService(store, nil)

	result, err := svc.Score(context.Background(), testCandidate(), testJob())
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Score)
	assert.Empty(t, store.saved, "one-shot scoring leaves no record")
}

func TestRankJobsForSeeker(t *testing.T) {
	svc := newTestService(populatedStore(), nil)

	result, err := svc.RankJobsForSeeker(context.Background(), 7, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.JobSeekerID)
	assert.Len(t, result.Results, 2)
}

func TestRankJobsForSeeker_SeekerNotFound(t *testing.T) {
	svc := newTestService(populatedStore(), nil)

	_, err := svc.RankJobsForSeeker(context.Background(), 999, 2)
	var notFound *ErrSeekerNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestCandidateSummary_NoTrailingZeros(t *testing.T) {
	candidate := testCandidate()
	candidate.ExperienceYears = 5

	summary := CandidateSummary(candidate, "Backend Engineer")
	assert.Contains(t, summary, "5 years of experience")
	assert.NotContains(t, summary, "5.000000")
}
