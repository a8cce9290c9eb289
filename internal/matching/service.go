package matching

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// persistTimeout bounds the fire-and-forget score-record write.
const persistTimeout = 10 * time.Second

// Store is the persistence surface the matching service consumes. Lookup
// methods return (nil, nil) when the id does not exist.
type Store interface {
	CandidateFeatures(ctx context.Context, seekerID int64) (*CandidateFeatures, error)
	JobFeatures(ctx context.Context, jobID int64) (*JobFeatures, error)
	Catalog(ctx context.Context) ([]CatalogEntry, error)
	SaveScoreRecord(ctx context.Context, rec *ScoreRecord) error
}

// Explainer produces a natural-language match reason from a candidate
// summary. Implementations are best-effort and must return usable fallback
// text instead of failing.
type Explainer interface {
	MatchReason(ctx context.Context, summary string) string
}

// Service orchestrates feature resolution, scoring, ranking, explanation and
// best-effort score persistence.
type Service struct {
	store     Store
	engine    *Engine
	explainer Explainer

	// syncPersist makes score-record writes synchronous. Tests only.
	syncPersist bool
}

// NewService creates a matching service. explainer may be nil, in which case
// the with-reason path returns an empty reason.
func NewService(store Store, engine *Engine, explainer Explainer) *Service {
	return &Service{store: store, engine: engine, explainer: explainer}
}

// Score computes a one-shot match for already-resolved features, without
// touching storage.
func (s *Service) Score(ctx context.Context, candidate *CandidateFeatures, job *JobFeatures) (*MatchResult, error) {
	score, breakdown, err := s.engine.Score(ctx, candidate, job, candidate.PriorityOrder)
	if err != nil {
		return nil, err
	}
	return &MatchResult{
		Score:     score,
		Message:   matchMessage(candidate.Name, job.Title, score),
		Breakdown: breakdown,
	}, nil
}

// MatchByID resolves both sides from storage, scores them, and persists a
// score record without blocking the response.
func (s *Service) MatchByID(ctx context.Context, seekerID, jobID int64) (*MatchResult, error) {
	return s.matchByID(ctx, seekerID, jobID, false)
}

// MatchByIDWithReason is MatchByID plus a generated match reason, persisted
// alongside the score.
func (s *Service) MatchByIDWithReason(ctx context.Context, seekerID, jobID int64) (*MatchResult, error) {
	return s.matchByID(ctx, seekerID, jobID, true)
}

func (s *Service) matchByID(ctx context.Context, seekerID, jobID int64, withReason bool) (*MatchResult, error) {
	candidate, err := s.store.CandidateFeatures(ctx, seekerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve candidate: %w", err)
	}
	if candidate == nil {
		return nil, &ErrSeekerNotFound{JobSeekerID: seekerID}
	}

	job, err := s.store.JobFeatures(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve job: %w", err)
	}
	if job == nil {
		return nil, &ErrJobNotFound{JobPostingID: jobID}
	}

	score, breakdown, err := s.engine.Score(ctx, candidate, job, candidate.PriorityOrder)
	if err != nil {
		return nil, err
	}

	result := &MatchResult{
		Score:     score,
		Message:   matchMessage(candidate.Name, job.Title, score),
		Breakdown: breakdown,
	}
	if withReason && s.explainer != nil {
		result.Reason = s.explainer.MatchReason(ctx, CandidateSummary(candidate, job.Title))
	}

	s.persistScore(&ScoreRecord{
		ID:           uuid.New(),
		JobSeekerID:  seekerID,
		JobPostingID: jobID,
		Score:        score,
		Breakdown:    breakdown,
		Explanation:  result.Reason,
		CreatedAt:    time.Now().UTC(),
	})

	return result, nil
}

// RankJobsForSeeker scores the seeker against the full posting catalog and
// returns the top-K postings. Malformed catalog rows resolve to neutral
// features in the store layer, so a single bad posting never aborts the pass.
func (s *Service) RankJobsForSeeker(ctx context.Context, seekerID int64, topK int) (*RankingResult, error) {
	candidate, err := s.store.CandidateFeatures(ctx, seekerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve candidate: %w", err)
	}
	if candidate == nil {
		return nil, &ErrSeekerNotFound{JobSeekerID: seekerID}
	}

	catalog, err := s.store.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	ranked, err := s.engine.RankJobs(ctx, candidate, catalog, topK)
	if err != nil {
		return nil, err
	}

	return &RankingResult{JobSeekerID: seekerID, Results: ranked}, nil
}

// persistScore dispatches the score-record write as an independent task.
// Failures are logged and swallowed; they never reach the caller.
func (s *Service) persistScore(rec *ScoreRecord) {
	save := func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.store.SaveScoreRecord(ctx, rec); err != nil {
			log.Printf("matching: failed to save score record (seeker=%d job=%d): %v",
				rec.JobSeekerID, rec.JobPostingID, err)
		}
	}
	if s.syncPersist {
		save()
		return
	}
	go save()
}

// CandidateSummary builds the prompt summary handed to the explainer.
func CandidateSummary(candidate *CandidateFeatures, jobTitle string) string {
	return fmt.Sprintf(
		"%s prefers working in %s with a %s work style. %s years of experience. Skills: %s. Target position: %s.",
		candidate.Name,
		candidate.DesiredLocation,
		candidate.WorkStyle,
		strconv.FormatFloat(candidate.ExperienceYears, 'f', -1, 64),
		strings.Join(candidate.Skills, ", "),
		jobTitle,
	)
}

func matchMessage(name, title string, score float64) string {
	return fmt.Sprintf("%s is a %s%% match for %q.",
		name, strconv.FormatFloat(score, 'f', -1, 64), title)
}
