package matching

import (
	"time"

	"github.com/google/uuid"
)

// CandidateFeatures is the read-only scoring view of a job seeker, resolved
// fresh per request from storage and discarded afterwards.
type CandidateFeatures struct {
	Name               string
	DesiredLocation    string
	DesiredSalary      int
	AvailableStartDate time.Time
	WorkStyle          string
	Skills             []string
	JobPreference      string
	ExperienceYears    float64
	PreferenceTags     []string
	PriorityOrder      []Factor
}

// JobFeatures is the read-only scoring view of a posting. ExperienceRequired
// is nil when the posting sets no minimum.
type JobFeatures struct {
	Title                string
	Location             string
	Salary               int
	AvailabilityRequired time.Time
	WorkStyle            string
	RequiredSkills       []string
	OptionalSkills       []string
	CultureTags          []string
	ExperienceRequired   *float64
}

// Breakdown maps each factor to its score in [0, 1], rounded to two decimals.
// All eight factors are always present.
type Breakdown map[Factor]float64

// CatalogEntry pairs a posting id and title with its resolved features.
type CatalogEntry struct {
	JobPostingID int64
	Title        string
	Features     *JobFeatures
}

// RankedJob is one scored posting inside a ranking result.
type RankedJob struct {
	JobPostingID int64     `json:"job_posting_id"`
	Title        string    `json:"title"`
	Score        float64   `json:"score"`
	Breakdown    Breakdown `json:"breakdown"`
}

// RankingResult holds the top-K postings for a seeker, sorted by score
// descending with catalog order preserved among equal scores.
type RankingResult struct {
	JobSeekerID int64       `json:"job_seeker_id"`
	Results     []RankedJob `json:"results"`
}

// MatchResult is the outcome of scoring one seeker/posting pair.
type MatchResult struct {
	Score     float64   `json:"match_score"`
	Message   string    `json:"message"`
	Breakdown Breakdown `json:"breakdown"`
	Reason    string    `json:"reason,omitempty"`
}

// ScoreRecord is the audit artifact persisted after a scoring call. Writes
// are best-effort and never gate the response.
type ScoreRecord struct {
	ID           uuid.UUID `json:"id"`
	JobSeekerID  int64     `json:"job_seeker_id"`
	JobPostingID int64     `json:"job_posting_id"`
	Score        float64   `json:"score"`
	Breakdown    Breakdown `json:"breakdown"`
	Explanation  string    `json:"explanation,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
