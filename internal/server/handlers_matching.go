package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/masaki2607/oneview-matching/internal/db"
	"github.com/masaki2607/oneview-matching/internal/matching"
)

// CandidateData is the wire form of a candidate for one-shot matching.
type CandidateData struct {
	Name               string   `json:"name" validate:"required"`
	DesiredJob         string   `json:"desired_job"`
	DesiredLocation    string   `json:"desired_location"`
	DesiredSalary      int      `json:"desired_salary" validate:"min=0"`
	AvailableStartDate db.Date  `json:"available_start_date"`
	WorkStyleType      string   `json:"work_style_type"`
	Skills             []string `json:"skills"`
	JobPreference      string   `json:"job_preference"`
	ExperienceYears    float64  `json:"experience_years" validate:"min=0"`
	PreferenceTags     []string `json:"preference_tags"`
	PriorityOrder      []string `json:"priority_order"`
}

// JobData is the wire form of a posting for one-shot matching.
type JobData struct {
	JobTitle             string   `json:"job_title" validate:"required"`
	JobLocation          string   `json:"job_location"`
	Salary               int      `json:"salary" validate:"min=0"`
	AvailabilityRequired db.Date  `json:"availability_required"`
	WorkStyleType        string   `json:"work_style_type"`
	RequiredSkills       []string `json:"required_skills"`
	OptionalSkills       []string `json:"optional_skills"`
	CultureTags          []string `json:"culture_tags"`
	ExperienceRequired   *float64 `json:"experience_required,omitempty"`
}

// MatchRequest is the body of POST /match.
type MatchRequest struct {
	Candidate CandidateData `json:"candidate" validate:"required"`
	Job       JobData       `json:"job" validate:"required"`
}

// MatchByIDRequest is the body of the by-id matching endpoints.
type MatchByIDRequest struct {
	JobSeekerID  int64 `json:"job_seeker_id" validate:"required,min=1"`
	JobPostingID int64 `json:"job_posting_id" validate:"required,min=1"`
}

// RankingRequest is the body of POST /match/rankings and /match/rank-ui.
type RankingRequest struct {
	JobSeekerID int64 `json:"job_seeker_id" validate:"required,min=1"`
	TopK        int   `json:"top_k"`
}

// ReasonRequest is the body of POST /match/generate-reason.
type ReasonRequest struct {
	UserInfo string `json:"user_info" validate:"required"`
}

// ReasonResponse is the response of POST /match/generate-reason.
type ReasonResponse struct {
	Reason string `json:"reason"`
}

func (c *CandidateData) toFeatures() *matching.CandidateFeatures {
	return &matching.CandidateFeatures{
		Name:               c.Name,
		DesiredLocation:    c.DesiredLocation,
		DesiredSalary:      c.DesiredSalary,
		AvailableStartDate: c.AvailableStartDate.Time,
		WorkStyle:          c.WorkStyleType,
		Skills:             c.Skills,
		JobPreference:      c.JobPreference,
		ExperienceYears:    c.ExperienceYears,
		PreferenceTags:     c.PreferenceTags,
		// A request without priorities keeps equal weights; the default
		// order only applies when building from stored priority rows.
		PriorityOrder: matching.NormalizeOrder(c.PriorityOrder),
	}
}

func (j *JobData) toFeatures() *matching.JobFeatures {
	return &matching.JobFeatures{
		Title:                j.JobTitle,
		Location:             j.JobLocation,
		Salary:               j.Salary,
		AvailabilityRequired: j.AvailabilityRequired.Time,
		WorkStyle:            j.WorkStyleType,
		RequiredSkills:       j.RequiredSkills,
		OptionalSkills:       j.OptionalSkills,
		CultureTags:          j.CultureTags,
		ExperienceRequired:   j.ExperienceRequired,
	}
}

// decodeAndValidate decodes a JSON body into dst and runs struct validation.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := validator.New().Struct(dst); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// handleMatch scores a raw candidate/posting pair without touching storage.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.matcher.Score(r.Context(), req.Candidate.toFeatures(), req.Job.toFeatures())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleMatchByID scores a stored seeker/posting pair.
func (s *Server) handleMatchByID(w http.ResponseWriter, r *http.Request) {
	var req MatchByIDRequest
	if err := decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.matcher.MatchByID(r.Context(), req.JobSeekerID, req.JobPostingID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleMatchByIDWithReason scores a stored pair and attaches a generated
// match reason.
func (s *Server) handleMatchByIDWithReason(w http.ResponseWriter, r *http.Request) {
	var req MatchByIDRequest
	if err := decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.matcher.MatchByIDWithReason(r.Context(), req.JobSeekerID, req.JobPostingID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleRankings scores the seeker against the full catalog and returns the
// top-K postings.
func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	var req RankingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	topK := req.TopK
	if topK <= 0 {
		topK = s.defaultTopK
	}

	result, err := s.matcher.RankJobsForSeeker(r.Context(), req.JobSeekerID, topK)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleGenerateReason generates a match reason directly from a free-form
// candidate summary. Generation failures surface as fallback text, never as
// errors.
func (s *Server) handleGenerateReason(w http.ResponseWriter, r *http.Request) {
	var req ReasonRequest
	if err := decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	reason := s.explainer.MatchReason(r.Context(), req.UserInfo)
	s.jsonResponse(w, http.StatusOK, ReasonResponse{Reason: reason})
}

// handleListMatchingScores returns the persisted score audit trail for a
// seeker.
func (s *Server) handleListMatchingScores(w http.ResponseWriter, r *http.Request) {
	seekerID, err := parsePathID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job seeker ID")
		return
	}

	limit := parseQueryInt(r, "limit", 50, 200)
	records, err := s.db.ListScoreRecords(r.Context(), seekerID, limit)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		var breakdown matching.Breakdown
		if len(rec.Breakdown) > 0 {
			_ = json.Unmarshal(rec.Breakdown, &breakdown)
		}
		entry := map[string]any{
			"id":             rec.ID,
			"job_posting_id": rec.JobPostingID,
			"score":          rec.Score,
			"breakdown":      breakdown,
			"created_at":     rec.CreatedAt,
		}
		if rec.Explanation != nil {
			entry["explanation"] = *rec.Explanation
		}
		out = append(out, entry)
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_seeker_id": seekerID,
		"scores":        out,
		"count":         len(out),
	})
}
