package server

import (
	"net/http"
	"strconv"

	"github.com/masaki2607/oneview-matching/internal/db"
)

// JobPostingSkillCreate links a new posting to a skill.
type JobPostingSkillCreate struct {
	SkillID     int64 `json:"skill_id" validate:"required,min=1"`
	IsMandatory bool  `json:"is_mandatory"`
	SkillLevel  *int  `json:"skill_level,omitempty"`
}

// JobPostingTagCreate links a new posting to a tag.
type JobPostingTagCreate struct {
	TagID int64 `json:"tag_id" validate:"required,min=1"`
}

// CreateJobPostingRequest is the body of POST /job-postings.
type CreateJobPostingRequest struct {
	Title         string                  `json:"title" validate:"required"`
	Industry      string                  `json:"industry"`
	Location      string                  `json:"location"`
	Salary        int                     `json:"salary" validate:"min=0"`
	StartDate     *db.Date                `json:"start_date,omitempty"`
	WorkStyleType string                  `json:"work_style_type"`
	CompanyID     *int64                  `json:"company_id,omitempty"`
	Skills        []JobPostingSkillCreate `json:"skills"`
	Tags          []JobPostingTagCreate   `json:"tags"`
}

// ListJobPostingsResponse is the response for listing job postings.
type ListJobPostingsResponse struct {
	Postings []db.JobPosting `json:"postings"`
	Count    int             `json:"count"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
}

// handleCreateJobPosting registers a posting with its skill and tag links.
func (s *Server) handleCreateJobPosting(w http.ResponseWriter, r *http.Request) {
	var req CreateJobPostingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	params := db.CreateJobPostingParams{
		Title:         req.Title,
		Industry:      req.Industry,
		Location:      req.Location,
		Salary:        req.Salary,
		StartDate:     req.StartDate,
		WorkStyleType: req.WorkStyleType,
		CompanyID:     req.CompanyID,
	}
	for _, link := range req.Skills {
		params.Skills = append(params.Skills, db.JobPostingSkillLink{
			SkillID:     link.SkillID,
			IsMandatory: link.IsMandatory,
			Level:       link.SkillLevel,
		})
	}
	for _, tag := range req.Tags {
		params.TagIDs = append(params.TagIDs, tag.TagID)
	}

	posting, err := s.db.CreateJobPosting(r.Context(), params)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, posting)
}

// handleGetJobPosting retrieves a posting by id.
func (s *Server) handleGetJobPosting(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job posting ID")
		return
	}

	posting, err := s.db.GetJobPosting(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if posting == nil {
		s.errorResponse(w, http.StatusNotFound, "Job posting not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, posting)
}

// handleListJobPostings lists postings with pagination.
func (s *Server) handleListJobPostings(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 50, 100)
	offset := parseQueryInt(r, "offset", 0, 0)

	postings, err := s.db.ListJobPostings(r.Context(), limit, offset)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ListJobPostingsResponse{
		Postings: postings,
		Count:    len(postings),
		Limit:    limit,
		Offset:   offset,
	})
}

// parsePathID parses a numeric path value.
func parsePathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

// parseQueryInt parses a query integer with a default and an optional upper
// cap (0 means uncapped).
func parseQueryInt(r *http.Request, name string, def, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	if max > 0 && v > max {
		return max
	}
	return v
}
