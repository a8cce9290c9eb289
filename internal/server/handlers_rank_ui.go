package server

import (
	"net/http"
	"sort"

	"github.com/masaki2607/oneview-matching/internal/matching"
)

// salaryDisplayDivisor converts stored salary figures to the 10k units the
// frontend displays.
const salaryDisplayDivisor = 10000

// maxUIBullets caps reason sentences and requirement labels per matched job.
const maxUIBullets = 5

// factorLabels are the short UI labels for breakdown keys.
var factorLabels = map[matching.Factor]string{
	matching.FactorSkill:        "Skill fit",
	matching.FactorJobTitle:     "Title match",
	matching.FactorSalary:       "Salary match",
	matching.FactorLocation:     "Location match",
	matching.FactorAvailability: "Start timing",
	matching.FactorWorkStyle:    "Work style fit",
	matching.FactorPreference:   "Culture fit",
	matching.FactorExperience:   "Experience",
}

// MatchedJobUI is one entry in the rank-ui response, shaped for the frontend
// results view.
type MatchedJobUI struct {
	ID              int64         `json:"id"`
	Company         CompanyUI     `json:"company"`
	Position        string        `json:"position"`
	Salary          SalaryRangeUI `json:"salary"`
	MatchingScore   float64       `json:"matchingScore"`
	MatchingReasons []string      `json:"matchingReasons"`
	Requirements    []string      `json:"requirements"`
	Benefits        []string      `json:"benefits"`
}

// CompanyUI is the company block of a matched job.
type CompanyUI struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Location string `json:"location"`
}

// SalaryRangeUI is the salary block of a matched job, in display units.
type SalaryRangeUI struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// handleRankUI runs the ranking and reshapes it for the frontend: company
// fallbacks, salary display conversion, reason bullets and top breakdown
// labels.
func (s *Server) handleRankUI(w http.ResponseWriter, r *http.Request) {
	var req RankingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	topK := req.TopK
	if topK <= 0 {
		topK = s.defaultTopK
	}

	ranking, err := s.matcher.RankJobsForSeeker(r.Context(), req.JobSeekerID, topK)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	matched := make([]MatchedJobUI, 0, len(ranking.Results))
	for _, item := range ranking.Results {
		posting, err := s.db.GetJobPosting(r.Context(), item.JobPostingID)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		if posting == nil {
			continue
		}

		companyName := posting.CompanyName
		if companyName == "" {
			companyName = "(unknown company)"
		}
		industry := posting.CompanyIndustry
		if industry == "" {
			industry = "-"
		}
		location := posting.Location
		if location == "" {
			location = "-"
		}
		position := posting.Title
		if position == "" {
			position = "(untitled posting)"
		}

		display := posting.Salary / salaryDisplayDivisor

		matched = append(matched, MatchedJobUI{
			ID: posting.ID,
			Company: CompanyUI{
				Name:     companyName,
				Industry: industry,
				Location: location,
			},
			Position:        position,
			Salary:          SalaryRangeUI{Min: display, Max: display},
			MatchingScore:   item.Score,
			MatchingReasons: []string{},
			Requirements:    topFactorLabels(item.Breakdown),
			Benefits:        []string{},
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"matchedJobs": matched})
}

// topFactorLabels returns the UI labels of the highest-scoring breakdown
// factors, strongest first.
func topFactorLabels(breakdown matching.Breakdown) []string {
	factors := make([]matching.Factor, 0, len(breakdown))
	for f := range breakdown {
		factors = append(factors, f)
	}
	sort.SliceStable(factors, func(i, j int) bool {
		if breakdown[factors[i]] != breakdown[factors[j]] {
			return breakdown[factors[i]] > breakdown[factors[j]]
		}
		return factors[i] < factors[j]
	})
	if len(factors) > maxUIBullets {
		factors = factors[:maxUIBullets]
	}

	labels := make([]string, 0, len(factors))
	for _, f := range factors {
		if label, ok := factorLabels[f]; ok {
			labels = append(labels, label)
		} else {
			labels = append(labels, string(f))
		}
	}
	return labels
}
