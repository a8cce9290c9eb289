// Package matching implements the weighted multi-factor compatibility scoring
// between job seekers and job postings, and the catalog ranking built on top of it.
package matching

import "strings"

// Factor identifies one of the eight scoring dimensions. The string value is
// the breakdown key exposed over the API and stored in matching_scores.
type Factor string

// The eight canonical factors, in breakdown emission order.
const (
	FactorSkill        Factor = "skill_score"
	FactorJobTitle     Factor = "job_title_score"
	FactorExperience   Factor = "experience_score"
	FactorLocation     Factor = "location_score"
	FactorSalary       Factor = "salary_score"
	FactorPreference   Factor = "preference_score"
	FactorAvailability Factor = "availability_score"
	FactorWorkStyle    Factor = "work_style_score"
)

// AllFactors lists every scoring dimension. A breakdown always carries one
// entry per element of this slice.
var AllFactors = []Factor{
	FactorSkill,
	FactorJobTitle,
	FactorExperience,
	FactorLocation,
	FactorSalary,
	FactorPreference,
	FactorAvailability,
	FactorWorkStyle,
}

// factorAliases accepts the priority labels seen across upstream schemas
// (priority_category values, older column names, and the canonical keys
// themselves) and maps them onto canonical factors.
var factorAliases = map[string]Factor{
	"skill":       FactorSkill,
	"skills":      FactorSkill,
	"skill_score": FactorSkill,

	"job_title":       FactorJobTitle,
	"title":           FactorJobTitle,
	"job_title_score": FactorJobTitle,

	"salary":       FactorSalary,
	"comp":         FactorSalary,
	"compensation": FactorSalary,
	"salary_score": FactorSalary,

	"location":       FactorLocation,
	"place":          FactorLocation,
	"location_score": FactorLocation,

	"availability":          FactorAvailability,
	"start_date":            FactorAvailability,
	"availability_required": FactorAvailability,
	"availability_score":    FactorAvailability,

	"work_style":       FactorWorkStyle,
	"workstyle":        FactorWorkStyle,
	"work_style_type":  FactorWorkStyle,
	"work_style_score": FactorWorkStyle,

	"preference":       FactorPreference,
	"culture":          FactorPreference,
	"tags":             FactorPreference,
	"preference_score": FactorPreference,

	"experience":          FactorExperience,
	"years":               FactorExperience,
	"experience_required": FactorExperience,
	"experience_score":    FactorExperience,
}

// ParseFactor normalizes a free-form priority code to a canonical factor.
// Matching is case-insensitive; unknown codes return ok=false.
func ParseFactor(raw string) (Factor, bool) {
	code := strings.ToLower(strings.TrimSpace(raw))
	if code == "" {
		return "", false
	}
	f, ok := factorAliases[code]
	return f, ok
}

// DefaultPriorityOrder is the order applied when a seeker has no stored
// priorities: skill match first, then title, then salary.
func DefaultPriorityOrder() []Factor {
	return []Factor{FactorSkill, FactorJobTitle, FactorSalary}
}

// NormalizeOrder maps raw priority codes to factors, dropping unknown codes
// and duplicates (first occurrence wins). An empty result stays empty, which
// the scoring engine treats as "all factors weighted equally".
func NormalizeOrder(rawCodes []string) []Factor {
	order := make([]Factor, 0, len(rawCodes))
	seen := make(map[Factor]bool, len(rawCodes))
	for _, raw := range rawCodes {
		f, ok := ParseFactor(raw)
		if !ok || seen[f] {
			continue
		}
		seen[f] = true
		order = append(order, f)
	}
	return order
}

// BuildPriorityOrder builds a seeker's priority order from stored priority
// rows (already sorted by rank). When nothing usable is stored it falls back
// to DefaultPriorityOrder.
func BuildPriorityOrder(rawCodes []string) []Factor {
	order := NormalizeOrder(rawCodes)
	if len(order) == 0 {
		return DefaultPriorityOrder()
	}
	return order
}
