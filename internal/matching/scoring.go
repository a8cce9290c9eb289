package matching

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/masaki2607/oneview-matching/internal/similarity"
)

// Priority weights by rank in the seeker's priority order. Factors outside
// the order (or beyond third place) weigh 1.0.
const (
	weightFirst  = 1.5
	weightSecond = 1.3
	weightThird  = 1.1
	weightOther  = 1.0
)

// salaryGapScale is the gap (in the salary unit stored on postings) at which
// the salary factor reaches zero. Inherited constant; the unit is the same
// 10k-based one the UI layer divides by.
const salaryGapScale = 200.0

// salaryUnderAskBoost is applied when the candidate asks at or below the
// offer, capped at 1.0.
const salaryUnderAskBoost = 1.05

// Engine computes compatibility scores. It is stateless apart from the
// injected similarity scorer and safe for concurrent use if the scorer is.
type Engine struct {
	sim similarity.Scorer
}

// NewEngine creates a scoring engine backed by the given similarity scorer.
func NewEngine(sim similarity.Scorer) *Engine {
	return &Engine{sim: sim}
}

// Score computes the weighted total score in [0, 100] and the per-factor
// breakdown for one candidate/posting pair. A similarity backend failure
// aborts the whole call; no partial breakdown is returned.
func (e *Engine) Score(ctx context.Context, candidate *CandidateFeatures, job *JobFeatures, priority []Factor) (float64, Breakdown, error) {
	breakdown := make(Breakdown, len(AllFactors))

	skillScore, err := e.sim.Similarity(ctx, joinTerms(candidate.Skills), joinTerms(append(append([]string{}, job.RequiredSkills...), job.OptionalSkills...)))
	if err != nil {
		return 0, nil, fmt.Errorf("skill similarity: %w", err)
	}
	breakdown[FactorSkill] = round2(skillScore)

	titleScore, err := e.sim.Similarity(ctx, candidate.JobPreference, job.Title)
	if err != nil {
		return 0, nil, fmt.Errorf("job title similarity: %w", err)
	}
	breakdown[FactorJobTitle] = round2(titleScore)

	breakdown[FactorExperience] = round2(experienceScore(candidate.ExperienceYears, job.ExperienceRequired))
	breakdown[FactorLocation] = locationScore(candidate.DesiredLocation, job.Location)
	breakdown[FactorSalary] = round2(salaryScore(candidate.DesiredSalary, job.Salary))

	prefScore := 0.0
	if len(candidate.PreferenceTags) > 0 && len(job.CultureTags) > 0 {
		prefScore, err = e.sim.Similarity(ctx, joinTerms(candidate.PreferenceTags), joinTerms(job.CultureTags))
		if err != nil {
			return 0, nil, fmt.Errorf("preference similarity: %w", err)
		}
	}
	breakdown[FactorPreference] = round2(prefScore)

	breakdown[FactorAvailability] = round2(availabilityScore(candidate.AvailableStartDate, job.AvailabilityRequired))

	workScore := 0.0
	if candidate.WorkStyle != "" && job.WorkStyle != "" {
		workScore, err = e.sim.Similarity(ctx, candidate.WorkStyle, job.WorkStyle)
		if err != nil {
			return 0, nil, fmt.Errorf("work style similarity: %w", err)
		}
	}
	breakdown[FactorWorkStyle] = round2(workScore)

	return weightedTotal(breakdown, priority), breakdown, nil
}

// weightedTotal blends the rounded factor values into a 0-100 total using
// the seeker's priority weights.
func weightedTotal(breakdown Breakdown, priority []Factor) float64 {
	var weightedSum, weightSum float64
	for _, f := range AllFactors {
		w := priorityWeight(f, priority)
		weightedSum += breakdown[f] * w
		weightSum += w
	}
	// Unreachable under the current weights (every weight >= 1.0), but a zero
	// divisor must not produce NaN.
	if weightSum == 0 {
		return 0
	}
	return round2(weightedSum / weightSum * 100)
}

// priorityWeight returns the weight of a factor given the seeker's priority
// order: 1.5 for first place, 1.3 for second, 1.1 for third, 1.0 otherwise.
func priorityWeight(f Factor, priority []Factor) float64 {
	for rank, p := range priority {
		if p != f {
			continue
		}
		switch rank {
		case 0:
			return weightFirst
		case 1:
			return weightSecond
		case 2:
			return weightThird
		default:
			return weightOther
		}
	}
	return weightOther
}

// experienceScore penalizes under-qualification only: below one year of
// experience scores zero outright, a posting without a minimum scores full,
// and a shortfall of up to three years decays linearly before flooring at 0.5.
func experienceScore(years float64, required *float64) float64 {
	if years < 1 {
		return 0.0
	}
	if required == nil {
		return 1.0
	}
	gap := *required - years
	switch {
	case gap <= 0:
		return 1.0
	case gap <= 3:
		return 1.0 - gap/6.0
	default:
		return 0.5
	}
}

// locationScore is an exact string match; no fuzzy matching.
func locationScore(desired, location string) float64 {
	if desired == location {
		return 1.0
	}
	return 0.0
}

// salaryScore decays linearly with the gap between ask and offer, with a 5%
// boost (capped at 1.0) when the candidate asks at or below the offer.
// Postings without a usable salary score zero.
func salaryScore(desired, offer int) float64 {
	if offer <= 0 {
		return 0.0
	}
	gap := math.Abs(float64(desired - offer))
	score := math.Max(0.0, 1.0-gap/salaryGapScale)
	if desired <= offer {
		score = math.Min(1.0, score*salaryUnderAskBoost)
	}
	return math.Min(score, 1.0)
}

// availabilityScore bands on how many days after the required start date the
// candidate becomes available; being available early counts as full score.
func availabilityScore(availableFrom, requiredBy time.Time) float64 {
	days := int(availableFrom.Sub(requiredBy).Hours() / 24)
	switch {
	case days <= 30:
		return 1.0
	case days <= 90:
		return 0.7
	default:
		return 0.3
	}
}

func joinTerms(terms []string) string {
	return strings.Join(terms, " ")
}

// round2 rounds to two decimal places. Factor values are rounded once, at
// emission into the breakdown, and the total once more after blending.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
