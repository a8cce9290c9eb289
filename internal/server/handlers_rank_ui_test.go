package server

import (
	"testing"

	"github.com/masaki2607/oneview-matching/internal/matching"
	"github.com/stretchr/testify/assert"
)

func TestTopFactorLabels_StrongestFirst(t *testing.T) {
	breakdown := matching.Breakdown{
		matching.FactorSkill:        1.0,
		matching.FactorJobTitle:     0.2,
		matching.FactorExperience:   0.9,
		matching.FactorLocation:     0.0,
		matching.FactorSalary:       0.8,
		matching.FactorPreference:   0.1,
		matching.FactorAvailability: 0.7,
		matching.FactorWorkStyle:    0.3,
	}

	labels := topFactorLabels(breakdown)
	assert.Equal(t, []string{"Skill fit", "Experience", "Salary match", "Start timing", "Work style fit"}, labels)
}

func TestTopFactorLabels_CapsAtFive(t *testing.T) {
	breakdown := matching.Breakdown{}
	for _, f := range matching.AllFactors {
		breakdown[f] = 1.0
	}
	assert.Len(t, topFactorLabels(breakdown), maxUIBullets)
}

func TestTopFactorLabels_TieBreaksByFactorName(t *testing.T) {
	breakdown := matching.Breakdown{
		matching.FactorSkill:    0.5,
		matching.FactorJobTitle: 0.5,
	}
	// "job_title_score" sorts before "skill_score".
	assert.Equal(t, []string{"Title match", "Skill fit"}, topFactorLabels(breakdown))
}

func TestTopFactorLabels_EmptyBreakdown(t *testing.T) {
	assert.Empty(t, topFactorLabels(matching.Breakdown{}))
}
