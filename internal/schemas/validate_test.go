package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() map[string]any {
	return map[string]any{
		"job_seeker_id":  1,
		"job_posting_id": 2,
		"score":          87.5,
		"explanation":    "strong overlap",
		"breakdown": map[string]any{
			"skill_score":        1.0,
			"job_title_score":    0.8,
			"experience_score":   1.0,
			"location_score":     0.0,
			"salary_score":       0.95,
			"preference_score":   0.5,
			"availability_score": 1.0,
			"work_style_score":   0.7,
		},
	}
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestValidateScoreRecord_Valid(t *testing.T) {
	assert.NoError(t, ValidateScoreRecord(mustMarshal(t, validRecord())))
}

func TestValidateScoreRecord_ExplanationOptional(t *testing.T) {
	rec := validRecord()
	delete(rec, "explanation")
	assert.NoError(t, ValidateScoreRecord(mustMarshal(t, rec)))
}

func TestValidateScoreRecord_ScoreOutOfRange(t *testing.T) {
	rec := validRecord()
	rec["score"] = 100.5
	err := ValidateScoreRecord(mustMarshal(t, rec))
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Errors)
}

func TestValidateScoreRecord_MissingFactorKey(t *testing.T) {
	rec := validRecord()
	delete(rec["breakdown"].(map[string]any), "salary_score")
	assert.Error(t, ValidateScoreRecord(mustMarshal(t, rec)))
}

func TestValidateScoreRecord_FactorValueOutOfRange(t *testing.T) {
	rec := validRecord()
	rec["breakdown"].(map[string]any)["skill_score"] = 1.2
	assert.Error(t, ValidateScoreRecord(mustMarshal(t, rec)))
}

func TestValidateScoreRecord_UnknownBreakdownKeyRejected(t *testing.T) {
	rec := validRecord()
	rec["breakdown"].(map[string]any)["vibes"] = 0.5
	assert.Error(t, ValidateScoreRecord(mustMarshal(t, rec)))
}

func TestValidateScoreRecord_MissingIDs(t *testing.T) {
	rec := validRecord()
	delete(rec, "job_seeker_id")
	assert.Error(t, ValidateScoreRecord(mustMarshal(t, rec)))
}

func TestValidateScoreRecord_MalformedJSON(t *testing.T) {
	assert.Error(t, ValidateScoreRecord([]byte("not json")))
}

func TestValidationError_MessageListsFields(t *testing.T) {
	rec := validRecord()
	rec["score"] = -1
	err := ValidateScoreRecord(mustMarshal(t, rec))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
