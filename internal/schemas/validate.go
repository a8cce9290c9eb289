// Package schemas provides JSON Schema validation for persisted matching
// artifacts.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// scoreRecordSchema constrains the matching_scores artifact: total in
// [0, 100] and exactly the eight factor keys, each in [0, 1].
const scoreRecordSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "MatchingScoreRecord",
  "type": "object",
  "required": ["job_seeker_id", "job_posting_id", "score", "breakdown"],
  "properties": {
    "job_seeker_id": {"type": "integer", "minimum": 1},
    "job_posting_id": {"type": "integer", "minimum": 1},
    "score": {"type": "number", "minimum": 0, "maximum": 100},
    "explanation": {"type": "string"},
    "breakdown": {
      "type": "object",
      "required": [
        "skill_score", "job_title_score", "experience_score", "location_score",
        "salary_score", "preference_score", "availability_score", "work_style_score"
      ],
      "additionalProperties": false,
      "patternProperties": {
        "^[a-z_]+_score$": {"type": "number", "minimum": 0, "maximum": 1}
      }
    }
  }
}`

// ValidationError reports which fields of an artifact failed validation.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single validation failure at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateScoreRecord validates a marshaled score record against the
// matching-score schema.
func ValidateScoreRecord(recordJSON []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(scoreRecordSchema)
	documentLoader := gojsonschema.NewBytesLoader(recordJSON)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to run schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return ve
}
