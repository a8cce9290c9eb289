package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/masaki2607/oneview-matching/internal/matching"
	"github.com/masaki2607/oneview-matching/internal/schemas"
)

// SaveScoreRecord validates a score record against the matching-score schema
// and inserts it into matching_scores. Callers treat failures as best-effort.
func (db *DB) SaveScoreRecord(ctx context.Context, rec *matching.ScoreRecord) error {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal score record: %w", err)
	}
	if err := schemas.ValidateScoreRecord(recordJSON); err != nil {
		return fmt.Errorf("score record rejected by schema: %w", err)
	}

	breakdownJSON, err := json.Marshal(rec.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal breakdown: %w", err)
	}

	var explanation *string
	if rec.Explanation != "" {
		explanation = &rec.Explanation
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO matching_scores (id, job_seeker_id, job_posting_id, score, breakdown, explanation, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.JobSeekerID, rec.JobPostingID, rec.Score, breakdownJSON, explanation, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save score record: %w", err)
	}
	return nil
}

// ListScoreRecords retrieves recent score records for a seeker, newest first.
func (db *DB) ListScoreRecords(ctx context.Context, seekerID int64, limit int) ([]MatchingScore, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_seeker_id, job_posting_id, score, breakdown, explanation, created_at
		 FROM matching_scores
		 WHERE job_seeker_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		seekerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list score records: %w", err)
	}
	defer rows.Close()

	var records []MatchingScore
	for rows.Next() {
		var m MatchingScore
		if err := rows.Scan(&m.ID, &m.JobSeekerID, &m.JobPostingID, &m.Score,
			&m.Breakdown, &m.Explanation, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score record: %w", err)
		}
		records = append(records, m)
	}
	return records, rows.Err()
}
