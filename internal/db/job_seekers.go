package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/masaki2607/oneview-matching/internal/matching"
)

// GetJobSeeker retrieves a job seeker by id. Returns (nil, nil) when the id
// does not exist.
func (db *DB) GetJobSeeker(ctx context.Context, id int64) (*JobSeeker, error) {
	var s JobSeeker
	err := db.pool.QueryRow(ctx,
		`SELECT id, COALESCE(name, ''), COALESCE(desired_job, ''),
		        COALESCE(desired_location, ''), COALESCE(desired_salary, 0),
		        available_start_date, COALESCE(work_style_type, ''), created_at
		 FROM job_seekers WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Name, &s.DesiredJob, &s.DesiredLocation, &s.DesiredSalary,
		&s.AvailableStartDate, &s.WorkStyleType, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job seeker: %w", err)
	}
	return &s, nil
}

// CandidateFeatures resolves the scoring view of a seeker: skill and tag
// names via their link tables, total experience summed over job_histories,
// and the normalized priority order. Returns (nil, nil) when the seeker does
// not exist.
func (db *DB) CandidateFeatures(ctx context.Context, seekerID int64) (*matching.CandidateFeatures, error) {
	seeker, err := db.GetJobSeeker(ctx, seekerID)
	if err != nil {
		return nil, err
	}
	if seeker == nil {
		return nil, nil
	}

	skills, err := db.seekerSkillNames(ctx, seekerID)
	if err != nil {
		return nil, err
	}
	tags, err := db.seekerTagNames(ctx, seekerID)
	if err != nil {
		return nil, err
	}

	var years float64
	err = db.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(years_of_experience), 0)
		 FROM job_histories WHERE job_seeker_id = $1`,
		seekerID,
	).Scan(&years)
	if err != nil {
		return nil, fmt.Errorf("failed to sum job histories: %w", err)
	}

	codes, err := db.ListPriorityCodes(ctx, seekerID)
	if err != nil {
		return nil, err
	}

	startDate := time.Now().UTC()
	if seeker.AvailableStartDate != nil && !seeker.AvailableStartDate.IsZero() {
		startDate = seeker.AvailableStartDate.Time
	}

	return &matching.CandidateFeatures{
		Name:               seeker.Name,
		DesiredLocation:    seeker.DesiredLocation,
		DesiredSalary:      seeker.DesiredSalary,
		AvailableStartDate: startDate,
		WorkStyle:          seeker.WorkStyleType,
		Skills:             skills,
		JobPreference:      seeker.DesiredJob,
		ExperienceYears:    years,
		PreferenceTags:     tags,
		PriorityOrder:      matching.BuildPriorityOrder(codes),
	}, nil
}

// ListPriorityCodes returns a seeker's raw priority codes ordered by rank,
// with row id as the tie-break. The priority_category column is the single
// canonical source for the code; normalization happens in the matching
// package.
func (db *DB) ListPriorityCodes(ctx context.Context, seekerID int64) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT COALESCE(priority_category, '')
		 FROM job_seeker_priorities
		 WHERE job_seeker_id = $1
		 ORDER BY COALESCE(priority_rank, id), id`,
		seekerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list priorities: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan priority: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (db *DB) seekerSkillNames(ctx context.Context, seekerID int64) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT sk.name
		 FROM job_seeker_skills jss
		 JOIN skills sk ON sk.id = jss.skill_id
		 WHERE jss.job_seeker_id = $1
		 ORDER BY jss.my_row_id`,
		seekerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list seeker skills: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

func (db *DB) seekerTagNames(ctx context.Context, seekerID int64) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT t.name
		 FROM job_seeker_tags jst
		 JOIN tags t ON t.id = jst.tag_id
		 WHERE jst.job_seeker_id = $1
		 ORDER BY jst.my_row_id`,
		seekerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list seeker tags: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

func scanStrings(rows pgx.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
