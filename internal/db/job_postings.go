package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/masaki2607/oneview-matching/internal/matching"
)

const jobPostingColumns = `p.id, COALESCE(p.title, ''), COALESCE(p.industry, ''),
	COALESCE(p.location, ''), COALESCE(p.salary, 0), p.start_date,
	COALESCE(p.work_style_type, ''), COALESCE(c.name, ''), COALESCE(c.industry, ''), p.created_at`

// CreateJobPostingParams holds the fields for inserting a posting with its
// skill and tag links.
type CreateJobPostingParams struct {
	Title         string
	Industry      string
	Location      string
	Salary        int
	StartDate     *Date
	WorkStyleType string
	CompanyID     *int64
	Skills        []JobPostingSkillLink
	TagIDs        []int64
}

// JobPostingSkillLink links a posting to a skill id.
type JobPostingSkillLink struct {
	SkillID     int64
	IsMandatory bool
	Level       *int
}

// CreateJobPosting inserts a posting and its skill/tag links in one
// transaction.
func (db *DB) CreateJobPosting(ctx context.Context, params CreateJobPostingParams) (*JobPosting, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO job_postings (title, industry, location, salary, start_date, work_style_type, company_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		 RETURNING id`,
		params.Title, params.Industry, params.Location, params.Salary,
		params.StartDate, params.WorkStyleType, params.CompanyID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create job posting: %w", err)
	}

	for _, link := range params.Skills {
		_, err = tx.Exec(ctx,
			`INSERT INTO job_posting_skills (job_posting_id, skill_id, is_mandatory, required_level)
			 VALUES ($1, $2, $3, $4)`,
			id, link.SkillID, link.IsMandatory, link.Level,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to link skill %d: %w", link.SkillID, err)
		}
	}
	for _, tagID := range params.TagIDs {
		_, err = tx.Exec(ctx,
			`INSERT INTO job_posting_tags (job_posting_id, tag_id) VALUES ($1, $2)`,
			id, tagID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to link tag %d: %w", tagID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit job posting: %w", err)
	}
	return db.GetJobPosting(ctx, id)
}

// GetJobPosting retrieves a posting by id. Returns (nil, nil) when the id
// does not exist.
func (db *DB) GetJobPosting(ctx context.Context, id int64) (*JobPosting, error) {
	var p JobPosting
	err := db.pool.QueryRow(ctx,
		`SELECT `+jobPostingColumns+`
		 FROM job_postings p
		 LEFT JOIN companies c ON c.id = p.company_id
		 WHERE p.id = $1`,
		id,
	).Scan(&p.ID, &p.Title, &p.Industry, &p.Location, &p.Salary, &p.StartDate,
		&p.WorkStyleType, &p.CompanyName, &p.CompanyIndustry, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return &p, nil
}

// ListJobPostings retrieves postings ordered by id with pagination.
func (db *DB) ListJobPostings(ctx context.Context, limit, offset int) ([]JobPosting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobPostingColumns+`
		 FROM job_postings p
		 LEFT JOIN companies c ON c.id = p.company_id
		 ORDER BY p.id
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	defer rows.Close()

	var postings []JobPosting
	for rows.Next() {
		var p JobPosting
		if err := rows.Scan(&p.ID, &p.Title, &p.Industry, &p.Location, &p.Salary,
			&p.StartDate, &p.WorkStyleType, &p.CompanyName, &p.CompanyIndustry, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		postings = append(postings, p)
	}
	return postings, rows.Err()
}

// JobFeatures resolves the scoring view of a posting. Returns (nil, nil)
// when the posting does not exist. Null columns resolve to neutral defaults
// so a sparse row scores low instead of failing.
func (db *DB) JobFeatures(ctx context.Context, jobID int64) (*matching.JobFeatures, error) {
	posting, err := db.GetJobPosting(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if posting == nil {
		return nil, nil
	}
	return db.featuresForPosting(ctx, posting)
}

// Catalog resolves features for every posting. Rows whose links cannot be
// resolved fall back to neutral features rather than aborting the scan.
func (db *DB) Catalog(ctx context.Context) ([]matching.CatalogEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobPostingColumns+`
		 FROM job_postings p
		 LEFT JOIN companies c ON c.id = p.company_id
		 ORDER BY p.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	defer rows.Close()

	var postings []JobPosting
	for rows.Next() {
		var p JobPosting
		if err := rows.Scan(&p.ID, &p.Title, &p.Industry, &p.Location, &p.Salary,
			&p.StartDate, &p.WorkStyleType, &p.CompanyName, &p.CompanyIndustry, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	catalog := make([]matching.CatalogEntry, 0, len(postings))
	for i := range postings {
		features, err := db.featuresForPosting(ctx, &postings[i])
		if err != nil {
			// One unresolvable posting must not fail the whole ranking pass.
			features = neutralFeatures(&postings[i])
		}
		catalog = append(catalog, matching.CatalogEntry{
			JobPostingID: postings[i].ID,
			Title:        postings[i].Title,
			Features:     features,
		})
	}
	return catalog, nil
}

func (db *DB) featuresForPosting(ctx context.Context, posting *JobPosting) (*matching.JobFeatures, error) {
	required, optional, err := db.postingSkillNames(ctx, posting.ID)
	if err != nil {
		return nil, err
	}
	tags, err := db.postingTagNames(ctx, posting.ID)
	if err != nil {
		return nil, err
	}

	features := neutralFeatures(posting)
	features.RequiredSkills = required
	features.OptionalSkills = optional
	features.CultureTags = tags
	return features, nil
}

// neutralFeatures maps a posting row to features using only its own columns,
// with today standing in for a missing start date. Postings carry no minimum
// experience column, so ExperienceRequired stays nil ("no minimum").
func neutralFeatures(posting *JobPosting) *matching.JobFeatures {
	startDate := time.Now().UTC()
	if posting.StartDate != nil && !posting.StartDate.IsZero() {
		startDate = posting.StartDate.Time
	}
	return &matching.JobFeatures{
		Title:                posting.Title,
		Location:             posting.Location,
		Salary:               posting.Salary,
		AvailabilityRequired: startDate,
		WorkStyle:            posting.WorkStyleType,
	}
}

func (db *DB) postingSkillNames(ctx context.Context, postingID int64) (required, optional []string, err error) {
	rows, err := db.pool.Query(ctx,
		`SELECT sk.name, COALESCE(jps.is_mandatory, FALSE)
		 FROM job_posting_skills jps
		 JOIN skills sk ON sk.id = jps.skill_id
		 WHERE jps.job_posting_id = $1
		 ORDER BY jps.my_row_id`,
		postingID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list posting skills: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var mandatory bool
		if err := rows.Scan(&name, &mandatory); err != nil {
			return nil, nil, fmt.Errorf("failed to scan posting skill: %w", err)
		}
		if mandatory {
			required = append(required, name)
		} else {
			optional = append(optional, name)
		}
	}
	return required, optional, rows.Err()
}

func (db *DB) postingTagNames(ctx context.Context, postingID int64) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT t.name
		 FROM job_posting_tags jpt
		 JOIN tags t ON t.id = jpt.tag_id
		 WHERE jpt.job_posting_id = $1
		 ORDER BY jpt.my_row_id`,
		postingID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posting tags: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}
