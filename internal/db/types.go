package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// JobSeeker represents a job_seekers row.
type JobSeeker struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	DesiredJob         string     `json:"desired_job,omitempty"`
	DesiredLocation    string     `json:"desired_location,omitempty"`
	DesiredSalary      int        `json:"desired_salary"`
	AvailableStartDate *Date      `json:"available_start_date,omitempty"`
	WorkStyleType      string     `json:"work_style_type,omitempty"`
	CreatedAt          *time.Time `json:"created_at,omitempty"`
}

// JobPosting represents a job_postings row with its company denormalized for
// response shaping.
type JobPosting struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Industry        string     `json:"industry,omitempty"`
	Location        string     `json:"location,omitempty"`
	Salary          int        `json:"salary"`
	StartDate       *Date      `json:"start_date,omitempty"`
	WorkStyleType   string     `json:"work_style_type,omitempty"`
	CompanyName     string     `json:"company_name,omitempty"`
	CompanyIndustry string     `json:"company_industry,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

// MatchingScore represents a matching_scores row.
type MatchingScore struct {
	ID           uuid.UUID `json:"id"`
	JobSeekerID  int64     `json:"job_seeker_id"`
	JobPostingID int64     `json:"job_posting_id"`
	Score        float64   `json:"score"`
	Breakdown    []byte    `json:"-"`
	Explanation  *string   `json:"explanation,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Date is a custom type for handling SQL DATE (YYYY-MM-DD).
type Date struct {
	time.Time
}

// NewDate builds a Date from a time value, keeping only the calendar day.
func NewDate(t time.Time) *Date {
	y, m, d := t.Date()
	return &Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Scan implements the Scanner interface.
func (d *Date) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	t, ok := value.(time.Time)
	if !ok {
		return errors.New("failed to scan Date")
	}
	d.Time = t
	return nil
}

// Value implements the Valuer interface.
func (d *Date) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return d.Time, nil
}

// MarshalJSON implements json.Marshaler.
func (d *Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	str := string(data)
	if str == "null" || str == `""` {
		return nil
	}
	if len(str) > 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	var err error
	d.Time, err = time.Parse("2006-01-02", str)
	return err
}
