package db

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_MarshalJSON(t *testing.T) {
	d := NewDate(time.Date(2026, 4, 1, 15, 30, 0, 0, time.UTC))
	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-04-01"`, string(out))
}

func TestDate_MarshalJSON_ZeroIsNull(t *testing.T) {
	out, err := json.Marshal(&Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestDate_UnmarshalJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-04-01"`), &d))
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.April, d.Month())
	assert.Equal(t, 1, d.Day())
}

func TestDate_UnmarshalJSON_NullAndEmpty(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte("null"), &d))
	assert.True(t, d.IsZero())
	require.NoError(t, d.UnmarshalJSON([]byte(`""`)))
	assert.True(t, d.IsZero())
}

func TestDate_UnmarshalJSON_Invalid(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"April 1st"`), &d))
}

func TestDate_ScanAndValue(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	var d Date
	require.NoError(t, d.Scan(now))
	assert.Equal(t, now, d.Time)

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, now, v)

	require.NoError(t, d.Scan(nil), "null column leaves the date untouched")
	assert.Error(t, d.Scan("2026-04-01"), "non-time values are rejected")

	var nilDate *Date
	v, err = nilDate.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestNewDate_TruncatesToDay(t *testing.T) {
	d := NewDate(time.Date(2026, 4, 1, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, 0, d.Hour())
	assert.Equal(t, 0, d.Minute())
}

func TestNeutralFeatures(t *testing.T) {
	start := NewDate(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	posting := &JobPosting{
		ID:            5,
		Title:         "Backend Engineer",
		Location:      "Tokyo",
		Salary:        500,
		StartDate:     start,
		WorkStyleType: "remote",
	}

	features := neutralFeatures(posting)
	assert.Equal(t, "Backend Engineer", features.Title)
	assert.Equal(t, "Tokyo", features.Location)
	assert.Equal(t, 500, features.Salary)
	assert.Equal(t, start.Time, features.AvailabilityRequired)
	assert.Equal(t, "remote", features.WorkStyle)
	assert.Nil(t, features.ExperienceRequired, "postings carry no experience minimum")
	assert.Empty(t, features.RequiredSkills)
}

func TestNeutralFeatures_MissingStartDateDefaultsToNow(t *testing.T) {
	features := neutralFeatures(&JobPosting{ID: 5, Title: "Backend Engineer"})
	assert.WithinDuration(t, time.Now().UTC(), features.AvailabilityRequired, time.Minute)
}
