package matching

import "fmt"

// ErrSeekerNotFound indicates the job seeker id does not exist.
type ErrSeekerNotFound struct {
	JobSeekerID int64
}

func (e *ErrSeekerNotFound) Error() string {
	return fmt.Sprintf("job seeker not found: %d", e.JobSeekerID)
}

// ErrJobNotFound indicates the job posting id does not exist.
type ErrJobNotFound struct {
	JobPostingID int64
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("job posting not found: %d", e.JobPostingID)
}
