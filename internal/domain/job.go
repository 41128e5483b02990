package domain

import "time"

// JobStatus represents the state of a course generation job.
type JobStatus string

const (
	JobStatusQueued  JobStatus = "queued"
	JobStatusRunning JobStatus = "running"
	JobStatusDone    JobStatus = "done"
	JobStatusError   JobStatus = "error"
)

// Terminal reports whether the status can no longer change.
func (s JobStatus) Terminal() bool {
	return s == JobStatusDone || s == JobStatusError
}

// Job tracks one full course generation run. Result and ErrorMsg are
// mutually exclusive: Result is set only when Status is done, ErrorMsg only
// when Status is error, and both are empty while the job is queued or
// running. Job state lives for the lifetime of the process only.
type Job struct {
	ID        string        `json:"id"`
	Status    JobStatus     `json:"status"`
	Outline   CourseOutline `json:"outline"`
	Result    *CourseResult `json:"result,omitempty"`
	ErrorMsg  string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
