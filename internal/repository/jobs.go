package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/lumen/courseforge/internal/domain"
)

// JobRegistry is the in-memory, process-lifetime store for generation jobs.
// The orchestrator is the only writer; any number of pollers read
// concurrently. Writes hold the lock for the whole assignment and reads
// return snapshots, so a reader never observes a partially written result.
// Jobs are never deleted and do not survive a process restart.
type JobRegistry struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
}

// NewJobRegistry creates an empty registry. One instance is created at
// service start and injected into the orchestrator and the query handlers.
func NewJobRegistry() *JobRegistry {
	return &JobRegistry{jobs: make(map[string]*domain.Job)}
}

// Create stores a fresh queued job under its id.
func (r *JobRegistry) Create(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.jobs[id] = &domain.Job{
		ID:        id,
		Status:    domain.JobStatusQueued,
		CreatedAt: time.Now(),
	}
}

// Get returns a snapshot of the job, or domain.ErrNotFound for unknown ids.
// Once a terminal snapshot is observed, later calls return the same state.
func (r *JobRegistry) Get(id string) (domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return domain.Job{}, domain.ErrNotFound
	}
	return *job, nil
}

// MarkRunning transitions the job to running and records its normalized
// outline.
func (r *JobRegistry) MarkRunning(id string, outline domain.CourseOutline) error {
	return r.update(id, func(job *domain.Job) {
		job.Status = domain.JobStatusRunning
		job.Outline = outline
	})
}

// Complete transitions the job to done with its result. The result must not
// be mutated by the caller afterwards.
func (r *JobRegistry) Complete(id string, result domain.CourseResult) error {
	return r.update(id, func(job *domain.Job) {
		job.Status = domain.JobStatusDone
		job.Result = &result
	})
}

// Fail transitions the job to error with a message.
func (r *JobRegistry) Fail(id, msg string) error {
	return r.update(id, func(job *domain.Job) {
		job.Status = domain.JobStatusError
		job.ErrorMsg = msg
	})
}

func (r *JobRegistry) update(id string, apply func(*domain.Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	if job.Status.Terminal() {
		return fmt.Errorf("job %s already %s", id, job.Status)
	}
	apply(job)
	return nil
}
