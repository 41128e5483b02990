package repository

import (
	"errors"
	"testing"

	"github.com/lumen/courseforge/internal/domain"
)

func TestJobRegistryGetUnknown(t *testing.T) {
	r := NewJobRegistry()
	if _, err := r.Get("missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestJobRegistryLifecycle(t *testing.T) {
	r := NewJobRegistry()
	r.Create("job-1")

	job, err := r.Get("job-1")
	if err != nil {
		t.Fatal(err)
	}
	if job.Status != domain.JobStatusQueued {
		t.Fatalf("status = %s, want queued", job.Status)
	}
	if job.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not set")
	}

	outline := domain.CourseOutline{Title: "T", Lessons: []domain.LessonSpec{{Title: "L1"}}}
	if err := r.MarkRunning("job-1", outline); err != nil {
		t.Fatal(err)
	}
	job, _ = r.Get("job-1")
	if job.Status != domain.JobStatusRunning {
		t.Fatalf("status = %s, want running", job.Status)
	}
	if job.Outline.Title != "T" || len(job.Outline.Lessons) != 1 {
		t.Fatalf("outline = %+v", job.Outline)
	}

	result := domain.CourseResult{Archive: "/tmp/job-1.zip"}
	if err := r.Complete("job-1", result); err != nil {
		t.Fatal(err)
	}
	job, _ = r.Get("job-1")
	if job.Status != domain.JobStatusDone {
		t.Fatalf("status = %s, want done", job.Status)
	}
	if job.Result == nil || job.Result.Archive != "/tmp/job-1.zip" {
		t.Fatalf("result = %+v", job.Result)
	}
}

func TestJobRegistryFail(t *testing.T) {
	r := NewJobRegistry()
	r.Create("job-2")

	if err := r.Fail("job-2", "boom"); err != nil {
		t.Fatal(err)
	}
	job, _ := r.Get("job-2")
	if job.Status != domain.JobStatusError {
		t.Fatalf("status = %s, want error", job.Status)
	}
	if job.ErrorMsg != "boom" {
		t.Fatalf("error msg = %q", job.ErrorMsg)
	}
}

// TestJobRegistryTerminalOnce verifies a job cannot leave a terminal state.
func TestJobRegistryTerminalOnce(t *testing.T) {
	r := NewJobRegistry()
	r.Create("job-3")
	if err := r.Complete("job-3", domain.CourseResult{}); err != nil {
		t.Fatal(err)
	}

	if err := r.Fail("job-3", "late failure"); err == nil {
		t.Fatal("Fail after Complete succeeded")
	}
	if err := r.MarkRunning("job-3", domain.CourseOutline{}); err == nil {
		t.Fatal("MarkRunning after Complete succeeded")
	}

	job, _ := r.Get("job-3")
	if job.Status != domain.JobStatusDone || job.ErrorMsg != "" {
		t.Fatalf("terminal state mutated: %+v", job)
	}
}

func TestJobRegistryUpdateUnknown(t *testing.T) {
	r := NewJobRegistry()
	if err := r.MarkRunning("nope", domain.CourseOutline{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// TestJobRegistrySnapshotIsolation checks a returned snapshot is detached
// from later registry writes.
func TestJobRegistrySnapshotIsolation(t *testing.T) {
	r := NewJobRegistry()
	r.Create("job-4")

	before, _ := r.Get("job-4")
	if err := r.Fail("job-4", "x"); err != nil {
		t.Fatal(err)
	}
	if before.Status != domain.JobStatusQueued {
		t.Fatalf("snapshot mutated to %s", before.Status)
	}
}
