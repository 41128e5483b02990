package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lumen/courseforge/internal/domain"
	"github.com/lumen/courseforge/internal/metrics"
	"github.com/lumen/courseforge/internal/repository"
	"github.com/lumen/courseforge/internal/store"
)

// ArchiveUploader mirrors a finished job archive to remote storage. It is an
// optional collaborator; mirroring failures never affect job status.
type ArchiveUploader interface {
	Upload(ctx context.Context, jobID, archivePath string) (string, error)
}

// GenerationService orchestrates full course generation jobs. Submit
// schedules each job as an independent background unit of work and returns
// immediately; the pipeline body mutates the registry entry as it
// progresses. Once scheduled, a job runs to a terminal state or until
// process exit: there is no cancellation.
type GenerationService struct {
	registry *repository.JobRegistry
	store    *store.ArtifactStore
	lessons  *LessonGenerator
	media    *MediaGenerator
	mirror   ArchiveUploader
}

// NewGenerationService wires the orchestrator. mirror may be nil when no
// object-store mirror is configured.
func NewGenerationService(
	registry *repository.JobRegistry,
	artifacts *store.ArtifactStore,
	lessons *LessonGenerator,
	media *MediaGenerator,
	mirror ArchiveUploader,
) *GenerationService {
	return &GenerationService{
		registry: registry,
		store:    artifacts,
		lessons:  lessons,
		media:    media,
		mirror:   mirror,
	}
}

// Submit allocates a fresh job id, stores a queued entry and schedules the
// pipeline without blocking the caller. Safe for concurrent use; ids never
// collide.
func (s *GenerationService) Submit(payload json.RawMessage) string {
	id := uuid.NewString()
	s.registry.Create(id)
	metrics.JobsSubmitted.Inc()
	slog.Info("job queued", "job_id", id)

	go s.run(context.Background(), id, payload)
	return id
}

// Status returns the live job snapshot, or domain.ErrNotFound.
func (s *GenerationService) Status(id string) (domain.Job, error) {
	return s.registry.Get(id)
}

// run executes the pipeline body and guarantees a terminal status: any error
// or panic escaping the body is recorded on the job, never re-raised.
func (s *GenerationService) run(ctx context.Context, id string, payload json.RawMessage) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("job panicked", "job_id", id, "panic", r)
			s.finish(id, nil, fmt.Errorf("panic: %v", r))
		}
	}()

	result, err := s.execute(ctx, id, payload)
	s.finish(id, result, err)
}

func (s *GenerationService) finish(id string, result *domain.CourseResult, err error) {
	if err != nil {
		slog.Error("job failed", "job_id", id, "error", err)
		if regErr := s.registry.Fail(id, err.Error()); regErr != nil {
			slog.Error("record job failure", "job_id", id, "error", regErr)
			return
		}
		metrics.JobsFinished.WithLabelValues("error").Inc()
		return
	}

	if regErr := s.registry.Complete(id, *result); regErr != nil {
		slog.Error("record job result", "job_id", id, "error", regErr)
		return
	}
	metrics.JobsFinished.WithLabelValues("done").Inc()
	slog.Info("job done", "job_id", id, "lessons", len(result.Lessons), "archive", result.Archive)
}

// execute is the pipeline body. Lessons are processed strictly in outline
// order; a single lesson failure is absorbed inside the lesson generator and
// never aborts the loop. Only I/O failures around packaging propagate out
// and terminate the job.
func (s *GenerationService) execute(ctx context.Context, id string, payload json.RawMessage) (*domain.CourseResult, error) {
	outline := domain.NormalizeOutline(payload)
	if err := s.registry.MarkRunning(id, outline); err != nil {
		return nil, err
	}
	slog.Info("job running", "job_id", id, "course", outline.Title, "lessons", len(outline.Lessons))

	if _, err := s.store.JobDir(id); err != nil {
		return nil, err
	}

	course := domain.Course{
		Title:       outline.Title,
		Description: outline.Description,
		Lessons:     make([]domain.GeneratedLesson, 0, len(outline.Lessons)),
	}
	for i, spec := range outline.Lessons {
		course.Lessons = append(course.Lessons, s.lessons.Generate(ctx, id, i+1, spec))
	}

	if _, err := s.store.WriteCourseJSON(id, course); err != nil {
		return nil, err
	}
	archivePath, err := s.store.Archive(id)
	if err != nil {
		return nil, err
	}

	result := &domain.CourseResult{Course: course, Archive: archivePath}

	// Best-effort extras: each is independent and an absent URL is the only
	// failure signal exposed to clients.
	if url, err := s.media.Logo(ctx, id, outline.Title); err != nil {
		slog.Warn("logo generation skipped", "job_id", id, "error", err)
	} else {
		result.LogoURL = url
	}
	if url, err := s.media.Banner(ctx, id, outline.Title); err != nil {
		slog.Warn("banner generation skipped", "job_id", id, "error", err)
	} else {
		result.BannerURL = url
	}
	if s.mirror != nil {
		if url, err := s.mirror.Upload(ctx, id, archivePath); err != nil {
			slog.Warn("archive mirror skipped", "job_id", id, "error", err)
		} else {
			result.ArchiveURL = url
		}
	}

	return result, nil
}
