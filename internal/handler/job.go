package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lumen/courseforge/internal/domain"
	"github.com/lumen/courseforge/internal/service"
)

// JobHandler handles job submission and the read-only query surface.
type JobHandler struct {
	jobs *service.GenerationService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobs *service.GenerationService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// Submit starts a full course generation job and returns its id
// immediately. Any JSON payload shape is accepted; normalization happens
// inside the pipeline, and an unreadable body simply falls through to the
// default outline.
func (h *JobHandler) Submit(c echo.Context) error {
	var payload json.RawMessage
	if body, err := io.ReadAll(c.Request().Body); err == nil && json.Valid(body) {
		payload = body
	}

	id := h.jobs.Submit(payload)
	return JSON(c, http.StatusAccepted, map[string]any{
		"jobId":  id,
		"status": domain.JobStatusQueued,
	})
}

// Status returns the bare status for a job id.
func (h *JobHandler) Status(c echo.Context) error {
	job, err := h.jobs.Status(c.Param("id"))
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, map[string]any{
		"job_id": job.ID,
		"status": job.Status,
	})
}

// StatusWithResult returns status plus result or error message for a job
// id. Pollers call this until the status is terminal.
func (h *JobHandler) StatusWithResult(c echo.Context) error {
	job, err := h.jobs.Status(c.Param("id"))
	if err != nil {
		return err
	}

	resp := map[string]any{
		"jobId":  job.ID,
		"status": job.Status,
	}
	if job.Result != nil {
		resp["result"] = job.Result
	}
	if job.ErrorMsg != "" {
		resp["error"] = job.ErrorMsg
	}
	return JSON(c, http.StatusOK, resp)
}
