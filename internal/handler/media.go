package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lumen/courseforge/internal/domain"
	"github.com/lumen/courseforge/internal/service"
)

// MediaHandler exposes standalone logo and banner generation for an
// existing job.
type MediaHandler struct {
	media *service.MediaGenerator
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(media *service.MediaGenerator) *MediaHandler {
	return &MediaHandler{media: media}
}

type mediaRequest struct {
	JobID       string `json:"job_id" validate:"required"`
	CourseTitle string `json:"course_title"`
}

// Logo generates a square course logo for the job.
func (h *MediaHandler) Logo(c echo.Context) error {
	req, err := bindMediaRequest(c)
	if err != nil {
		return err
	}

	url, err := h.media.Logo(c.Request().Context(), req.JobID, req.CourseTitle)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, map[string]string{"logo_url": url})
}

// Banner generates a wide course banner for the job.
func (h *MediaHandler) Banner(c echo.Context) error {
	req, err := bindMediaRequest(c)
	if err != nil {
		return err
	}

	url, err := h.media.Banner(c.Request().Context(), req.JobID, req.CourseTitle)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, map[string]string{"banner_url": url})
}

func bindMediaRequest(c echo.Context) (mediaRequest, error) {
	var req mediaRequest
	if err := c.Bind(&req); err != nil {
		return req, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := c.Validate(&req); err != nil {
		return req, err
	}
	if req.CourseTitle == "" {
		req.CourseTitle = "Unnamed Course"
	}
	return req, nil
}
