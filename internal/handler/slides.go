package handler

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lumen/courseforge/internal/domain"
	"github.com/lumen/courseforge/internal/slides"
	"github.com/lumen/courseforge/internal/store"
)

// SlideHandler exposes the slide pipeline stages and the listing surface.
type SlideHandler struct {
	pipeline *slides.Pipeline
	store    *store.ArtifactStore
}

// NewSlideHandler creates a new SlideHandler.
func NewSlideHandler(pipeline *slides.Pipeline, artifacts *store.ArtifactStore) *SlideHandler {
	return &SlideHandler{pipeline: pipeline, store: artifacts}
}

type improveRequest struct {
	LessonID string `json:"lesson_id" validate:"required"`
	Script   string `json:"script" validate:"required"`
}

// Improve rewrites a lesson script and returns the improved text.
func (h *SlideHandler) Improve(c echo.Context) error {
	var req improveRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	improved, err := h.pipeline.Improve(c.Request().Context(), req.LessonID, req.Script)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, map[string]string{
		"lesson_id":       req.LessonID,
		"improved_script": improved,
	})
}

type slideScriptRequest struct {
	Script string `json:"script" validate:"required"`
	Title  string `json:"title"`
}

// Synthesize converts a lesson script into a structured slide deck.
func (h *SlideHandler) Synthesize(c echo.Context) error {
	var req slideScriptRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	lessonID := c.Param("lesson_id")
	deck, err := h.pipeline.Synthesize(c.Request().Context(), lessonID, req.Title, req.Script)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, map[string]any{
		"lesson_id": lessonID,
		"slides":    deck,
	})
}

// Render rasterizes the synthesized deck for a lesson into PNG files.
func (h *SlideHandler) Render(c echo.Context) error {
	lessonID := c.Param("lesson_id")
	count, err := h.pipeline.Render(lessonID)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, map[string]any{
		"lesson_id": lessonID,
		"count":     count,
	})
}

// FullPipeline runs improve, synthesize and render as one synchronous chain
// and returns the rendered slide URLs.
func (h *SlideHandler) FullPipeline(c echo.Context) error {
	var req slideScriptRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	lessonID := c.Param("lesson_id")
	urls, err := h.pipeline.Run(c.Request().Context(), lessonID, req.Title, req.Script)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, map[string]any{
		"lesson_id": lessonID,
		"slides":    urls,
		"count":     len(urls),
	})
}

// List returns the rendered slide files for a lesson, empty when none exist.
func (h *SlideHandler) List(c echo.Context) error {
	files, err := h.pipeline.List(c.Param("lesson_id"))
	if err != nil {
		return err
	}
	if files == nil {
		files = []domain.SlideFile{}
	}

	return JSON(c, http.StatusOK, map[string]any{"slides": files})
}

// File serves one rendered slide image.
func (h *SlideHandler) File(c echo.Context) error {
	lessonID := c.Param("lesson_id")
	filename := c.Param("filename")
	if strings.ContainsAny(lessonID+filename, `/\`) || strings.Contains(lessonID+filename, "..") {
		return domain.ErrInvalidInput
	}

	path := h.store.SlideFilePath(lessonID, filename)
	if _, err := os.Stat(path); err != nil {
		return domain.ErrNotFound
	}
	return c.File(path)
}
