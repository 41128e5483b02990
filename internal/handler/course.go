package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lumen/courseforge/internal/domain"
	"github.com/lumen/courseforge/internal/service"
)

// CourseHandler handles course preview and outline endpoints.
type CourseHandler struct {
	preview   *service.PreviewService
	extractor service.TextExtractor
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(preview *service.PreviewService, extractor service.TextExtractor) *CourseHandler {
	return &CourseHandler{preview: preview, extractor: extractor}
}

type previewRequest struct {
	Prompt          string `json:"prompt" validate:"required"`
	NumLessons      int    `json:"num_lessons"`
	VideosPerLesson int    `json:"videos_per_lesson"`
	IncludeQuiz     bool   `json:"include_quiz"`
	IncludeWorkbook bool   `json:"include_workbook"`
	Format          string `json:"format"`
	Outcome         string `json:"outcome"`
	Audience        string `json:"audience"`
	AudienceLevel   string `json:"audienceLevel"`
	Materials       string `json:"materials"`
	Links           string `json:"links"`
}

// Preview generates a course structure preview (structure only, no content).
func (h *CourseHandler) Preview(c echo.Context) error {
	var req previewRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	raw, err := h.preview.Preview(c.Request().Context(), service.PreviewParams{
		Prompt:          req.Prompt,
		NumLessons:      req.NumLessons,
		VideosPerLesson: req.VideosPerLesson,
		IncludeQuiz:     req.IncludeQuiz,
		IncludeWorkbook: req.IncludeWorkbook,
		Format:          req.Format,
		Outcome:         req.Outcome,
		Audience:        req.Audience,
		AudienceLevel:   req.AudienceLevel,
		Materials:       req.Materials,
		Links:           req.Links,
	})
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, map[string]string{"preview": raw})
}

type outlineRequest struct {
	Materials  string   `json:"materials" validate:"required"`
	Links      string   `json:"links"`
	Files      []string `json:"files"`
	CourseSize string   `json:"courseSize"`
}

// GenerateOutline generates a full course outline in the canonical shape.
func (h *CourseHandler) GenerateOutline(c echo.Context) error {
	var req outlineRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	outline, err := h.preview.GenerateOutline(c.Request().Context(), service.OutlineParams{
		Materials:  req.Materials,
		Links:      req.Links,
		Files:      req.Files,
		CourseSize: req.CourseSize,
	})
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, map[string]domain.CourseOutline{"course": outline})
}

// ReadFile extracts best-effort text from one uploaded document.
func (h *CourseHandler) ReadFile(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: missing file", domain.ErrInvalidInput)
	}

	f, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	text := h.extractor.Extract(fileHeader.Filename, data)
	return JSON(c, http.StatusOK, map[string]string{"text": text})
}
