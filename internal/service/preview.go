package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lumen/courseforge/internal/domain"
	"github.com/lumen/courseforge/internal/llm"
)

// formatRanges maps course size names to lesson count ranges. The effective
// count is the integer midpoint of the range, keeping previews
// deterministic.
var formatRanges = map[string][2]int{
	"micro":       {3, 5},
	"standard":    {6, 10},
	"masterclass": {12, 15},
}

// lessonCountFor resolves the lesson count for a course size, falling back
// to the provided count when the size is unknown.
func lessonCountFor(format string, fallback int) int {
	if r, ok := formatRanges[strings.ToLower(format)]; ok {
		return (r[0] + r[1]) / 2
	}
	return fallback
}

// PreviewParams carries the wizard input for a course preview.
type PreviewParams struct {
	Prompt          string
	NumLessons      int
	VideosPerLesson int
	IncludeQuiz     bool
	IncludeWorkbook bool
	Format          string
	Outcome         string
	Audience        string
	AudienceLevel   string
	Materials       string
	Links           string
}

// OutlineParams carries the input for full outline generation.
type OutlineParams struct {
	Materials  string
	Links      string
	Files      []string
	CourseSize string
}

// PreviewService generates course structure previews and full outlines from
// wizard input. It only produces structure, never lesson content.
type PreviewService struct {
	completer Completer
	model     string
}

// NewPreviewService creates a preview service using the given completion
// model.
func NewPreviewService(completer Completer, model string) *PreviewService {
	return &PreviewService{completer: completer, model: model}
}

// Preview asks the completion service for a course structure and returns
// the raw response text; normalization happens at job submission.
func (s *PreviewService) Preview(ctx context.Context, p PreviewParams) (string, error) {
	count := lessonCountFor(p.Format, p.NumLessons)
	return s.completer.Complete(ctx, llm.CompletionRequest{
		Model:       s.model,
		Prompt:      previewPrompt(p, count),
		Temperature: 0,
	})
}

// GenerateOutline asks for a complete course outline and parses it into the
// canonical shape. The response may be fenced; a response that still fails
// to parse after fence stripping is an invalid-input error, not a crash.
func (s *PreviewService) GenerateOutline(ctx context.Context, p OutlineParams) (domain.CourseOutline, error) {
	count := lessonCountFor(p.CourseSize, 8)

	raw, err := s.completer.Complete(ctx, llm.CompletionRequest{
		Model:       s.model,
		Prompt:      outlinePrompt(p, count),
		Temperature: 0.7,
	})
	if err != nil {
		return domain.CourseOutline{}, fmt.Errorf("generate outline: %w", err)
	}

	cleaned := llm.StripFence(raw)
	if !json.Valid([]byte(cleaned)) {
		return domain.CourseOutline{}, fmt.Errorf("%w: outline response is not valid JSON", domain.ErrInvalidInput)
	}
	return domain.NormalizeOutline(json.RawMessage(cleaned)), nil
}

func previewPrompt(p PreviewParams, count int) string {
	return fmt.Sprintf(`You are an expert instructional designer.

The user provided this base information:

- Goal / Outcome: %s
- Target Audience: %s (%s)
- Course Size: %s
- Materials or resources: %s
- Reference links or files: %s

Topic prompt from user:
%s

Now create a course structure in valid JSON for this topic.

Format: %s Course

Guidelines (deterministic):
- Generate exactly %d lessons (not a range).
- Each lesson should have about %d videos.

Each lesson must include:
- "lesson_title"
- "video_titles" (list of strings)
- "quiz": true/false
- "workbook": true/false

Always keep "quiz"=%t and "workbook"=%t.

Return ONLY valid JSON. Do NOT wrap output in markdown code fences or add explanatory text.`,
		orDefault(p.Outcome, "No outcome provided"),
		orDefault(p.Audience, "Not specified"),
		orDefault(p.AudienceLevel, "-"),
		orDefault(p.Format, "Standard"),
		orDefault(p.Materials, "None"),
		orDefault(p.Links, "None"),
		p.Prompt,
		orDefault(p.Format, "Standard"),
		count,
		p.VideosPerLesson,
		p.IncludeQuiz,
		p.IncludeWorkbook,
	)
}

func outlinePrompt(p OutlineParams, count int) string {
	return fmt.Sprintf(`You are an expert online course creator and curriculum designer.

Create a full course in valid JSON, based on the following user input.

COURSE SIZE: %s
MATERIALS: %s
LINKS: %s
FILES: %s

---

Generate exactly %d lessons total.
Each lesson must have its own unique, descriptive title relevant to the course topic.
Never use "Lesson 1" or generic numbering as the title.

Each lesson should include:
- "lesson_title": creative and relevant (not generic)
- "video_titles": a list of short, engaging video titles (about 2-3 videos per lesson)
- "quiz": true
- "workbook": true

Also include:
- "course_title": a compelling overall title
- "course_description": a short, clear summary of what learners will gain

Output rules:
- Return only valid JSON (no markdown, no explanations).
- All lesson titles must be natural, meaningful, and unique.
- Keep the number of lessons exactly %d.`,
		p.CourseSize,
		p.Materials,
		p.Links,
		strings.Join(p.Files, ", "),
		count,
		count,
	)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
