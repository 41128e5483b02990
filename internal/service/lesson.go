package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lumen/courseforge/internal/domain"
	"github.com/lumen/courseforge/internal/llm"
	"github.com/lumen/courseforge/internal/metrics"
	"github.com/lumen/courseforge/internal/store"
)

// Completer is the completion-service contract consumed by the generation
// services. A single attempt per call is the contract; retries and timeouts
// are not applied here.
type Completer interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (string, error)
}

// ImageGenerator is the image-service contract consumed by the media
// generator. The returned bytes are already decoded.
type ImageGenerator interface {
	Image(ctx context.Context, req llm.ImageRequest) ([]byte, error)
}

// LessonGenerator produces the full materials for one lesson: one script per
// video, a quiz file and a workbook file. It calls the completion service
// exactly once per lesson and degrades to deterministic placeholder content
// on any failure. It never fails past its own boundary: every invocation
// yields a well-formed GeneratedLesson.
type LessonGenerator struct {
	completer Completer
	store     *store.ArtifactStore
	model     string
}

// NewLessonGenerator creates a lesson generator using the given completion
// model.
func NewLessonGenerator(completer Completer, artifacts *store.ArtifactStore, model string) *LessonGenerator {
	return &LessonGenerator{completer: completer, store: artifacts, model: model}
}

// lessonPayload is the JSON shape requested from the completion service.
// Quiz passes through verbatim so richer quiz objects survive unchanged.
type lessonPayload struct {
	Scripts  map[string]string `json:"scripts"`
	Quiz     json.RawMessage   `json:"quiz"`
	Workbook string            `json:"workbook"`
}

// Generate builds the materials for the lesson at the given 1-based
// position. A lesson spec without video titles gets two derived ones.
// Degradation to the placeholder path is silent in the returned shape and
// observable only via logs and metrics.
func (g *LessonGenerator) Generate(ctx context.Context, jobID string, position int, spec domain.LessonSpec) domain.GeneratedLesson {
	// Every lesson carries at least two videos; missing titles are derived
	// from the lesson title.
	videos := append([]string(nil), spec.VideoTitles...)
	for len(videos) < 2 {
		videos = append(videos, fmt.Sprintf("%s - Part %d", spec.Title, len(videos)+1))
	}

	lesson, err := g.generate(ctx, jobID, position, spec.Title, videos)
	if err != nil {
		slog.Warn("lesson generation degraded to placeholders",
			"job_id", jobID,
			"lesson", position,
			"title", spec.Title,
			"error", err,
		)
		metrics.LessonsGenerated.WithLabelValues("fallback").Inc()
		return g.fallback(jobID, position, spec.Title, videos)
	}

	metrics.LessonsGenerated.WithLabelValues("generated").Inc()
	return lesson
}

// generate is the success path: one completion call, strict parse of the
// (possibly fenced) response, per-video script lookup and file writes. Any
// error routes the whole lesson to the fallback path.
func (g *LessonGenerator) generate(ctx context.Context, jobID string, position int, title string, videos []string) (domain.GeneratedLesson, error) {
	raw, err := g.completer.Complete(ctx, llm.CompletionRequest{
		Model:       g.model,
		System:      "You are an expert course creator producing lesson scripts, quizzes and workbooks in strict JSON.",
		Prompt:      lessonPrompt(title, videos),
		Temperature: 0.6,
		MaxTokens:   1500,
	})
	if err != nil {
		return domain.GeneratedLesson{}, err
	}

	var payload lessonPayload
	if err := json.Unmarshal([]byte(llm.StripFence(raw)), &payload); err != nil {
		return domain.GeneratedLesson{}, fmt.Errorf("parse lesson response: %w", err)
	}

	lessonDir, err := g.store.LessonDir(jobID, position)
	if err != nil {
		return domain.GeneratedLesson{}, err
	}

	entries := make([]domain.GeneratedVideo, 0, len(videos))
	for i, videoTitle := range videos {
		script := lookupScript(payload.Scripts, i+1, videoTitle)
		if script == "" {
			script = fmt.Sprintf(
				"Script for '%s'\n\nLesson: %s\n\n(Automatically generated placeholder - model returned no script.)",
				videoTitle, title,
			)
		}

		path, err := g.store.WriteScript(lessonDir, position, i+1, script)
		if err != nil {
			return domain.GeneratedLesson{}, err
		}
		entries = append(entries, domain.GeneratedVideo{
			Title:         videoTitle,
			ScriptFile:    path,
			ScriptContent: script,
		})
	}

	quizPath, err := g.store.WriteQuiz(lessonDir, indentedQuiz(payload.Quiz))
	if err != nil {
		return domain.GeneratedLesson{}, err
	}
	workbookPath, err := g.store.WriteWorkbook(lessonDir, payload.Workbook)
	if err != nil {
		return domain.GeneratedLesson{}, err
	}

	return domain.GeneratedLesson{
		Title:        title,
		Videos:       entries,
		QuizFile:     quizPath,
		WorkbookFile: workbookPath,
	}, nil
}

// fallback deterministically synthesizes placeholder materials derived from
// the lesson title. File write failures here are logged but do not prevent a
// well-formed result: the inline script content is always populated.
func (g *LessonGenerator) fallback(jobID string, position int, title string, videos []string) domain.GeneratedLesson {
	lesson := domain.GeneratedLesson{Title: title}

	lessonDir, dirErr := g.store.LessonDir(jobID, position)
	if dirErr != nil {
		slog.Error("fallback lesson dir unavailable", "job_id", jobID, "lesson", position, "error", dirErr)
	}

	for i, videoTitle := range videos {
		script := fmt.Sprintf(
			"Script for '%s'\n\nLesson: %s\nThis is an automatically generated placeholder script. Replace with full AI output if desired.",
			videoTitle, title,
		)

		entry := domain.GeneratedVideo{Title: videoTitle, ScriptContent: script}
		if dirErr == nil {
			if path, err := g.store.WriteScript(lessonDir, position, i+1, script); err != nil {
				slog.Error("write placeholder script failed", "job_id", jobID, "lesson", position, "error", err)
			} else {
				entry.ScriptFile = path
			}
		}
		lesson.Videos = append(lesson.Videos, entry)
	}

	if dirErr == nil {
		quiz := domain.Quiz{Questions: []domain.QuizQuestion{{
			Question: fmt.Sprintf("What is a key point from '%s'?", title),
			Options:  []string{"A", "B", "C", "D"},
			Answer:   "A",
		}}}
		quizJSON, _ := json.MarshalIndent(quiz, "", "  ")
		if path, err := g.store.WriteQuiz(lessonDir, quizJSON); err != nil {
			slog.Error("write placeholder quiz failed", "job_id", jobID, "lesson", position, "error", err)
		} else {
			lesson.QuizFile = path
		}

		workbook := fmt.Sprintf("Workbook / exercise for lesson '%s'. Reflect and answer the questions.", title)
		if path, err := g.store.WriteWorkbook(lessonDir, workbook); err != nil {
			slog.Error("write placeholder workbook failed", "job_id", jobID, "lesson", position, "error", err)
		} else {
			lesson.WorkbookFile = path
		}
	}

	return lesson
}

// lookupScript resolves a video script by index key, then by title, matching
// the shapes models actually return.
func lookupScript(scripts map[string]string, index int, title string) string {
	if s := scripts["video_"+strconv.Itoa(index)]; s != "" {
		return s
	}
	if s := scripts[strconv.Itoa(index)]; s != "" {
		return s
	}
	return scripts[title]
}

// indentedQuiz pretty-prints the raw quiz object, defaulting to an empty
// object when the model omitted it.
func indentedQuiz(raw json.RawMessage) []byte {
	if len(raw) == 0 || string(raw) == "null" {
		return []byte("{}")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return raw
	}
	return buf.Bytes()
}

func lessonPrompt(title string, videos []string) string {
	return fmt.Sprintf(`You are an expert instructional designer and professional scriptwriter.
Create full lesson materials for the lesson titled: "%s".
Videos: %s

Return valid JSON ONLY (no markdown fences) in this exact structure:
{
  "scripts": {
    "video_1": "Full script text for first video...",
    "video_2": "Full script text for second video..."
  },
  "quiz": {
    "questions": [
      {
        "question": "Question text",
        "options": ["A", "B", "C", "D"],
        "answer": "A"
      }
    ]
  },
  "workbook": "Short workbook/exercise text (a few bullet tasks or reflections)."
}

Keep scripts actionable and specific to the lesson title. Keep quiz questions short and focused. Workbook should include 3-5 reflection/exercise bullets.`,
		title, strings.Join(videos, ", "))
}
