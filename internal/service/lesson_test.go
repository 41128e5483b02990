package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lumen/courseforge/internal/domain"
	"github.com/lumen/courseforge/internal/llm"
	"github.com/lumen/courseforge/internal/store"
)

type fakeCompleter struct {
	fn    func(req llm.CompletionRequest) (string, error)
	calls int
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	f.calls++
	return f.fn(req)
}

type fakeImages struct {
	fn func(req llm.ImageRequest) ([]byte, error)
}

func (f *fakeImages) Image(_ context.Context, req llm.ImageRequest) ([]byte, error) {
	return f.fn(req)
}

func newServiceStore(t *testing.T) *store.ArtifactStore {
	t.Helper()
	root := t.TempDir()
	s, err := store.NewArtifactStore(filepath.Join(root, "generated"), filepath.Join(root, "slides"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestLessonGenerateSuccess(t *testing.T) {
	completer := &fakeCompleter{fn: func(req llm.CompletionRequest) (string, error) {
		if !strings.Contains(req.Prompt, "Go Routines") {
			t.Errorf("prompt missing lesson title: %q", req.Prompt)
		}
		return "```json\n" + `{
			"scripts": {"video_1": "first script", "video_2": "second script"},
			"quiz": {"questions": [{"question": "Q?", "options": ["A","B"], "answer": "A"}]},
			"workbook": "do the exercises"
		}` + "\n```", nil
	}}
	artifacts := newServiceStore(t)
	gen := NewLessonGenerator(completer, artifacts, "test-model")

	lesson := gen.Generate(context.Background(), "job-1", 1, domain.LessonSpec{
		Title:       "Go Routines",
		VideoTitles: []string{"Intro", "Channels"},
	})

	if completer.calls != 1 {
		t.Fatalf("completion calls = %d, want 1", completer.calls)
	}
	if lesson.Title != "Go Routines" {
		t.Fatalf("title = %q", lesson.Title)
	}
	if len(lesson.Videos) != 2 {
		t.Fatalf("videos = %d, want 2", len(lesson.Videos))
	}
	if lesson.Videos[0].ScriptContent != "first script" || lesson.Videos[1].ScriptContent != "second script" {
		t.Fatalf("scripts = %+v", lesson.Videos)
	}

	data, err := os.ReadFile(lesson.Videos[0].ScriptFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first script" {
		t.Fatalf("script file content = %q", data)
	}
	if quiz, err := os.ReadFile(lesson.QuizFile); err != nil || !strings.Contains(string(quiz), "Q?") {
		t.Fatalf("quiz = %q, err = %v", quiz, err)
	}
	if wb, err := os.ReadFile(lesson.WorkbookFile); err != nil || string(wb) != "do the exercises" {
		t.Fatalf("workbook = %q, err = %v", wb, err)
	}
}

// TestLessonGenerateMissingScript verifies a video the model skipped still
// gets a non-empty placeholder script naming the video and lesson.
func TestLessonGenerateMissingScript(t *testing.T) {
	completer := &fakeCompleter{fn: func(llm.CompletionRequest) (string, error) {
		return `{"scripts": {}, "quiz": {}, "workbook": "wb"}`, nil
	}}
	artifacts := newServiceStore(t)
	gen := NewLessonGenerator(completer, artifacts, "test-model")

	lesson := gen.Generate(context.Background(), "job-2", 1, domain.LessonSpec{
		Title:       "Testing",
		VideoTitles: []string{"Intro", "Tables"},
	})

	for _, v := range lesson.Videos {
		if v.ScriptContent == "" {
			t.Fatalf("empty script for %q", v.Title)
		}
		if !strings.Contains(v.ScriptContent, v.Title) || !strings.Contains(v.ScriptContent, "Testing") {
			t.Fatalf("placeholder %q does not name video and lesson", v.ScriptContent)
		}
	}
}

// TestLessonGenerateScriptByTitle accepts responses keyed by video title
// instead of video_N.
func TestLessonGenerateScriptByTitle(t *testing.T) {
	completer := &fakeCompleter{fn: func(llm.CompletionRequest) (string, error) {
		return `{"scripts": {"Intro": "by title"}, "quiz": {}, "workbook": ""}`, nil
	}}
	gen := NewLessonGenerator(completer, newServiceStore(t), "test-model")

	lesson := gen.Generate(context.Background(), "job-3", 1, domain.LessonSpec{
		Title:       "L",
		VideoTitles: []string{"Intro", "More"},
	})
	if lesson.Videos[0].ScriptContent != "by title" {
		t.Fatalf("script = %q", lesson.Videos[0].ScriptContent)
	}
}

// TestLessonGenerateFallback covers the degraded path: completion failures
// still yield a complete lesson with placeholder files on disk.
func TestLessonGenerateFallback(t *testing.T) {
	completer := &fakeCompleter{fn: func(llm.CompletionRequest) (string, error) {
		return "", errors.New("completion service down")
	}}
	artifacts := newServiceStore(t)
	gen := NewLessonGenerator(completer, artifacts, "test-model")

	lesson := gen.Generate(context.Background(), "job-4", 3, domain.LessonSpec{
		Title:       "Deployment",
		VideoTitles: []string{"Docker"},
	})

	if lesson.Title != "Deployment" {
		t.Fatalf("title = %q", lesson.Title)
	}
	if len(lesson.Videos) != 2 {
		t.Fatalf("videos = %d, want 2 after padding", len(lesson.Videos))
	}
	for _, v := range lesson.Videos {
		if v.ScriptContent == "" {
			t.Fatalf("empty placeholder script for %q", v.Title)
		}
		if v.ScriptFile == "" {
			t.Fatalf("placeholder script not written for %q", v.Title)
		}
	}
	if quiz, err := os.ReadFile(lesson.QuizFile); err != nil || !strings.Contains(string(quiz), "Deployment") {
		t.Fatalf("quiz = %q, err = %v", quiz, err)
	}
	if lesson.WorkbookFile == "" {
		t.Fatal("workbook not written")
	}
}

// TestLessonGenerateBadJSONFallsBack routes unparseable responses through
// the fallback path rather than failing.
func TestLessonGenerateBadJSONFallsBack(t *testing.T) {
	completer := &fakeCompleter{fn: func(llm.CompletionRequest) (string, error) {
		return "sorry, I cannot do that", nil
	}}
	gen := NewLessonGenerator(completer, newServiceStore(t), "test-model")

	lesson := gen.Generate(context.Background(), "job-5", 1, domain.LessonSpec{Title: "L", VideoTitles: []string{"A", "B"}})
	if len(lesson.Videos) != 2 {
		t.Fatalf("videos = %d", len(lesson.Videos))
	}
	if !strings.Contains(lesson.Videos[0].ScriptContent, "placeholder") {
		t.Fatalf("script = %q, want placeholder", lesson.Videos[0].ScriptContent)
	}
}

// TestLessonGenerateVideoPadding checks every lesson carries at least two
// videos with derived titles, and explicit titles pass through untouched.
func TestLessonGenerateVideoPadding(t *testing.T) {
	completer := &fakeCompleter{fn: func(llm.CompletionRequest) (string, error) {
		return `{"scripts": {}, "quiz": {}, "workbook": ""}`, nil
	}}
	gen := NewLessonGenerator(completer, newServiceStore(t), "test-model")

	cases := []struct {
		name   string
		titles []string
		want   int
	}{
		{"no videos", nil, 2},
		{"one video", []string{"Only"}, 2},
		{"three videos", []string{"A", "B", "C"}, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lesson := gen.Generate(context.Background(), "job-6", 1, domain.LessonSpec{
				Title:       "Base",
				VideoTitles: tc.titles,
			})
			if len(lesson.Videos) != tc.want {
				t.Fatalf("videos = %d, want %d", len(lesson.Videos), tc.want)
			}
			for i, title := range tc.titles {
				if lesson.Videos[i].Title != title {
					t.Fatalf("video %d title = %q, want %q", i, lesson.Videos[i].Title, title)
				}
			}
			for _, v := range lesson.Videos[len(tc.titles):] {
				if !strings.Contains(v.Title, "Base") {
					t.Fatalf("derived title %q does not reference lesson", v.Title)
				}
			}
		})
	}
}
