package slides

import (
	"context"
	"encoding/json"
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
	fn func(req llm.CompletionRequest) (string, error)
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	return f.fn(req)
}

func newTestPipeline(t *testing.T, completer Completer) (*Pipeline, *store.ArtifactStore) {
	t.Helper()
	root := t.TempDir()
	artifacts, err := store.NewArtifactStore(filepath.Join(root, "generated"), filepath.Join(root, "slides"))
	if err != nil {
		t.Fatal(err)
	}
	return NewPipeline(completer, artifacts, NewRenderer(""), "test-model"), artifacts
}

func TestImproveParsesJSONResponse(t *testing.T) {
	completer := &fakeCompleter{fn: func(llm.CompletionRequest) (string, error) {
		return "```json\n" + `{"improved_script": "much better script"}` + "\n```", nil
	}}
	p, artifacts := newTestPipeline(t, completer)

	improved, err := p.Improve(context.Background(), "lesson-1", "rough draft")
	if err != nil {
		t.Fatal(err)
	}
	if improved != "much better script" {
		t.Fatalf("improved = %q", improved)
	}

	// The improved script is persisted alongside the lesson slides.
	dir, err := artifacts.SlidesDir("lesson-1")
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "improved.json"))
	if err != nil {
		t.Fatal(err)
	}
	var saved map[string]string
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatal(err)
	}
	if saved["improved_script"] != "much better script" {
		t.Fatalf("saved = %+v", saved)
	}
}

// TestImproveKeepsRawTextOnNonJSON uses the raw response verbatim when the
// model ignores the JSON contract.
func TestImproveKeepsRawTextOnNonJSON(t *testing.T) {
	completer := &fakeCompleter{fn: func(llm.CompletionRequest) (string, error) {
		return "Here is your improved script, plain and simple.", nil
	}}
	p, _ := newTestPipeline(t, completer)

	improved, err := p.Improve(context.Background(), "lesson-2", "draft")
	if err != nil {
		t.Fatal(err)
	}
	if improved != "Here is your improved script, plain and simple." {
		t.Fatalf("improved = %q", improved)
	}
}

func TestSynthesizePersistsDeck(t *testing.T) {
	completer := &fakeCompleter{fn: func(llm.CompletionRequest) (string, error) {
		return `{"slides": [{"SlideTitle": "Intro", "KeyPoints": ["a"], "ColorAccent": "#fff"}]}`, nil
	}}
	p, artifacts := newTestPipeline(t, completer)

	deck, err := p.Synthesize(context.Background(), "lesson-3", "Title", "script")
	if err != nil {
		t.Fatal(err)
	}
	if len(deck.Slides) != 1 || deck.Slides[0].Title != "Intro" {
		t.Fatalf("deck = %+v", deck)
	}

	reread, err := artifacts.ReadDeck("lesson-3")
	if err != nil {
		t.Fatal(err)
	}
	if len(reread.Slides) != 1 {
		t.Fatalf("persisted deck = %+v", reread)
	}
}

// TestSynthesizeBadJSONYieldsEmptyDeck persists an empty deck instead of
// failing when the response cannot be parsed.
func TestSynthesizeBadJSONYieldsEmptyDeck(t *testing.T) {
	completer := &fakeCompleter{fn: func(llm.CompletionRequest) (string, error) {
		return "no slides for you", nil
	}}
	p, artifacts := newTestPipeline(t, completer)

	deck, err := p.Synthesize(context.Background(), "lesson-4", "Title", "script")
	if err != nil {
		t.Fatal(err)
	}
	if len(deck.Slides) != 0 {
		t.Fatalf("deck = %+v, want empty", deck)
	}

	reread, err := artifacts.ReadDeck("lesson-4")
	if err != nil {
		t.Fatalf("empty deck not persisted: %v", err)
	}
	if len(reread.Slides) != 0 {
		t.Fatalf("persisted deck = %+v", reread)
	}
}

func TestRenderWithoutDeck(t *testing.T) {
	p, _ := newTestPipeline(t, &fakeCompleter{fn: func(llm.CompletionRequest) (string, error) {
		return "", nil
	}})

	if _, err := p.Render("never-synthesized"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRenderExistingDeck(t *testing.T) {
	completer := &fakeCompleter{fn: func(llm.CompletionRequest) (string, error) {
		return `{"slides": [{"SlideTitle": "One"}, {"SlideTitle": "Two"}]}`, nil
	}}
	p, artifacts := newTestPipeline(t, completer)

	if _, err := p.Synthesize(context.Background(), "lesson-5", "T", "s"); err != nil {
		t.Fatal(err)
	}
	n, err := p.Render("lesson-5")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("rendered = %d, want 2", n)
	}
	for i := 1; i <= 2; i++ {
		if _, err := os.Stat(artifacts.SlidePath("lesson-5", i)); err != nil {
			t.Fatalf("slide %d missing: %v", i, err)
		}
	}
}

// TestRunFullChain drives improve, synthesize and render in one call and
// checks the returned access paths line up with the files on disk.
func TestRunFullChain(t *testing.T) {
	completer := &fakeCompleter{fn: func(req llm.CompletionRequest) (string, error) {
		// The two stages ask for different JSON shapes; answer by prompt.
		if strings.Contains(req.Prompt, "SlideTitle") {
			return `{"slides": [{"SlideTitle": "Only", "KeyPoints": ["k1", "k2"]}]}`, nil
		}
		return `{"improved_script": "polished"}`, nil
	}}
	p, artifacts := newTestPipeline(t, completer)

	urls, err := p.Run(context.Background(), "lesson-6", "My Lesson", "raw script")
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 1 {
		t.Fatalf("urls = %v, want 1", urls)
	}
	if urls[0] != "/api/slide-file/lesson-6/slide-1.png" {
		t.Fatalf("url = %q", urls[0])
	}
	if _, err := os.Stat(artifacts.SlidePath("lesson-6", 1)); err != nil {
		t.Fatalf("rendered slide missing: %v", err)
	}
}

func TestListSortedAndEmpty(t *testing.T) {
	completer := &fakeCompleter{fn: func(llm.CompletionRequest) (string, error) {
		return `{"slides": [{"SlideTitle": "A"}, {"SlideTitle": "B"}, {"SlideTitle": "C"}]}`, nil
	}}
	p, _ := newTestPipeline(t, completer)

	files, err := p.List("nothing-rendered")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Fatalf("files = %v, want empty", files)
	}

	if _, err := p.Synthesize(context.Background(), "lesson-7", "T", "s"); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Render("lesson-7"); err != nil {
		t.Fatal(err)
	}

	files, err = p.List("lesson-7")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("files = %v, want 3", files)
	}
	if files[0].Filename != "slide-1.png" || files[0].URL != "/api/slide-file/lesson-7/slide-1.png" {
		t.Fatalf("first = %+v", files[0])
	}
}
