// Package slides implements the script-to-slide-deck-to-image pipeline. The
// three stages (improve, synthesize, render) are independently invocable and
// composable into one synchronous chain per lesson, independent of the job
// orchestrator.
package slides

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lumen/courseforge/internal/domain"
	"github.com/lumen/courseforge/internal/llm"
	"github.com/lumen/courseforge/internal/metrics"
	"github.com/lumen/courseforge/internal/store"
)

// Completer is the completion-service contract consumed by the slide
// pipeline.
type Completer interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (string, error)
}

// Pipeline drives slide generation for one lesson at a time.
type Pipeline struct {
	completer Completer
	store     *store.ArtifactStore
	renderer  *Renderer
	model     string
}

// NewPipeline wires the slide pipeline.
func NewPipeline(completer Completer, artifacts *store.ArtifactStore, renderer *Renderer, model string) *Pipeline {
	return &Pipeline{completer: completer, store: artifacts, renderer: renderer, model: model}
}

// Improve rewrites a lesson script for clarity, energy and structure. When
// the response does not parse as the expected JSON object, the raw response
// text is used verbatim as the improved script; downstream stages tolerate
// arbitrary text.
func (p *Pipeline) Improve(ctx context.Context, lessonID, script string) (string, error) {
	raw, err := p.completer.Complete(ctx, llm.CompletionRequest{
		Model:  p.model,
		Prompt: improvePrompt(script),
	})
	if err != nil {
		return "", fmt.Errorf("improve script: %w", err)
	}

	cleaned := llm.StripFence(raw)
	improved := cleaned

	var parsed struct {
		ImprovedScript string `json:"improved_script"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil && parsed.ImprovedScript != "" {
		improved = parsed.ImprovedScript
	} else {
		slog.Warn("improved script response not JSON, using raw text", "lesson_id", lessonID)
	}

	data, _ := json.MarshalIndent(map[string]string{"improved_script": improved}, "", "  ")
	if _, err := p.store.WriteImproved(lessonID, data); err != nil {
		return "", err
	}
	return improved, nil
}

// Synthesize turns a (possibly improved) script into an ordered slide deck
// and persists it as slides.json. A response that fails to parse yields an
// empty deck, not an error.
func (p *Pipeline) Synthesize(ctx context.Context, lessonID, title, script string) (domain.SlideDeck, error) {
	raw, err := p.completer.Complete(ctx, llm.CompletionRequest{
		Model:  p.model,
		Prompt: deckPrompt(title, script),
	})
	if err != nil {
		return domain.SlideDeck{}, fmt.Errorf("synthesize slides: %w", err)
	}

	var deck domain.SlideDeck
	if err := json.Unmarshal([]byte(llm.StripFence(raw)), &deck); err != nil {
		slog.Warn("slide response not JSON, persisting empty deck", "lesson_id", lessonID, "error", err)
		deck = domain.SlideDeck{Slides: []domain.Slide{}}
	}

	data, err := json.MarshalIndent(deck, "", "  ")
	if err != nil {
		return domain.SlideDeck{}, fmt.Errorf("marshal deck: %w", err)
	}
	if _, err := p.store.WriteDeck(lessonID, data); err != nil {
		return domain.SlideDeck{}, err
	}
	return deck, nil
}

// Render rasterizes the previously synthesized deck for a lesson, one PNG
// per slide named by 1-based position, and returns the slide count. It
// returns domain.ErrNotFound when no deck has been synthesized yet.
func (p *Pipeline) Render(lessonID string) (int, error) {
	deck, err := p.store.ReadDeck(lessonID)
	if err != nil {
		return 0, err
	}
	if err := p.renderDeck(lessonID, deck); err != nil {
		return 0, err
	}
	return len(deck.Slides), nil
}

func (p *Pipeline) renderDeck(lessonID string, deck domain.SlideDeck) error {
	if _, err := p.store.PNGDir(lessonID); err != nil {
		return err
	}
	for i, slide := range deck.Slides {
		if err := p.renderer.Render(slide, p.store.SlidePath(lessonID, i+1)); err != nil {
			return fmt.Errorf("render slide %d: %w", i+1, err)
		}
		metrics.SlidesRendered.Inc()
	}
	return nil
}

// Run executes the full chain for one lesson: improve the script,
// synthesize the deck, render every slide. It returns the access paths of
// the rendered images in deck order.
func (p *Pipeline) Run(ctx context.Context, lessonID, title, script string) ([]string, error) {
	improved, err := p.Improve(ctx, lessonID, script)
	if err != nil {
		return nil, err
	}

	deck, err := p.Synthesize(ctx, lessonID, title, improved)
	if err != nil {
		return nil, err
	}

	if err := p.renderDeck(lessonID, deck); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(deck.Slides))
	for i := range deck.Slides {
		urls = append(urls, slideURL(lessonID, fmt.Sprintf("slide-%d.png", i+1)))
	}
	return urls, nil
}

// List enumerates already-rendered slide images for a lesson in
// filename-sorted order. Lessons with no rendered slides yield an empty
// list, not an error.
func (p *Pipeline) List(lessonID string) ([]domain.SlideFile, error) {
	names, err := p.store.ListSlides(lessonID)
	if err != nil {
		return nil, err
	}

	files := make([]domain.SlideFile, 0, len(names))
	for _, name := range names {
		files = append(files, domain.SlideFile{
			Filename: name,
			URL:      slideURL(lessonID, name),
		})
	}
	return files, nil
}

func slideURL(lessonID, filename string) string {
	return fmt.Sprintf("/api/slide-file/%s/%s", lessonID, filename)
}

func improvePrompt(script string) string {
	return fmt.Sprintf(`You are a world-class coaching content creator.
Improve the lesson script below with:

- clearer structure
- more emotional engagement
- confident, motivational tone
- short, punchy sentences
- practical instructions
- zero fluff
- keep full meaning
- no emojis

Return JSON:
{
  "improved_script": ""
}

Original Script:
%s`, script)
}

func deckPrompt(title, script string) string {
	return fmt.Sprintf(`You are a professional slide designer for online courses.
Convert this lesson script into structured slides with:

- Apple-level minimalism
- Whiteboard clean aesthetic
- Flat icons
- Short titles
- 3-6 bullet points
- Very high clarity

Return JSON:
{
  "slides": [
    {
      "SlideTitle": "",
      "KeyPoints": [],
      "IconDescription": "",
      "ColorAccent": "#4A90E2"
    }
  ]
}

Lesson Title: %s
Script:
%s`, title, script)
}
