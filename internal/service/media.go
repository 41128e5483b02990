package service

import (
	"context"
	"fmt"

	"github.com/lumen/courseforge/internal/llm"
	"github.com/lumen/courseforge/internal/metrics"
	"github.com/lumen/courseforge/internal/store"
)

const (
	logoSize   = "1024x1024"
	bannerSize = "1536x1024"
)

// MediaGenerator produces best-effort cover art for a course: a square logo
// and a wide banner. Logo and banner are fully independent operations; each
// makes exactly one image-service call, and an absent URL is the only
// failure signal the caller sees.
type MediaGenerator struct {
	images  ImageGenerator
	store   *store.ArtifactStore
	model   string
	baseURL string
}

// NewMediaGenerator creates a media generator. baseURL is the public prefix
// under which the generated tree is served.
func NewMediaGenerator(images ImageGenerator, artifacts *store.ArtifactStore, model, baseURL string) *MediaGenerator {
	return &MediaGenerator{images: images, store: artifacts, model: model, baseURL: baseURL}
}

// Logo attempts one logo generation for the job and returns the asset URL
// on success.
func (m *MediaGenerator) Logo(ctx context.Context, jobID, title string) (string, error) {
	prompt := fmt.Sprintf(
		"Create a minimalist, modern course logo for the course titled '%s'. Simple, flat, high-end.",
		title,
	)
	return m.generate(ctx, jobID, "logo", prompt, logoSize)
}

// Banner attempts one banner generation for the job and returns the asset
// URL on success.
func (m *MediaGenerator) Banner(ctx context.Context, jobID, title string) (string, error) {
	prompt := fmt.Sprintf(
		"Create a cinematic hero banner for the course titled '%s', 16:9, modern, minimal.",
		title,
	)
	return m.generate(ctx, jobID, "banner", prompt, bannerSize)
}

func (m *MediaGenerator) generate(ctx context.Context, jobID, kind, prompt, size string) (string, error) {
	data, err := m.images.Image(ctx, llm.ImageRequest{
		Model:  m.model,
		Prompt: prompt,
		Size:   size,
	})
	if err != nil {
		metrics.MediaAssets.WithLabelValues(kind, "failed").Inc()
		return "", fmt.Errorf("generate %s: %w", kind, err)
	}

	name := kind + ".png"
	if _, err := m.store.WriteImage(jobID, name, data); err != nil {
		metrics.MediaAssets.WithLabelValues(kind, "failed").Inc()
		return "", err
	}

	metrics.MediaAssets.WithLabelValues(kind, "ok").Inc()
	return fmt.Sprintf("%s/generated/%s/%s", m.baseURL, jobID, name), nil
}
