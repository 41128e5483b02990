package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumen/courseforge/internal/config"
	"github.com/lumen/courseforge/internal/handler"
	"github.com/lumen/courseforge/internal/llm"
	"github.com/lumen/courseforge/internal/repository"
	"github.com/lumen/courseforge/internal/service"
	"github.com/lumen/courseforge/internal/slides"
	"github.com/lumen/courseforge/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	artifacts, err := store.NewArtifactStore(cfg.StorageRoot, cfg.SlidesRoot)
	if err != nil {
		return fmt.Errorf("init artifact store: %w", err)
	}

	client := llm.NewClient(llm.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
	})

	var mirror service.ArchiveUploader
	if cfg.MirrorEnabled() {
		m, err := store.NewArchiveMirror(store.MirrorConfig{
			Endpoint:  cfg.MirrorEndpoint,
			AccessKey: cfg.MirrorAccessKey,
			SecretKey: cfg.MirrorSecretKey,
			Bucket:    cfg.MirrorBucket,
			UseSSL:    cfg.MirrorUseSSL,
		})
		if err != nil {
			return fmt.Errorf("init archive mirror: %w", err)
		}
		mirror = m
		slog.Info("archive mirror enabled", "endpoint", cfg.MirrorEndpoint, "bucket", cfg.MirrorBucket)
	}

	registry := repository.NewJobRegistry()
	lessonGen := service.NewLessonGenerator(client, artifacts, cfg.CompletionModel)
	mediaGen := service.NewMediaGenerator(client, artifacts, cfg.ImageModel, cfg.PublicBaseURL)
	generationSvc := service.NewGenerationService(registry, artifacts, lessonGen, mediaGen, mirror)
	previewSvc := service.NewPreviewService(client, cfg.CompletionModel)

	renderer := slides.NewRenderer(cfg.SlideFontPath)
	slidePipeline := slides.NewPipeline(client, artifacts, renderer, cfg.SlideModel)

	courseHandler := handler.NewCourseHandler(previewSvc, service.PlainTextExtractor{})
	jobHandler := handler.NewJobHandler(generationSvc)
	mediaHandler := handler.NewMediaHandler(mediaGen)
	slideHandler := handler.NewSlideHandler(slidePipeline, artifacts)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewAppValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(handler.RequestLogger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	e.GET("/health", func(c echo.Context) error {
		return handler.JSON(c, http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.Static("/generated", cfg.StorageRoot)

	api := e.Group("/api")
	api.POST("/preview-course", courseHandler.Preview)
	api.POST("/generate-course", courseHandler.GenerateOutline)
	api.POST("/read-file", courseHandler.ReadFile)

	api.POST("/generate-full-course", jobHandler.Submit)
	api.GET("/job/:id", jobHandler.Status)
	api.GET("/job-status/:id", jobHandler.StatusWithResult)

	api.POST("/generate-logo", mediaHandler.Logo)
	api.POST("/generate-banner", mediaHandler.Banner)

	api.POST("/auto-improve-lesson", slideHandler.Improve)
	api.POST("/generate-slides/:lesson_id", slideHandler.Synthesize)
	api.POST("/render-slides/:lesson_id", slideHandler.Render)
	api.POST("/full-pipeline/:lesson_id", slideHandler.FullPipeline)
	api.GET("/slides-signed-urls/:lesson_id", slideHandler.List)
	api.GET("/slide-file/:lesson_id/:filename", slideHandler.File)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		errCh <- e.Start(fmt.Sprintf(":%d", cfg.Port))
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
