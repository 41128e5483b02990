package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port        int
	FrontendURL string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	CompletionModel string
	SlideModel      string
	ImageModel      string

	StorageRoot   string
	SlidesRoot    string
	PublicBaseURL string
	SlideFontPath string

	MirrorEndpoint  string
	MirrorAccessKey string
	MirrorSecretKey string
	MirrorBucket    string
	MirrorUseSSL    bool
}

// Load reads configuration from environment variables and validates required fields.
func Load() (Config, error) {
	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return Config{}, fmt.Errorf("parse PORT: %w", err)
	}

	useSSL, err := getEnvBool("MIRROR_USE_SSL", false)
	if err != nil {
		return Config{}, fmt.Errorf("parse MIRROR_USE_SSL: %w", err)
	}

	storageRoot := getEnv("STORAGE_ROOT", "./generated")

	cfg := Config{
		Port:            port,
		FrontendURL:     getEnv("FRONTEND_URL", "*"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		CompletionModel: getEnv("COMPLETION_MODEL", "gpt-4o-mini"),
		SlideModel:      getEnv("SLIDE_MODEL", "gpt-4.1"),
		ImageModel:      getEnv("IMAGE_MODEL", "gpt-image-1"),
		StorageRoot:     storageRoot,
		SlidesRoot:      getEnv("SLIDES_ROOT", filepath.Join(storageRoot, "slides")),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://127.0.0.1:8080"),
		SlideFontPath:   getEnv("SLIDE_FONT", ""),
		MirrorEndpoint:  getEnv("MIRROR_ENDPOINT", ""),
		MirrorAccessKey: getEnv("MIRROR_ACCESS_KEY", ""),
		MirrorSecretKey: getEnv("MIRROR_SECRET_KEY", ""),
		MirrorBucket:    getEnv("MIRROR_BUCKET", "courses"),
		MirrorUseSSL:    useSSL,
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// MirrorEnabled reports whether archive mirroring is configured.
func (c Config) MirrorEnabled() bool {
	return c.MirrorEndpoint != ""
}

func (c Config) validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(v)
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	return strconv.ParseBool(v)
}
