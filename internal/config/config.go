package config

import (
	"os"
	"time"
)

// Config holds application configuration
type Config struct {
	// Server
	HTTPAddr string
	LogLevel string

	// Secrets file (two API keys, read once at startup)
	SecretsPath string

	// Story model (OpenAI-compatible chat completions)
	StoryModel      string
	StoryAPIBaseURL string // if set, overrides the provider default base URL

	// Image model (OpenAI-compatible image generations, e.g. GapGPT)
	ImageAPIBaseURL string
	ImageModel      string
	ImageSize       string
	ImageQuality    string // "standard" or "hd"
	ImageStyle      string // "vivid" or "natural"

	// PDF
	FontPath   string
	FontFamily string

	// Upstream calls are slow (image generation can take tens of seconds),
	// so the pipeline gets its own deadline independent of server timeouts.
	PipelineTimeout time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SecretsPath: getEnv("SECRETS_PATH", "secrets.yaml"),

		StoryModel:      getEnv("STORY_MODEL", "gpt-4o-mini"),
		StoryAPIBaseURL: getEnv("STORY_API_BASE_URL", ""),

		ImageAPIBaseURL: getEnv("IMAGE_API_BASE_URL", "https://api.gapgpt.app/v1"),
		ImageModel:      getEnv("IMAGE_MODEL", "dall-e-3"),
		ImageSize:       getEnv("IMAGE_SIZE", "1024x1024"),
		ImageQuality:    getEnv("IMAGE_QUALITY", "standard"),
		ImageStyle:      getEnv("IMAGE_STYLE", "vivid"),

		FontPath:   getEnv("FONT_PATH", "assets/fonts/Geom-VariableFont_wght.ttf"),
		FontFamily: getEnv("FONT_FAMILY", "Geom"),

		PipelineTimeout: getEnvDuration("PIPELINE_TIMEOUT", 3*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
