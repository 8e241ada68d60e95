// ABOUTME: Centralized configuration for the diary tools
// ABOUTME: Loads from environment variables (after .env) with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration for the diary tools
type Config struct {
	// OpenAI settings
	OpenAIKey          string
	BaseURL            string
	EmbeddingModel     string
	TranscriptionModel string
	Timeout            time.Duration

	// Diary settings
	LogDir    string
	KeepAudio bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		BaseURL:            os.Getenv("OPENAI_BASE_URL"),
		EmbeddingModel:     getEnv("DIARY_EMBEDDING_MODEL", "text-embedding-3-small"),
		TranscriptionModel: getEnv("DIARY_TRANSCRIPTION_MODEL", "whisper-1"),
		Timeout:            getEnvDuration("OPENAI_TIMEOUT", 2*time.Minute),
		LogDir:             getEnv("DIARY_LOG_DIR", defaultLogDir()),
		KeepAudio:          getEnvBool("DIARY_KEEP_AUDIO", false),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("OPENAI_TIMEOUT must not be negative, got %s", c.Timeout)
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("DIARY_EMBEDDING_MODEL must not be empty")
	}
	if c.TranscriptionModel == "" {
		return fmt.Errorf("DIARY_TRANSCRIPTION_MODEL must not be empty")
	}
	if c.LogDir == "" {
		return fmt.Errorf("DIARY_LOG_DIR must not be empty")
	}
	return nil
}

// RequireAPIKey returns an error when no OpenAI key is configured
func (c *Config) RequireAPIKey() error {
	if c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required (set it in the environment or a .env file)")
	}
	return nil
}

// defaultLogDir places log/ next to the running binary, falling back to the working directory
func defaultLogDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "log"
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "log")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
