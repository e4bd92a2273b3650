package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Engine     EngineConfig
	Recognizer RecognizerConfig
	Batch      BatchConfig
	LogLevel   string
}

// SlogLevel maps the configured level name onto a slog level, defaulting to
// info for unknown values.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// EngineConfig holds extraction-engine configuration
type EngineConfig struct {
	// ConfigPath points at an external pattern/threshold file (JSON or YAML).
	// Empty means the built-in defaults.
	ConfigPath string
	// MinTextLength below which recognized text is treated as unusable.
	MinTextLength int
}

// RecognizerConfig holds text-recognition configuration
type RecognizerConfig struct {
	Tesseract   string // binary name or absolute path
	Lang        string
	TessdataDir string
	Timeout     time.Duration
}

// BatchConfig holds batch-processing configuration
type BatchConfig struct {
	Workers int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			ConfigPath:    getEnv("ENGINE_CONFIG", ""),
			MinTextLength: getEnvAsInt("MIN_TEXT_LENGTH", 8),
		},
		Recognizer: RecognizerConfig{
			Tesseract:   getEnv("TESSERACT", "tesseract"),
			Lang:        getEnv("TESSERACT_LANG", "eng"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
			Timeout:     getEnvAsDuration("RECOGNIZER_TIMEOUT", 60*time.Second),
		},
		Batch: BatchConfig{
			Workers: getEnvAsInt("BATCH_WORKERS", 4),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Batch.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "BATCH_WORKERS must be positive", ErrMalformedInput)
	}
	if c.Engine.MinTextLength < 0 {
		return NewAppError("CONFIG_ERROR", "MIN_TEXT_LENGTH must not be negative", ErrMalformedInput)
	}
	return nil
}
