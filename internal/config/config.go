// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"

	"omr-grader/internal/omr"
)

// Config holds everything the binaries need from the environment.
type Config struct {
	AppName string
	Env     string
	Port    string `validate:"required"`

	// Grading
	KeyPath       string  `validate:"required"`
	GridColumns   int     `validate:"min=1"`
	GridRows      int     `validate:"min=1"`
	OptionCount   int     `validate:"min=2,max=26"`
	MarkThreshold float64 `validate:"gte=0"`

	// HTTP surface
	UploadLimitMB int     `validate:"min=1"`
	RateLimit     float64 `validate:"gt=0"`
	RateBurst     int     `validate:"min=1"`
}

// Load reads the configuration, applying defaults for everything so a
// bare environment still boots a standard 100-question grader looking
// for answer_key.json in the working directory. Malformed or
// out-of-range values are returned as errors, never patched over: a
// service with a bad grid or threshold must not come up.
func Load() (*Config, error) {
	cfg := &Config{
		AppName: "OMR Grader",
		Env:     getEnvOrDefault("APP_ENV", "development"),
		Port:    getEnvOrDefault("APP_PORT", "3000"),
		KeyPath: getEnvOrDefault("OMR_KEY_PATH", "answer_key.json"),
	}

	var err error
	if cfg.GridColumns, err = getEnvAsInt("OMR_GRID_COLUMNS", 5); err != nil {
		return nil, err
	}
	if cfg.GridRows, err = getEnvAsInt("OMR_GRID_ROWS", 20); err != nil {
		return nil, err
	}
	if cfg.OptionCount, err = getEnvAsInt("OMR_OPTIONS", 4); err != nil {
		return nil, err
	}
	if cfg.MarkThreshold, err = getEnvAsFloat("OMR_MARK_THRESHOLD", omr.DefaultMarkThreshold); err != nil {
		return nil, err
	}
	if cfg.UploadLimitMB, err = getEnvAsInt("OMR_UPLOAD_LIMIT_MB", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = getEnvAsFloat("OMR_RATE_LIMIT", 50); err != nil {
		return nil, err
	}
	if cfg.RateBurst, err = getEnvAsInt("OMR_RATE_BURST", 100); err != nil {
		return nil, err
	}

	if err := NewValidator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// GridSpec converts the configured layout into the grading grid.
func (c *Config) GridSpec() omr.GridSpec {
	return omr.GridSpec{
		QuestionColumns:    c.GridColumns,
		QuestionRows:       c.GridRows,
		OptionsPerQuestion: c.OptionCount,
	}
}

// NewValidator builds the struct validator shared by configuration
// loading and request handling.
func NewValidator() *validator.Validate {
	return validator.New()
}

// getEnvOrDefault gets an environment variable or returns the default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int, returning the
// default when unset and an error when set but not an integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, valueStr)
	}
	return value, nil
}

// getEnvAsFloat gets an environment variable as float64, returning the
// default when unset and an error when set but not a number.
func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, valueStr)
	}
	return value, nil
}
