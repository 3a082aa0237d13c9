// Package config loads server configuration from an optional config.yaml
// overlaid by environment variables. Environment values win so deployments
// can override a checked-in file without editing it.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Environment string `yaml:"environment"`
	Port        string `yaml:"port"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// DatabasePath is the SQLite dataset file produced by the ingestion
	// tooling.
	DatabasePath string `yaml:"database_path"`

	// RefreshSchedule is the cron expression for rebuilding the store's
	// company index after the dataset file is replaced.
	RefreshSchedule string `yaml:"refresh_schedule"`

	// MinCohortSize is the peer count below which the intersection
	// cohort is suppressed.
	MinCohortSize int `yaml:"min_cohort_size"`

	CORSOrigins []string `yaml:"cors_origins"`
}

// Load reads configuration from path (skipped when the file does not
// exist) and applies environment-variable overrides and defaults.
func Load(path string) (*Config, error) {
	config := &Config{
		Environment:     "development",
		Port:            "8080",
		LogLevel:        "info",
		LogFormat:       "text",
		DatabasePath:    "./data/nzdpu.db",
		RefreshSchedule: "0 3 * * *",
		MinCohortSize:   3,
		CORSOrigins:     []string{"*"},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	config.Environment = getEnv("ENVIRONMENT", config.Environment)
	config.Port = getEnv("PORT", config.Port)
	config.LogLevel = getEnv("LOG_LEVEL", config.LogLevel)
	config.LogFormat = getEnv("LOG_FORMAT", config.LogFormat)
	config.DatabasePath = getEnv("DATABASE_PATH", config.DatabasePath)
	config.RefreshSchedule = getEnv("REFRESH_SCHEDULE", config.RefreshSchedule)
	config.MinCohortSize = getEnvAsInt("MIN_COHORT_SIZE", config.MinCohortSize)

	if config.MinCohortSize < 1 {
		return nil, fmt.Errorf("MIN_COHORT_SIZE must be at least 1, got %d", config.MinCohortSize)
	}
	if config.DatabasePath == "" {
		return nil, fmt.Errorf("DATABASE_PATH is required")
	}

	return config, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt retrieves an environment variable as an integer or returns a
// default value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
