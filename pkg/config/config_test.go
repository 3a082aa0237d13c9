package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.Port)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("Unexpected logging defaults: %q %q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.MinCohortSize != 3 {
		t.Errorf("Expected default min cohort size 3, got %d", cfg.MinCohortSize)
	}
	if cfg.RefreshSchedule == "" {
		t.Error("Expected a default refresh schedule")
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Errorf("Expected a missing config file to be skipped, got %v", err)
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("port: \"9090\"\nlog_level: debug\nmin_cohort_size: 5\ncors_origins:\n  - https://app.example.com\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9090" || cfg.LogLevel != "debug" || cfg.MinCohortSize != 5 {
		t.Errorf("YAML values not applied: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://app.example.com" {
		t.Errorf("Unexpected CORS origins: %v", cfg.CORSOrigins)
	}
	// Unset fields keep their defaults.
	if cfg.DatabasePath != "./data/nzdpu.db" {
		t.Errorf("Expected the default database path, got %q", cfg.DatabasePath)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: \"9090\"\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	os.Setenv("PORT", "7070")
	os.Setenv("MIN_COHORT_SIZE", "4")
	defer os.Unsetenv("PORT")
	defer os.Unsetenv("MIN_COHORT_SIZE")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "7070" {
		t.Errorf("Expected env to beat the file, got %q", cfg.Port)
	}
	if cfg.MinCohortSize != 4 {
		t.Errorf("Expected min cohort size 4, got %d", cfg.MinCohortSize)
	}
}

func TestLoadRejectsInvalidCohortSize(t *testing.T) {
	os.Setenv("MIN_COHORT_SIZE", "0")
	defer os.Unsetenv("MIN_COHORT_SIZE")

	if _, err := Load(""); err == nil {
		t.Error("Expected an error for a cohort size below 1")
	}
}

func TestGetEnvAsIntIgnoresGarbage(t *testing.T) {
	os.Setenv("MIN_COHORT_SIZE", "not-a-number")
	defer os.Unsetenv("MIN_COHORT_SIZE")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MinCohortSize != 3 {
		t.Errorf("Expected the default to survive a bad value, got %d", cfg.MinCohortSize)
	}
}
