package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cellroi/internal/models"
)

// TestDefaultConfig verifies the defaults are valid and match the documented values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config is invalid: %v", err)
	}
	if cfg.Processing.NumWorkers != 1 {
		t.Errorf("Expected 1 worker, got %d", cfg.Processing.NumWorkers)
	}
	if cfg.Matching.DistanceThreshold != 10.0 {
		t.Errorf("Expected distance threshold 10, got %f", cfg.Matching.DistanceThreshold)
	}

	comps, err := cfg.ParseCompartments()
	if err != nil {
		t.Fatalf("Failed to parse compartments: %v", err)
	}
	if len(comps) != 4 {
		t.Errorf("Expected 4 compartments, got %d", len(comps))
	}
}

// TestLoadConfig verifies that values in a YAML file override the defaults
func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	data := []byte(`
processing:
  numWorkers: 4
matching:
  distanceThreshold: 7.5
measurement:
  percentiles: [5, 99.5]
  compartments: [nucleus, Cytoplasm, NUCLEUS]
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Processing.NumWorkers != 4 {
		t.Errorf("Expected 4 workers, got %d", cfg.Processing.NumWorkers)
	}
	if cfg.Matching.DistanceThreshold != 7.5 {
		t.Errorf("Expected threshold 7.5, got %f", cfg.Matching.DistanceThreshold)
	}
	if cfg.Matching.ExpansionDistance != 5.0 {
		t.Errorf("Expected default expansion 5.0 to survive, got %f", cfg.Matching.ExpansionDistance)
	}
	if len(cfg.Measurement.Percentiles) != 2 || cfg.Measurement.Percentiles[1] != 99.5 {
		t.Errorf("Unexpected percentiles %v", cfg.Measurement.Percentiles)
	}

	comps, err := cfg.ParseCompartments()
	if err != nil {
		t.Fatalf("Failed to parse compartments: %v", err)
	}
	want := []models.Compartment{models.Nucleus, models.Cytoplasm}
	if len(comps) != len(want) {
		t.Fatalf("Expected %v, got %v", want, comps)
	}
	for i := range want {
		if comps[i] != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], comps[i])
		}
	}
}

// TestLoadConfigMissingFile verifies that a missing file yields the defaults
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Output.Database != "cells.db" {
		t.Errorf("Expected default database, got %q", cfg.Output.Database)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero workers", "processing:\n  numWorkers: 0\n"},
		{"negative workers", "processing:\n  numWorkers: -2\n"},
		{"bad percentile", "measurement:\n  percentiles: [50, 101]\n"},
		{"bad compartment", "measurement:\n  compartments: [nucleolus]\n"},
		{"bad downsample", "measurement:\n  downsample: 0.5\n"},
		{"bad pixel size", "matching:\n  pixelSize: 0\n"},
		{"malformed", "processing: [\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0644); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Errorf("Expected an error")
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Processing.NumWorkers = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidWorkers) {
		t.Errorf("Expected ErrInvalidWorkers, got %v", err)
	}
}

// TestSaveConfigRoundTrip verifies that a saved config loads back unchanged
func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Processing.NumWorkers = 3
	cfg.Measurement.ExtraStatistics = true
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if loaded.Processing.NumWorkers != 3 || !loaded.Measurement.ExtraStatistics {
		t.Errorf("Loaded config does not match saved config: %+v", loaded)
	}

	if err := CreateDefaultConfigFile(filepath.Join(t.TempDir(), "default.yaml")); err != nil {
		t.Errorf("Failed to create default config file: %v", err)
	}
}
