// Package config provides configuration loading and management for cellroi.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"cellroi/internal/models"
)

// ErrInvalidWorkers is returned when the worker count is below one
var ErrInvalidWorkers = errors.New("number of workers must be at least 1")

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// NumWorkers bounds the goroutines used by the matching and
		// measurement phases
		NumWorkers int `yaml:"numWorkers"`
	} `yaml:"processing"`

	// Nucleus to whole-cell matching parameters
	Matching struct {
		// DistanceThreshold is the exclusive maximum centroid distance in
		// pixels for a whole-cell region to be paired with a nucleus
		DistanceThreshold float64 `yaml:"distanceThreshold"`

		// ExpansionDistance grows unmatched nuclei into estimated cells,
		// in the same units as PixelSize
		ExpansionDistance float64 `yaml:"expansionDistance"`

		// PixelSize is the physical length of one pixel
		PixelSize float64 `yaml:"pixelSize"`
	} `yaml:"matching"`

	// Intensity measurement parameters
	Measurement struct {
		Downsample      float64   `yaml:"downsample"`
		Percentiles     []float64 `yaml:"percentiles"`
		Compartments    []string  `yaml:"compartments"`
		ExtraStatistics bool      `yaml:"extraStatistics"`
	} `yaml:"measurement"`

	// Output parameters
	Output struct {
		// Database is the SQLite file the feature table is written to
		Database string `yaml:"database"`

		// Verbose enables debug logging
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Processing.NumWorkers = 1

	cfg.Matching.DistanceThreshold = 10.0
	cfg.Matching.ExpansionDistance = 5.0
	cfg.Matching.PixelSize = 1.0

	cfg.Measurement.Downsample = 1.0
	cfg.Measurement.Percentiles = []float64{50, 95, 99}
	cfg.Measurement.Compartments = []string{"CELL", "NUCLEUS", "CYTOPLASM", "MEMBRANE"}
	cfg.Measurement.ExtraStatistics = false

	cfg.Output.Database = "cells.db"
	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

// Validate rejects configurations the pipeline cannot run with
func (c *Config) Validate() error {
	if c.Processing.NumWorkers < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidWorkers, c.Processing.NumWorkers)
	}
	if c.Matching.PixelSize <= 0 || math.IsNaN(c.Matching.PixelSize) {
		return fmt.Errorf("pixel size must be positive, got %v", c.Matching.PixelSize)
	}
	if math.IsNaN(c.Matching.DistanceThreshold) || c.Matching.DistanceThreshold < 0 {
		return fmt.Errorf("distance threshold must be non-negative, got %v", c.Matching.DistanceThreshold)
	}
	if !(c.Measurement.Downsample >= 1) || math.IsInf(c.Measurement.Downsample, 0) {
		return fmt.Errorf("downsample must be a finite value of at least 1, got %v", c.Measurement.Downsample)
	}
	for _, p := range c.Measurement.Percentiles {
		if math.IsNaN(p) || p < 0 || p > 100 {
			return fmt.Errorf("percentile %v outside [0, 100]", p)
		}
	}
	if _, err := c.ParseCompartments(); err != nil {
		return err
	}
	return nil
}

// ParseCompartments converts the configured compartment names, dropping
// duplicates while keeping their first position
func (c *Config) ParseCompartments() ([]models.Compartment, error) {
	seen := make(map[models.Compartment]bool)
	var out []models.Compartment
	for _, name := range c.Measurement.Compartments {
		comp, err := models.ParseCompartment(name)
		if err != nil {
			return nil, err
		}
		if !seen[comp] {
			seen[comp] = true
			out = append(out, comp)
		}
	}
	return out, nil
}
