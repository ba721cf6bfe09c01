// Package config handles loading and managing supplyscore configuration.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/supplyscore/supplyscore/pkg/scoring"
)

// Config is the top-level configuration for supplyscore.
type Config struct {
	Scoring ScoringConfig `yaml:"scoring"`
}

// ScoringConfig controls how answer sets are aggregated.
type ScoringConfig struct {
	// Weights distributes the BIV composite across the three categories.
	// Must be non-negative and sum to 1.
	Weights scoring.Weights `yaml:"weights"`
}

// DefaultConfig returns a Config with the standard equally-weighted split.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			Weights: scoring.DefaultWeights(),
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for internally inconsistent values.
func (c *Config) Validate() error {
	w := c.Scoring.Weights
	for name, v := range map[string]float64{
		"business":     w.Business,
		"integrity":    w.Integrity,
		"availability": w.Availability,
	} {
		if v < 0 {
			return fmt.Errorf("scoring.weights.%s is negative (%v)", name, v)
		}
	}
	sum := w.Business + w.Integrity + w.Availability
	if math.Abs(sum-1) > 0.01 {
		return fmt.Errorf("scoring.weights must sum to 1, got %v", sum)
	}
	return nil
}
