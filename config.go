package pager

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the defaults that an optional YAML file may override.
// Command line flags take precedence over both.
type Config struct {
	Offset            int64    `yaml:"offset"`
	JPEGQuality       int      `yaml:"jpeg_quality"`
	Filter            string   `yaml:"filter"`
	ScaledDir         string   `yaml:"scaled_dir"`
	CroppedDir        string   `yaml:"cropped_dir"`
	DocumentStrategy  Strategy `yaml:"document_strategy"`
	RenumberStrategy  Strategy `yaml:"renumber_strategy"`
	DuplicateDistance int      `yaml:"duplicate_distance"`
}

func DefaultConfig() Config {
	return Config{
		Offset:            DefaultOffset,
		JPEGQuality:       75,
		Filter:            "catmullrom",
		ScaledDir:         "Scaled",
		CroppedDir:        "Cropped",
		DocumentStrategy:  ConcatenatedDigits,
		RenumberStrategy:  FirstDigitRunOnly,
		DuplicateDistance: 4,
	}
}

// LoadConfig returns DefaultConfig overlaid with the YAML file at path.
// An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100, got %d", c.JPEGQuality)
	}
	if c.ScaledDir == "" || c.CroppedDir == "" {
		return errors.New("scaled_dir and cropped_dir must not be empty")
	}
	if c.DuplicateDistance < 0 {
		return fmt.Errorf("duplicate_distance must not be negative, got %d", c.DuplicateDistance)
	}
	return nil
}
