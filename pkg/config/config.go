// Package config provides configuration loading and management for fftcompress.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"fftcompress/pkg/threshold"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Compression parameters
	Compression struct {
		// Tolerance is the fraction of each tile's peak AC magnitude below
		// which coefficients are discarded
		Tolerance float64 `yaml:"tolerance"`

		// NumWorkers specifies how many goroutines transform tiles in parallel
		NumWorkers int `yaml:"numWorkers"`
	} `yaml:"compression"`

	// Output parameters
	Output struct {
		// Prefix is prepended to the input file name to name the output
		Prefix string `yaml:"prefix"`

		// Dir is where outputs are written; empty means next to each input
		Dir string `yaml:"dir"`

		// Metrics enables RMSE/PSNR/SSIM reporting for each file
		Metrics bool `yaml:"metrics"`
	} `yaml:"output"`

	// Logging parameters
	Logging struct {
		// Level is one of DEBUG, INFO, WARN, ERROR
		Level string `yaml:"level"`

		// Format is text or json
		Format string `yaml:"format"`

		// File sends logs to a size-rotated file instead of stderr
		File string `yaml:"file"`

		MaxSizeMB  int `yaml:"maxSizeMB"`
		MaxBackups int `yaml:"maxBackups"`
		MaxAgeDays int `yaml:"maxAgeDays"`
	} `yaml:"logging"`

	// Sweep parameters
	Sweep struct {
		// Tolerances is the list of tolerances tried by the sweep command
		Tolerances []float64 `yaml:"tolerances"`

		// ChartFile is where the sweep chart is rendered, empty to skip
		ChartFile string `yaml:"chartFile"`
	} `yaml:"sweep"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Compression.Tolerance = threshold.DefaultTolerance
	cfg.Compression.NumWorkers = runtime.NumCPU() // Use all available cores by default

	cfg.Output.Prefix = "compressed_"
	cfg.Output.Dir = ""
	cfg.Output.Metrics = false

	cfg.Logging.Level = "INFO"
	cfg.Logging.Format = "text"
	cfg.Logging.MaxSizeMB = 10
	cfg.Logging.MaxBackups = 3
	cfg.Logging.MaxAgeDays = 28

	cfg.Sweep.Tolerances = []float64{0, 0.01, 0.02, 0.04, threshold.DefaultTolerance, 0.1, 0.2, 0.35, 0.5, 0.75, 1}
	cfg.Sweep.ChartFile = ""

	return cfg
}

// Validate checks the values that would otherwise fail late or silently.
func (c *Config) Validate() error {
	var errs []error

	tol := c.Compression.Tolerance
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		errs = append(errs, fmt.Errorf("compression.tolerance must be a non-negative number, got %v", tol))
	}
	if c.Compression.NumWorkers < 1 {
		errs = append(errs, fmt.Errorf("compression.numWorkers must be at least 1, got %d", c.Compression.NumWorkers))
	}
	if c.Output.Prefix == "" && c.Output.Dir == "" {
		errs = append(errs, errors.New("output.prefix and output.dir are both empty; outputs would overwrite inputs"))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format))
	}
	if len(c.Sweep.Tolerances) == 0 {
		errs = append(errs, errors.New("sweep.tolerances is empty"))
	}
	for _, t := range c.Sweep.Tolerances {
		if math.IsNaN(t) || t < 0 {
			errs = append(errs, fmt.Errorf("sweep.tolerances contains invalid value %v", t))
		}
	}

	return errors.Join(errs...)
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		return cfg, nil
	}

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

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
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
