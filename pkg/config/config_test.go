package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultConfig checks the stock values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Compression.Tolerance != 0.0605 {
		t.Errorf("Expected tolerance=0.0605, got %f", cfg.Compression.Tolerance)
	}
	if cfg.Compression.NumWorkers < 1 {
		t.Errorf("Expected at least one worker, got %d", cfg.Compression.NumWorkers)
	}
	if cfg.Output.Prefix != "compressed_" {
		t.Errorf("Expected prefix=compressed_, got %q", cfg.Output.Prefix)
	}
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fftcompress.yaml")

	cfg := DefaultConfig()
	cfg.Compression.Tolerance = 0.2
	cfg.Compression.NumWorkers = 3
	cfg.Output.Dir = "/tmp/out"
	cfg.Logging.Format = "json"
	cfg.Sweep.Tolerances = []float64{0.1, 0.2}

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compression:\n  tolerance: 0.3\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.3, cfg.Compression.Tolerance)
	assert.Equal(t, "compressed_", cfg.Output.Prefix)
	assert.Equal(t, DefaultConfig().Sweep.Tolerances, cfg.Sweep.Tolerances)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compression: [unclosed"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.yaml")
	require.NoError(t, CreateDefaultConfigFile(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative tolerance", func(c *Config) { c.Compression.Tolerance = -0.1 }},
		{"zero workers", func(c *Config) { c.Compression.NumWorkers = 0 }},
		{"overwrite inputs", func(c *Config) { c.Output.Prefix = "" }},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"empty sweep", func(c *Config) { c.Sweep.Tolerances = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
