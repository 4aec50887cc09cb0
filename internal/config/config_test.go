package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	// run from an empty directory so no minidb.yaml is picked up
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	if cfg.Data.SampleRows != 10 {
		t.Errorf("Expected default sample rows 10, got %d", cfg.Data.SampleRows)
	}
	if cfg.Output.Format != "table" || cfg.Output.MaxRows != 20 {
		t.Errorf("Unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.Query.LongestOperatorMatch || cfg.Query.StrictColumns {
		t.Errorf("Unexpected query defaults: %+v", cfg.Query)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level 'info', got %s", cfg.Log.Level)
	}
	if cfg.DelimiterRune() != ',' {
		t.Errorf("Expected default delimiter ',', got %q", cfg.DelimiterRune())
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		shouldError bool
	}{
		{
			name:        "valid config",
			modify:      func(c *Config) {},
			shouldError: false,
		},
		{
			name:        "zero sample rows",
			modify:      func(c *Config) { c.Data.SampleRows = 0 },
			shouldError: true,
		},
		{
			name:        "multi character delimiter",
			modify:      func(c *Config) { c.Data.Delimiter = ";;" },
			shouldError: true,
		},
		{
			name:        "quote delimiter",
			modify:      func(c *Config) { c.Data.Delimiter = `"` },
			shouldError: true,
		},
		{
			name:        "tab delimiter",
			modify:      func(c *Config) { c.Data.Delimiter = "\t" },
			shouldError: false,
		},
		{
			name:        "unknown output format",
			modify:      func(c *Config) { c.Output.Format = "xml" },
			shouldError: true,
		},
		{
			name:        "zero max rows",
			modify:      func(c *Config) { c.Output.MaxRows = 0 },
			shouldError: true,
		},
		{
			name:        "zero parallelism",
			modify:      func(c *Config) { c.Tests.Parallelism = 0 },
			shouldError: true,
		},
		{
			name:        "invalid log level",
			modify:      func(c *Config) { c.Log.Level = "invalid" },
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.shouldError && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.shouldError && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := `
data:
  dir: /srv/data
  delimiter: ";"
query:
  longest_operator_match: true
output:
  format: json
tests:
  parallelism: 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Data.Dir != "/srv/data" {
		t.Errorf("Data.Dir = %s", cfg.Data.Dir)
	}
	if cfg.DelimiterRune() != ';' {
		t.Errorf("delimiter = %q", cfg.DelimiterRune())
	}
	if !cfg.Query.LongestOperatorMatch {
		t.Error("LongestOperatorMatch not loaded")
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s", cfg.Output.Format)
	}
	if cfg.Tests.Parallelism != 4 {
		t.Errorf("Tests.Parallelism = %d", cfg.Tests.Parallelism)
	}
	// untouched keys keep their defaults
	if cfg.Output.MaxRows != 20 || cfg.Data.SampleRows != 10 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() with missing file succeeded")
	}
}

func TestLoadSearchPath(t *testing.T) {
	tests := []struct {
		name    string
		content string // empty means no file
		wantErr bool
		wantMax int
	}{
		{name: "no file uses defaults", wantMax: 20},
		{name: "file in working directory", content: "output:\n  max_rows: 7\n", wantMax: 7},
		{name: "malformed file", content: "data: [unclosed\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			t.Setenv("HOME", t.TempDir())
			if tt.content != "" {
				if err := os.WriteFile(filepath.Join(dir, FileName), []byte(tt.content), 0o644); err != nil {
					t.Fatalf("failed to write config: %v", err)
				}
			}

			cfg, err := Load("")
			if tt.wantErr {
				if err == nil {
					t.Error("Load() succeeded with a malformed config file")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Output.MaxRows != tt.wantMax {
				t.Errorf("MaxRows = %d, want %d", cfg.Output.MaxRows, tt.wantMax)
			}
		})
	}
}

func TestEnvironmentOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MINIDB_QUERY_STRICT_COLUMNS", "true")
	t.Setenv("MINIDB_OUTPUT_MAX_ROWS", "50")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Query.StrictColumns {
		t.Error("StrictColumns not read from environment")
	}
	if cfg.Output.MaxRows != 50 {
		t.Errorf("MaxRows = %d, want 50", cfg.Output.MaxRows)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	if err := CreateDefaultConfig(path, "/var/lib/minidb"); err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() of generated config error = %v", err)
	}
	if cfg.Data.Dir != "/var/lib/minidb" {
		t.Errorf("Data.Dir = %s", cfg.Data.Dir)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %s", cfg.Log.Format)
	}
}
