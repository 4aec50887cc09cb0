// Package config handles configuration loading and validation for minidb
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the config file searched for when no path is given
const FileName = "minidb.yaml"

// Config holds all configuration for minidb
type Config struct {
	Data   DataConfig   `mapstructure:"data" yaml:"data"`
	Query  QueryConfig  `mapstructure:"query" yaml:"query"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
	Tests  TestsConfig  `mapstructure:"tests" yaml:"tests"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// DataConfig controls how data files are found and loaded
type DataConfig struct {
	Dir        string `mapstructure:"dir" yaml:"dir"`
	SampleRows int    `mapstructure:"sample_rows" yaml:"sample_rows"`
	Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`
}

// QueryConfig controls statement parsing and execution
type QueryConfig struct {
	LongestOperatorMatch bool `mapstructure:"longest_operator_match" yaml:"longest_operator_match"`
	StrictColumns        bool `mapstructure:"strict_columns" yaml:"strict_columns"`
}

// OutputConfig controls how results are displayed
type OutputConfig struct {
	Format  string `mapstructure:"format" yaml:"format"`
	MaxRows int    `mapstructure:"max_rows" yaml:"max_rows"`
}

// TestsConfig controls the test-suite runner
type TestsConfig struct {
	Dir         string `mapstructure:"dir" yaml:"dir"`
	Parallelism int    `mapstructure:"parallelism" yaml:"parallelism"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir:        "./data",
			SampleRows: 10,
			Delimiter:  ",",
		},
		Output: OutputConfig{
			Format:  "table",
			MaxRows: 20,
		},
		Tests: TestsConfig{
			Dir:         "./tests",
			Parallelism: 1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	cfg := Default()
	v.SetDefault("data.dir", cfg.Data.Dir)
	v.SetDefault("data.sample_rows", cfg.Data.SampleRows)
	v.SetDefault("data.delimiter", cfg.Data.Delimiter)
	v.SetDefault("query.longest_operator_match", cfg.Query.LongestOperatorMatch)
	v.SetDefault("query.strict_columns", cfg.Query.StrictColumns)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("output.max_rows", cfg.Output.MaxRows)
	v.SetDefault("tests.dir", cfg.Tests.Dir)
	v.SetDefault("tests.parallelism", cfg.Tests.Parallelism)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.output", cfg.Log.Output)

	// Environment variable support
	v.SetEnvPrefix("MINIDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("minidb")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.minidb")
		v.AddConfigPath("/etc/minidb")

		// It's okay if no config file is found - we use defaults
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that configuration values are sensible
func (c *Config) Validate() error {
	if c.Data.SampleRows < 1 {
		return fmt.Errorf("data.sample_rows must be at least 1, got %d", c.Data.SampleRows)
	}

	if utf8.RuneCountInString(c.Data.Delimiter) != 1 {
		return fmt.Errorf("data.delimiter must be a single character, got %q", c.Data.Delimiter)
	}
	if d := c.DelimiterRune(); d == '"' || d == '\r' || d == '\n' || d == utf8.RuneError {
		return fmt.Errorf("invalid data.delimiter: %q", c.Data.Delimiter)
	}

	validFormats := map[string]bool{"table": true, "csv": true, "json": true, "jsonl": true}
	if !validFormats[strings.ToLower(c.Output.Format)] {
		return fmt.Errorf("invalid output format: %s", c.Output.Format)
	}

	if c.Output.MaxRows < 1 {
		return fmt.Errorf("output.max_rows must be at least 1, got %d", c.Output.MaxRows)
	}

	if c.Tests.Parallelism < 1 {
		return fmt.Errorf("tests.parallelism must be at least 1, got %d", c.Tests.Parallelism)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	return nil
}

// DelimiterRune returns the CSV delimiter as a rune
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Data.Delimiter)
	return r
}

// CreateDefaultConfig writes a default configuration file using dataDir as
// the data directory
func CreateDefaultConfig(path string, dataDir string) error {
	cfg := Default()
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	content := append([]byte("# minidb configuration file\n\n"), body...)
	return os.WriteFile(path, content, 0o644)
}
