package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/TC999/wget-go/internal/progress"
)

// Config defines configuration for the wget-go CLI.
type Config struct {
	// OutputDir is where downloads land when no explicit output path is
	// given. Empty means the current directory.
	OutputDir string `yaml:"output_dir"`

	// Resume continues interrupted downloads from their staging files.
	Resume bool `yaml:"resume"`

	// Progress enables the progress display.
	Progress bool `yaml:"progress"`

	// Timeout bounds the whole request; zero disables it.
	Timeout time.Duration `yaml:"timeout"`

	// BufferSize is the stream chunk size.
	BufferSize int64 `yaml:"buffer_size"`

	// Bucket is an optional object-storage URL (s3://, gs://) to copy
	// completed downloads into.
	Bucket string `yaml:"bucket"`

	Log LogConfig `yaml:"log"`
}

// LogConfig defines logging behavior.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Resume:     true,
		Progress:   true,
		BufferSize: 256 * 1024,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// yamlConfig is used for YAML unmarshaling with string sizes/durations.
type yamlConfig struct {
	OutputDir  string    `yaml:"output_dir"`
	Resume     *bool     `yaml:"resume"`
	Progress   *bool     `yaml:"progress"`
	Timeout    string    `yaml:"timeout"`
	BufferSize string    `yaml:"buffer_size"`
	Bucket     string    `yaml:"bucket"`
	Log        LogConfig `yaml:"log"`
}

// LoadFromFile loads configuration from a YAML file on top of defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.OutputDir != "" {
		cfg.OutputDir = yc.OutputDir
	}
	if yc.Resume != nil {
		cfg.Resume = *yc.Resume
	}
	if yc.Progress != nil {
		cfg.Progress = *yc.Progress
	}
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if yc.BufferSize != "" {
		size, err := progress.ParseBytes(yc.BufferSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse buffer_size: %w", err)
		}
		cfg.BufferSize = size
	}
	if yc.Bucket != "" {
		cfg.Bucket = yc.Bucket
	}
	if yc.Log.Level != "" {
		cfg.Log.Level = yc.Log.Level
	}
	if yc.Log.Format != "" {
		cfg.Log.Format = yc.Log.Format
	}

	return cfg, nil
}

// LoadFromEnv applies environment variable overrides. Variables use the
// WGET_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("WGET_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("WGET_RESUME"); v != "" {
		c.Resume = v == "true" || v == "1"
	}
	if v := os.Getenv("WGET_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	if v := os.Getenv("WGET_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse WGET_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("WGET_BUFFER_SIZE"); v != "" {
		size, err := progress.ParseBytes(v)
		if err != nil {
			return fmt.Errorf("parse WGET_BUFFER_SIZE: %w", err)
		}
		c.BufferSize = size
	}
	if v := os.Getenv("WGET_BUCKET"); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv("WGET_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("WGET_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.BufferSize <= 0 {
		return errors.New("config: buffer_size must be positive")
	}
	if c.Timeout < 0 {
		return errors.New("config: timeout must not be negative")
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: invalid log format %q", c.Log.Format)
	}
	return nil
}
