package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if !cfg.Resume {
		t.Error("resume should default to true")
	}
	if cfg.BufferSize != 256*1024 {
		t.Errorf("buffer size = %d, want %d", cfg.BufferSize, 256*1024)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
output_dir: /tmp/downloads
resume: false
progress: true
timeout: 45s
buffer_size: 1MB
bucket: s3://my-mirror
log:
  level: debug
  format: json
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.OutputDir != "/tmp/downloads" {
		t.Errorf("output_dir = %q", cfg.OutputDir)
	}
	if cfg.Resume {
		t.Error("resume should be false")
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("timeout = %v, want 45s", cfg.Timeout)
	}
	if cfg.BufferSize != 1024*1024 {
		t.Errorf("buffer_size = %d, want 1MB", cfg.BufferSize)
	}
	if cfg.Bucket != "s3://my-mirror" {
		t.Errorf("bucket = %q", cfg.Bucket)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoadFromFilePartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("output_dir: /data\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if !cfg.Resume {
		t.Error("unset resume should keep its default")
	}
	if cfg.BufferSize != 256*1024 {
		t.Errorf("unset buffer_size should keep its default, got %d", cfg.BufferSize)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WGET_OUTPUT_DIR", "/env/dir")
	t.Setenv("WGET_RESUME", "false")
	t.Setenv("WGET_TIMEOUT", "10s")
	t.Setenv("WGET_BUFFER_SIZE", "64KB")
	t.Setenv("WGET_LOG_LEVEL", "warn")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.OutputDir != "/env/dir" {
		t.Errorf("output_dir = %q", cfg.OutputDir)
	}
	if cfg.Resume {
		t.Error("resume should be false")
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}
	if cfg.BufferSize != 64*1024 {
		t.Errorf("buffer_size = %d", cfg.BufferSize)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoadFromEnvInvalidTimeout(t *testing.T) {
	t.Setenv("WGET_TIMEOUT", "soon")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err == nil {
		t.Error("expected error for invalid WGET_TIMEOUT")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.BufferSize = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero buffer size")
	}

	cfg = Default()
	cfg.Log.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid log format")
	}
}
