package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Listen != ":8787" {
		t.Errorf("Listen = %q, want default :8787", cfg.Listen)
	}
	if cfg.PingSamples != 7 {
		t.Errorf("PingSamples = %d, want 7", cfg.PingSamples)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
listen: ":9999"
probe_base_url: "http://localhost:5000"
ping_samples: 3
probe_timeout: 30s
log:
  level: debug
tuning:
  labels:
    excellent: 90
    good: 75
    fair: 60
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Listen != ":9999" {
		t.Errorf("Listen = %q, want :9999", cfg.Listen)
	}
	if cfg.ProbeBaseURL != "http://localhost:5000" {
		t.Errorf("ProbeBaseURL = %q", cfg.ProbeBaseURL)
	}
	if cfg.PingSamples != 3 {
		t.Errorf("PingSamples = %d, want 3", cfg.PingSamples)
	}
	if cfg.ProbeTimeout.Std() != 30*time.Second {
		t.Errorf("ProbeTimeout = %v, want 30s", cfg.ProbeTimeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Tuning.Labels.Excellent != 90 {
		t.Errorf("tuning override lost: %+v", cfg.Tuning.Labels)
	}
	// Untouched fields keep their defaults
	if cfg.DownloadSizeMB != 20 {
		t.Errorf("DownloadSizeMB = %v, want default 20", cfg.DownloadSizeMB)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config invalid: %v", err)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen", func(c *Config) { c.Listen = "" }},
		{"empty database", func(c *Config) { c.DatabasePath = "" }},
		{"zero ping samples", func(c *Config) { c.PingSamples = 0 }},
		{"negative payload", func(c *Config) { c.DownloadSizeMB = -1 }},
		{"zero timeout", func(c *Config) { c.ProbeTimeout = 0 }},
		{"no heartbeat targets", func(c *Config) { c.HeartbeatTargets = nil }},
		{"inverted label cutoffs", func(c *Config) {
			c.Tuning.Labels.Excellent = 50
			c.Tuning.Labels.Good = 70
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
