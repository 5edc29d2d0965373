package config

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"wifi-monitor/internal/health"
	"wifi-monitor/internal/logging"
)

// Duration wraps time.Duration so YAML configs can say "45s" or "5m".
// A bare number reads as seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var secs float64
	if err := value.Decode(&secs); err != nil {
		return fmt.Errorf("invalid duration: %s", value.Value)
	}
	*d = Duration(time.Duration(secs * float64(time.Second)))
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the plain time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all configuration for the Wi-Fi health monitor.
type Config struct {
	Listen       string `yaml:"listen"`
	DatabasePath string `yaml:"database"`

	// ProbeBaseURL points at the speedtest/ping endpoints used by the HTTP
	// samplers. When empty, measurements fall back to the speedtest.net
	// engine.
	ProbeBaseURL string `yaml:"probe_base_url"`

	PingSamples    int      `yaml:"ping_samples"`
	DownloadSizeMB float64  `yaml:"download_size_mb"`
	UploadSizeMB   float64  `yaml:"upload_size_mb"`
	ProbeTimeout   Duration `yaml:"probe_timeout"`

	// Cron specs. PassiveSchedule drives lightweight ticks for the live
	// charts; RefreshSchedule (optional) runs a full scored check.
	PassiveSchedule string `yaml:"passive_schedule"`
	RefreshSchedule string `yaml:"refresh_schedule"`

	HeartbeatTargets  []string `yaml:"heartbeat_targets"`
	HeartbeatInterval Duration `yaml:"heartbeat_interval"`
	OutageStart       Duration `yaml:"outage_start"`
	OutageMinDuration Duration `yaml:"outage_min_duration"`

	Tuning health.Tuning  `yaml:"tuning"`
	Log    logging.Config `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:            ":8787",
		DatabasePath:      "wifi_monitor.db",
		PingSamples:       7,
		DownloadSizeMB:    20,
		UploadSizeMB:      8,
		ProbeTimeout:      Duration(45 * time.Second),
		PassiveSchedule:   "@every 60s",
		HeartbeatTargets:  []string{"1.1.1.1", "8.8.8.8"},
		HeartbeatInterval: Duration(5 * time.Second),
		OutageStart:       Duration(15 * time.Second),
		OutageMinDuration: Duration(10 * time.Second),
		Tuning:            health.DefaultTuning(),
		Log:               logging.Config{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is
// not an error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.PingSamples < 1 {
		return fmt.Errorf("ping_samples must be at least 1")
	}
	if c.DownloadSizeMB <= 0 || c.UploadSizeMB <= 0 {
		return fmt.Errorf("payload sizes must be positive")
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe_timeout must be positive")
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("heartbeat_interval must be positive")
	}
	if len(c.HeartbeatTargets) == 0 {
		return fmt.Errorf("at least one heartbeat target must be specified")
	}
	if err := c.Tuning.Validate(); err != nil {
		return fmt.Errorf("tuning: %w", err)
	}
	return nil
}
