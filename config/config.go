// Package config provides configuration parsing for waybar-resource-hub.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the waybar-resource-hub daemon configuration.
type Config struct {
	// Daemon holds daemon-level settings.
	Daemon DaemonConfig `yaml:"daemon"`

	// Collectors holds sensor backend settings.
	Collectors CollectorsConfig `yaml:"collectors"`

	// History holds in-memory time series settings.
	History HistoryConfig `yaml:"history"`

	// Display holds output rendering settings.
	Display DisplayConfig `yaml:"display"`

	// Thresholds holds status classification boundaries.
	Thresholds ThresholdsConfig `yaml:"thresholds"`
}

// DaemonConfig holds daemon-level settings.
type DaemonConfig struct {
	// PollInterval is a duration string (e.g. "2s", "5s") between poll cycles.
	PollInterval string `yaml:"poll_interval"`
	// CycleTimeout is a duration string for the hard per-cycle ceiling.
	// It must stay below PollInterval.
	CycleTimeout string `yaml:"cycle_timeout"`
	// CacheDir is the directory for the persisted snapshot and history.
	CacheDir string `yaml:"cache_dir"`
	// LogFile is the path for daemon log output.
	LogFile string `yaml:"log_file"`
}

// CollectorsConfig holds sensor backend settings.
type CollectorsConfig struct {
	// CPUSampleWindow is a duration string for the CPU usage sampling window.
	CPUSampleWindow string `yaml:"cpu_sample_window"`
	// Filesystems is the allow-list of filesystem types reported as disks.
	// Empty means the built-in default list.
	Filesystems []string `yaml:"filesystems"`
	// SmartFallback enables smartctl identity resolution when sysfs
	// reports an unknown model.
	SmartFallback bool `yaml:"smart_fallback"`
}

// HistoryConfig holds in-memory time series settings.
type HistoryConfig struct {
	// Capacity is the number of samples retained per metric series.
	Capacity int `yaml:"capacity"`
}

// DisplayConfig holds output rendering settings.
type DisplayConfig struct {
	// TemperatureUnit selects "celsius" or "fahrenheit". Conversion
	// happens at formatting time only; stored values stay Celsius.
	TemperatureUnit string `yaml:"temperature_unit"`
	// SparklineWidth is the sparkline column count in the TUI and banner.
	SparklineWidth int `yaml:"sparkline_width"`
}

// ThresholdsConfig holds the status classification boundaries, applied to
// the highest usage percentage across domains.
type ThresholdsConfig struct {
	// WarningPercent is the usage percentage at which status turns warning.
	WarningPercent float64 `yaml:"warning_percent"`
	// CriticalPercent is the usage percentage at which status turns critical.
	CriticalPercent float64 `yaml:"critical_percent"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		Daemon: DaemonConfig{
			PollInterval: "2s",
			CycleTimeout: "1500ms",
			CacheDir:     filepath.Join(home, ".cache", "waybar-resource-hub"),
			LogFile:      filepath.Join(home, ".local", "log", "waybar-resource-hub.log"),
		},
		Collectors: CollectorsConfig{
			CPUSampleWindow: "150ms",
			Filesystems:     nil,
			SmartFallback:   true,
		},
		History: HistoryConfig{
			Capacity: 30,
		},
		Display: DisplayConfig{
			TemperatureUnit: "celsius",
			SparklineWidth:  12,
		},
		Thresholds: ThresholdsConfig{
			WarningPercent:  75,
			CriticalPercent: 90,
		},
	}
}

// LoadConfig loads configuration from a YAML file, merging with defaults.
// A missing file is not an error; defaults apply.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// PollInterval returns the parsed poll interval.
func (c *Config) PollInterval() time.Duration {
	d, _ := time.ParseDuration(c.Daemon.PollInterval)
	return d
}

// CycleTimeout returns the parsed per-cycle ceiling.
func (c *Config) CycleTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Daemon.CycleTimeout)
	return d
}

// CPUSampleWindow returns the parsed CPU sampling window.
func (c *Config) CPUSampleWindow() time.Duration {
	d, _ := time.ParseDuration(c.Collectors.CPUSampleWindow)
	return d
}

// Validate checks the configuration for required fields and logical consistency.
func (c *Config) Validate() error {
	interval, err := time.ParseDuration(c.Daemon.PollInterval)
	if err != nil {
		return fmt.Errorf("daemon.poll_interval: %w", err)
	}
	if interval <= 0 {
		return fmt.Errorf("daemon.poll_interval must be positive, got %q", c.Daemon.PollInterval)
	}

	ceiling, err := time.ParseDuration(c.Daemon.CycleTimeout)
	if err != nil {
		return fmt.Errorf("daemon.cycle_timeout: %w", err)
	}
	if ceiling <= 0 {
		return fmt.Errorf("daemon.cycle_timeout must be positive, got %q", c.Daemon.CycleTimeout)
	}
	if ceiling >= interval {
		return fmt.Errorf("daemon.cycle_timeout (%s) must be below daemon.poll_interval (%s)",
			c.Daemon.CycleTimeout, c.Daemon.PollInterval)
	}

	if c.Daemon.CacheDir == "" {
		return fmt.Errorf("daemon.cache_dir is required")
	}

	window, err := time.ParseDuration(c.Collectors.CPUSampleWindow)
	if err != nil {
		return fmt.Errorf("collectors.cpu_sample_window: %w", err)
	}
	if window <= 0 || window >= ceiling {
		return fmt.Errorf("collectors.cpu_sample_window (%s) must be positive and below daemon.cycle_timeout (%s)",
			c.Collectors.CPUSampleWindow, c.Daemon.CycleTimeout)
	}

	if c.History.Capacity <= 0 {
		return fmt.Errorf("history.capacity must be positive, got %d", c.History.Capacity)
	}

	if c.Display.TemperatureUnit != "celsius" && c.Display.TemperatureUnit != "fahrenheit" {
		return fmt.Errorf("display.temperature_unit must be 'celsius' or 'fahrenheit', got %q",
			c.Display.TemperatureUnit)
	}
	if c.Display.SparklineWidth <= 0 {
		return fmt.Errorf("display.sparkline_width must be positive, got %d", c.Display.SparklineWidth)
	}

	if c.Thresholds.WarningPercent <= 0 || c.Thresholds.WarningPercent > 100 {
		return fmt.Errorf("thresholds.warning_percent must be in (0,100], got %v", c.Thresholds.WarningPercent)
	}
	if c.Thresholds.CriticalPercent <= c.Thresholds.WarningPercent || c.Thresholds.CriticalPercent > 100 {
		return fmt.Errorf("thresholds.critical_percent must be above warning_percent and at most 100, got %v",
			c.Thresholds.CriticalPercent)
	}

	return nil
}

// SaveConfig saves configuration to a YAML file.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
