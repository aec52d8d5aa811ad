// Package config provides runtime configuration for the facts
// framework, merged from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color output modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds runtime settings for suite evaluation.
type Config struct {
	// Color controls ANSI escapes in console output: auto,
	// always, or never.
	Color string `yaml:"color"`

	// Verbose enables debug-level diagnostics.
	Verbose bool `yaml:"verbose"`

	// MonitorAddr is the listen address for the live monitor
	// server. Empty disables monitoring.
	MonitorAddr string `yaml:"monitor_addr"`

	// ReportDir is the output directory for generated
	// reports and summaries.
	ReportDir string `yaml:"report_dir"`

	// LogFile is the path of the JSON Lines diagnostics log.
	// Empty disables file logging.
	LogFile string `yaml:"log_file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Color:     ColorAuto,
		ReportDir: "reports",
	}
}

// Load reads a YAML configuration file. Settings absent from
// the file keep their defaults; unknown keys are tolerated.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// FromEnv applies environment variable overrides to cfg.
// OS env takes precedence over file settings.
func FromEnv(cfg *Config) *Config {
	if v := os.Getenv("FACTS_COLOR"); v != "" {
		cfg.Color = v
	}
	if v := os.Getenv("FACTS_VERBOSE"); v != "" {
		cfg.Verbose = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("FACTS_MONITOR_ADDR"); v != "" {
		cfg.MonitorAddr = v
	}
	if v := os.Getenv("FACTS_REPORT_DIR"); v != "" {
		cfg.ReportDir = v
	}
	if v := os.Getenv("FACTS_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	return cfg
}

// ColorEnabled resolves the color mode to a concrete on or off
// decision. Auto honors the NO_COLOR convention.
func (c *Config) ColorEnabled() bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return os.Getenv("NO_COLOR") == ""
	}
}
