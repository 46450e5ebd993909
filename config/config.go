// Package config loads the navigator process's ambient runtime
// configuration: logging, metrics, tracing, and where to find the
// workflow catalog. It follows the teacher pack's layered convention —
// defaults, then a YAML file, then environment variable overrides — seen
// across the example repos' own config packages.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v2"
)

// Config is the navigator process's top-level runtime configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// LoggingConfig controls the emit.LogEmitter's behavior.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

// MetricsConfig controls whether a metrics.Recorder is constructed and
// where it listens.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"` // e.g. ":9090"
}

// TracingConfig controls whether OpenTelemetry spans are created for
// navigation calls.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// CatalogConfig points at the catalog manifest and secondary index this
// process should use.
type CatalogConfig struct {
	ManifestPath        string `yaml:"manifest_path"`
	IndexPath           string `yaml:"index_path"`            // "" disables the SQLite secondary index.
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"` // 0 defers to the manifest's own poll_interval.
}

// PollInterval reports the operator-configured catalog poll interval, or
// zero when PollIntervalSeconds is unset — in which case a caller building
// a Watcher should keep using whatever the TOML manifest's own
// poll_interval already specifies.
func (c CatalogConfig) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// Default returns a Config with every field set to a safe, working value.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", JSON: false},
		Metrics: MetricsConfig{Enabled: true, Addr: ":9090"},
		Tracing: TracingConfig{Enabled: false, ServiceName: "navigator"},
		Catalog: CatalogConfig{ManifestPath: "catalog.toml", IndexPath: ""},
	}
}

// Load builds a Config from defaults, then path (if it exists), then
// environment variable overrides. A missing path is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("NAVIGATOR_LOGGING_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("NAVIGATOR_LOGGING_JSON"); v != "" {
		c.Logging.JSON = v == "true" || v == "1"
	}
	if v := os.Getenv("NAVIGATOR_METRICS_ENABLED"); v != "" {
		c.Metrics.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("NAVIGATOR_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("NAVIGATOR_TRACING_ENABLED"); v != "" {
		c.Tracing.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("NAVIGATOR_CATALOG_MANIFEST"); v != "" {
		c.Catalog.ManifestPath = v
	}
	if v := os.Getenv("NAVIGATOR_CATALOG_INDEX"); v != "" {
		c.Catalog.IndexPath = v
	}
	if v := os.Getenv("NAVIGATOR_CATALOG_POLL_SECONDS"); v != "" {
		c.Catalog.PollIntervalSeconds = ParseAtoi(v, c.Catalog.PollIntervalSeconds)
	}
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate rejects configurations with an unrecognized logging level, and
// configurations that enable metrics without a listen address. No other
// field is checked.
func (c *Config) Validate() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid logging level %q", c.Logging.Level)
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required when metrics.enabled is true")
	}
	return nil
}

// String renders a compact, redaction-free summary (there are no secrets
// in this config) suitable for a single startup log line.
func (c *Config) String() string {
	return fmt.Sprintf("Config{logging=%s metrics=%s tracing=%s catalog=%s}",
		c.Logging.Level,
		boolAddr(c.Metrics.Enabled, c.Metrics.Addr),
		boolName(c.Tracing.Enabled, c.Tracing.ServiceName),
		c.Catalog.ManifestPath,
	)
}

func boolAddr(enabled bool, addr string) string {
	if !enabled {
		return "off"
	}
	return addr
}

func boolName(enabled bool, name string) string {
	if !enabled {
		return "off"
	}
	return name
}

// ParseAtoi parses s as a base-10 int, falling back to fallback on a
// malformed value instead of erroring out — used by applyEnv for numeric
// environment overrides (NAVIGATOR_CATALOG_POLL_SECONDS) where a bad value
// should leave the prior setting in place rather than fail startup.
func ParseAtoi(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}
