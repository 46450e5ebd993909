package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "navigator.yaml")
	content := "logging:\n  level: debug\nmetrics:\n  enabled: false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navigator.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644))
	t.Setenv("NAVIGATOR_LOGGING_LEVEL", "error")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestValidate_RejectsUnknownLoggingLevel(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsMetricsEnabledWithoutAddr(t *testing.T) {
	cfg := Default()
	cfg.Metrics.Addr = ""
	assert.Error(t, cfg.Validate())
}

func TestLoad_EnvOverridesCatalogPollSeconds(t *testing.T) {
	t.Setenv("NAVIGATOR_CATALOG_POLL_SECONDS", "45")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.Catalog.PollIntervalSeconds)
	assert.Equal(t, 45*time.Second, cfg.Catalog.PollInterval())
}

func TestLoad_MalformedCatalogPollSecondsKeepsPriorValue(t *testing.T) {
	t.Setenv("NAVIGATOR_CATALOG_POLL_SECONDS", "not-a-number")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Catalog.PollIntervalSeconds, cfg.Catalog.PollIntervalSeconds)
}

func TestCatalogConfig_PollIntervalZeroWhenUnset(t *testing.T) {
	var c CatalogConfig
	assert.Equal(t, time.Duration(0), c.PollInterval())
}

func TestString_ReportsOffWhenDisabled(t *testing.T) {
	cfg := Default()
	cfg.Metrics.Enabled = false
	assert.Contains(t, cfg.String(), "metrics=off")
}
