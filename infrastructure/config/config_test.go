package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "autoclicker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Browser, cfg.Browser)
	assert.Equal(t, 500, cfg.DefaultDelayMs)
	assert.Equal(t, "json", cfg.Storage)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
start_url: https://example.com
browser: firefox
headless: true
viewport:
  width: 800
  height: 600
data_dir: /tmp/clicks
storage: sqlite
default_delay_ms: 250
metrics_addr: ":9100"
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", cfg.StartURL)
	assert.Equal(t, "firefox", cfg.Browser)
	assert.True(t, cfg.Headless)
	assert.Equal(t, Viewport{Width: 800, Height: 600}, cfg.Viewport)
	assert.Equal(t, "/tmp/clicks", cfg.DataDir)
	assert.Equal(t, "sqlite", cfg.Storage)
	assert.Equal(t, 250, cfg.DefaultDelayMs)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "storage: sqlite\ndefault_delay_ms: 250\n")
	t.Setenv("AUTOCLICKER_STORAGE", "json")
	t.Setenv("AUTOCLICKER_DEFAULT_DELAY_MS", "75")
	t.Setenv("AUTOCLICKER_HEADLESS", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Storage)
	assert.Equal(t, 75, cfg.DefaultDelayMs)
	assert.True(t, cfg.Headless)
}

func TestInvalidEnv(t *testing.T) {
	t.Setenv("AUTOCLICKER_HEADLESS", "maybe")
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"browser", func(c *Config) { c.Browser = "netscape" }},
		{"storage", func(c *Config) { c.Storage = "redis" }},
		{"delay", func(c *Config) { c.DefaultDelayMs = 0 }},
		{"viewport", func(c *Config) { c.Viewport.Width = 0 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"data dir", func(c *Config) { c.DataDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestOverrideFixesInvalidFile(t *testing.T) {
	path := writeConfig(t, "browser: netscape\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())

	cfg.Browser = "chromium"
	assert.NoError(t, cfg.Validate())
}

func TestMalformedYAML(t *testing.T) {
	path := writeConfig(t, "viewport: [1, 2")
	_, err := Load(path)
	assert.Error(t, err)
}
