package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const envPrefix = "AUTOCLICKER_"

// Viewport is the browser window size in CSS pixels
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config holds every runtime setting
type Config struct {
	StartURL       string   `yaml:"start_url"`
	Browser        string   `yaml:"browser"` // chromium, firefox or webkit
	Headless       bool     `yaml:"headless"`
	Viewport       Viewport `yaml:"viewport"`
	DataDir        string   `yaml:"data_dir"`
	Storage        string   `yaml:"storage"` // json or sqlite
	DefaultDelayMs int      `yaml:"default_delay_ms"`
	MetricsAddr    string   `yaml:"metrics_addr"`
	LogLevel       string   `yaml:"log_level"`
}

// Default returns the built-in configuration
func Default() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return &Config{
		StartURL:       "about:blank",
		Browser:        "chromium",
		Viewport:       Viewport{Width: 1280, Height: 720},
		DataDir:        filepath.Join(homeDir, ".autoclicker"),
		Storage:        "json",
		DefaultDelayMs: 500,
		LogLevel:       "info",
	}
}

// Load layers the YAML file at path (if it exists), .env and AUTOCLICKER_*
// variables over the defaults. The result is not validated yet: callers apply
// their flag overrides first, then call Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// config file is optional
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	// .env is optional too
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strVars := map[string]*string{
		"START_URL":    &c.StartURL,
		"BROWSER":      &c.Browser,
		"DATA_DIR":     &c.DataDir,
		"STORAGE":      &c.Storage,
		"METRICS_ADDR": &c.MetricsAddr,
		"LOG_LEVEL":    &c.LogLevel,
	}
	for name, dst := range strVars {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "HEADLESS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sHEADLESS: %w", envPrefix, err)
		}
		c.Headless = b
	}
	if v, ok := os.LookupEnv(envPrefix + "DEFAULT_DELAY_MS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sDEFAULT_DELAY_MS: %w", envPrefix, err)
		}
		c.DefaultDelayMs = n
	}
	return nil
}

// Validate checks enumerations and ranges
func (c *Config) Validate() error {
	var problems []string

	switch strings.ToLower(c.Browser) {
	case "chromium", "firefox", "webkit":
	default:
		problems = append(problems, fmt.Sprintf("unknown browser %q", c.Browser))
	}
	switch c.Storage {
	case "json", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("unknown storage %q", c.Storage))
	}
	if c.DefaultDelayMs <= 0 {
		problems = append(problems, "default_delay_ms must be positive")
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		problems = append(problems, "viewport must be positive")
	}
	if c.DataDir == "" {
		problems = append(problems, "data_dir is required")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log_level %q", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
