package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// AppName names the per-user config directory.
const AppName = "newsverifier"

// Config holds all newsverifier configuration.
type Config struct {
	API         APIConfig         `yaml:"api"`
	Preferences PreferencesConfig `yaml:"preferences"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// APIConfig locates the verification service.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"` // empty: no client-side timeout
}

// PreferencesConfig says where durable client state lives.
type PreferencesConfig struct {
	Dir string `yaml:"dir"` // empty: os.UserConfigDir()/newsverifier
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`   // used when the terminal UI owns stdout
}

func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:8000",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "newsverifier.log",
		},
	}
}

// DefaultPath is ~/.config/newsverifier/config.yaml (or the platform equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, AppName, "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if _, err := cfg.API.TimeoutDuration(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("NEWSVERIFIER_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("NEWSVERIFIER_TIMEOUT"); v != "" {
		c.API.Timeout = v
	}
	if v := os.Getenv("NEWSVERIFIER_PREFS_DIR"); v != "" {
		c.Preferences.Dir = v
	}
	if v := os.Getenv("NEWSVERIFIER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// TimeoutDuration parses Timeout. Zero means the transport default.
func (a APIConfig) TimeoutDuration() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(a.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid api.timeout %q: %w", a.Timeout, err)
	}
	return d, nil
}

// PreferencesDir resolves the directory for durable client state.
func (c *Config) PreferencesDir() (string, error) {
	if c.Preferences.Dir != "" {
		return c.Preferences.Dir, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("no preferences dir configured and no user config dir: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// LogPath resolves Logging.File relative to the preferences directory.
func (c *Config) LogPath() (string, error) {
	if filepath.IsAbs(c.Logging.File) {
		return c.Logging.File, nil
	}
	dir, err := c.PreferencesDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Logging.File), nil
}
