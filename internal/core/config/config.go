// Package config handles configuration loading and validation for irex.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultNuTimeout = 10 * time.Second

// Config holds the application configuration.
type Config struct {
	Theme string   `yaml:"theme"`
	Nu    NuConfig `yaml:"nu"`
	Keys  Keymap   `yaml:"keys"`
}

// NuConfig configures the nu binary the live resolver shells out to.
type NuConfig struct {
	// Bin is the nu executable; looked up on PATH when not absolute.
	Bin string `yaml:"bin"`
	// Timeout bounds one resolver call, as a Go duration string ("10s").
	Timeout string `yaml:"timeout"`
}

// TimeoutDuration returns the parsed resolver timeout. Validation guarantees
// parseability for loaded configs; the default covers hand-built ones.
func (n NuConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(n.Timeout)
	if err != nil || d <= 0 {
		return defaultNuTimeout
	}
	return d
}

// Keymap defines the single-key commands of the explorer session. Arrow
// keys, enter, and escape are always bound in addition to these.
type Keymap struct {
	Quit    string `yaml:"quit"`
	Inspect string `yaml:"inspect"`
	Goto    string `yaml:"goto"`
	Back    string `yaml:"back"`
	Forward string `yaml:"forward"`
	Up      string `yaml:"up"`
	Down    string `yaml:"down"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Theme: "tokyo-night",
		Nu: NuConfig{
			Bin:     "nu",
			Timeout: "10s",
		},
		Keys: Keymap{
			Quit:    "q",
			Inspect: " ",
			Goto:    "g",
			Back:    "b",
			Forward: "l",
			Up:      "k",
			Down:    "j",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "irex", "config.yml")
}

// Load reads configuration from the given path. If the path is empty or the
// file doesn't exist, defaults are returned.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Nu.Bin == "" {
		c.Nu.Bin = defaults.Nu.Bin
	}
	if c.Nu.Timeout == "" {
		c.Nu.Timeout = defaults.Nu.Timeout
	}

	keys := &c.Keys
	defKeys := defaults.Keys
	for _, pair := range []struct {
		field *string
		def   string
	}{
		{&keys.Quit, defKeys.Quit},
		{&keys.Inspect, defKeys.Inspect},
		{&keys.Goto, defKeys.Goto},
		{&keys.Back, defKeys.Back},
		{&keys.Forward, defKeys.Forward},
		{&keys.Up, defKeys.Up},
		{&keys.Down, defKeys.Down},
	} {
		if *pair.field == "" {
			*pair.field = pair.def
		}
	}
}

// Write stores the configuration as YAML at the given path, creating parent
// directories as needed.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
