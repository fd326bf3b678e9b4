package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Priority modes control how the sidebar orders reports.
const (
	PriorityModeDefault = "default"
	PriorityModeGSD     = "gsd"
)

// Config holds CLI configuration stored at ~/.sidechat/config.
type Config struct {
	APIKey       string `yaml:"api_key"`
	AccountID    string `yaml:"account_id"`
	Username     string `yaml:"username"`
	BaseURL      string `yaml:"base_url,omitempty"`
	PriorityMode string `yaml:"priority_mode,omitempty"`
	Locale       string `yaml:"locale,omitempty"`
	LogLevel     string `yaml:"log_level,omitempty"`
}

// Dir returns the directory holding config, drafts and logs.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".sidechat")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// LogPath returns the log file path.
func LogPath() string {
	return filepath.Join(Dir(), "sidechat.log")
}

// Load reads and parses the config file. Returns error if missing or insecure.
func Load() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("config missing api_key")
	}
	cfg.PriorityMode = NormalizePriorityMode(cfg.PriorityMode)

	return &cfg, nil
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, 0600)
}

// NormalizePriorityMode maps unknown modes to the default.
func NormalizePriorityMode(mode string) string {
	if strings.EqualFold(strings.TrimSpace(mode), PriorityModeGSD) {
		return PriorityModeGSD
	}
	return PriorityModeDefault
}
