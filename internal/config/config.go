package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds the client configuration. Values come from environment
// variables (NEWSROOM_*), optionally overridden by config.yaml in the state
// directory. The file, when present, wins over the environment so a user can
// pin a deployment without editing shell profiles.
type Config struct {
	// APIBaseURL is the base URL of the newsroom REST backend
	APIBaseURL string `envconfig:"API_URL" default:"http://localhost:8080" yaml:"api_url"`

	// StateDir holds the credentials file, the log file and downloaded QR codes.
	// Empty means ~/.newsroom.
	StateDir string `envconfig:"STATE_DIR" yaml:"state_dir"`

	// LogLevel is the minimum diagnostic log level (debug, info, warn, error)
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" yaml:"log_level"`
}

// fileOverlay mirrors the yaml keys; pointer fields distinguish "absent" from
// "set to empty".
type fileOverlay struct {
	APIBaseURL *string `yaml:"api_url"`
	StateDir   *string `yaml:"state_dir"`
	LogLevel   *string `yaml:"log_level"`
}

// Load resolves the configuration from the environment and the optional
// config.yaml overlay.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("newsroom", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.StateDir = filepath.Join(home, ".newsroom")
	}

	if err := cfg.applyFile(filepath.Join(cfg.StateDir, "config.yaml")); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var overlay fileOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if overlay.APIBaseURL != nil {
		c.APIBaseURL = *overlay.APIBaseURL
	}
	if overlay.StateDir != nil && *overlay.StateDir != "" {
		c.StateDir = *overlay.StateDir
	}
	if overlay.LogLevel != nil {
		c.LogLevel = *overlay.LogLevel
	}

	return nil
}

// CredentialsPath returns the location of the durable token slot
func (c *Config) CredentialsPath() string {
	return filepath.Join(c.StateDir, "credentials.json")
}

// LogPath returns the location of the diagnostic log file
func (c *Config) LogPath() string {
	return filepath.Join(c.StateDir, "newsroom.log")
}

// QRCodePath returns where the 2FA provisioning QR image is written
func (c *Config) QRCodePath() string {
	return filepath.Join(c.StateDir, "2fa-qr.png")
}

// EnsureStateDir creates the state directory with owner-only permissions
func (c *Config) EnsureStateDir() error {
	if err := os.MkdirAll(c.StateDir, 0o700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	return nil
}
