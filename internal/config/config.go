// Package config handles the XDG configuration directory, the optional
// config.yaml file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "taskscribe"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// SessionFile is the stored bearer credential filename.
	SessionFile = "session.json"

	// DefaultBaseURL is the task service address used when none is configured.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds each task service call.
	DefaultTimeout = 10 * time.Second
)

// Environment overrides. They win over config.yaml.
const (
	EnvBaseURL = "TASKSCRIBE_URL"
	EnvToken   = "TASKSCRIBE_TOKEN"
	EnvTimeout = "TASKSCRIBE_TIMEOUT"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-"`

	// BaseURL is the task service root, e.g. http://localhost:8000.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each task service call.
	Timeout time.Duration `yaml:"timeout"`

	// DefaultStatus and DefaultPriority seed the list filters.
	DefaultStatus   string `yaml:"default_status"`
	DefaultPriority string `yaml:"default_priority"`

	// Token is a bearer credential taken from the environment.
	// It takes precedence over the session file and is never written out.
	Token string `yaml:"-"`

	// Debug enables debug logging.
	Debug bool `yaml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"-"`

	// Log receives diagnostic output. Set by the dispatcher.
	Log *slog.Logger `yaml:"-"`
}

// New creates a Config for the default or specified config directory,
// reading config.yaml if present and then applying the environment.
// If configDir is empty, uses XDG_CONFIG_HOME/taskscribe or $HOME/.config/taskscribe.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:     dir,
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}

	data, err := os.ReadFile(cfg.ConfigPath())
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.Token = strings.TrimSpace(v)
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// SessionPath returns the path to the stored session credential.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasSession reports whether a credential is available from the
// environment or the session file.
func (c *Config) HasSession() bool {
	if c.Token != "" {
		return true
	}
	_, err := os.Stat(c.SessionPath())
	return err == nil
}

// RemoveSession deletes the session file.
func (c *Config) RemoveSession() error {
	return os.Remove(c.SessionPath())
}
