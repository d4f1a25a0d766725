package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultLogLevel is the log level used when none is configured.
const DefaultLogLevel = "info"

// Config holds CLI configuration for winsession.
type Config struct {
	DataDir      string
	BackupDir    string
	SettingsPath string
	DefaultURL   string
	LogLevel     string
	Watch        bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		DataDir:  DefaultDataDir(),
		LogLevel: DefaultLogLevel,
	}
}

// DefaultDataDir returns ~/.winsession if the user home directory is accessible.
func DefaultDataDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".winsession")
	}
	return ""
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data-dir is required")
	}
	if c.BackupDir == "" {
		c.BackupDir = filepath.Join(c.DataDir, "Backups")
	}
	if c.SettingsPath == "" {
		c.SettingsPath = filepath.Join(c.DataDir, "settings.toml")
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log-level %q: %w", c.LogLevel, err)
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}
