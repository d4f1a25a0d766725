package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig is the TOML form of Config.
type FileConfig struct {
	DataDir      string `toml:"data_dir"`
	BackupDir    string `toml:"backup_dir"`
	SettingsPath string `toml:"settings_path"`
	DefaultURL   string `toml:"default_url"`
	LogLevel     string `toml:"log_level"`
	Watch        *bool  `toml:"watch"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.winsession/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".winsession", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) {
	s := newConfigSetter(changed)

	s.setString("data-dir", fc.DataDir, &cfg.DataDir)
	s.setString("backup-dir", fc.BackupDir, &cfg.BackupDir)
	s.setString("settings", fc.SettingsPath, &cfg.SettingsPath)
	s.setString("default-url", fc.DefaultURL, &cfg.DefaultURL)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setBool("watch", fc.Watch, &cfg.Watch)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
