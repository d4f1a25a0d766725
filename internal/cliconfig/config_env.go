package cliconfig

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every environment variable read by the CLI.
const EnvPrefix = "WINSESSION"

// EnvConfig is the environment form of Config.
type EnvConfig struct {
	DataDir      string `envconfig:"DATA_DIR"`
	BackupDir    string `envconfig:"BACKUP_DIR"`
	SettingsPath string `envconfig:"SETTINGS"`
	DefaultURL   string `envconfig:"DEFAULT_URL"`
	LogLevel     string `envconfig:"LOG_LEVEL"`
	Watch        *bool  `envconfig:"WATCH"`
}

// ApplyEnvConfig applies configuration from environment variables (WINSESSION_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	var env EnvConfig
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	s := newConfigSetter(changed)
	s.setString("data-dir", env.DataDir, &cfg.DataDir)
	s.setString("backup-dir", env.BackupDir, &cfg.BackupDir)
	s.setString("settings", env.SettingsPath, &cfg.SettingsPath)
	s.setString("default-url", env.DefaultURL, &cfg.DefaultURL)
	s.setString("log-level", env.LogLevel, &cfg.LogLevel)
	s.setBool("watch", env.Watch, &cfg.Watch)
	return nil
}
