package winsession

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/bft-labs/winsession/internal/adapters/headless"
	"github.com/bft-labs/winsession/internal/app"
	"github.com/bft-labs/winsession/internal/domain"
	"github.com/bft-labs/winsession/pkg/lifecycle"
)

// Config holds the configuration of a Session.
type Config struct {
	// DataDir holds the window state, backup and recents documents. Required.
	DataDir string

	// BackupDir is the root of backup staging paths.
	// Default: DataDir/Backups
	BackupDir string

	// SettingsPath is the TOML file window settings are loaded from.
	// A missing file yields the default settings.
	// Default: DataDir/settings.toml
	SettingsPath string

	// DefaultURL is loaded into windows created without a URL.
	// Default: index.html
	DefaultURL string

	// EventBuffer is the capacity of the headless host's event queue.
	// Default: 256
	EventBuffer int

	// ShutdownTimeout bounds how long Stop waits for the event worker.
	// Default: 10 seconds
	ShutdownTimeout time.Duration
}

// SetDefaults fills empty fields with their default values.
func (c *Config) SetDefaults() {
	if c.BackupDir == "" && c.DataDir != "" {
		c.BackupDir = filepath.Join(c.DataDir, "Backups")
	}
	if c.SettingsPath == "" && c.DataDir != "" {
		c.SettingsPath = filepath.Join(c.DataDir, "settings.toml")
	}
	if c.DefaultURL == "" {
		c.DefaultURL = app.DefaultURL
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = headless.DefaultEventBuffer
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = lifecycle.ShutdownTimeout
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("%w: data dir is required", domain.ErrInvalidConfig)
	}
	if c.BackupDir == "" {
		return fmt.Errorf("%w: backup dir is required", domain.ErrInvalidConfig)
	}
	if c.EventBuffer <= 0 {
		return fmt.Errorf("%w: event buffer must be positive", domain.ErrInvalidConfig)
	}
	return nil
}
