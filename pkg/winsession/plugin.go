package winsession

import "context"

// Plugin extends a Session with optional behavior.
type Plugin interface {
	// Name returns the plugin identifier used in logs.
	Name() string

	// Initialize is called by Session.Start. ctx is canceled on Stop.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown is called by Session.Stop, in reverse registration order.
	Shutdown(ctx context.Context) error
}

// SettingsUpdater gives plugins access to the live window settings.
type SettingsUpdater interface {
	// Get returns the current settings.
	Get() Settings

	// Reload replaces the current settings with the contents of a TOML file.
	Reload(path string) error
}

// PluginConfig is handed to plugins on initialization.
type PluginConfig struct {
	DataDir      string
	SettingsPath string
	Settings     SettingsUpdater
	Logger       Logger
}
