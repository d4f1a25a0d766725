package settingswatcher

import "github.com/bft-labs/winsession/pkg/winsession"

// WithSettingsWatcher returns a winsession Option that reloads window settings
// whenever the settings file changes.
//
// Usage:
//
//	s, err := winsession.New(cfg,
//	    settingswatcher.WithSettingsWatcher(settingswatcher.Config{
//	        DebounceDelay: 100 * time.Millisecond,
//	    }),
//	)
func WithSettingsWatcher(cfg Config) winsession.Option {
	return winsession.WithPlugin(New(cfg))
}

// WithDefaultSettingsWatcher returns a winsession Option that enables settings
// watching with default settings (debounce 100ms).
func WithDefaultSettingsWatcher() winsession.Option {
	return WithSettingsWatcher(DefaultConfig())
}
