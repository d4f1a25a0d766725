// Package winsession resolves open requests of a multi-window desktop
// application into concrete windows and keeps the session state that makes
// those decisions: per-window state, backup staging paths and recently opened
// entries.
//
// # Basic Usage
//
//	s, err := winsession.New(winsession.Config{DataDir: "/path/to/data"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := s.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Stop()
//
//	id, err := s.OpenWindow(winsession.OpenConfiguration{
//	    URIsToOpen:     []winsession.Openable{{Folder: "/src/project"}},
//	    InitialStartup: true,
//	})
//
// # Window Host
//
// Windows are created through a [Host]. Without [WithHost] a headless host is
// used; it records every window and event in memory. Host lifecycle events
// are applied to the window state by a background worker started by
// [Session.Start] and stopped by [Session.Stop].
//
// # Plugins
//
// Plugins are initialized in registration order on Start and shut down in
// reverse order on Stop:
//
//	import "github.com/bft-labs/winsession/plugins/settingswatcher"
//
//	s, err := winsession.New(cfg,
//	    settingswatcher.WithSettingsWatcher(settingswatcher.DefaultConfig()),
//	)
package winsession
