// Package policy decides whether an open request prefers new windows.
package policy

import (
	"github.com/bft-labs/winsession/internal/domain"
)

// Resolve combines settings with one request. It is pure.
//
// Folders open in a new window when the request forces or prefers one and
// does not force reuse; an explicit open_folders_in_new_window overrides
// that unless the request forces either way. Files follow the force flags
// when one is set. Otherwise they open in a new window except from a dialog
// or the menu, and an explicit open_files_in_new_window overrides that.
func Resolve(settings domain.Settings, cfg domain.OpenConfiguration) domain.OpenOptions {
	forced := cfg.ForceNewWindow || cfg.ForceReuseWindow

	folder := (cfg.ForceNewWindow || cfg.PreferNewWindow) && !cfg.ForceReuseWindow
	if !forced && settings.OpenFoldersInNewWindow.Explicit() {
		folder = settings.OpenFoldersInNewWindow == domain.OpenInNewWindowOn
	}

	var files bool
	if forced {
		files = cfg.ForceNewWindow && !cfg.ForceReuseWindow
	} else {
		files = cfg.Context != domain.ContextDialog && cfg.Context != domain.ContextMenu
		if settings.OpenFilesInNewWindow.Explicit() {
			files = settings.OpenFilesInNewWindow == domain.OpenInNewWindowOn
		}
	}

	return domain.OpenOptions{
		OpenFolderInNewWindow: folder,
		OpenFilesInNewWindow:  files,
	}
}

// Resolver resolves requests against the current settings of a Store.
type Resolver struct {
	store *Store
}

// NewResolver creates a Resolver reading store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve applies the current settings to cfg.
func (r *Resolver) Resolve(cfg domain.OpenConfiguration) domain.OpenOptions {
	return Resolve(r.store.Get(), cfg)
}

// Settings returns the current settings.
func (r *Resolver) Settings() domain.Settings {
	return r.store.Get()
}
