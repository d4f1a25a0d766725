package domain

import (
	"fmt"
	"strings"
)

// OpenContext is the trigger that originated an open request.
type OpenContext int

const (
	// ContextDesktop: opening from the OS's UI. This is the default.
	ContextDesktop OpenContext = iota
	// ContextAPI: opening through the API.
	ContextAPI
	// ContextCLI: opening when running from the command line.
	ContextCLI
	// ContextDock: opening from the dock, including files handed to a running instance.
	ContextDock
	// ContextMenu: opening from the main application menu.
	ContextMenu
	// ContextDialog: opening from a file or folder dialog.
	ContextDialog
)

// String returns the lowercase name of the context.
func (c OpenContext) String() string {
	switch c {
	case ContextDesktop:
		return "desktop"
	case ContextAPI:
		return "api"
	case ContextCLI:
		return "cli"
	case ContextDock:
		return "dock"
	case ContextMenu:
		return "menu"
	case ContextDialog:
		return "dialog"
	default:
		return "unknown"
	}
}

// ParseOpenContext parses a context name, case-insensitively.
func ParseOpenContext(s string) (OpenContext, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desktop":
		return ContextDesktop, nil
	case "api":
		return ContextAPI, nil
	case "cli":
		return ContextCLI, nil
	case "dock":
		return ContextDock, nil
	case "menu":
		return ContextMenu, nil
	case "dialog":
		return ContextDialog, nil
	default:
		return ContextDesktop, fmt.Errorf("unknown open context %q", s)
	}
}

// MarshalText encodes the context by name.
func (c OpenContext) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a context name.
func (c *OpenContext) UnmarshalText(b []byte) error {
	v, err := ParseOpenContext(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// OpenConfiguration describes one open request.
type OpenConfiguration struct {
	// Label names the window to create, when a new one is built.
	Label string `json:"label,omitempty"`
	// URL is loaded into newly created windows.
	URL string `json:"url,omitempty"`

	URIsToOpen []Openable `json:"uris_to_open,omitempty"`
	// FoldersToAdd are added to the last active window instead of opening
	// windows of their own. Ignored on initial startup.
	FoldersToAdd []string `json:"folders_to_add,omitempty"`

	// ContextWindow is the window the request came from, if any.
	ContextWindow string      `json:"context_window,omitempty"`
	Context       OpenContext `json:"context"`

	ForceNewWindow       bool `json:"force_new_window"`
	ForceNewTabbedWindow bool `json:"force_new_tabbed_window"`
	ForceReuseWindow     bool `json:"force_reuse_window"`
	ForceEmptyWindow     bool `json:"force_empty_window"`
	PreferNewWindow      bool `json:"prefer_new_window"`
	InitialStartup       bool `json:"initial_startup"`
	DiffMode             bool `json:"diff_mode"`
}

// OpenOptions is the resolved new-window policy for one request.
type OpenOptions struct {
	OpenFolderInNewWindow bool
	OpenFilesInNewWindow  bool
}

// WindowOptions is the input of the "open in a window" primitive.
type WindowOptions struct {
	Label string
	URL   string
	Style WindowStyle

	InitialStartup       bool
	ForceNewWindow       bool
	ForceNewTabbedWindow bool
	ForceReuseWindow     bool

	// EmptyWindowBackup restores an untitled workspace from its backup.
	EmptyWindowBackup *EmptyWindowBackupInfo
	FilesToOpen       FilesToOpen
	// WindowToUse is reused instead of the last active window when set.
	WindowToUse string
	// Folder is the workspace folder the window will host.
	Folder string
}

// AddFoldersPayload is the payload of EventAddFolders.
type AddFoldersPayload struct {
	FoldersToAdd []ResourceToOpen `json:"folders_to_add"`
}

// OpenFilesPayload is the payload of EventOpenFiles.
type OpenFilesPayload struct {
	FilesToOpenOrCreate []string `json:"files_to_open_or_create"`
}

// OpenFolderPayload is the payload of EventOpenFolder.
type OpenFolderPayload struct {
	Folder     string `json:"folder"`
	BackupPath string `json:"backup_path,omitempty"`
}

// ResizePayload is the payload of EventResize.
type ResizePayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}
