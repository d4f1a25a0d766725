package domain

import "time"

// Event names emitted toward windows.
const (
	EventNewWindow   = "windows://new_window"
	EventCloseWindow = "windows://close_window"
	EventOpenFile    = "windows://open_file"
	EventOpenFiles   = "windows://open_files"
	EventAddFolders  = "windows://add_folders"
	EventOpenFolder  = "windows://open_folder"
	EventCloseFile   = "windows://close_file"
	EventCloseFolder = "windows://close_folder"
	EventResize      = "windows://resize"
)

// WindowEventKind is the kind of a host lifecycle event.
type WindowEventKind int

const (
	WindowCreated WindowEventKind = iota
	WindowResized
	WindowFocused
	WindowCloseRequested
	WindowDestroyed
	// WindowLoaded is delivered once the window finished loading its page.
	WindowLoaded
)

// String returns a human-readable representation of the kind.
func (k WindowEventKind) String() string {
	switch k {
	case WindowCreated:
		return "created"
	case WindowResized:
		return "resized"
	case WindowFocused:
		return "focused"
	case WindowCloseRequested:
		return "close_requested"
	case WindowDestroyed:
		return "destroyed"
	case WindowLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// WindowEvent is one lifecycle event delivered by the host for a window.
type WindowEvent struct {
	Kind   WindowEventKind
	Window string
	// Focused is set for WindowFocused: true on focus gained, false on lost.
	Focused bool
	// Width and Height are set for WindowResized.
	Width  int
	Height int
	At     time.Time
}
