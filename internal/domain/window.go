package domain

import (
	"fmt"
	"time"
)

// WindowMode is the screen mode of a window.
type WindowMode string

const (
	ModeNormal     WindowMode = "normal"
	ModeMaximized  WindowMode = "maximized"
	ModeMinimized  WindowMode = "minimized"
	ModeFullscreen WindowMode = "fullscreen"
)

// ReadyState gates when a window may start handling delivered events.
// It moves None -> Navigating -> Ready and never regresses.
type ReadyState int

const (
	ReadyNone ReadyState = iota
	ReadyNavigating
	ReadyReady
)

// String returns a human-readable representation of the ready state.
func (r ReadyState) String() string {
	switch r {
	case ReadyNone:
		return "none"
	case ReadyNavigating:
		return "navigating"
	case ReadyReady:
		return "ready"
	default:
		return "unknown"
	}
}

// MarshalText encodes the ready state by name.
func (r ReadyState) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a ready state name.
func (r *ReadyState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none", "":
		*r = ReadyNone
	case "navigating":
		*r = ReadyNavigating
	case "ready":
		*r = ReadyReady
	default:
		return fmt.Errorf("unknown ready state %q", string(b))
	}
	return nil
}

// WindowConfiguration is the snapshot a window was opened with.
type WindowConfiguration struct {
	Folder              string   `json:"folder,omitempty"`
	FilesToOpenOrCreate []string `json:"files_to_open_or_create,omitempty"`
	BackupPath          string   `json:"backup_path,omitempty"`
	FullScreen          bool     `json:"full_screen"`
	Maximized           bool     `json:"maximized"`
	IsInitialStartup    bool     `json:"is_initial_startup"`
	ZoomLevel           float64  `json:"zoom_level,omitempty"`
}

// WindowState is the persisted record of one window.
type WindowState struct {
	Configuration WindowConfiguration `json:"configuration"`
	Display       uint32              `json:"display"`
	Mode          WindowMode          `json:"mode"`
	LastFocusTime time.Time           `json:"last_focus_time"`
	ReadyState    ReadyState          `json:"ready_state"`
	BackupPath    string              `json:"backup_path,omitempty"`
	Folder        string              `json:"folder,omitempty"`
}

// NewWindowState returns the default state inserted for a freshly created window.
func NewWindowState() WindowState {
	return WindowState{Mode: ModeNormal}
}

// AdvanceReady moves the ready state forward to next.
// It returns false, leaving the state untouched, when next would regress it.
func (s *WindowState) AdvanceReady(next ReadyState) bool {
	if next <= s.ReadyState {
		return false
	}
	s.ReadyState = next
	return true
}

// IsSingleFolder reports whether the window hosts a folder.
func (s WindowState) IsSingleFolder() bool { return s.Folder != "" }

// Clone returns a deep copy.
func (s WindowState) Clone() WindowState {
	c := s
	if s.Configuration.FilesToOpenOrCreate != nil {
		c.Configuration.FilesToOpenOrCreate = append([]string(nil), s.Configuration.FilesToOpenOrCreate...)
	}
	return c
}

// WindowsState is the aggregate persisted as the window-state document.
type WindowsState struct {
	OpenedWindows    map[string]WindowState `json:"opened_windows"`
	LastActiveWindow *string                `json:"last_active_window,omitempty"`
	FocusedWindow    *string                `json:"focused_window,omitempty"`
	WasRestarted     bool                   `json:"was_restarted"`
}

// NewWindowsState returns an empty aggregate.
func NewWindowsState() WindowsState {
	return WindowsState{OpenedWindows: map[string]WindowState{}}
}

// LastActive returns the last-active pointer, treating a dangling id as absent.
func (w WindowsState) LastActive() (string, bool) {
	return w.resolve(w.LastActiveWindow)
}

// Focused returns the focused pointer, treating a dangling id as absent.
func (w WindowsState) Focused() (string, bool) {
	return w.resolve(w.FocusedWindow)
}

func (w WindowsState) resolve(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	if _, ok := w.OpenedWindows[*p]; !ok {
		return "", false
	}
	return *p, true
}

// Clone returns a deep copy.
func (w WindowsState) Clone() WindowsState {
	c := WindowsState{
		OpenedWindows: make(map[string]WindowState, len(w.OpenedWindows)),
		WasRestarted:  w.WasRestarted,
	}
	for id, s := range w.OpenedWindows {
		c.OpenedWindows[id] = s.Clone()
	}
	if w.LastActiveWindow != nil {
		v := *w.LastActiveWindow
		c.LastActiveWindow = &v
	}
	if w.FocusedWindow != nil {
		v := *w.FocusedWindow
		c.FocusedWindow = &v
	}
	return c
}

// WindowStyle carries the presentation options passed to the host when a
// window is built.
type WindowStyle struct {
	Title       string `json:"title,omitempty"`
	Fullscreen  bool   `json:"fullscreen"`
	Maximized   bool   `json:"maximized"`
	Resizable   bool   `json:"resizable"`
	Decorations bool   `json:"decorations"`
	Visible     bool   `json:"visible"`
	AlwaysOnTop bool   `json:"always_on_top"`
	SkipTaskbar bool   `json:"skip_taskbar"`
	Transparent bool   `json:"transparent"`
	Center      bool   `json:"center"`
}

// DefaultWindowStyle returns the style used when a request does not set one.
func DefaultWindowStyle() WindowStyle {
	return WindowStyle{
		Resizable:   true,
		Decorations: true,
		Visible:     true,
	}
}
