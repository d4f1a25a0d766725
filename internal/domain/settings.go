package domain

import "fmt"

// OpenInNewWindow is a tri-state preference: explicitly on, off, or the
// built-in default.
type OpenInNewWindow string

const (
	OpenInNewWindowDefault OpenInNewWindow = "default"
	OpenInNewWindowOn      OpenInNewWindow = "on"
	OpenInNewWindowOff     OpenInNewWindow = "off"
)

// Explicit reports whether the preference is On or Off.
func (o OpenInNewWindow) Explicit() bool {
	return o == OpenInNewWindowOn || o == OpenInNewWindowOff
}

// RestoreWindows selects which windows of the last session are restored.
type RestoreWindows string

const (
	RestorePreserve RestoreWindows = "preserve"
	RestoreAll      RestoreWindows = "all"
	RestoreFolders  RestoreWindows = "folders"
	RestoreOne      RestoreWindows = "one"
	RestoreNone     RestoreWindows = "none"
)

// NewWindowDimensions selects the size of newly created windows.
type NewWindowDimensions string

const (
	DimensionsDefault    NewWindowDimensions = "default"
	DimensionsInherit    NewWindowDimensions = "inherit"
	DimensionsOffset     NewWindowDimensions = "offset"
	DimensionsMaximized  NewWindowDimensions = "maximized"
	DimensionsFullscreen NewWindowDimensions = "fullscreen"
)

// Settings holds the user preferences consulted by open requests.
type Settings struct {
	OpenFilesInNewWindow            OpenInNewWindow     `toml:"open_files_in_new_window" json:"open_files_in_new_window"`
	OpenFoldersInNewWindow          OpenInNewWindow     `toml:"open_folders_in_new_window" json:"open_folders_in_new_window"`
	OpenWithoutArgumentsInNewWindow OpenInNewWindow     `toml:"open_without_arguments_in_new_window" json:"open_without_arguments_in_new_window"`
	RestoreWindows                  RestoreWindows      `toml:"restore_windows" json:"restore_windows"`
	NewWindowDimensions             NewWindowDimensions `toml:"new_window_dimensions" json:"new_window_dimensions"`
	ZoomLevel                       float64             `toml:"zoom_level" json:"zoom_level"`
}

// DefaultSettings returns Settings with default values.
func DefaultSettings() Settings {
	return Settings{
		OpenFilesInNewWindow:            OpenInNewWindowDefault,
		OpenFoldersInNewWindow:          OpenInNewWindowDefault,
		OpenWithoutArgumentsInNewWindow: OpenInNewWindowDefault,
		RestoreWindows:                  RestoreAll,
		NewWindowDimensions:             DimensionsDefault,
	}
}

// SetDefaults fills empty fields with their default values.
func (s *Settings) SetDefaults() {
	d := DefaultSettings()
	if s.OpenFilesInNewWindow == "" {
		s.OpenFilesInNewWindow = d.OpenFilesInNewWindow
	}
	if s.OpenFoldersInNewWindow == "" {
		s.OpenFoldersInNewWindow = d.OpenFoldersInNewWindow
	}
	if s.OpenWithoutArgumentsInNewWindow == "" {
		s.OpenWithoutArgumentsInNewWindow = d.OpenWithoutArgumentsInNewWindow
	}
	if s.RestoreWindows == "" {
		s.RestoreWindows = d.RestoreWindows
	}
	if s.NewWindowDimensions == "" {
		s.NewWindowDimensions = d.NewWindowDimensions
	}
}

// Validate checks that every enumerated field holds a known value.
func (s Settings) Validate() error {
	for name, v := range map[string]OpenInNewWindow{
		"open_files_in_new_window":             s.OpenFilesInNewWindow,
		"open_folders_in_new_window":           s.OpenFoldersInNewWindow,
		"open_without_arguments_in_new_window": s.OpenWithoutArgumentsInNewWindow,
	} {
		switch v {
		case OpenInNewWindowDefault, OpenInNewWindowOn, OpenInNewWindowOff:
		default:
			return fmt.Errorf("%s: unknown value %q", name, v)
		}
	}
	switch s.RestoreWindows {
	case RestorePreserve, RestoreAll, RestoreFolders, RestoreOne, RestoreNone:
	default:
		return fmt.Errorf("restore_windows: unknown value %q", s.RestoreWindows)
	}
	switch s.NewWindowDimensions {
	case DimensionsDefault, DimensionsInherit, DimensionsOffset, DimensionsMaximized, DimensionsFullscreen:
	default:
		return fmt.Errorf("new_window_dimensions: unknown value %q", s.NewWindowDimensions)
	}
	if s.ZoomLevel < -8 || s.ZoomLevel > 8 {
		return fmt.Errorf("zoom_level must be between -8 and 8")
	}
	return nil
}
