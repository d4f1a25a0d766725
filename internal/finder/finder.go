// Package finder answers read-only questions about which window hosts what.
package finder

import (
	"path/filepath"
	"strings"

	"github.com/bft-labs/winsession/internal/domain"
)

// StateSource provides snapshots of the window-state aggregate.
type StateSource interface {
	Snapshot() domain.WindowsState
}

// Finder queries a snapshot of the window state taken per call.
type Finder struct {
	states StateSource
}

// New creates a Finder over states.
func New(states StateSource) *Finder {
	return &Finder{states: states}
}

// FolderWindow returns the window whose folder equals folder.
// Ties go to the smaller id.
func (f *Finder) FolderWindow(folder string) (string, bool) {
	if folder == "" {
		return "", false
	}
	folder = filepath.Clean(folder)

	var best string
	for id, st := range f.states.Snapshot().OpenedWindows {
		if st.Folder == "" || filepath.Clean(st.Folder) != folder {
			continue
		}
		if best == "" || id < best {
			best = id
		}
	}
	return best, best != ""
}

// FileWindow returns a window whose folder equals file or is an ancestor of
// it. The deepest folder wins, then the smaller id.
func (f *Finder) FileWindow(file string) (string, bool) {
	if file == "" {
		return "", false
	}
	file = filepath.Clean(file)

	var (
		best      string
		bestDepth = -1
	)
	for id, st := range f.states.Snapshot().OpenedWindows {
		if st.Folder == "" {
			continue
		}
		folder := filepath.Clean(st.Folder)
		if !Contains(folder, file) {
			continue
		}
		depth := len(folder)
		if depth > bestDepth || (depth == bestDepth && id < best) {
			best, bestDepth = id, depth
		}
	}
	return best, best != ""
}

// LastActiveWindow returns the window focused most recently.
// Ties go to the smaller id.
func (f *Finder) LastActiveWindow() (string, bool) {
	var (
		best   string
		bestSt domain.WindowState
	)
	for id, st := range f.states.Snapshot().OpenedWindows {
		switch {
		case best == "":
		case st.LastFocusTime.After(bestSt.LastFocusTime):
		case st.LastFocusTime.Equal(bestSt.LastFocusTime) && id < best:
		default:
			continue
		}
		best, bestSt = id, st
	}
	return best, best != ""
}

// FocusedWindow is always absent: the host does not report focus
// independently of the last-active window.
func (f *Finder) FocusedWindow() (string, bool) {
	return "", false
}

// IsSingleFolder reports whether window id hosts a folder.
func (f *Finder) IsSingleFolder(id string) (bool, error) {
	st, ok := f.states.Snapshot().OpenedWindows[id]
	if !ok {
		return false, domain.WindowStateNotFound("finder.is_single_folder", id)
	}
	return st.IsSingleFolder(), nil
}

// Contains reports whether path equals folder or lies beneath it, comparing
// whole path components. Both paths must be clean.
func Contains(folder, path string) bool {
	if path == folder {
		return true
	}
	prefix := folder
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}
