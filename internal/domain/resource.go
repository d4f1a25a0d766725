package domain

import (
	"fmt"
	"path/filepath"
)

// ResourceKind tags a ResourceToOpen as a file or a folder.
type ResourceKind int

const (
	ResourceFile ResourceKind = iota
	ResourceFolder
)

// String returns a human-readable representation of the kind.
func (k ResourceKind) String() string {
	switch k {
	case ResourceFile:
		return "file"
	case ResourceFolder:
		return "folder"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind as "file" or "folder".
func (k ResourceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes "file" or "folder".
func (k *ResourceKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "file", "":
		*k = ResourceFile
	case "folder":
		*k = ResourceFolder
	default:
		return fmt.Errorf("unknown resource kind %q", string(b))
	}
	return nil
}

// ResourceToOpen is a classified request to open a file or a folder.
// It is produced by the path classifier and consumed once by an open request.
type ResourceToOpen struct {
	Kind   ResourceKind `json:"kind"`
	Path   string       `json:"path"`
	Exists bool         `json:"exists"`

	// BackupPath is the crash-recovery staging location, if known.
	BackupPath string `json:"backup_path,omitempty"`

	// Window is the identifier of the window that owns the resource, if any.
	Window string `json:"window,omitempty"`

	// Label is the display name recorded in the recents history.
	Label string `json:"label,omitempty"`
}

// IsFolder reports whether the resource is a folder.
func (r ResourceToOpen) IsFolder() bool { return r.Kind == ResourceFolder }

// IsFile reports whether the resource is a file.
func (r ResourceToOpen) IsFile() bool { return r.Kind == ResourceFile }

// DisplayLabel returns Label, or the base name of Path when Label is empty.
func (r ResourceToOpen) DisplayLabel() string {
	if r.Label != "" {
		return r.Label
	}
	return filepath.Base(r.Path)
}

// Openable is a raw request entry: a folder or a file path.
// When both are set the folder wins.
type Openable struct {
	Folder string `json:"folder,omitempty"`
	File   string `json:"file,omitempty"`
}

// FilesToOpen holds the files an open request still has to route.
type FilesToOpen struct {
	FilesToOpenOrCreate []string `json:"files_to_open_or_create"`
}

// Empty reports whether no files remain.
func (f FilesToOpen) Empty() bool { return len(f.FilesToOpenOrCreate) == 0 }

// Clone returns a copy that does not share the backing array.
func (f FilesToOpen) Clone() FilesToOpen {
	if f.FilesToOpenOrCreate == nil {
		return FilesToOpen{}
	}
	return FilesToOpen{FilesToOpenOrCreate: append([]string(nil), f.FilesToOpenOrCreate...)}
}
