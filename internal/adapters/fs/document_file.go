package fs

import (
	"os"
	"path/filepath"

	"github.com/bft-labs/winsession/internal/domain"
)

// Document file names under the data directory.
const (
	WindowStateFileName = "windows_state.json"
	BackupFileName      = "windows_backup.json"
	RecentsFileName     = "windows_recents.json"
)

// DocumentFile implements ports.DocumentStore using one file on disk.
type DocumentFile struct {
	dir  string
	name string
}

// NewDocumentFile creates a DocumentFile for dir/name.
func NewDocumentFile(dir, name string) *DocumentFile {
	return &DocumentFile{dir: dir, name: name}
}

// Load retrieves the last saved document from disk.
// Returns nil and a nil error if no document file exists.
func (f *DocumentFile) Load() ([]byte, error) {
	data, err := os.ReadFile(f.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, domain.IOError("fs.load", f.Path(), err)
	}
	return data, nil
}

// Save persists the document atomically.
// Uses atomic write (write to temp file, then rename) to prevent corruption.
func (f *DocumentFile) Save(data []byte) error {
	// Ensure directory exists
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return domain.IOError("fs.save", f.dir, err)
	}

	path := f.Path()
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return domain.IOError("fs.save", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return domain.IOError("fs.save", path, err)
	}
	return nil
}

// Path returns the full path to the document file.
func (f *DocumentFile) Path() string {
	return filepath.Join(f.dir, f.name)
}
