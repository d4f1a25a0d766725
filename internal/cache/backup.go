package cache

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/bft-labs/winsession/internal/domain"
	"github.com/bft-labs/winsession/internal/ports"
)

// BackupCache assigns crash-recovery staging paths to folders and to empty
// (untitled) windows.
type BackupCache struct {
	guard
	env  *envelope[domain.WindowsBackup]
	root string

	// next is the last minted empty-window id.
	next atomic.Uint64
}

// NewBackupCache loads the backup document from store. Staging paths are
// placed under root.
func NewBackupCache(store ports.DocumentStore, root string, opts ...Option) *BackupCache {
	env := loadEnvelope(docBackup, store, buildOptions(opts), func() domain.WindowsBackup {
		return domain.WindowsBackup{
			Folders:      []domain.FolderBackupInfo{},
			EmptyWindows: []domain.EmptyWindowBackupInfo{},
		}
	})
	if env.doc.Folders == nil {
		env.doc.Folders = []domain.FolderBackupInfo{}
	}
	if env.doc.EmptyWindows == nil {
		env.doc.EmptyWindows = []domain.EmptyWindowBackupInfo{}
	}

	c := &BackupCache{env: env, root: filepath.Clean(root)}

	// Minted ids must not collide with restored ones.
	var highest uint64
	for _, e := range env.doc.EmptyWindows {
		if n, err := strconv.ParseUint(e.BackupFolder, 10, 64); err == nil && n > highest {
			highest = n
		}
	}
	c.next.Store(highest)
	return c
}

// Root returns the staging root.
func (c *BackupCache) Root() string { return c.root }

// AddFolderBackup registers folder as owned by window and returns its staging
// path. A folder already registered keeps its entry.
func (c *BackupCache) AddFolderBackup(folder, window string) (string, error) {
	folder = filepath.Clean(folder)
	err := c.write("backup.add_folder", func() error {
		for _, info := range c.env.doc.Folders {
			if info.Folder == folder {
				return nil
			}
		}
		c.env.doc.Folders = append(c.env.doc.Folders, domain.FolderBackupInfo{
			Window: window,
			Folder: folder,
		})
		_ = c.env.save()
		return nil
	})
	if err != nil {
		return "", err
	}
	return filepath.Join(c.root, FolderHash(folder)), nil
}

// AddEmptyWindowBackup registers an untitled workspace as owned by window and
// returns its staging path. An empty candidate mints a fresh id.
func (c *BackupCache) AddEmptyWindowBackup(candidate, window string) (string, error) {
	id := candidate
	if id == "" {
		id = strconv.FormatUint(c.next.Add(1), 10)
	}

	err := c.write("backup.add_empty_window", func() error {
		for _, info := range c.env.doc.EmptyWindows {
			if info.BackupFolder == id {
				return nil
			}
		}
		c.env.doc.EmptyWindows = append(c.env.doc.EmptyWindows, domain.EmptyWindowBackupInfo{
			Window:       window,
			BackupFolder: id,
		})
		_ = c.env.save()
		return nil
	})
	if err != nil {
		return "", err
	}
	return c.BackupPathFor(id), nil
}

// ListEmptyWindowBackups returns the empty-window backups known to the cache.
func (c *BackupCache) ListEmptyWindowBackups() (out []domain.EmptyWindowBackupInfo) {
	c.read(func() {
		out = append([]domain.EmptyWindowBackupInfo(nil), c.env.doc.EmptyWindows...)
	})
	return out
}

// ListFolderBackups returns the folder backups known to the cache.
func (c *BackupCache) ListFolderBackups() (out []domain.FolderBackupInfo) {
	c.read(func() {
		out = append([]domain.FolderBackupInfo(nil), c.env.doc.Folders...)
	})
	return out
}

// Snapshot returns a deep copy of the backup document.
func (c *BackupCache) Snapshot() (b domain.WindowsBackup) {
	c.read(func() {
		b = c.env.doc.Clone()
	})
	return b
}

// BackupPathFor returns the staging path of an empty-window backup id.
// An absolute id is its own staging path.
func (c *BackupCache) BackupPathFor(id string) string {
	if filepath.IsAbs(id) {
		return filepath.Clean(id)
	}
	return filepath.Join(c.root, id)
}

// IDFor maps a staging path back to the id it was derived from.
// Paths outside the staging root are their own id.
func (c *BackupCache) IDFor(stagingPath string) string {
	rel, err := filepath.Rel(c.root, stagingPath)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") || strings.ContainsRune(rel, filepath.Separator) {
		return filepath.Clean(stagingPath)
	}
	return rel
}

// Flush writes the document if it changed since the last write.
func (c *BackupCache) Flush() error {
	return c.write("backup.flush", c.env.save)
}

// Close performs the final save and returns its error.
func (c *BackupCache) Close() error {
	return c.Flush()
}

// FolderHash returns the 16-hex-digit digest naming a folder's staging area.
func FolderHash(folder string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(filepath.Clean(folder)))
}
