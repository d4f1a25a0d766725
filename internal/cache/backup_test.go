package cache

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/winsession/internal/adapters/fs"
	"github.com/bft-labs/winsession/internal/domain"
)

func TestBackupCache_AddFolderBackupIsIdempotent(t *testing.T) {
	store := &memStore{}
	c := NewBackupCache(store, "/backups")

	p1, err := c.AddFolderBackup("/proj", "windows_1")
	require.NoError(t, err)
	p2, err := c.AddFolderBackup("/proj/", "windows_2")
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, filepath.Join("/backups", FolderHash("/proj")), p1)
	assert.Len(t, FolderHash("/proj"), 16)
	assert.NotEqual(t, FolderHash("/proj"), FolderHash("/other"))

	folders := c.ListFolderBackups()
	require.Len(t, folders, 1)
	assert.Equal(t, domain.FolderBackupInfo{Window: "windows_1", Folder: "/proj"}, folders[0])
	assert.Equal(t, 1, store.Writes())
}

func TestBackupCache_AddEmptyWindowBackup(t *testing.T) {
	c := NewBackupCache(&memStore{}, "/backups")

	p1, err := c.AddEmptyWindowBackup("", "windows_1")
	require.NoError(t, err)
	p2, err := c.AddEmptyWindowBackup("", "windows_2")
	require.NoError(t, err)
	assert.Equal(t, "/backups/1", p1)
	assert.Equal(t, "/backups/2", p2)

	p3, err := c.AddEmptyWindowBackup("restored", "windows_3")
	require.NoError(t, err)
	p4, err := c.AddEmptyWindowBackup("restored", "windows_4")
	require.NoError(t, err)
	assert.Equal(t, p3, p4)
	assert.Equal(t, "/backups/restored", p3)

	abs, err := c.AddEmptyWindowBackup("/elsewhere/untitled", "windows_5")
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere/untitled", abs)

	list := c.ListEmptyWindowBackups()
	require.Len(t, list, 4)
	assert.Equal(t, "1", list[0].BackupFolder)
	assert.Equal(t, "restored", list[2].BackupFolder)
	assert.Equal(t, "windows_3", list[2].Window)
}

func TestBackupCache_CounterSeededFromDocument(t *testing.T) {
	dir := t.TempDir()
	store := fs.NewDocumentFile(dir, fs.BackupFileName)

	c := NewBackupCache(store, "/backups")
	for i := 0; i < 3; i++ {
		_, err := c.AddEmptyWindowBackup("", "w")
		require.NoError(t, err)
	}
	require.NoError(t, c.Close())

	reopened := NewBackupCache(store, "/backups")
	p, err := reopened.AddEmptyWindowBackup("", "w")
	require.NoError(t, err)
	assert.Equal(t, "/backups/4", p)
}

func TestBackupCache_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := fs.NewDocumentFile(dir, fs.BackupFileName)

	c := NewBackupCache(store, "/backups")
	_, err := c.AddFolderBackup("/a", "w1")
	require.NoError(t, err)
	_, err = c.AddFolderBackup("/b", "w2")
	require.NoError(t, err)
	_, err = c.AddEmptyWindowBackup("", "w3")
	require.NoError(t, err)

	reopened := NewBackupCache(store, "/backups")
	assert.Equal(t, c.Snapshot(), reopened.Snapshot())
}

func TestBackupCache_IDFor(t *testing.T) {
	c := NewBackupCache(&memStore{}, "/backups")

	tests := []struct {
		path string
		want string
	}{
		{"/backups/7", "7"},
		{"/backups/nested/7", "/backups/nested/7"},
		{"/elsewhere/x", "/elsewhere/x"},
		{"/backups", "/backups"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IDFor(tt.path))
		})
	}

	assert.Equal(t, "/backups/7", c.BackupPathFor(c.IDFor("/backups/7")))
}

func TestBackupCache_ConcurrentMintingIsUnique(t *testing.T) {
	c := NewBackupCache(&memStore{}, "/backups")

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		paths = map[string]bool{}
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := c.AddEmptyWindowBackup("", "w")
			assert.NoError(t, err)
			mu.Lock()
			paths[p] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, paths, 32)
	assert.Len(t, c.ListEmptyWindowBackups(), 32)
}
