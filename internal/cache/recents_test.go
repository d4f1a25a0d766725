package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/winsession/internal/adapters/fs"
	"github.com/bft-labs/winsession/internal/domain"
)

func folderResource(path string) domain.ResourceToOpen {
	return domain.ResourceToOpen{Kind: domain.ResourceFolder, Path: path, Exists: true, Window: "windows_1"}
}

func TestRecentsCache_PartitionsByKind(t *testing.T) {
	c := NewRecentsCache(&memStore{})

	require.NoError(t, c.AddRecents([]domain.ResourceToOpen{
		folderResource("/proj"),
		{Kind: domain.ResourceFile, Path: "/proj/a.txt", Label: "A", Window: "windows_2"},
		folderResource("/proj"),
	}))

	r := c.Snapshot()
	require.Len(t, r.Folders, 2)
	require.Len(t, r.Files, 1)
	assert.Equal(t, domain.RecentFolder{Label: "proj", Folder: "/proj", Window: "windows_1"}, r.Folders[0])
	assert.Equal(t, domain.RecentFile{Label: "A", File: "/proj/a.txt", Window: "windows_2"}, r.Files[0])
}

func TestRecentsCache_KeepsNewestEntries(t *testing.T) {
	c := NewRecentsCache(&memStore{})

	const n = domain.MaxRecentEntries + 37
	for i := 0; i < n; i++ {
		require.NoError(t, c.AddRecents([]domain.ResourceToOpen{folderResource(fmt.Sprintf("/f%d", i))}))
	}

	folders := c.Snapshot().Folders
	require.Len(t, folders, domain.MaxRecentEntries)
	assert.Equal(t, fmt.Sprintf("/f%d", n-domain.MaxRecentEntries), folders[0].Folder)
	assert.Equal(t, fmt.Sprintf("/f%d", n-1), folders[len(folders)-1].Folder)
}

func TestRecentsCache_KeepsNewestWithinOneBatch(t *testing.T) {
	c := NewRecentsCache(&memStore{})

	batch := make([]domain.ResourceToOpen, 0, 600)
	for i := 0; i < 600; i++ {
		batch = append(batch, domain.ResourceToOpen{Kind: domain.ResourceFile, Path: fmt.Sprintf("/f%d", i)})
	}
	require.NoError(t, c.AddRecents(batch))

	files := c.Snapshot().Files
	require.Len(t, files, domain.MaxRecentEntries)
	assert.Equal(t, "/f100", files[0].File)
	assert.Equal(t, "/f599", files[499].File)
}

func TestRecentsCache_ClearAndRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := fs.NewDocumentFile(dir, fs.RecentsFileName)

	c := NewRecentsCache(store)
	require.NoError(t, c.AddRecents([]domain.ResourceToOpen{
		folderResource("/proj"),
		{Kind: domain.ResourceFile, Path: "/a.txt"},
	}))

	reopened := NewRecentsCache(store)
	assert.Equal(t, c.Snapshot(), reopened.Snapshot())

	require.NoError(t, reopened.Clear())
	assert.Empty(t, reopened.Snapshot().Files)
	assert.Empty(t, reopened.Snapshot().Folders)

	again := NewRecentsCache(store)
	assert.Empty(t, again.Snapshot().Folders)
}

func TestRecentsCache_ClearTwiceWritesOnce(t *testing.T) {
	store := &memStore{}
	c := NewRecentsCache(store)

	require.NoError(t, c.Clear())
	require.NoError(t, c.Clear())
	assert.Equal(t, 1, store.Writes())
}
