package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/winsession/internal/adapters/fs"
	"github.com/bft-labs/winsession/internal/adapters/metrics"
	"github.com/bft-labs/winsession/internal/domain"
)

func folderState(folder string, focus time.Time) domain.WindowState {
	st := domain.NewWindowState()
	st.Folder = folder
	st.Configuration.Folder = folder
	st.LastFocusTime = focus
	return st
}

func TestWindowStateCache_RemoveUnknownFails(t *testing.T) {
	c := NewWindowStateCache(&memStore{})

	err := c.Remove("windows_42")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrWindowStateNotFound))
	assert.Equal(t, domain.KindWindowStateNotFound, domain.KindOf(err))
}

func TestWindowStateCache_SetGetRemove(t *testing.T) {
	store := &memStore{}
	c := NewWindowStateCache(store)

	st := folderState("/proj", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, c.Set("w1", st))
	require.NoError(t, c.HandleFocused("w1", true, st.LastFocusTime))

	got, ok := c.Get("w1")
	require.True(t, ok)
	assert.Equal(t, "/proj", got.Folder)

	last, ok := c.Snapshot().LastActive()
	require.True(t, ok)
	assert.Equal(t, "w1", last)

	require.NoError(t, c.Remove("w1"))
	assert.False(t, c.Has("w1"))
	assert.Nil(t, c.Snapshot().LastActiveWindow)
}

func TestWindowStateCache_NoOpSaveSkipsWrite(t *testing.T) {
	store := &memStore{}
	c := NewWindowStateCache(store)

	st := folderState("/proj", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, c.Set("w1", st))
	assert.Equal(t, 1, store.Writes())

	require.NoError(t, c.Set("w1", st))
	assert.Equal(t, 1, store.Writes())

	require.NoError(t, c.Flush())
	assert.Equal(t, 1, store.Writes())
}

func TestWindowStateCache_SetManySkipsUnchanged(t *testing.T) {
	store := &memStore{}
	c := NewWindowStateCache(store)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, c.SetMany(map[string]domain.WindowState{
		"a": folderState("/a", at),
		"b": folderState("/b", at),
	}))
	assert.Equal(t, 1, store.Writes())

	require.NoError(t, c.SetMany(map[string]domain.WindowState{
		"a": folderState("/a", at),
		"b": folderState("/b", at),
	}))
	assert.Equal(t, 1, store.Writes())

	require.NoError(t, c.SetMany(map[string]domain.WindowState{
		"a": folderState("/a", at),
		"b": folderState("/b2", at),
	}))
	assert.Equal(t, 2, store.Writes())

	got, _ := c.Get("b")
	assert.Equal(t, "/b2", got.Folder)
}

func TestWindowStateCache_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)

	c := NewWindowStateCache(fs.NewDocumentFile(dir, fs.WindowStateFileName))
	require.NoError(t, c.Set("w1", folderState("/proj", at)))
	require.NoError(t, c.Update("w2", func(st *domain.WindowState) {
		st.BackupPath = "/backups/1"
		st.Mode = domain.ModeMaximized
		st.Configuration.FilesToOpenOrCreate = []string{"/tmp/a.txt"}
		st.Configuration.Maximized = true
	}))
	require.NoError(t, c.HandleFocused("w1", true, at))
	require.NoError(t, c.MarkRestarted(true))
	require.NoError(t, c.Close())

	reopened := NewWindowStateCache(fs.NewDocumentFile(dir, fs.WindowStateFileName))
	assert.Equal(t, c.Snapshot(), reopened.Snapshot())
}

func TestWindowStateCache_CorruptDocumentStartsEmpty(t *testing.T) {
	c := NewWindowStateCache(&memStore{data: []byte("{not json")})
	s := c.Snapshot()
	assert.Empty(t, s.OpenedWindows)
	assert.NotNil(t, s.OpenedWindows)

	c = NewWindowStateCache(&memStore{loadErr: errDiskFull})
	assert.Empty(t, c.Snapshot().OpenedWindows)
}

func TestWindowStateCache_SaveFailureIsSwallowed(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewPrometheus(reg)
	require.NoError(t, err)

	store := &memStore{saveErr: errDiskFull}
	c := NewWindowStateCache(store, WithMetrics(m))

	require.NoError(t, c.Set("w1", domain.NewWindowState()))
	assert.True(t, c.Has("w1"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentSaves.WithLabelValues(docWindowState, "failed")))

	assert.ErrorIs(t, c.Flush(), errDiskFull)
	assert.ErrorIs(t, c.Close(), errDiskFull)
}

func TestWindowStateCache_LifecycleHooks(t *testing.T) {
	c := NewWindowStateCache(&memStore{})

	require.NoError(t, c.HandleCreated("w1"))
	st, _ := c.Get("w1")
	assert.Equal(t, domain.ReadyNavigating, st.ReadyState)

	require.NoError(t, c.HandleReady("w1"))
	st, _ = c.Get("w1")
	assert.Equal(t, domain.ReadyReady, st.ReadyState)

	// A late created event does not regress the ready state.
	require.NoError(t, c.HandleCreated("w1"))
	st, _ = c.Get("w1")
	assert.Equal(t, domain.ReadyReady, st.ReadyState)

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, c.HandleFocused("w1", true, at))
	st, _ = c.Get("w1")
	assert.Equal(t, at, st.LastFocusTime)
	assert.Equal(t, domain.ReadyReady, st.ReadyState)

	require.NoError(t, c.HandleFocused("w1", false, at.Add(time.Hour)))
	st, _ = c.Get("w1")
	assert.Equal(t, at, st.LastFocusTime)

	assert.ErrorIs(t, c.HandleFocused("nope", true, at), domain.ErrWindowStateNotFound)
	assert.ErrorIs(t, c.HandleReady("nope"), domain.ErrWindowStateNotFound)

	require.NoError(t, c.HandleDestroyed("w1"))
	assert.ErrorIs(t, c.HandleDestroyed("w1"), domain.ErrWindowStateNotFound)
}

func TestWindowStateCache_Retain(t *testing.T) {
	store := &memStore{}
	c := NewWindowStateCache(store)
	require.NoError(t, c.Set("keep", domain.NewWindowState()))
	require.NoError(t, c.Set("drop", domain.NewWindowState()))
	require.NoError(t, c.HandleFocused("drop", true, time.Now()))
	writes := store.Writes()

	require.NoError(t, c.Retain(func(id string) bool { return id == "keep" }))
	assert.True(t, c.Has("keep"))
	assert.False(t, c.Has("drop"))
	assert.Nil(t, c.Snapshot().LastActiveWindow)
	assert.Equal(t, writes+1, store.Writes())

	require.NoError(t, c.Retain(func(string) bool { return true }))
	assert.Equal(t, writes+1, store.Writes())
}

func TestWindowStateCache_PanicPoisonsGuard(t *testing.T) {
	c := NewWindowStateCache(&memStore{})

	err := c.Update("w1", func(*domain.WindowState) { panic("boom") })
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLockFailure)
	assert.True(t, c.Poisoned())

	assert.ErrorIs(t, c.Set("w2", domain.NewWindowState()), domain.ErrLockFailure)
	assert.ErrorIs(t, c.Remove("w1"), domain.ErrLockFailure)

	// Queries keep answering from the last good document.
	assert.False(t, c.Has("w1"))
}

func TestWindowStateCache_ConcurrentAccess(t *testing.T) {
	store := &memStore{}
	c := NewWindowStateCache(store)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("windows_%d", i)
			assert.NoError(t, c.HandleCreated(id))
			assert.NoError(t, c.HandleFocused(id, true, time.Now()))
			_ = c.Snapshot()
			_, _ = c.Get(id)
		}(i)
	}
	wg.Wait()

	assert.Len(t, c.Snapshot().OpenedWindows, 16)
	reopened := NewWindowStateCache(store)
	assert.Len(t, reopened.Snapshot().OpenedWindows, 16)
}
