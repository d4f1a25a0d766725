package winsession_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/winsession/internal/adapters/headless"
	"github.com/bft-labs/winsession/internal/domain"
	"github.com/bft-labs/winsession/pkg/winsession"
)

const waitFor = 2 * time.Second

func newSession(t *testing.T, dir string, opts ...winsession.Option) *winsession.Session {
	t.Helper()
	s, err := winsession.New(winsession.Config{DataDir: dir}, opts...)
	require.NoError(t, err)
	return s
}

func headlessHost(t *testing.T, s *winsession.Session) *headless.Host {
	t.Helper()
	h, ok := s.Host().(*headless.Host)
	require.True(t, ok, "default host should be headless")
	return h
}

type recordingHandler struct {
	mu      sync.Mutex
	changes []winsession.StateChangeEvent
	windows []winsession.WindowEvent
}

func (h *recordingHandler) OnStateChange(ev winsession.StateChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.changes = append(h.changes, ev)
}

func (h *recordingHandler) OnWindowEvent(ev winsession.WindowEvent, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.windows = append(h.windows, ev)
}

func (h *recordingHandler) Changes() []winsession.StateChangeEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]winsession.StateChangeEvent(nil), h.changes...)
}

func (h *recordingHandler) WindowEvents() []winsession.WindowEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]winsession.WindowEvent(nil), h.windows...)
}

type trackingPlugin struct {
	name      string
	order     *[]string
	mu        *sync.Mutex
	initErr   error
	gotConfig winsession.PluginConfig
}

func (p *trackingPlugin) Name() string { return p.name }

func (p *trackingPlugin) Initialize(_ context.Context, cfg winsession.PluginConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initErr != nil {
		return p.initErr
	}
	p.gotConfig = cfg
	*p.order = append(*p.order, "init:"+p.name)
	return nil
}

func (p *trackingPlugin) Shutdown(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	*p.order = append(*p.order, "shutdown:"+p.name)
	return nil
}

func TestNew_RequiresDataDir(t *testing.T) {
	_, err := winsession.New(winsession.Config{})
	assert.ErrorIs(t, err, winsession.ErrInvalidConfig)
}

func TestNew_RejectsInvalidSettings(t *testing.T) {
	bad := winsession.DefaultSettings()
	bad.RestoreWindows = "sometimes"
	_, err := winsession.New(winsession.Config{DataDir: t.TempDir()}, winsession.WithSettings(bad))
	assert.ErrorIs(t, err, winsession.ErrInvalidConfig)
}

func TestNew_LoadsSettingsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.toml"),
		[]byte("restore_windows = \"none\"\nzoom_level = 1.5\n"), 0o644))

	s := newSession(t, dir)
	assert.Equal(t, domain.RestoreNone, s.Settings().RestoreWindows)
	assert.Equal(t, 1.5, s.Settings().ZoomLevel)
	assert.Equal(t, domain.OpenInNewWindowDefault, s.Settings().OpenFilesInNewWindow)
}

func TestConfig_SetDefaults(t *testing.T) {
	cfg := winsession.Config{DataDir: "/data"}
	cfg.SetDefaults()

	assert.Equal(t, filepath.Join("/data", "Backups"), cfg.BackupDir)
	assert.Equal(t, filepath.Join("/data", "settings.toml"), cfg.SettingsPath)
	assert.Equal(t, "index.html", cfg.DefaultURL)
	assert.Equal(t, headless.DefaultEventBuffer, cfg.EventBuffer)
	assert.Positive(t, cfg.ShutdownTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestSession_Lifecycle(t *testing.T) {
	s := newSession(t, t.TempDir())
	ctx := context.Background()

	assert.Equal(t, winsession.StateStopped, s.Status())
	assert.ErrorIs(t, s.Stop(), winsession.ErrNotRunning)

	require.NoError(t, s.Start(ctx))
	assert.Equal(t, winsession.StateRunning, s.Status())
	assert.ErrorIs(t, s.Start(ctx), winsession.ErrAlreadyRunning)

	require.NoError(t, s.Stop())
	assert.Equal(t, winsession.StateStopped, s.Status())

	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Stop())
}

func TestSession_AppliesHostEvents(t *testing.T) {
	handler := &recordingHandler{}
	s := newSession(t, t.TempDir(), winsession.WithEventHandler(handler))
	host := headlessHost(t, s)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	id, err := s.OpenWindow(winsession.OpenConfiguration{
		URIsToOpen: []winsession.Openable{{Folder: "/proj"}},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		st, ok := s.WindowStates().OpenedWindows[id]
		return ok && st.ReadyState == domain.ReadyReady
	}, waitFor, 5*time.Millisecond)

	last, ok := s.WindowStates().LastActive()
	require.True(t, ok)
	assert.Equal(t, id, last)

	require.NoError(t, host.Resize(id, 800, 600))
	require.Eventually(t, func() bool {
		for _, e := range host.Emissions() {
			if e.Window == id && e.Event == domain.EventResize {
				return true
			}
		}
		return false
	}, waitFor, 5*time.Millisecond)

	require.NoError(t, host.Close(id))
	require.Eventually(t, func() bool {
		_, ok := s.WindowStates().OpenedWindows[id]
		return !ok
	}, waitFor, 5*time.Millisecond)

	kinds := map[domain.WindowEventKind]bool{}
	for _, ev := range handler.WindowEvents() {
		kinds[ev.Kind] = true
	}
	for _, k := range []domain.WindowEventKind{
		domain.WindowCreated, domain.WindowLoaded, domain.WindowFocused,
		domain.WindowResized, domain.WindowCloseRequested, domain.WindowDestroyed,
	} {
		assert.True(t, kinds[k], "missing %s event", k)
	}
}

func TestSession_StopDrainsQueuedEvents(t *testing.T) {
	s := newSession(t, t.TempDir())

	// Events queue up before the worker runs.
	id, err := s.OpenEmptyWindow(winsession.OpenConfiguration{}, winsession.WindowOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Stop())

	st, ok := s.WindowStates().OpenedWindows[id]
	require.True(t, ok)
	assert.Equal(t, domain.ReadyReady, st.ReadyState)
}

func TestSession_EventHandlerSeesTransitions(t *testing.T) {
	handler := &recordingHandler{}
	s := newSession(t, t.TempDir(), winsession.WithEventHandler(handler))

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop())

	var got [][2]winsession.State
	for _, c := range handler.Changes() {
		got = append(got, [2]winsession.State{c.Previous, c.Current})
	}
	assert.Equal(t, [][2]winsession.State{
		{winsession.StateStopped, winsession.StateStarting},
		{winsession.StateStarting, winsession.StateRunning},
		{winsession.StateRunning, winsession.StateStopping},
		{winsession.StateStopping, winsession.StateStopped},
	}, got)
}

func TestSession_PluginOrder(t *testing.T) {
	var (
		order []string
		mu    sync.Mutex
	)
	a := &trackingPlugin{name: "a", order: &order, mu: &mu}
	b := &trackingPlugin{name: "b", order: &order, mu: &mu}

	dir := t.TempDir()
	s := newSession(t, dir, winsession.WithPlugin(a), winsession.WithPlugin(b))
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop())

	assert.Equal(t, []string{"init:a", "init:b", "shutdown:b", "shutdown:a"}, order)
	assert.Equal(t, dir, a.gotConfig.DataDir)
	assert.Equal(t, filepath.Join(dir, "settings.toml"), a.gotConfig.SettingsPath)
	require.NotNil(t, a.gotConfig.Settings)
	assert.Equal(t, s.Settings(), a.gotConfig.Settings.Get())
}

func TestSession_PluginInitFailure(t *testing.T) {
	var (
		order []string
		mu    sync.Mutex
	)
	errBoom := errors.New("boom")
	a := &trackingPlugin{name: "a", order: &order, mu: &mu}
	b := &trackingPlugin{name: "b", order: &order, mu: &mu, initErr: errBoom}

	s := newSession(t, t.TempDir(), winsession.WithPlugin(a), winsession.WithPlugin(b))
	err := s.Start(context.Background())
	require.ErrorIs(t, err, errBoom)

	assert.Equal(t, winsession.StateCrashed, s.Status())
	assert.Equal(t, []string{"init:a", "shutdown:a"}, order)
}

func TestSession_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first := newSession(t, dir)
	require.NoError(t, first.Start(context.Background()))
	id, err := first.OpenWindow(winsession.OpenConfiguration{
		URIsToOpen:     []winsession.Openable{{Folder: "/proj"}},
		InitialStartup: true,
	})
	require.NoError(t, err)
	require.NoError(t, first.Stop())

	second := newSession(t, dir)
	_, ok := second.WindowStates().OpenedWindows[id]
	assert.True(t, ok)
	require.Len(t, second.Recents().Folders, 1)
	assert.Equal(t, "/proj", second.Recents().Folders[0].Folder)
	require.Len(t, second.Backups().Folders, 1)

	restored, err := second.OpenWindow(winsession.OpenConfiguration{InitialStartup: true})
	require.NoError(t, err)

	st, ok := second.WindowStates().OpenedWindows[restored]
	require.True(t, ok)
	assert.Equal(t, "/proj", st.Folder)
	assert.True(t, second.WindowStates().WasRestarted)
}

func TestSession_RecentsAndSettings(t *testing.T) {
	s := newSession(t, t.TempDir())

	_, err := s.OpenWindow(winsession.OpenConfiguration{
		URIsToOpen: []winsession.Openable{{File: "/notes.txt"}},
	})
	require.NoError(t, err)
	require.Len(t, s.Recents().Files, 1)

	require.NoError(t, s.ClearRecents())
	assert.Empty(t, s.Recents().Files)

	next := s.Settings()
	next.RestoreWindows = domain.RestoreOne
	require.NoError(t, s.UpdateSettings(next))
	assert.Equal(t, domain.RestoreOne, s.Settings().RestoreWindows)

	next.NewWindowDimensions = "huge"
	assert.Error(t, s.UpdateSettings(next))
	assert.Equal(t, domain.DimensionsDefault, s.Settings().NewWindowDimensions)
}

func TestSession_ReloadSettings(t *testing.T) {
	dir := t.TempDir()
	s := newSession(t, dir)
	assert.Equal(t, domain.RestoreAll, s.Settings().RestoreWindows)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.toml"),
		[]byte("restore_windows = \"folders\"\n"), 0o644))
	require.NoError(t, s.ReloadSettings())
	assert.Equal(t, domain.RestoreFolders, s.Settings().RestoreWindows)
}

func TestSession_MetricsRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := newSession(t, t.TempDir(), winsession.WithMetricsRegisterer(reg))

	_, err := s.OpenEmptyWindow(winsession.OpenConfiguration{}, winsession.WindowOptions{})
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["winsession_open_requests_total"])
	assert.True(t, names["winsession_windows_targeted_total"])

	// A second session cannot register the same collectors.
	_, err = winsession.New(winsession.Config{DataDir: t.TempDir()}, winsession.WithMetricsRegisterer(reg))
	assert.Error(t, err)
}
