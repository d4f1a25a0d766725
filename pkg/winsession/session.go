package winsession

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bft-labs/winsession/internal/adapters/fs"
	"github.com/bft-labs/winsession/internal/adapters/headless"
	logAdapter "github.com/bft-labs/winsession/internal/adapters/log"
	"github.com/bft-labs/winsession/internal/adapters/metrics"
	"github.com/bft-labs/winsession/internal/app"
	"github.com/bft-labs/winsession/internal/cache"
	"github.com/bft-labs/winsession/internal/domain"
	"github.com/bft-labs/winsession/internal/policy"
	"github.com/bft-labs/winsession/internal/ports"
	"github.com/bft-labs/winsession/pkg/lifecycle"
)

// Session owns the caches of one application instance and resolves open
// requests against them. Use New() to create one, then Start() to apply host
// lifecycle events in the background.
type Session struct {
	config    Config
	lifecycle *lifecycle.DefaultManager
	emitter   *eventEmitterWrapper
	logger    ports.Logger
	host      Host
	settings  *policy.Store
	states    *cache.WindowStateCache
	backups   *cache.BackupCache
	recents   *cache.RecentsCache
	service   *app.Service
	plugins   []Plugin

	mu sync.Mutex
}

// New creates a Session with the given configuration. The caches are loaded
// from cfg.DataDir right away; a missing or unreadable document starts empty.
func New(cfg Config, opts ...Option) (*Session, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger := logAdapter.OrNoop(o.logger)

	m, err := metrics.NewPrometheus(o.registerer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	var settings domain.Settings
	if o.settings != nil {
		settings = *o.settings
	} else {
		settings, err = policy.LoadSettingsFile(cfg.SettingsPath)
		if err != nil {
			return nil, err
		}
	}
	store := policy.NewStore(domain.DefaultSettings())
	if err := store.Replace(settings); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	host := o.host
	if host == nil {
		host = headless.New(
			headless.WithEventBuffer(cfg.EventBuffer),
			headless.WithLogger(logger),
		)
	}

	cacheOpts := []cache.Option{cache.WithLogger(logger), cache.WithMetrics(m)}
	states := cache.NewWindowStateCache(fs.NewDocumentFile(cfg.DataDir, fs.WindowStateFileName), cacheOpts...)
	backups := cache.NewBackupCache(fs.NewDocumentFile(cfg.DataDir, fs.BackupFileName), cfg.BackupDir, cacheOpts...)
	recents := cache.NewRecentsCache(fs.NewDocumentFile(cfg.DataDir, fs.RecentsFileName), cacheOpts...)

	service := app.NewService(
		app.ServiceConfig{DefaultURL: cfg.DefaultURL},
		host, states, backups, recents,
		policy.NewResolver(store),
		logger, m,
	)

	emitter := &eventEmitterWrapper{handler: o.eventHandler}

	return &Session{
		config:    cfg,
		lifecycle: lifecycle.NewManager(logger, emitter),
		emitter:   emitter,
		logger:    logger,
		host:      host,
		settings:  store,
		states:    states,
		backups:   backups,
		recents:   recents,
		service:   service,
		plugins:   o.plugins,
	}, nil
}

// Start initializes plugins and starts applying host lifecycle events in the
// background. The provided context bounds the lifetime of both.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := s.lifecycle.TransitionTo(lifecycle.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.lifecycle.SetCancel(cancel)

	pluginCfg := PluginConfig{
		DataDir:      s.config.DataDir,
		SettingsPath: s.config.SettingsPath,
		Settings:     s.settings,
		Logger:       s.logger,
	}
	for i, p := range s.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			s.logger.Error("plugin initialization failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			cancel()
			s.shutdownPlugins(s.plugins[:i])
			_ = s.lifecycle.TransitionTo(lifecycle.StateCrashed, "plugin init failed: "+p.Name())
			return err
		}
		s.logger.Info("plugin initialized", ports.String("plugin", p.Name()))
	}

	s.lifecycle.Go(func() { s.pump(runCtx) })

	return s.lifecycle.TransitionTo(lifecycle.StateRunning, "event worker started")
}

// Stop stops the event worker, shuts plugins down and flushes every cache.
// Returns ErrShutdownTimeout if the worker did not finish in time.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lifecycle.CanStop() {
		return domain.ErrNotRunning
	}
	if err := s.lifecycle.TransitionTo(lifecycle.StateStopping, "Stop() called"); err != nil {
		return err
	}

	s.lifecycle.Cancel()
	err := s.lifecycle.WaitWithTimeout(s.config.ShutdownTimeout)
	if errors.Is(err, lifecycle.ErrShutdownTimeout) {
		err = domain.ErrShutdownTimeout
	}

	s.shutdownPlugins(s.plugins)

	if ferr := s.Close(); ferr != nil {
		s.logger.Error("failed to flush caches", ports.Err(ferr))
		if err == nil {
			err = ferr
		}
	}

	if err != nil {
		_ = s.lifecycle.TransitionTo(lifecycle.StateCrashed, err.Error())
	} else {
		_ = s.lifecycle.TransitionTo(lifecycle.StateStopped, "graceful shutdown")
	}
	return err
}

// Status returns the current lifecycle state.
func (s *Session) Status() State {
	return s.lifecycle.State()
}

// shutdownPlugins shuts plugins down in reverse order.
func (s *Session) shutdownPlugins(plugins []Plugin) {
	ctx := context.Background()
	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := p.Shutdown(ctx); err != nil {
			s.logger.Error("plugin shutdown failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			continue
		}
		s.logger.Info("plugin shutdown complete", ports.String("plugin", p.Name()))
	}
}

// pump applies host events until ctx is done, then drains what is queued.
func (s *Session) pump(ctx context.Context) {
	events := s.host.Events()
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case ev := <-events:
					s.dispatch(ev)
				default:
					return
				}
			}
		case ev := <-events:
			s.dispatch(ev)
		}
	}
}

func (s *Session) dispatch(ev WindowEvent) {
	_ = s.HandleWindowEvent(ev)
}

// HandleWindowEvent applies one host lifecycle event synchronously. Hosts
// that do not deliver events through Events call this instead.
func (s *Session) HandleWindowEvent(ev WindowEvent) error {
	err := s.service.HandleWindowEvent(ev)
	s.emitter.OnWindowEvent(ev, err)
	return err
}

// OpenWindow opens the resources named by cfg, or restores the last session
// when cfg names none. Returns the label of the window targeted last.
func (s *Session) OpenWindow(cfg OpenConfiguration) (string, error) {
	return s.service.OpenWindow(cfg)
}

// OpenEmptyWindow opens one untitled window.
func (s *Session) OpenEmptyWindow(cfg OpenConfiguration, opts WindowOptions) (string, error) {
	return s.service.OpenEmptyWindow(cfg, opts)
}

// OpenExistingWindow focuses the live window id.
func (s *Session) OpenExistingWindow(cfg OpenConfiguration, id string) error {
	return s.service.OpenExistingWindow(cfg, id)
}

// LastActiveWindow returns the most recently focused live window.
func (s *Session) LastActiveWindow() (string, bool) {
	return s.service.LastActiveWindow()
}

// FocusedWindow returns the focused window. It is not tracked and never known.
func (s *Session) FocusedWindow() (string, bool) {
	return s.service.FocusedWindow()
}

// WindowStates returns a copy of the cached window state.
func (s *Session) WindowStates() WindowsState {
	return s.states.Snapshot()
}

// Backups returns a copy of the registered backups.
func (s *Session) Backups() WindowsBackup {
	return s.backups.Snapshot()
}

// Recents returns a copy of the recently opened entries, newest last.
func (s *Session) Recents() RecentlyOpened {
	return s.recents.Snapshot()
}

// ClearRecents forgets every recently opened entry.
func (s *Session) ClearRecents() error {
	return s.recents.Clear()
}

// Settings returns the current window settings.
func (s *Session) Settings() Settings {
	return s.settings.Get()
}

// UpdateSettings validates and applies new window settings.
func (s *Session) UpdateSettings(next Settings) error {
	return s.settings.Replace(next)
}

// ReloadSettings re-reads the settings file.
func (s *Session) ReloadSettings() error {
	return s.settings.Reload(s.config.SettingsPath)
}

// Host returns the window host.
func (s *Session) Host() Host {
	return s.host
}

// Close flushes every cache to disk. The session stays usable.
func (s *Session) Close() error {
	return errors.Join(s.states.Close(), s.backups.Close(), s.recents.Close())
}
