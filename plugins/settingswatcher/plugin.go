// Package settingswatcher reloads window settings when their file changes.
// It watches the directory holding the settings file so editors that save by
// renaming a temporary file are picked up too.
package settingswatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/winsession/pkg/log"
	"github.com/bft-labs/winsession/pkg/winsession"
)

// Plugin implements settings file watching.
type Plugin struct {
	mu sync.Mutex

	debounceDelay time.Duration
	onReload      func(winsession.Settings, error)

	path     string
	settings winsession.SettingsUpdater
	logger   winsession.Logger
	watcher  *fsnotify.Watcher
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// Config holds configuration options for the settings watcher plugin.
type Config struct {
	// DebounceDelay is the delay to wait after a file change before reloading.
	// Default: 100 milliseconds
	DebounceDelay time.Duration

	// OnReload, when set, is called after every reload attempt with the
	// settings now in effect and the reload error, if any.
	OnReload func(winsession.Settings, error)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 100 * time.Millisecond,
	}
}

// New creates a new settings watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	return &Plugin{
		debounceDelay: cfg.DebounceDelay,
		onReload:      cfg.OnReload,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "settingswatcher"
}

// Initialize starts watching cfg.SettingsPath.
func (p *Plugin) Initialize(ctx context.Context, cfg winsession.PluginConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logger = cfg.Logger
	if p.logger == nil {
		p.logger = log.NewNoopLogger()
	}
	if cfg.SettingsPath == "" || cfg.Settings == nil {
		p.logger.Warn("settings watcher disabled: no settings file configured")
		return nil
	}
	p.path = filepath.Clean(cfg.SettingsPath)
	p.settings = cfg.Settings

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	p.watcher = watcher

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.watchLoop(watchCtx)

	p.logger.Info("settings watcher started", log.String("path", p.path))
	return nil
}

// Shutdown stops the watcher and any pending reload.
func (p *Plugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	cancel := p.cancel
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
	return nil
}

func (p *Plugin) watchLoop(ctx context.Context) {
	defer p.wg.Done()
	defer p.watcher.Close()

	name := filepath.Base(p.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			p.debounceReload(ctx)

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("settings watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) debounceReload(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		p.reload()
	})
}

// reload applies the settings file. A file that fails to parse or validate
// leaves the current settings in place.
func (p *Plugin) reload() {
	err := p.settings.Reload(p.path)
	if err != nil {
		p.logger.Warn("settings reload failed, keeping current settings",
			log.String("path", p.path),
			log.Err(err))
	} else {
		p.logger.Info("settings reloaded", log.String("path", p.path))
	}
	if p.onReload != nil {
		p.onReload(p.settings.Get(), err)
	}
}

// Ensure Plugin implements winsession.Plugin.
var _ winsession.Plugin = (*Plugin)(nil)
