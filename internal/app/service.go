package app

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	adaptlog "github.com/bft-labs/winsession/internal/adapters/log"
	"github.com/bft-labs/winsession/internal/adapters/metrics"
	"github.com/bft-labs/winsession/internal/cache"
	"github.com/bft-labs/winsession/internal/domain"
	"github.com/bft-labs/winsession/internal/finder"
	"github.com/bft-labs/winsession/internal/policy"
	"github.com/bft-labs/winsession/internal/ports"
)

// DefaultURL is loaded into new windows when neither the request nor the
// service configuration names one.
const DefaultURL = "index.html"

// Request outcomes reported to metrics.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// ServiceConfig contains configuration for the open service.
type ServiceConfig struct {
	// DefaultURL is loaded into newly created windows.
	DefaultURL string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Service resolves open requests into windows.
type Service struct {
	config   ServiceConfig
	host     ports.WindowHost
	states   *cache.WindowStateCache
	backups  *cache.BackupCache
	recents  *cache.RecentsCache
	finder   *finder.Finder
	resolver *policy.Resolver
	logger   ports.Logger
	metrics  ports.Metrics

	// labels is the last window label number handed out.
	labels atomic.Uint64
}

// NewService creates a new open service with the given dependencies.
func NewService(
	config ServiceConfig,
	host ports.WindowHost,
	states *cache.WindowStateCache,
	backups *cache.BackupCache,
	recents *cache.RecentsCache,
	resolver *policy.Resolver,
	logger ports.Logger,
	m ports.Metrics,
) *Service {
	if config.DefaultURL == "" {
		config.DefaultURL = DefaultURL
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Service{
		config:   config,
		host:     host,
		states:   states,
		backups:  backups,
		recents:  recents,
		finder:   finder.New(states),
		resolver: resolver,
		logger:   adaptlog.OrNoop(logger),
		metrics:  metrics.OrNoop(m),
	}
}

// Finder returns the window finder over the service's state cache.
func (s *Service) Finder() *finder.Finder { return s.finder }

// OpenWindow opens the resources named by cfg, or restores the last session
// when cfg names none, and returns the window that ended up as the target.
func (s *Service) OpenWindow(cfg domain.OpenConfiguration) (string, error) {
	req := s.newRequest(cfg)
	settings := s.resolver.Settings()

	if !cfg.InitialStartup && !cfg.ForceEmptyWindow && len(cfg.URIsToOpen) == 0 &&
		settings.OpenWithoutArgumentsInNewWindow == domain.OpenInNewWindowOn &&
		(cfg.Context == domain.ContextCLI || cfg.Context == domain.ContextDock) {
		req.cfg.ForceEmptyWindow = true
		req.cfg.ForceNewWindow = true
	}

	paths := s.pathsToOpen(req, settings)
	p := s.planFor(req, paths)

	id, err := s.open(req, p)

	recents := make([]domain.ResourceToOpen, 0, len(paths))
	for _, r := range paths {
		if r.Path == "" {
			continue
		}
		if r.Window == "" {
			r.Window = id
		}
		recents = append(recents, r)
	}
	if len(recents) > 0 {
		if rerr := s.recents.AddRecents(recents); rerr != nil && err == nil {
			err = rerr
		}
	}

	return s.finish(req, id, err)
}

// OpenEmptyWindow opens one untitled window. It reuses the last active
// window only when opts forces reuse.
func (s *Service) OpenEmptyWindow(cfg domain.OpenConfiguration, opts domain.WindowOptions) (string, error) {
	cfg.ForceEmptyWindow = true
	cfg.ForceReuseWindow = opts.ForceReuseWindow
	cfg.ForceNewWindow = !opts.ForceReuseWindow
	if cfg.Label == "" {
		cfg.Label = opts.Label
	}
	if cfg.URL == "" {
		cfg.URL = opts.URL
	}

	req := s.newRequest(cfg)
	req.style = opts.Style
	id, err := s.open(req, plan{})
	return s.finish(req, id, err)
}

// OpenExistingWindow brings window id to the front.
func (s *Service) OpenExistingWindow(cfg domain.OpenConfiguration, id string) error {
	if !s.host.Exists(id) {
		return domain.WindowStateNotFound("open_existing_window", id)
	}
	if err := s.host.Focus(id); err != nil {
		return domain.WindowCreationFailed("open_existing_window", id, err)
	}
	s.logger.Debug("window focused", ports.String("window", id), ports.String("context", cfg.Context.String()))
	return nil
}

// LastActiveWindow returns the most recently focused live window.
func (s *Service) LastActiveWindow() (string, bool) {
	return s.liveWindow(s.finder.LastActiveWindow())
}

// FocusedWindow returns the focused window. It is never known.
func (s *Service) FocusedWindow() (string, bool) {
	return s.finder.FocusedWindow()
}

// openRequest carries the state of one open request.
type openRequest struct {
	cfg     domain.OpenConfiguration
	log     ports.Logger
	started time.Time
	style   domain.WindowStyle

	used   map[string]struct{}
	target string
}

func (s *Service) newRequest(cfg domain.OpenConfiguration) *openRequest {
	id := uuid.NewString()
	return &openRequest{
		cfg: cfg,
		log: ports.WithFields(s.logger,
			ports.String("request_id", id),
			ports.String("context", cfg.Context.String()),
		),
		started: s.config.Now(),
		used:    make(map[string]struct{}),
	}
}

// use records window id as acted upon and makes it the current target.
func (r *openRequest) use(id string) {
	r.used[id] = struct{}{}
	r.target = id
}

// takeLabel returns the requested label once; later windows get fresh labels.
func (r *openRequest) takeLabel() string {
	l := r.cfg.Label
	r.cfg.Label = ""
	return l
}

func (s *Service) finish(req *openRequest, id string, err error) (string, error) {
	d := s.config.Now().Sub(req.started)
	if err != nil {
		s.metrics.RequestCompleted(outcomeError, d)
		req.log.Error("open request failed", ports.Err(err), ports.Duration("duration", d))
		return "", err
	}
	s.metrics.RequestCompleted(outcomeOK, d)
	req.log.Info("open request completed",
		ports.String("window", id),
		ports.Int("windows_used", len(req.used)),
		ports.Duration("duration", d),
	)
	return id, nil
}

func (s *Service) liveWindow(id string, ok bool) (string, bool) {
	if !ok || !s.host.Exists(id) {
		return "", false
	}
	return id, true
}

func (s *Service) nextLabel() string {
	for {
		label := fmt.Sprintf("windows_%d", s.labels.Add(1))
		if !s.host.Exists(label) && !s.states.Has(label) {
			return label
		}
	}
}

func (s *Service) emit(req *openRequest, id, event string, payload any) error {
	if err := s.host.Emit(id, event, payload); err != nil {
		return fmt.Errorf("emit %s to %s: %w", event, id, err)
	}
	s.metrics.EventEmitted(event)
	req.log.Debug("event emitted", ports.String("window", id), ports.String("event", event))
	return nil
}
