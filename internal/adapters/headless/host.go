// Package headless provides an in-memory WindowHost.
//
// The host keeps a table of live windows, records every event emitted toward
// them and delivers lifecycle events on a buffered channel, the way a real
// toolkit would from its own dispatch goroutine. It backs the CLI and tests.
package headless

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"

	adaptlog "github.com/bft-labs/winsession/internal/adapters/log"
	"github.com/bft-labs/winsession/internal/domain"
	"github.com/bft-labs/winsession/internal/ports"
)

// DefaultEventBuffer is the lifecycle queue capacity used when none is set.
const DefaultEventBuffer = 256

// Emission is one recorded event delivery.
type Emission struct {
	Window  string `json:"window"`
	Event   string `json:"event"`
	Payload []byte `json:"payload,omitempty"`
}

// Window describes a live window.
type Window struct {
	ID     string             `json:"id"`
	URL    string             `json:"url"`
	Style  domain.WindowStyle `json:"style"`
	Width  int                `json:"width"`
	Height int                `json:"height"`
}

// Host implements ports.WindowHost and ports.WindowEventSource in memory.
type Host struct {
	mu        sync.Mutex
	windows   map[string]*Window
	focused   string
	emissions []Emission

	events  chan domain.WindowEvent
	dropped atomic.Uint64

	logger ports.Logger
	now    func() time.Time
}

// Option configures a Host.
type Option func(*Host)

// WithEventBuffer sets the lifecycle queue capacity.
func WithEventBuffer(n int) Option {
	return func(h *Host) {
		if n > 0 {
			h.events = make(chan domain.WindowEvent, n)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l ports.Logger) Option {
	return func(h *Host) { h.logger = l }
}

// WithClock sets the time source stamped on lifecycle events.
func WithClock(now func() time.Time) Option {
	return func(h *Host) { h.now = now }
}

// New creates an empty host.
func New(opts ...Option) *Host {
	h := &Host{
		windows: make(map[string]*Window),
		events:  make(chan domain.WindowEvent, DefaultEventBuffer),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = adaptlog.OrNoop(h.logger)
	return h
}

// CreateWindow builds a window, then delivers Created, Loaded and Focused.
func (h *Host) CreateWindow(id, url string, style domain.WindowStyle) error {
	if id == "" {
		return fmt.Errorf("headless: empty window id")
	}

	h.mu.Lock()
	if _, ok := h.windows[id]; ok {
		h.mu.Unlock()
		return fmt.Errorf("headless: window %q already exists", id)
	}
	h.windows[id] = &Window{ID: id, URL: url, Style: style}
	h.mu.Unlock()

	h.deliver(domain.WindowEvent{Kind: domain.WindowCreated, Window: id})
	h.deliver(domain.WindowEvent{Kind: domain.WindowLoaded, Window: id})
	return h.Focus(id)
}

// Focus brings a window to the front.
// The previously focused window receives a focus-lost event.
func (h *Host) Focus(id string) error {
	h.mu.Lock()
	if _, ok := h.windows[id]; !ok {
		h.mu.Unlock()
		return fmt.Errorf("headless: window %q not found", id)
	}
	prev := h.focused
	h.focused = id
	h.mu.Unlock()

	if prev == id {
		return nil
	}
	if prev != "" && h.Exists(prev) {
		h.deliver(domain.WindowEvent{Kind: domain.WindowFocused, Window: prev, Focused: false})
	}
	h.deliver(domain.WindowEvent{Kind: domain.WindowFocused, Window: id, Focused: true})
	return nil
}

// Exists reports whether a live window with this id exists.
func (h *Host) Exists(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.windows[id]
	return ok
}

// Emit records an event delivered to one window.
func (h *Host) Emit(id, event string, payload any) error {
	data, err := encode(payload)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.windows[id]; !ok {
		return fmt.Errorf("headless: window %q not found", id)
	}
	h.emissions = append(h.emissions, Emission{Window: id, Event: event, Payload: data})
	return nil
}

// EmitAll records an event delivered to every live window, in id order.
func (h *Host) EmitAll(event string, payload any) error {
	data, err := encode(payload)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, id := range h.idsLocked() {
		h.emissions = append(h.emissions, Emission{Window: id, Event: event, Payload: data})
	}
	return nil
}

// Resize changes a window's size and delivers Resized.
func (h *Host) Resize(id string, width, height int) error {
	h.mu.Lock()
	w, ok := h.windows[id]
	if !ok {
		h.mu.Unlock()
		return fmt.Errorf("headless: window %q not found", id)
	}
	w.Width, w.Height = width, height
	h.mu.Unlock()

	h.deliver(domain.WindowEvent{Kind: domain.WindowResized, Window: id, Width: width, Height: height})
	return nil
}

// Close destroys a window, delivering CloseRequested then Destroyed.
func (h *Host) Close(id string) error {
	h.mu.Lock()
	if _, ok := h.windows[id]; !ok {
		h.mu.Unlock()
		return fmt.Errorf("headless: window %q not found", id)
	}
	h.mu.Unlock()

	h.deliver(domain.WindowEvent{Kind: domain.WindowCloseRequested, Window: id})

	h.mu.Lock()
	delete(h.windows, id)
	if h.focused == id {
		h.focused = ""
	}
	h.mu.Unlock()

	h.deliver(domain.WindowEvent{Kind: domain.WindowDestroyed, Window: id})
	return nil
}

// Events returns the lifecycle event stream.
func (h *Host) Events() <-chan domain.WindowEvent {
	return h.events
}

// Windows returns the live windows, in id order.
func (h *Host) Windows() []Window {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Window, 0, len(h.windows))
	for _, id := range h.idsLocked() {
		out = append(out, *h.windows[id])
	}
	return out
}

// Focused returns the focused window id, or "" when none is.
func (h *Host) Focused() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.focused
}

// Emissions returns a copy of every recorded event delivery.
func (h *Host) Emissions() []Emission {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Emission(nil), h.emissions...)
}

// Dropped returns the number of lifecycle events dropped on a full queue.
func (h *Host) Dropped() uint64 {
	return h.dropped.Load()
}

func (h *Host) idsLocked() []string {
	ids := make([]string, 0, len(h.windows))
	for id := range h.windows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (h *Host) deliver(ev domain.WindowEvent) {
	if ev.At.IsZero() {
		ev.At = h.now()
	}
	select {
	case h.events <- ev:
	default:
		h.dropped.Add(1)
		h.logger.Warn("lifecycle queue full, event dropped",
			ports.String("window", ev.Window),
			ports.String("kind", ev.Kind.String()),
		)
	}
}

func encode(payload any) ([]byte, error) {
	if payload == nil {
		return nil, nil
	}
	data, err := sonic.ConfigStd.Marshal(payload)
	if err != nil {
		return nil, domain.SerializationError("headless.emit", "payload", err)
	}
	return data, nil
}

var (
	_ ports.WindowHost        = (*Host)(nil)
	_ ports.WindowEventSource = (*Host)(nil)
)
