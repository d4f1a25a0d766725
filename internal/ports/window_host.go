package ports

import "github.com/bft-labs/winsession/internal/domain"

// WindowHost is the host windowing toolkit that actually builds UI windows.
// Windows are addressed by their identifier (label).
type WindowHost interface {
	// CreateWindow builds a new window. Returns an error if the id is taken
	// or the toolkit refuses.
	CreateWindow(id, url string, style domain.WindowStyle) error

	// Focus brings an existing window to the front.
	Focus(id string) error

	// Exists reports whether a live window with this id exists.
	Exists(id string) bool

	// Emit delivers a named event to one window.
	Emit(id, event string, payload any) error

	// EmitAll delivers a named event to every window.
	EmitAll(event string, payload any) error
}

// WindowEventSource delivers window lifecycle events from the host's own
// dispatch goroutine.
type WindowEventSource interface {
	// Events returns the lifecycle event stream. The channel is never closed
	// while the host is alive.
	Events() <-chan domain.WindowEvent
}
