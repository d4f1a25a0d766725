package app

import (
	"errors"

	"github.com/bft-labs/winsession/internal/domain"
	"github.com/bft-labs/winsession/internal/ports"
)

// HandleWindowEvent applies one host lifecycle event to the window state.
// Events for windows the cache does not know are logged and ignored.
func (s *Service) HandleWindowEvent(ev domain.WindowEvent) error {
	var err error
	switch ev.Kind {
	case domain.WindowCreated:
		err = s.states.HandleCreated(ev.Window)
	case domain.WindowFocused:
		at := ev.At
		if at.IsZero() {
			at = s.config.Now()
		}
		err = s.states.HandleFocused(ev.Window, ev.Focused, at)
	case domain.WindowLoaded:
		err = s.states.HandleReady(ev.Window)
	case domain.WindowDestroyed:
		err = s.states.HandleDestroyed(ev.Window)
	case domain.WindowResized:
		err = s.host.Emit(ev.Window, domain.EventResize, domain.ResizePayload{Width: ev.Width, Height: ev.Height})
		if err == nil {
			s.metrics.EventEmitted(domain.EventResize)
		}
	case domain.WindowCloseRequested:
		err = s.states.Flush()
	default:
		s.logger.Debug("ignoring unknown window event", ports.String("window", ev.Window), ports.Int("kind", int(ev.Kind)))
		return nil
	}

	if errors.Is(err, domain.ErrWindowStateNotFound) {
		s.logger.Warn("window event for unknown window",
			ports.String("window", ev.Window),
			ports.String("kind", ev.Kind.String()),
		)
		return nil
	}
	if err != nil {
		s.logger.Error("failed to handle window event",
			ports.String("window", ev.Window),
			ports.String("kind", ev.Kind.String()),
			ports.Err(err),
		)
		return err
	}
	return nil
}
