package winsession

// EventHandler receives session notifications. Calls are synchronous from
// the goroutine that caused them; implementations should return quickly.
type EventHandler interface {
	// OnStateChange is called on every lifecycle transition.
	OnStateChange(event StateChangeEvent)

	// OnWindowEvent is called after a host lifecycle event was applied to
	// the window state. Err is the error the state update returned, if any.
	OnWindowEvent(event WindowEvent, err error)
}

// StateChangeEvent describes a lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// BaseEventHandler implements EventHandler with no-ops. Embed it to handle
// only some events.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent)   {}
func (BaseEventHandler) OnWindowEvent(WindowEvent, error) {}

// eventEmitterWrapper adapts EventHandler to the lifecycle emitter.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: previous,
		Current:  current,
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) OnWindowEvent(ev WindowEvent, err error) {
	if e.handler == nil {
		return
	}
	e.handler.OnWindowEvent(ev, err)
}
