// Package lifecycle tracks the run state of a session and the goroutines it
// owns.
//
// A session moves Stopped -> Starting -> Running -> Stopping -> Stopped.
// Workers started with Go are waited on during shutdown:
//
//	m := lifecycle.NewManager(logger, nil)
//	if err := m.TransitionTo(lifecycle.StateStarting, "start"); err != nil {
//	    return err
//	}
//	ctx, cancel := context.WithCancel(ctx)
//	m.SetCancel(cancel)
//	m.Go(func() { pump(ctx) })
//	_ = m.TransitionTo(lifecycle.StateRunning, "started")
//
//	// later
//	m.Cancel()
//	err := m.WaitWithTimeout(lifecycle.ShutdownTimeout)
//
// # State Machine
//
// Valid state transitions:
//   - Stopped -> Starting
//   - Starting -> Running, Stopping, Crashed
//   - Running -> Stopping, Crashed
//   - Stopping -> Stopped, Crashed
//   - Crashed -> Starting
package lifecycle
