package cache

import (
	"bytes"
	"time"

	"github.com/bft-labs/winsession/internal/domain"
	"github.com/bft-labs/winsession/internal/ports"
)

// WindowStateCache maps window ids to their persisted state. It is the single
// source of truth for what is open where.
type WindowStateCache struct {
	guard
	env *envelope[domain.WindowsState]
}

// NewWindowStateCache loads the window-state document from store.
func NewWindowStateCache(store ports.DocumentStore, opts ...Option) *WindowStateCache {
	env := loadEnvelope(docWindowState, store, buildOptions(opts), domain.NewWindowsState)
	if env.doc.OpenedWindows == nil {
		env.doc.OpenedWindows = map[string]domain.WindowState{}
	}
	return &WindowStateCache{env: env}
}

// Get returns a copy of the state of window id.
func (c *WindowStateCache) Get(id string) (st domain.WindowState, ok bool) {
	c.read(func() {
		st, ok = c.env.doc.OpenedWindows[id]
		st = st.Clone()
	})
	return st, ok
}

// Has reports whether window id is cached.
func (c *WindowStateCache) Has(id string) (ok bool) {
	c.read(func() {
		_, ok = c.env.doc.OpenedWindows[id]
	})
	return ok
}

// Snapshot returns a deep copy of the whole aggregate.
func (c *WindowStateCache) Snapshot() (s domain.WindowsState) {
	c.read(func() {
		s = c.env.doc.Clone()
	})
	return s
}

// Set inserts or replaces the state of window id, then persists.
func (c *WindowStateCache) Set(id string, st domain.WindowState) error {
	return c.write("windowstate.set", func() error {
		c.env.doc.OpenedWindows[id] = st.Clone()
		_ = c.env.save()
		return nil
	})
}

// SetMany inserts or replaces several states at once. Entries whose encoding
// matches the stored value are skipped; when none changed nothing is written.
func (c *WindowStateCache) SetMany(states map[string]domain.WindowState) error {
	return c.write("windowstate.set_many", func() error {
		changed := false
		for id, st := range states {
			if cur, ok := c.env.doc.OpenedWindows[id]; ok && sameEncoding(cur, st) {
				continue
			}
			c.env.doc.OpenedWindows[id] = st.Clone()
			changed = true
		}
		if changed {
			_ = c.env.save()
		}
		return nil
	})
}

// Update applies fn to the state of window id, inserting a default state
// first when id is unknown, then persists.
func (c *WindowStateCache) Update(id string, fn func(*domain.WindowState)) error {
	return c.write("windowstate.update", func() error {
		st, ok := c.env.doc.OpenedWindows[id]
		if !ok {
			st = domain.NewWindowState()
		}
		fn(&st)
		c.env.doc.OpenedWindows[id] = st
		_ = c.env.save()
		return nil
	})
}

// Remove deletes window id. Pointers naming it are cleared.
// Removing an unknown id fails with WindowStateNotFound.
func (c *WindowStateCache) Remove(id string) error {
	return c.write("windowstate.remove", func() error {
		if _, ok := c.env.doc.OpenedWindows[id]; !ok {
			return domain.WindowStateNotFound("windowstate.remove", id)
		}
		c.removeLocked(id)
		_ = c.env.save()
		return nil
	})
}

// Retain drops every window for which keep returns false.
func (c *WindowStateCache) Retain(keep func(id string) bool) error {
	return c.write("windowstate.retain", func() error {
		changed := false
		for id := range c.env.doc.OpenedWindows {
			if !keep(id) {
				c.removeLocked(id)
				changed = true
			}
		}
		if changed {
			_ = c.env.save()
		}
		return nil
	})
}

// HandleCreated records a freshly created window. An existing state is kept.
func (c *WindowStateCache) HandleCreated(id string) error {
	return c.write("windowstate.created", func() error {
		st, ok := c.env.doc.OpenedWindows[id]
		if !ok {
			st = domain.NewWindowState()
		}
		st.AdvanceReady(domain.ReadyNavigating)
		c.env.doc.OpenedWindows[id] = st
		_ = c.env.save()
		return nil
	})
}

// HandleFocused records a focus change. Gaining focus stamps the window's
// focus time and makes it the last active window.
func (c *WindowStateCache) HandleFocused(id string, focused bool, at time.Time) error {
	return c.write("windowstate.focused", func() error {
		st, ok := c.env.doc.OpenedWindows[id]
		if !ok {
			return domain.WindowStateNotFound("windowstate.focused", id)
		}
		if !focused {
			return nil
		}
		if at.IsZero() {
			at = time.Now()
		}
		st.LastFocusTime = at.UTC()
		c.env.doc.OpenedWindows[id] = st
		last := id
		c.env.doc.LastActiveWindow = &last
		_ = c.env.save()
		return nil
	})
}

// HandleReady marks window id ready to handle delivered events.
func (c *WindowStateCache) HandleReady(id string) error {
	return c.write("windowstate.ready", func() error {
		st, ok := c.env.doc.OpenedWindows[id]
		if !ok {
			return domain.WindowStateNotFound("windowstate.ready", id)
		}
		if st.AdvanceReady(domain.ReadyReady) {
			c.env.doc.OpenedWindows[id] = st
			_ = c.env.save()
		}
		return nil
	})
}

// HandleDestroyed forgets a destroyed window.
func (c *WindowStateCache) HandleDestroyed(id string) error {
	return c.Remove(id)
}

// MarkRestarted sets the restart flag persisted with the aggregate.
func (c *WindowStateCache) MarkRestarted(restarted bool) error {
	return c.write("windowstate.restarted", func() error {
		c.env.doc.WasRestarted = restarted
		_ = c.env.save()
		return nil
	})
}

// Flush writes the document if it changed since the last write.
func (c *WindowStateCache) Flush() error {
	return c.write("windowstate.flush", c.env.save)
}

// Close performs the final save and returns its error.
func (c *WindowStateCache) Close() error {
	return c.Flush()
}

func (c *WindowStateCache) removeLocked(id string) {
	delete(c.env.doc.OpenedWindows, id)
	if p := c.env.doc.LastActiveWindow; p != nil && *p == id {
		c.env.doc.LastActiveWindow = nil
	}
	if p := c.env.doc.FocusedWindow; p != nil && *p == id {
		c.env.doc.FocusedWindow = nil
	}
}

func sameEncoding(a, b domain.WindowState) bool {
	ea, err := codec.Marshal(a)
	if err != nil {
		return false
	}
	eb, err := codec.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ea, eb)
}
