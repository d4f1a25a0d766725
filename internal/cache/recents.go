package cache

import (
	"github.com/bft-labs/winsession/internal/domain"
	"github.com/bft-labs/winsession/internal/ports"
)

// RecentsCache is the capped history of opened files and folders.
type RecentsCache struct {
	guard
	env *envelope[domain.RecentlyOpened]
}

// NewRecentsCache loads the recents document from store.
func NewRecentsCache(store ports.DocumentStore, opts ...Option) *RecentsCache {
	env := loadEnvelope(docRecents, store, buildOptions(opts), emptyRecents)
	if env.doc.Files == nil {
		env.doc.Files = []domain.RecentFile{}
	}
	if env.doc.Folders == nil {
		env.doc.Folders = []domain.RecentFolder{}
	}
	return &RecentsCache{env: env}
}

func emptyRecents() domain.RecentlyOpened {
	return domain.RecentlyOpened{
		Files:   []domain.RecentFile{},
		Folders: []domain.RecentFolder{},
	}
}

// AddRecents appends resources to the list matching their kind, keeps the
// newest MaxRecentEntries of each list, then persists.
func (c *RecentsCache) AddRecents(resources []domain.ResourceToOpen) error {
	return c.write("recents.add", func() error {
		for _, r := range resources {
			if r.IsFolder() {
				c.env.doc.Folders = append(c.env.doc.Folders, domain.RecentFolder{
					Label:  r.DisplayLabel(),
					Folder: r.Path,
					Window: r.Window,
				})
				continue
			}
			c.env.doc.Files = append(c.env.doc.Files, domain.RecentFile{
				Label:  r.DisplayLabel(),
				File:   r.Path,
				Window: r.Window,
			})
		}

		c.env.doc.Folders = keepNewest(c.env.doc.Folders, domain.MaxRecentEntries)
		c.env.doc.Files = keepNewest(c.env.doc.Files, domain.MaxRecentEntries)

		_ = c.env.save()
		return nil
	})
}

// Clear empties both lists, then persists.
func (c *RecentsCache) Clear() error {
	return c.write("recents.clear", func() error {
		c.env.doc = emptyRecents()
		_ = c.env.save()
		return nil
	})
}

// Snapshot returns a deep copy of the recents document.
func (c *RecentsCache) Snapshot() (r domain.RecentlyOpened) {
	c.read(func() {
		r = c.env.doc.Clone()
	})
	return r
}

// Flush writes the document if it changed since the last write.
func (c *RecentsCache) Flush() error {
	return c.write("recents.flush", c.env.save)
}

// Close performs the final save and returns its error.
func (c *RecentsCache) Close() error {
	return c.Flush()
}

func keepNewest[T any](list []T, n int) []T {
	if len(list) <= n {
		return list
	}
	return append(make([]T, 0, n), list[len(list)-n:]...)
}
