// Package resource classifies raw filesystem paths into resources to open.
package resource

import (
	"os"
	"path/filepath"

	"github.com/bft-labs/winsession/internal/domain"
)

// Classify stats path and returns the resource it names.
//
//   - missing or unreadable: File, not existing (a create intent)
//   - regular file: File
//   - directory: Folder
//   - anything else: File
//
// It never fails.
func Classify(path string) domain.ResourceToOpen {
	path = filepath.Clean(path)
	r := domain.ResourceToOpen{
		Kind:  domain.ResourceFile,
		Path:  path,
		Label: filepath.Base(path),
	}

	info, err := os.Stat(path)
	if err != nil {
		return r
	}

	r.Exists = true
	if info.IsDir() {
		r.Kind = domain.ResourceFolder
	}
	return r
}

// ClassifyOpenable classifies one request entry. The folder wins when both
// fields are set. A folder entry that does not exist on disk stays a
// folder. It returns false when the entry is empty.
func ClassifyOpenable(o domain.Openable) (domain.ResourceToOpen, bool) {
	switch {
	case o.Folder != "":
		r := Classify(o.Folder)
		if !r.Exists {
			r.Kind = domain.ResourceFolder
		}
		return r, true
	case o.File != "":
		return Classify(o.File), true
	default:
		return domain.ResourceToOpen{}, false
	}
}

// ClassifyAll classifies every non-empty entry, preserving order.
func ClassifyAll(openables []domain.Openable) []domain.ResourceToOpen {
	out := make([]domain.ResourceToOpen, 0, len(openables))
	for _, o := range openables {
		if r, ok := ClassifyOpenable(o); ok {
			out = append(out, r)
		}
	}
	return out
}
