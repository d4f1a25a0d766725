package app

import (
	"sort"

	"github.com/bft-labs/winsession/internal/domain"
	"github.com/bft-labs/winsession/internal/ports"
	"github.com/bft-labs/winsession/internal/resource"
)

// plan is an open request broken down by what has to be opened.
type plan struct {
	folders        []domain.ResourceToOpen
	files          domain.FilesToOpen
	emptyToRestore []domain.EmptyWindowBackupInfo
	emptyToOpen    int
	foldersToAdd   []domain.ResourceToOpen
}

// pathsToOpen lists what a request opens. An entry with an empty Path is an
// untitled window; its BackupPath, when set, names the backup to restore.
func (s *Service) pathsToOpen(req *openRequest, settings domain.Settings) []domain.ResourceToOpen {
	var (
		paths    []domain.ResourceToOpen
		restored bool
	)

	switch {
	case req.cfg.ForceEmptyWindow:
	case len(req.cfg.URIsToOpen) > 0:
		paths = resource.ClassifyAll(req.cfg.URIsToOpen)
	default:
		paths = s.lastSessionPaths(settings)
		if len(paths) == 0 {
			paths = append(paths, domain.ResourceToOpen{})
		}
		restored = true
	}

	// Untitled windows with backups from the previous session come back on
	// startup even when the request named its own resources.
	if req.cfg.InitialStartup && !restored {
		for _, p := range s.lastSessionPaths(settings) {
			if p.Path == "" && p.BackupPath != "" {
				paths = append(paths, p)
			}
		}
	}

	if req.cfg.InitialStartup {
		s.pruneStaleWindows(req)
	}

	req.log.Debug("paths to open", ports.Int("count", len(paths)), ports.Bool("restored", restored))
	return paths
}

// lastSessionPaths lists the cached windows to restore, oldest focus first so
// the last active window opens last.
func (s *Service) lastSessionPaths(settings domain.Settings) []domain.ResourceToOpen {
	if settings.RestoreWindows == domain.RestoreNone {
		return nil
	}

	snap := s.states.Snapshot()

	var ids []string
	if settings.RestoreWindows == domain.RestoreOne {
		if id, ok := s.finder.LastActiveWindow(); ok {
			ids = append(ids, id)
		}
	} else {
		for id := range snap.OpenedWindows {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			a, b := snap.OpenedWindows[ids[i]], snap.OpenedWindows[ids[j]]
			if !a.LastFocusTime.Equal(b.LastFocusTime) {
				return a.LastFocusTime.Before(b.LastFocusTime)
			}
			return ids[i] < ids[j]
		})
	}

	paths := make([]domain.ResourceToOpen, 0, len(ids))
	for _, id := range ids {
		st, ok := snap.OpenedWindows[id]
		if !ok {
			continue
		}
		if st.Folder != "" {
			if r, ok := resource.ClassifyOpenable(domain.Openable{Folder: st.Folder}); ok {
				paths = append(paths, r)
			}
			continue
		}
		if settings.RestoreWindows != domain.RestoreFolders {
			paths = append(paths, domain.ResourceToOpen{BackupPath: st.BackupPath})
		}
	}
	return paths
}

// pruneStaleWindows drops cached windows the host does not know. It runs on
// initial startup, after the last session has been read.
func (s *Service) pruneStaleWindows(req *openRequest) {
	snap := s.states.Snapshot()
	if err := s.states.MarkRestarted(len(snap.OpenedWindows) > 0); err != nil {
		req.log.Warn("failed to mark restart", ports.Err(err))
	}

	var stale []string
	err := s.states.Retain(func(id string) bool {
		if s.host.Exists(id) {
			return true
		}
		stale = append(stale, id)
		return false
	})
	if err != nil {
		req.log.Warn("failed to prune stale windows", ports.Err(err))
		return
	}
	if len(stale) > 0 {
		req.log.Info("pruned stale windows", ports.Strings("windows", stale))
	}
}

// planFor partitions paths into folders, files and untitled windows.
func (s *Service) planFor(req *openRequest, paths []domain.ResourceToOpen) plan {
	var p plan
	for _, r := range paths {
		switch {
		case r.Path != "" && r.IsFolder():
			p.folders = append(p.folders, r)
		case r.Path != "":
			p.files.FilesToOpenOrCreate = append(p.files.FilesToOpenOrCreate, r.Path)
		case r.BackupPath != "":
			p.emptyToRestore = append(p.emptyToRestore, domain.EmptyWindowBackupInfo{
				BackupFolder: s.backups.IDFor(r.BackupPath),
			})
		default:
			p.emptyToOpen++
		}
	}

	// Restoring untitled windows from backups only happens once, on startup.
	if req.cfg.InitialStartup {
		p.emptyToRestore = append(p.emptyToRestore, s.backups.ListEmptyWindowBackups()...)
		p.emptyToRestore = dedupeBackups(p.emptyToRestore)
	} else {
		p.emptyToRestore = nil
	}

	for _, folder := range req.cfg.FoldersToAdd {
		if r, ok := resource.ClassifyOpenable(domain.Openable{Folder: folder}); ok {
			p.foldersToAdd = append(p.foldersToAdd, r)
		}
	}
	return p
}

func dedupeBackups(in []domain.EmptyWindowBackupInfo) []domain.EmptyWindowBackupInfo {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, info := range in {
		if _, ok := seen[info.BackupFolder]; ok {
			continue
		}
		seen[info.BackupFolder] = struct{}{}
		out = append(out, info)
	}
	return out
}
