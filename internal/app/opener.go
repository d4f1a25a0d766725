package app

import (
	"path/filepath"

	"github.com/bft-labs/winsession/internal/domain"
	"github.com/bft-labs/winsession/internal/ports"
	"github.com/bft-labs/winsession/internal/resource"
)

// open runs one request to completion and returns the window it targeted
// last. Each window acted upon is recorded so no step targets it twice.
func (s *Service) open(req *openRequest, p plan) (string, error) {
	cfg := req.cfg
	opts := s.resolver.Resolve(cfg)
	folderInNewWindow := opts.OpenFolderInNewWindow
	files := p.files.Clone()
	folders := p.folders

	req.log.Debug("resolved open options",
		ports.Bool("folder_in_new_window", opts.OpenFolderInNewWindow),
		ports.Bool("files_in_new_window", opts.OpenFilesInNewWindow),
		ports.Int("folders", len(folders)),
		ports.Int("files", len(files.FilesToOpenOrCreate)),
		ports.Int("empty_to_restore", len(p.emptyToRestore)),
		ports.Int("empty_to_open", p.emptyToOpen),
	)

	// Folders to add go to the last active window, never on startup.
	if !cfg.InitialStartup && len(p.foldersToAdd) > 0 {
		if id, ok := s.LastActiveWindow(); ok {
			if err := s.focus(id); err != nil {
				return "", err
			}
			if err := s.emit(req, id, domain.EventAddFolders, domain.AddFoldersPayload{FoldersToAdd: p.foldersToAdd}); err != nil {
				return "", err
			}
			req.use(id)
		}
	}

	// Files with no folder or backup to open go to the window that fits best.
	if len(folders)+len(p.emptyToRestore) == 0 && !files.Empty() {
		file := files.FilesToOpenOrCreate[0]

		var (
			host  string
			found bool
		)
		if !cfg.ForceNewWindow && searchesFileWindows(cfg.Context) {
			host, found = s.liveWindow(s.finder.FileWindow(file))
		}
		if !found && !opts.OpenFilesInNewWindow {
			host, found = s.LastActiveWindow()
		}

		switch {
		case found:
			single, err := s.finder.IsSingleFolder(host)
			if err != nil {
				return "", err
			}
			if single {
				// The host window's folder is opened instead; the folder
				// step finds the window and routes the files to it.
				st, _ := s.states.Get(host)
				if r, ok := resource.ClassifyOpenable(domain.Openable{Folder: st.Folder}); ok {
					folders = append(folders, r)
				}
			} else {
				if err := s.openFilesInExistingWindow(req, host, files); err != nil {
					return "", err
				}
				req.use(host)
				files = domain.FilesToOpen{}
			}
		default:
			id, err := s.openInWindow(req, domain.WindowOptions{
				InitialStartup:       cfg.InitialStartup,
				FilesToOpen:          files.Clone(),
				ForceNewWindow:       true,
				ForceNewTabbedWindow: cfg.ForceNewTabbedWindow,
			})
			if err != nil {
				return "", err
			}
			req.use(id)
			files = domain.FilesToOpen{}
		}
	}

	// Folders: reuse windows already showing them, open the rest.
	if len(folders) > 0 {
		var existing []string
		for _, f := range folders {
			if id, ok := s.liveWindow(s.finder.FolderWindow(f.Path)); ok {
				existing = append(existing, id)
			}
		}

		if len(existing) > 0 {
			if err := s.openFilesInExistingWindow(req, existing[0], files); err != nil {
				return "", err
			}
			req.use(existing[0])
			files = domain.FilesToOpen{}
			folderInNewWindow = true
		}

		for _, f := range folders {
			if _, ok := s.liveWindow(s.finder.FolderWindow(f.Path)); ok {
				continue
			}
			id, err := s.openInWindow(req, domain.WindowOptions{
				Folder:               f.Path,
				InitialStartup:       cfg.InitialStartup,
				ForceNewWindow:       folderInNewWindow,
				ForceNewTabbedWindow: cfg.ForceNewTabbedWindow,
				FilesToOpen:          files.Clone(),
			})
			if err != nil {
				return "", err
			}
			req.use(id)
			files = domain.FilesToOpen{}
			folderInNewWindow = true
		}
	}

	// Untitled windows restored from their backups always get a window each.
	for i := range p.emptyToRestore {
		info := p.emptyToRestore[i]
		id, err := s.openInWindow(req, domain.WindowOptions{
			InitialStartup:       cfg.InitialStartup,
			ForceNewWindow:       true,
			ForceNewTabbedWindow: cfg.ForceNewTabbedWindow,
			FilesToOpen:          files.Clone(),
			EmptyWindowBackup:    &info,
			WindowToUse:          cfg.ContextWindow,
		})
		if err != nil {
			return "", err
		}
		req.use(id)
		files = domain.FilesToOpen{}
		folderInNewWindow = true
	}

	// Fall back to untitled windows when nothing was targeted or files remain.
	if len(req.used) == 0 || !files.Empty() {
		n := p.emptyToOpen
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			id, err := s.openInWindow(req, domain.WindowOptions{
				InitialStartup:       cfg.InitialStartup,
				ForceNewWindow:       folderInNewWindow,
				ForceNewTabbedWindow: cfg.ForceNewTabbedWindow,
				FilesToOpen:          files.Clone(),
				WindowToUse:          cfg.ContextWindow,
			})
			if err != nil {
				return "", err
			}
			req.use(id)
			files = domain.FilesToOpen{}
			folderInNewWindow = true
		}
	}

	if req.target == "" {
		return "", domain.NoWindowCreated("open")
	}
	return req.target, nil
}

// searchesFileWindows reports whether a request from ctx looks for a window
// already hosting the file's folder.
func searchesFileWindows(ctx domain.OpenContext) bool {
	return ctx == domain.ContextDesktop || ctx == domain.ContextCLI || ctx == domain.ContextDock
}

// openInWindow reuses a window unless forced new, or creates one, then
// registers the backup staging path of what the window now hosts.
func (s *Service) openInWindow(req *openRequest, opts domain.WindowOptions) (string, error) {
	settings := s.resolver.Settings()

	style := opts.Style
	if style == (domain.WindowStyle{}) {
		style = req.style
	}
	if style == (domain.WindowStyle{}) {
		style = domain.DefaultWindowStyle()
	}
	switch settings.NewWindowDimensions {
	case domain.DimensionsMaximized:
		style.Maximized = true
	case domain.DimensionsFullscreen:
		style.Fullscreen = true
	}

	folder := opts.Folder
	if folder != "" {
		folder = filepath.Clean(folder)
	}

	var (
		id     string
		reused bool
	)
	if !opts.ForceNewWindow && !opts.ForceNewTabbedWindow {
		if opts.WindowToUse != "" {
			if s.host.Exists(opts.WindowToUse) {
				id = opts.WindowToUse
			}
		} else if last, ok := s.LastActiveWindow(); ok {
			id = last
		}
		if id != "" {
			if err := s.focus(id); err != nil {
				return "", err
			}
			reused = true
		}
	}

	if id == "" {
		id = opts.Label
		if id == "" {
			id = req.takeLabel()
		}
		if id == "" {
			id = s.nextLabel()
		}
		url := opts.URL
		if url == "" {
			url = req.cfg.URL
		}
		if url == "" {
			url = s.config.DefaultURL
		}
		if err := s.host.CreateWindow(id, url, style); err != nil {
			return "", domain.WindowCreationFailed("open.create_window", id, err)
		}
	}

	var (
		backupPath string
		err        error
	)
	if folder != "" {
		backupPath, err = s.backups.AddFolderBackup(folder, id)
	} else {
		var candidate string
		if opts.EmptyWindowBackup != nil {
			candidate = opts.EmptyWindowBackup.BackupFolder
		}
		backupPath, err = s.backups.AddEmptyWindowBackup(candidate, id)
	}
	if err != nil {
		return "", err
	}

	now := s.config.Now().UTC()
	err = s.states.Update(id, func(st *domain.WindowState) {
		st.Configuration = domain.WindowConfiguration{
			Folder:              folder,
			FilesToOpenOrCreate: opts.FilesToOpen.Clone().FilesToOpenOrCreate,
			BackupPath:          backupPath,
			FullScreen:          style.Fullscreen,
			Maximized:           style.Maximized,
			IsInitialStartup:    opts.InitialStartup,
			ZoomLevel:           settings.ZoomLevel,
		}
		st.Folder = folder
		st.BackupPath = backupPath
		st.LastFocusTime = now
		if !reused {
			switch {
			case style.Fullscreen:
				st.Mode = domain.ModeFullscreen
			case style.Maximized:
				st.Mode = domain.ModeMaximized
			}
			st.AdvanceReady(domain.ReadyNavigating)
		}
	})
	if err != nil {
		return "", err
	}

	if reused {
		if folder != "" {
			if err := s.emit(req, id, domain.EventOpenFolder, domain.OpenFolderPayload{
				Folder:     folder,
				BackupPath: backupPath,
			}); err != nil {
				return "", err
			}
		}
		if !opts.FilesToOpen.Empty() {
			if err := s.emit(req, id, domain.EventOpenFiles, domain.OpenFilesPayload{
				FilesToOpenOrCreate: opts.FilesToOpen.Clone().FilesToOpenOrCreate,
			}); err != nil {
				return "", err
			}
		}
	}

	s.metrics.WindowTargeted(reused)
	req.log.Info("window targeted",
		ports.String("window", id),
		ports.Bool("reused", reused),
		ports.String("folder", folder),
		ports.String("backup_path", backupPath),
	)
	return id, nil
}

// openFilesInExistingWindow focuses window id and hands it the files.
func (s *Service) openFilesInExistingWindow(req *openRequest, id string, files domain.FilesToOpen) error {
	if err := s.focus(id); err != nil {
		return err
	}
	if files.Empty() {
		return nil
	}
	return s.emit(req, id, domain.EventOpenFiles, domain.OpenFilesPayload{
		FilesToOpenOrCreate: files.Clone().FilesToOpenOrCreate,
	})
}

func (s *Service) focus(id string) error {
	if err := s.host.Focus(id); err != nil {
		return domain.WindowCreationFailed("open.focus", id, err)
	}
	return nil
}
