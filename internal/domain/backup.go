package domain

// FolderBackupInfo associates a folder with the window owning its staging area.
type FolderBackupInfo struct {
	Window string `json:"window"`
	Folder string `json:"folder"`
}

// EmptyWindowBackupInfo associates an untitled workspace with the window
// owning its staging area. BackupFolder is the id under the backup root,
// or an absolute staging path.
type EmptyWindowBackupInfo struct {
	Window       string `json:"window"`
	BackupFolder string `json:"backup_folder"`
}

// WindowsBackup is persisted as the backup document.
// At most one entry exists per distinct folder and per distinct backup folder.
type WindowsBackup struct {
	Folders      []FolderBackupInfo      `json:"folders"`
	EmptyWindows []EmptyWindowBackupInfo `json:"empty_windows"`
}

// Clone returns a deep copy.
func (b WindowsBackup) Clone() WindowsBackup {
	return WindowsBackup{
		Folders:      append([]FolderBackupInfo(nil), b.Folders...),
		EmptyWindows: append([]EmptyWindowBackupInfo(nil), b.EmptyWindows...),
	}
}
