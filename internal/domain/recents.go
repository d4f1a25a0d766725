package domain

// MaxRecentEntries caps each recents list.
const MaxRecentEntries = 500

// RecentFile is one entry of the recently opened files list.
type RecentFile struct {
	Label  string `json:"label"`
	File   string `json:"file"`
	Window string `json:"window"`
}

// RecentFolder is one entry of the recently opened folders list.
type RecentFolder struct {
	Label  string `json:"label"`
	Folder string `json:"folder"`
	Window string `json:"window"`
}

// RecentlyOpened is persisted as the recents document.
// Both lists are logs: entries are appended, never de-duplicated.
type RecentlyOpened struct {
	Files   []RecentFile   `json:"files"`
	Folders []RecentFolder `json:"folders"`
}

// Clone returns a deep copy.
func (r RecentlyOpened) Clone() RecentlyOpened {
	return RecentlyOpened{
		Files:   append([]RecentFile(nil), r.Files...),
		Folders: append([]RecentFolder(nil), r.Folders...),
	}
}
