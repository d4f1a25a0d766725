// Package domain contains the core entities and value objects for winsession.
//
// This package is the innermost layer of the architecture. It has no
// dependencies on infrastructure concerns (file system, logging, the host
// windowing toolkit) and holds only data shapes and their invariants.
//
// # Entities
//
//   - [ResourceToOpen]: a classified file or folder request
//   - [WindowState]: the persisted record of one open window
//   - [WindowsState]: the aggregate persisted as the window-state document
//   - [WindowsBackup]: folder and empty-window backup associations
//   - [RecentlyOpened]: the capped history of opened files and folders
//
// # Requests
//
// [OpenConfiguration] describes one open request; [WindowOptions] is the
// input of the "open in a window" primitive. [Settings] holds the user
// preferences that shape both.
//
// # Errors
//
// Errors returned by the caches and the open algorithm are [*Error] values
// carrying a [Kind]. Use errors.Is with the exported sentinels
// ([ErrWindowStateNotFound], [ErrLockFailure], ...) to classify them.
package domain
