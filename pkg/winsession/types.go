package winsession

import (
	"github.com/bft-labs/winsession/internal/domain"
	"github.com/bft-labs/winsession/internal/ports"
	"github.com/bft-labs/winsession/pkg/lifecycle"
	"github.com/bft-labs/winsession/pkg/log"
)

// Request and state types.
type (
	OpenConfiguration     = domain.OpenConfiguration
	OpenContext           = domain.OpenContext
	Openable              = domain.Openable
	WindowOptions         = domain.WindowOptions
	WindowStyle           = domain.WindowStyle
	WindowState           = domain.WindowState
	WindowsState          = domain.WindowsState
	WindowsBackup         = domain.WindowsBackup
	RecentlyOpened        = domain.RecentlyOpened
	Settings              = domain.Settings
	WindowEvent           = domain.WindowEvent
	EmptyWindowBackupInfo = domain.EmptyWindowBackupInfo
)

// Open contexts.
const (
	ContextAPI     = domain.ContextAPI
	ContextCLI     = domain.ContextCLI
	ContextDock    = domain.ContextDock
	ContextMenu    = domain.ContextMenu
	ContextDialog  = domain.ContextDialog
	ContextDesktop = domain.ContextDesktop
)

// Host builds the windows a session opens and reports their lifecycle.
type Host interface {
	ports.WindowHost
	ports.WindowEventSource
}

// Logger is the interface for structured logging.
type Logger = log.Logger

// LogField represents a structured log field.
type LogField = log.Field

// State is the lifecycle state of a Session.
type State = lifecycle.State

// Lifecycle states.
const (
	StateStopped  = lifecycle.StateStopped
	StateStarting = lifecycle.StateStarting
	StateRunning  = lifecycle.StateRunning
	StateStopping = lifecycle.StateStopping
	StateCrashed  = lifecycle.StateCrashed
)

// Errors returned by the session API. Check them with errors.Is.
var (
	ErrAlreadyRunning       = domain.ErrAlreadyRunning
	ErrNotRunning           = domain.ErrNotRunning
	ErrShutdownTimeout      = domain.ErrShutdownTimeout
	ErrInvalidConfig        = domain.ErrInvalidConfig
	ErrWindowStateNotFound  = domain.ErrWindowStateNotFound
	ErrLockFailure          = domain.ErrLockFailure
	ErrIO                   = domain.ErrIO
	ErrSerialization        = domain.ErrSerialization
	ErrWindowCreationFailed = domain.ErrWindowCreationFailed
	ErrNoWindowCreated      = domain.ErrNoWindowCreated
)

// DefaultSettings returns the default window settings.
func DefaultSettings() Settings { return domain.DefaultSettings() }

// ParseOpenContext parses a context name such as "cli" or "desktop".
func ParseOpenContext(s string) (OpenContext, error) { return domain.ParseOpenContext(s) }
