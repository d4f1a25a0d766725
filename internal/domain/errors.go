package domain

import (
	"errors"
	"fmt"
)

// Session lifecycle errors.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running session.
	ErrAlreadyRunning = errors.New("winsession: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped session.
	ErrNotRunning = errors.New("winsession: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("winsession: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("winsession: invalid configuration")
)

// Kind classifies errors raised by the caches and the open algorithm.
type Kind int

const (
	KindUnknown Kind = iota
	// KindWindowStateNotFound: removal or query against an unknown window id.
	KindWindowStateNotFound
	// KindLockFailure: a cache guard is poisoned by an earlier failed mutation.
	KindLockFailure
	// KindIO: persistence read or write failure.
	KindIO
	// KindSerialization: document encode or decode failure.
	KindSerialization
	// KindWindowCreationFailed: the host refused or failed to create or focus a window.
	KindWindowCreationFailed
	// KindNoWindowCreated: an open request finished without targeting any window.
	KindNoWindowCreated
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindWindowStateNotFound:
		return "window state not found"
	case KindLockFailure:
		return "lock failure"
	case KindIO:
		return "io"
	case KindSerialization:
		return "serialization failure"
	case KindWindowCreationFailed:
		return "window creation failed"
	case KindNoWindowCreated:
		return "no window created"
	default:
		return "unknown"
	}
}

// Error is the error type returned by caches and the open algorithm.
type Error struct {
	Kind Kind
	// Op names the operation that failed, e.g. "windowstate.remove".
	Op string
	// ID is the window identifier or document name involved, if any.
	ID  string
	Err error
}

func (e *Error) Error() string {
	msg := "winsession: " + e.Kind.String()
	if e.Op != "" {
		msg = "winsession: " + e.Op + ": " + e.Kind.String()
	}
	if e.ID != "" {
		msg += fmt.Sprintf(" %q", e.ID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrWindowStateNotFound  = &Error{Kind: KindWindowStateNotFound}
	ErrLockFailure          = &Error{Kind: KindLockFailure}
	ErrIO                   = &Error{Kind: KindIO}
	ErrSerialization        = &Error{Kind: KindSerialization}
	ErrWindowCreationFailed = &Error{Kind: KindWindowCreationFailed}
	ErrNoWindowCreated      = &Error{Kind: KindNoWindowCreated}
)

// WindowStateNotFound reports an operation against an unknown window id.
func WindowStateNotFound(op, id string) error {
	return &Error{Kind: KindWindowStateNotFound, Op: op, ID: id}
}

// LockFailure reports a poisoned cache guard.
func LockFailure(op string, cause error) error {
	return &Error{Kind: KindLockFailure, Op: op, Err: cause}
}

// IOError reports a persistence read or write failure.
func IOError(op, path string, cause error) error {
	return &Error{Kind: KindIO, Op: op, ID: path, Err: cause}
}

// SerializationError reports a document encode or decode failure.
func SerializationError(op, doc string, cause error) error {
	return &Error{Kind: KindSerialization, Op: op, ID: doc, Err: cause}
}

// WindowCreationFailed reports a host failure to create or focus a window.
func WindowCreationFailed(op, id string, cause error) error {
	return &Error{Kind: KindWindowCreationFailed, Op: op, ID: id, Err: cause}
}

// NoWindowCreated reports an open request that targeted no window.
func NoWindowCreated(op string) error {
	return &Error{Kind: KindNoWindowCreated, Op: op}
}

// KindOf returns the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
