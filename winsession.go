// Package winsession decides which window every open request of a
// multi-window desktop application lands in, and persists the session state
// behind those decisions.
//
// Example usage:
//
//	s, err := winsession.New(winsession.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := s.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Stop()
//	id, err := s.OpenWindow(winsession.OpenConfiguration{InitialStartup: true})
//
// The session types live in pkg/winsession; this package re-exports the
// entry points.
package winsession

import (
	"github.com/rs/zerolog"

	"github.com/bft-labs/winsession/internal/cliconfig"
	"github.com/bft-labs/winsession/pkg/winsession"
)

// Config holds the configuration of a Session.
type Config = winsession.Config

// Session resolves open requests into windows.
type Session = winsession.Session

// Option configures optional behavior of a Session.
type Option = winsession.Option

// OpenConfiguration describes one open request.
type OpenConfiguration = winsession.OpenConfiguration

// Openable is one folder or file named by an open request.
type Openable = winsession.Openable

// New creates a Session. See winsession.New in pkg/winsession.
func New(cfg Config, opts ...Option) (*Session, error) {
	return winsession.New(cfg, opts...)
}

// DefaultConfig returns a Config rooted at ~/.winsession.
func DefaultConfig() Config {
	return Config{DataDir: cliconfig.DefaultDataDir()}
}

// Logger returns a console zerolog logger on stderr at the given level.
func Logger(level string) zerolog.Logger {
	return cliconfig.Logger(level)
}
