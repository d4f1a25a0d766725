package ports

import "github.com/bft-labs/winsession/pkg/log"

// Logger is the structured logger used throughout the module.
type Logger = log.Logger

// Field is a key-value pair attached to a log message.
type Field = log.Field

// Field constructors, re-exported for internal packages.
var (
	String   = log.String
	Strings  = log.Strings
	Int      = log.Int
	Int64    = log.Int64
	Uint64   = log.Uint64
	Bool     = log.Bool
	Duration = log.Duration
	Time     = log.Time
	Err      = log.Err
	Any      = log.Any
)

// WithFields binds fields to every message logged through the result.
func WithFields(l Logger, fields ...Field) Logger {
	return log.WithFields(l, fields...)
}
