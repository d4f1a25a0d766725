package log

import (
	"github.com/rs/zerolog"

	"github.com/bft-labs/winsession/internal/ports"
	pkglog "github.com/bft-labs/winsession/pkg/log"
)

// NewZerologAdapterWithLogger adapts an existing zerolog.Logger to ports.Logger.
func NewZerologAdapterWithLogger(logger zerolog.Logger) ports.Logger {
	return pkglog.NewZerologAdapterWithLogger(logger)
}
