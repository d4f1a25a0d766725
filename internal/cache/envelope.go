// Package cache holds the three disk-backed caches consulted by open
// requests: window state, crash-recovery backups and recently opened.
//
// Each cache owns one reader/writer lock guarding its in-memory document and
// the bytes it last wrote. Queries take the read lock. Mutations hold the
// write lock across the whole read-modify-persist sequence.
package cache

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"

	adaptlog "github.com/bft-labs/winsession/internal/adapters/log"
	"github.com/bft-labs/winsession/internal/adapters/metrics"
	"github.com/bft-labs/winsession/internal/domain"
	"github.com/bft-labs/winsession/internal/ports"
)

// Document names, used in logs and metrics.
const (
	docWindowState = "windows_state"
	docBackup      = "windows_backup"
	docRecents     = "windows_recents"
)

// codec sorts map keys so equal documents always encode to equal bytes.
var codec = sonic.ConfigStd

var errPoisoned = errors.New("guard poisoned by an earlier failed mutation")

// Option configures a cache.
type Option func(*options)

type options struct {
	logger  ports.Logger
	metrics ports.Metrics
}

// WithLogger sets the logger.
func WithLogger(l ports.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m ports.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = adaptlog.OrNoop(o.logger)
	o.metrics = metrics.OrNoop(o.metrics)
	return o
}

// envelope pairs a document with its store and the bytes last written.
// Callers hold the owning cache's lock.
type envelope[T any] struct {
	name    string
	store   ports.DocumentStore
	logger  ports.Logger
	metrics ports.Metrics

	lastSaved []byte
	doc       T
}

// loadEnvelope reads the document once. A missing, unreadable or corrupt
// document yields fresh().
func loadEnvelope[T any](name string, store ports.DocumentStore, o options, fresh func() T) *envelope[T] {
	e := &envelope[T]{
		name:    name,
		store:   store,
		logger:  o.logger,
		metrics: o.metrics,
		doc:     fresh(),
	}

	data, err := store.Load()
	if err != nil {
		e.logger.Warn("document unreadable, starting empty",
			ports.String("document", name),
			ports.String("path", store.Path()),
			ports.Err(err),
		)
		return e
	}
	if len(data) == 0 {
		return e
	}

	doc := fresh()
	if err := codec.Unmarshal(data, &doc); err != nil {
		e.logger.Warn("document corrupt, starting empty",
			ports.String("document", name),
			ports.String("path", store.Path()),
			ports.Err(domain.SerializationError("cache.load", name, err)),
		)
		return e
	}

	e.doc = doc
	e.lastSaved = data
	return e
}

// save writes the document when its encoding differs from the last write.
func (e *envelope[T]) save() error {
	data, err := codec.Marshal(e.doc)
	if err != nil {
		err = domain.SerializationError("cache.save", e.name, err)
		e.logger.Error("failed to encode document", ports.String("document", e.name), ports.Err(err))
		e.metrics.DocumentSaveFailed(e.name)
		return err
	}

	if bytes.Equal(data, e.lastSaved) {
		e.metrics.DocumentSaveSkipped(e.name)
		return nil
	}

	if err := e.store.Save(data); err != nil {
		e.logger.Warn("failed to persist document",
			ports.String("document", e.name),
			ports.String("path", e.store.Path()),
			ports.Err(err),
		)
		e.metrics.DocumentSaveFailed(e.name)
		return err
	}

	e.lastSaved = data
	e.metrics.DocumentSaved(e.name)
	return nil
}

// guard is a reader/writer lock that poisons itself when a mutation panics.
type guard struct {
	mu       sync.RWMutex
	poisoned bool
}

// write runs fn under the write lock. A panic in fn poisons the guard and,
// like every later write, yields LockFailure.
func (g *guard) write(op string, fn func() error) (err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.poisoned {
		return domain.LockFailure(op, errPoisoned)
	}

	defer func() {
		if r := recover(); r != nil {
			g.poisoned = true
			err = domain.LockFailure(op, fmt.Errorf("panic: %v", r))
		}
	}()
	return fn()
}

func (g *guard) read(fn func()) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	fn()
}

// Poisoned reports whether an earlier mutation failed inside the lock.
func (g *guard) Poisoned() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.poisoned
}
