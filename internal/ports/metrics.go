package ports

import "time"

// Metrics records counters for open requests and document persistence.
// Implementations must be safe for concurrent use.
type Metrics interface {
	// WindowTargeted counts a window chosen by an open request.
	WindowTargeted(reused bool)

	// EventEmitted counts a named event delivered to a window.
	EventEmitted(event string)

	// DocumentSaved counts a document write.
	DocumentSaved(doc string)

	// DocumentSaveSkipped counts a save skipped because nothing changed.
	DocumentSaveSkipped(doc string)

	// DocumentSaveFailed counts a failed document write.
	DocumentSaveFailed(doc string)

	// RequestCompleted records the outcome and duration of an open request.
	RequestCompleted(outcome string, d time.Duration)
}
