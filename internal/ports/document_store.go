package ports

// DocumentStore persists one serialized document.
// Implementations should write atomically (e.g., write to temp file, then
// rename) so a crash never leaves a torn document behind.
type DocumentStore interface {
	// Load returns the last saved bytes.
	// Returns nil and a nil error if nothing was saved yet.
	Load() ([]byte, error)

	// Save replaces the stored document with data.
	Save(data []byte) error

	// Path identifies the document, for logs.
	Path() string
}
