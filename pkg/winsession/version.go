package winsession

// Version information for the winsession module.
const (
	// Version is the current version of the winsession module.
	Version = "0.1.0"

	// MinCompatibleVersion is the minimum version whose documents this version reads.
	MinCompatibleVersion = "0.1.0"
)
