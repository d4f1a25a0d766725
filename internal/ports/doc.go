// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// application needs from external systems without specifying how those needs
// are fulfilled.
//
// # Port Interfaces
//
//   - [WindowHost]: creates, focuses and messages UI windows
//   - [WindowEventSource]: delivers window lifecycle events
//   - [DocumentStore]: loads and saves one persisted document
//   - [Metrics]: records open and persistence counters
//   - [Logger]: structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) and the caches (internal/cache)
// depend only on these interfaces. Infrastructure adapters
// (internal/adapters) implement them with concrete implementations
// (file system, headless host, prometheus, zerolog, etc.).
package ports
