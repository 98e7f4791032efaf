// Package logging provides a minimal logging interface and adapters for uboot.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the ocean and the bundled middleware use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - BusLogger, a configurable slog logger with uboot/channel context helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	o := ocean.New(func(o *ocean.Options) { o.Logger = logger })
//
// The interface is kept minimal; arguments follow the slog key/value convention.
package logging
