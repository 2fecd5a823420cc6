// Package logging provides a minimal logging interface and adapters for the
// attendee guide.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the supervisor, handlers and providers use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - GuideLogger with component / session scoping and tool + model call helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	dispatcher := supervisor.New(sess, deps, func(o *supervisor.Options) { o.Logger = logger })
package logging
