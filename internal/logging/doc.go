// Package logging provides structured logging for solarsizer.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// context propagation. Every process gets a session ID; fetches add the bill
// reference and views add their route path, so one debug.log can be filtered
// down to a single quote or a single page.
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. Child loggers
// created via With* methods share the underlying writer.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/state", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	refLogger := logger.WithSession(id).WithReference("ABC-123")
//	refLogger.Info("quote derived", "system_kw", 5.0)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"quote derived","session_id":"...","reference":"ABC-123","system_kw":5}
//
// # Log Rotation
//
// The terminal UI can stay open for a long time, so its log file rotates by
// size. Rotated files are named debug.log.1, debug.log.2, and so on, where .1
// is the most recent backup; with compression enabled they become
// debug.log.1.gz.
//
// # Testing
//
// Use [NopLogger] to discard all output.
package logging
