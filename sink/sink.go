// Package sink provides the fan-out targets a logger writes to: console,
// file, syslog, Redis, Elasticsearch and SQL databases, plus an async
// wrapper for slow targets.
//
// Sinks validate their configuration and verify connectivity at
// construction time, retrying transient dial failures. Emit-time failures
// are returned to the logger core, which reports and discards them.
package sink

import (
	"github.com/north-cloud/richlog/encoding"
	"github.com/north-cloud/richlog/level"
)

// Sink receives log entries at or above its minimum level.
type Sink interface {
	// Emit writes a single entry.
	Emit(e *encoding.Entry) error
	// MinLevel is the sink's severity threshold. Entries below it are
	// never offered to the sink.
	MinLevel() level.Level
	// Sync flushes buffered output.
	Sync() error
	// Close releases the sink's resources. A closed sink must not be
	// emitted to.
	Close() error
}
