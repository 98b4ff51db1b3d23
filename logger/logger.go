// Package logger provides the richlog logging interface: nine severity
// levels, structured fields, optional syntax highlighting hints, and
// fan-out to any number of sinks.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"

	"github.com/north-cloud/richlog/encoding"
	"github.com/north-cloud/richlog/level"
	"github.com/north-cloud/richlog/perf"
	"github.com/north-cloud/richlog/sink"
)

// Logger defines the structured logging interface. One method per
// severity, ordered from least to most severe.
type Logger interface {
	// Debug logs a message at debug level.
	Debug(msg string, fields ...Field)
	// Info logs a message at info level.
	Info(msg string, fields ...Field)
	// Notice logs a normal but significant event.
	Notice(msg string, fields ...Field)
	// Warn logs a message at warning level.
	Warn(msg string, fields ...Field)
	// Error logs a message at error level.
	Error(msg string, fields ...Field)
	// Critical logs a critical condition.
	Critical(msg string, fields ...Field)
	// Alert logs a condition requiring immediate action.
	Alert(msg string, fields ...Field)
	// Emergency logs a system-unusable condition.
	Emergency(msg string, fields ...Field)
	// Fatal logs a message at fatal level, flushes sinks and exits.
	Fatal(msg string, fields ...Field)
	// Log logs a message at an arbitrary level without side effects:
	// unlike Fatal it never exits. Bridges and adapters that manage
	// their own termination use it.
	Log(lv level.Level, msg string, fields ...Field)
	// With returns a new logger with the given fields attached.
	With(fields ...Field) Logger
	// Highlight returns a new logger whose messages are syntax
	// highlighted with the named lexer ("python", "sql", ...).
	Highlight(lexer string) Logger
	// SetLevel changes the minimum level at runtime. The change is
	// visible to all loggers derived from the same root.
	SetLevel(l level.Level)
	// Sync flushes all sinks.
	Sync() error
	// Close flushes and closes all sinks.
	Close() error
}

// Config represents the logger configuration.
type Config struct {
	// Name appears in every entry, like a logging channel name.
	Name string `env:"LOG_NAME" yaml:"name"`
	// Level is the minimum level name (debug, info, notice, warn,
	// error, fatal, critical, alert, emergency).
	Level string `env:"LOG_LEVEL" yaml:"level"`
	// Tracker, when set, records entry build and emit timings.
	Tracker *perf.Tracker `yaml:"-"`
}

// Default configuration values.
const (
	// DefaultLevel is the default minimum level.
	DefaultLevel = "info"
)

// SetDefaults applies default values to the config if not set.
func (c *Config) SetDefaults() {
	if c.Level == "" {
		c.Level = DefaultLevel
	}
}

// richLogger fans entries out to sinks. Derived loggers (With,
// Highlight) share the sink set and the level gate with their root.
type richLogger struct {
	name    string
	min     *atomic.Int32
	sinks   []sink.Sink
	fields  []Field
	lexer   string
	tracker *perf.Tracker
	pid     int
	exit    func(int)
}

// New creates a Logger writing to the given sinks. With no sinks it
// defaults to a colorized console sink on stdout. The NO_LOGGING=1 and
// LOGGING=0 environment switches replace the logger with a no-op.
func New(cfg Config, sinks ...sink.Sink) (Logger, error) {
	cfg.SetDefaults()

	if loggingDisabled() {
		return NewNop(), nil
	}

	min, err := level.Parse(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("configure logger: %w", err)
	}

	if len(sinks) == 0 {
		sinks = []sink.Sink{sink.NewConsole(nil, nil, level.Debug)}
	}

	return &richLogger{
		name:    cfg.Name,
		min:     newLevelGate(min),
		sinks:   sinks,
		tracker: cfg.Tracker,
		pid:     os.Getpid(),
		exit:    os.Exit,
	}, nil
}

// newLevelGate creates the shared atomic minimum-level cell.
func newLevelGate(min level.Level) *atomic.Int32 {
	gate := &atomic.Int32{}
	gate.Store(int32(min))
	return gate
}

// Must creates a new Logger and exits if it fails. Use this for
// initialization where failure should be fatal.
func Must(cfg Config, sinks ...sink.Sink) Logger {
	l, err := New(cfg, sinks...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return l
}

// loggingDisabled checks the environment kill switches.
func loggingDisabled() bool {
	switch os.Getenv("NO_LOGGING") {
	case "1", "true", "yes":
		return true
	}
	switch os.Getenv("LOGGING") {
	case "0", "false", "no":
		return true
	}
	return false
}

func (l *richLogger) Debug(msg string, fields ...Field)     { l.log(level.Debug, msg, fields) }
func (l *richLogger) Info(msg string, fields ...Field)      { l.log(level.Info, msg, fields) }
func (l *richLogger) Notice(msg string, fields ...Field)    { l.log(level.Notice, msg, fields) }
func (l *richLogger) Warn(msg string, fields ...Field)      { l.log(level.Warning, msg, fields) }
func (l *richLogger) Error(msg string, fields ...Field)     { l.log(level.Error, msg, fields) }
func (l *richLogger) Critical(msg string, fields ...Field)  { l.log(level.Critical, msg, fields) }
func (l *richLogger) Alert(msg string, fields ...Field)     { l.log(level.Alert, msg, fields) }
func (l *richLogger) Emergency(msg string, fields ...Field) { l.log(level.Emergency, msg, fields) }

// Log emits at the given level without exiting, even for Fatal.
func (l *richLogger) Log(lv level.Level, msg string, fields ...Field) {
	l.log(lv, msg, fields)
}

// Fatal logs at fatal level, flushes every sink and exits with status 1.
func (l *richLogger) Fatal(msg string, fields ...Field) {
	l.log(level.Fatal, msg, fields)
	_ = l.Sync()
	l.exit(1)
}

// log builds the entry once and offers it to every sink whose threshold
// it meets. Emit failures are reported to the fallback logger and
// otherwise discarded: a broken sink must never break the caller.
func (l *richLogger) log(lv level.Level, msg string, fields []Field) {
	if int32(lv) < l.min.Load() {
		return
	}

	buildStart := time.Now()
	entry := l.buildEntry(lv, msg, fields)
	if l.tracker != nil {
		l.tracker.Record("build", time.Since(buildStart))
	}

	for _, s := range l.sinks {
		if lv < s.MinLevel() {
			continue
		}
		emitStart := time.Now()
		err := s.Emit(entry)
		if l.tracker != nil {
			l.tracker.Record("emit", time.Since(emitStart))
		}
		if err != nil {
			fallbackLogger().Error("log sink emit failed", Error(err))
		}
	}
}

// buildEntry captures timestamp, caller and merged fields.
func (l *richLogger) buildEntry(lv level.Level, msg string, fields []Field) *encoding.Entry {
	entry := &encoding.Entry{
		Time:       time.Now(),
		Level:      lv,
		LoggerName: l.name,
		Message:    msg,
		PID:        l.pid,
		Lexer:      l.lexer,
	}

	// Skip log and the level method to reach the caller.
	if pc, file, line, ok := runtime.Caller(3); ok {
		entry.Caller = encoding.Caller{
			File: filepath.Base(file),
			Line: line,
		}
		if fn := runtime.FuncForPC(pc); fn != nil {
			entry.Caller.Function = fn.Name()
		}
	}

	if len(l.fields) > 0 || len(fields) > 0 {
		merged := make([]Field, 0, len(l.fields)+len(fields))
		merged = append(merged, l.fields...)
		merged = append(merged, fields...)
		entry.Fields = merged
	}
	return entry
}

// With returns a new logger with the given fields attached.
func (l *richLogger) With(fields ...Field) Logger {
	clone := *l
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	clone.fields = merged
	return &clone
}

// Highlight returns a new logger carrying a lexer hint for sinks that
// support syntax highlighting.
func (l *richLogger) Highlight(lexer string) Logger {
	clone := *l
	clone.lexer = lexer
	return &clone
}

// SetLevel changes the minimum level for this logger and all loggers
// derived from the same root.
func (l *richLogger) SetLevel(lv level.Level) {
	l.min.Store(int32(lv))
}

// Sync flushes all sinks, aggregating errors.
func (l *richLogger) Sync() error {
	var err error
	for _, s := range l.sinks {
		err = multierr.Append(err, s.Sync())
	}
	return err
}

// Close flushes and closes all sinks, aggregating errors.
func (l *richLogger) Close() error {
	err := l.Sync()
	for _, s := range l.sinks {
		err = multierr.Append(err, s.Close())
	}
	return err
}
