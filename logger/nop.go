package logger

import "github.com/north-cloud/richlog/level"

// NoOpLogger is a logger that does nothing.
// Use this for testing or when logging should be disabled.
type NoOpLogger struct{}

// NewNop creates a new no-op logger instance.
func NewNop() Logger {
	return &NoOpLogger{}
}

// Debug does nothing.
func (l *NoOpLogger) Debug(msg string, fields ...Field) {}

// Info does nothing.
func (l *NoOpLogger) Info(msg string, fields ...Field) {}

// Notice does nothing.
func (l *NoOpLogger) Notice(msg string, fields ...Field) {}

// Warn does nothing.
func (l *NoOpLogger) Warn(msg string, fields ...Field) {}

// Error does nothing.
func (l *NoOpLogger) Error(msg string, fields ...Field) {}

// Critical does nothing.
func (l *NoOpLogger) Critical(msg string, fields ...Field) {}

// Alert does nothing.
func (l *NoOpLogger) Alert(msg string, fields ...Field) {}

// Emergency does nothing.
func (l *NoOpLogger) Emergency(msg string, fields ...Field) {}

// Fatal does nothing (does not exit in no-op mode).
func (l *NoOpLogger) Fatal(msg string, fields ...Field) {}

// Log does nothing.
func (l *NoOpLogger) Log(lv level.Level, msg string, fields ...Field) {}

// With returns the same no-op logger.
func (l *NoOpLogger) With(fields ...Field) Logger {
	return l
}

// Highlight returns the same no-op logger.
func (l *NoOpLogger) Highlight(lexer string) Logger {
	return l
}

// SetLevel does nothing.
func (l *NoOpLogger) SetLevel(lv level.Level) {}

// Sync does nothing and returns nil.
func (l *NoOpLogger) Sync() error {
	return nil
}

// Close does nothing and returns nil.
func (l *NoOpLogger) Close() error {
	return nil
}
