// Package encoding defines the log entry model and the encoders that turn
// entries into bytes for console, file and network sinks.
package encoding

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/north-cloud/richlog/level"
)

// Caller identifies the source location that produced an entry.
type Caller struct {
	File     string
	Line     int
	Function string
}

// Entry is a single log event. It is built once by the logger core and
// shared read-only across all sinks.
type Entry struct {
	Time       time.Time
	Level      level.Level
	LoggerName string
	Message    string
	PID        int
	Caller     Caller
	Fields     []zap.Field
	// Lexer is an optional language hint for syntax highlighting
	// (e.g. "python", "sql", "json").
	Lexer string
}

// FieldsMap materializes the structured fields into a plain map using
// zapcore's object encoder, for JSON payloads and key=value rendering.
func (e *Entry) FieldsMap() map[string]any {
	if len(e.Fields) == 0 {
		return nil
	}
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range e.Fields {
		f.AddTo(enc)
	}
	return enc.Fields
}

// Encoder renders an entry into a byte slice, without a trailing newline.
type Encoder interface {
	Encode(e *Entry) ([]byte, error)
}

// Highlighter applies syntax highlighting to a message body. Implemented
// by the highlight package; encoders treat a failure as "no highlighting".
type Highlighter interface {
	Highlight(code, lexer string) (string, error)
}
