package logger

import (
	"context"
	"os"
	"sync"

	"github.com/north-cloud/richlog/encoding"
	"github.com/north-cloud/richlog/level"
	"github.com/north-cloud/richlog/sink"
)

type ctxKey struct{}

// WithContext returns a new context with the given logger stored in it.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from the context.
// Returns a stderr-backed fallback logger if none is found, ensuring
// errors are never silently discarded. Callers in non-request contexts
// (background goroutines, startup code) should pass a logger explicitly
// rather than relying on context.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	return fallbackLogger()
}

var (
	fallbackLog  Logger
	fallbackOnce sync.Once
)

// fallbackLogger returns a shared warning-level logger that writes plain
// lines to stderr. Initialized once; subsequent calls return the same
// instance. It also receives sink emit failures, so it must never fan
// out to a failing sink itself.
func fallbackLogger() Logger {
	fallbackOnce.Do(func() {
		cfg := encoding.DefaultANSIConfig()
		cfg.Color = encoding.ColorNever
		cfg.Icon = encoding.IconOff
		console := sink.NewConsole(os.Stderr, encoding.NewANSIEncoder(cfg), level.Debug)

		fallbackLog = &richLogger{
			name:  "richlog",
			min:   newLevelGate(level.Warning),
			sinks: []sink.Sink{console},
			pid:   os.Getpid(),
			exit:  os.Exit,
		}
	})
	return fallbackLog
}
