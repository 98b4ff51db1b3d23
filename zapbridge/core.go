// Package zapbridge routes zap log output into a richlog logger, so
// services already instrumented with zap can fan out to richlog's sinks
// without touching their call sites.
package zapbridge

import (
	"go.uber.org/zap/zapcore"

	"github.com/north-cloud/richlog/level"
	"github.com/north-cloud/richlog/logger"
)

// core implements zapcore.Core on top of a richlog logger.
type core struct {
	logger logger.Logger
	fields []zapcore.Field
}

// NewCore creates a zapcore.Core that forwards every entry to the given
// richlog logger:
//
//	z := zap.New(zapbridge.NewCore(rich))
//	z.Warn("spoke zap, arrived in richlog")
//
// zap levels map onto the richlog ladder; DPanic and Panic both arrive
// as CRITICAL. Level filtering is left to the richlog logger and its
// sinks, so the core enables all levels.
func NewCore(l logger.Logger) zapcore.Core {
	return &core{logger: l}
}

// mapLevel translates a zapcore level into the richlog ladder.
func mapLevel(l zapcore.Level) level.Level {
	switch {
	case l <= zapcore.DebugLevel:
		return level.Debug
	case l == zapcore.InfoLevel:
		return level.Info
	case l == zapcore.WarnLevel:
		return level.Warning
	case l == zapcore.ErrorLevel:
		return level.Error
	case l == zapcore.DPanicLevel || l == zapcore.PanicLevel:
		return level.Critical
	default:
		return level.Fatal
	}
}

// Enabled reports whether the level should be logged. Filtering happens
// downstream in the richlog logger.
func (c *core) Enabled(zapcore.Level) bool { return true }

// With attaches structured context to a copy of the core.
func (c *core) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &core{logger: c.logger, fields: merged}
}

// Check implements zapcore.Core.
func (c *core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write forwards the entry to the richlog logger at the mapped level.
// Fatal entries go through Log so zap keeps sole ownership of the exit.
func (c *core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	merged := make([]logger.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)

	c.logger.Log(mapLevel(ent.Level), ent.Message, merged...)
	return nil
}

// Sync flushes the richlog sinks.
func (c *core) Sync() error { return c.logger.Sync() }
