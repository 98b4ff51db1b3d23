package logger_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/north-cloud/richlog/encoding"
	"github.com/north-cloud/richlog/level"
	"github.com/north-cloud/richlog/logger"
	"github.com/north-cloud/richlog/perf"
	"github.com/north-cloud/richlog/sink"
)

// captureSink records entries for assertions.
type captureSink struct {
	mu      sync.Mutex
	entries []*encoding.Entry
	emitErr error
	min     level.Level
	synced  bool
	closed  bool
}

func (c *captureSink) Emit(e *encoding.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.emitErr != nil {
		return c.emitErr
	}
	c.entries = append(c.entries, e)
	return nil
}

func (c *captureSink) MinLevel() level.Level { return c.min }

func (c *captureSink) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.synced = true
	return nil
}

func (c *captureSink) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *captureSink) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Message
	}
	return out
}

func newTestLogger(t *testing.T, levelName string, sinks ...sink.Sink) logger.Logger {
	t.Helper()
	l, err := logger.New(logger.Config{Name: "test", Level: levelName}, sinks...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

func TestLogger_LevelFiltering(t *testing.T) {
	cap := &captureSink{}
	l := newTestLogger(t, "notice", cap)

	l.Debug("dropped")
	l.Info("dropped")
	l.Notice("kept")
	l.Warn("kept")
	l.Emergency("kept")

	got := cap.messages()
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3: %v", len(got), got)
	}
	for _, msg := range got {
		if msg != "kept" {
			t.Errorf("unexpected message %q", msg)
		}
	}
}

func TestLogger_LogEmitsWithoutExiting(t *testing.T) {
	cap := &captureSink{}
	l := newTestLogger(t, "debug", cap)

	// Log at fatal must emit but never exit; the test finishing proves it.
	l.Log(level.Fatal, "forwarded fatal")
	l.Log(level.Notice, "forwarded notice")

	entries := func() []*encoding.Entry {
		cap.mu.Lock()
		defer cap.mu.Unlock()
		out := make([]*encoding.Entry, len(cap.entries))
		copy(out, cap.entries)
		return out
	}()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Level != level.Fatal {
		t.Errorf("first entry level = %s, want FATAL", entries[0].Level)
	}
	if entries[1].Level != level.Notice {
		t.Errorf("second entry level = %s, want NOTICE", entries[1].Level)
	}
}

func TestLogger_FanOutRespectsSinkThresholds(t *testing.T) {
	all := &captureSink{min: level.Debug}
	errorsOnly := &captureSink{min: level.Error}
	l := newTestLogger(t, "debug", all, errorsOnly)

	l.Info("routine")
	l.Critical("bad")

	if got := len(all.messages()); got != 2 {
		t.Errorf("all sink got %d entries, want 2", got)
	}
	if got := errorsOnly.messages(); len(got) != 1 || got[0] != "bad" {
		t.Errorf("errors sink got %v, want [bad]", got)
	}
}

func TestLogger_EntryMetadata(t *testing.T) {
	cap := &captureSink{}
	l := newTestLogger(t, "debug", cap)

	before := time.Now()
	l.Alert("check metadata")

	cap.mu.Lock()
	defer cap.mu.Unlock()
	if len(cap.entries) != 1 {
		t.Fatalf("got %d entries", len(cap.entries))
	}
	e := cap.entries[0]

	if e.Level != level.Alert {
		t.Errorf("Level = %s", e.Level)
	}
	if e.LoggerName != "test" {
		t.Errorf("LoggerName = %q", e.LoggerName)
	}
	if e.PID <= 0 {
		t.Errorf("PID = %d", e.PID)
	}
	if e.Time.Before(before) {
		t.Errorf("Time = %v is before the call", e.Time)
	}
	if e.Caller.File != "logger_test.go" {
		t.Errorf("Caller.File = %q, want logger_test.go", e.Caller.File)
	}
	if e.Caller.Line == 0 {
		t.Error("Caller.Line not captured")
	}
}

func TestLogger_WithMergesFields(t *testing.T) {
	cap := &captureSink{}
	l := newTestLogger(t, "debug", cap)

	derived := l.With(logger.String("service", "api")).With(logger.Int("shard", 2))
	derived.Info("with fields", logger.Bool("final", true))
	l.Info("no fields")

	cap.mu.Lock()
	defer cap.mu.Unlock()
	if got := len(cap.entries[0].Fields); got != 3 {
		t.Errorf("derived entry has %d fields, want 3", got)
	}
	if got := len(cap.entries[1].Fields); got != 0 {
		t.Errorf("root entry has %d fields, want 0 (With must not mutate the root)", got)
	}
}

func TestLogger_HighlightSetsLexer(t *testing.T) {
	cap := &captureSink{}
	l := newTestLogger(t, "debug", cap)

	l.Highlight("sql").Info("SELECT 1")
	l.Info("plain")

	cap.mu.Lock()
	defer cap.mu.Unlock()
	if cap.entries[0].Lexer != "sql" {
		t.Errorf("Lexer = %q, want sql", cap.entries[0].Lexer)
	}
	if cap.entries[1].Lexer != "" {
		t.Errorf("root logger leaked lexer %q", cap.entries[1].Lexer)
	}
}

func TestLogger_SetLevelSharedWithDerived(t *testing.T) {
	cap := &captureSink{}
	l := newTestLogger(t, "error", cap)
	derived := l.With(logger.String("k", "v"))

	derived.Info("dropped")
	l.SetLevel(level.Debug)
	derived.Info("kept")

	if got := cap.messages(); len(got) != 1 || got[0] != "kept" {
		t.Errorf("messages = %v, want [kept]", got)
	}
}

func TestLogger_EmitErrorIsSwallowed(t *testing.T) {
	broken := &captureSink{emitErr: errors.New("sink down")}
	healthy := &captureSink{}
	l := newTestLogger(t, "debug", broken, healthy)

	// Must not panic, and the healthy sink still receives the entry.
	l.Error("one sink down")

	if got := healthy.messages(); len(got) != 1 {
		t.Errorf("healthy sink got %d entries, want 1", len(got))
	}
}

func TestLogger_SyncAndClose(t *testing.T) {
	a, b := &captureSink{}, &captureSink{}
	l := newTestLogger(t, "debug", a, b)

	if err := l.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if !a.synced || !b.synced {
		t.Error("Sync did not reach all sinks")
	}

	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !a.closed || !b.closed {
		t.Error("Close did not reach all sinks")
	}
}

func TestLogger_Tracker(t *testing.T) {
	tr := perf.NewTracker()
	cap := &captureSink{}
	l, err := logger.New(logger.Config{Level: "debug", Tracker: tr}, cap)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.Info("timed")
	l.Info("timed")

	stats := tr.Stats()
	if stats["build"].Count != 2 {
		t.Errorf("build count = %d, want 2", stats["build"].Count)
	}
	if stats["emit"].Count != 2 {
		t.Errorf("emit count = %d, want 2", stats["emit"].Count)
	}
}

func TestLogger_InvalidLevel(t *testing.T) {
	if _, err := logger.New(logger.Config{Level: "loud"}); err == nil {
		t.Error("New with invalid level should error")
	}
}

func TestNew_KillSwitch(t *testing.T) {
	t.Setenv("NO_LOGGING", "1")

	cap := &captureSink{}
	l, err := logger.New(logger.Config{Level: "debug"}, cap)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Emergency("should vanish")
	if len(cap.messages()) != 0 {
		t.Error("kill switch did not disable logging")
	}
}

func TestNew_LoggingFalseSwitch(t *testing.T) {
	t.Setenv("LOGGING", "0")

	cap := &captureSink{}
	l, err := logger.New(logger.Config{Level: "debug"}, cap)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Error("should vanish")
	if len(cap.messages()) != 0 {
		t.Error("LOGGING=0 did not disable logging")
	}
}
