package sink

import (
	"io"
	"os"
	"sync"

	"github.com/north-cloud/richlog/encoding"
	"github.com/north-cloud/richlog/level"
)

// Console writes encoded entries line-by-line to an io.Writer. Writes
// are serialized so concurrent loggers never interleave lines.
type Console struct {
	mu  sync.Mutex
	w   io.Writer
	enc encoding.Encoder
	min level.Level
}

// NewConsole creates a console sink. A nil writer defaults to stdout and
// a nil encoder defaults to the ANSI encoder with the standard layout.
func NewConsole(w io.Writer, enc encoding.Encoder, min level.Level) *Console {
	if w == nil {
		w = os.Stdout
	}
	if enc == nil {
		enc = encoding.NewANSIEncoder(encoding.DefaultANSIConfig())
	}
	return &Console{w: w, enc: enc, min: min}
}

// Emit encodes and writes the entry followed by a newline.
func (c *Console) Emit(e *encoding.Entry) error {
	line, err := c.enc.Encode(e)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err = c.w.Write(append(line, '\n'))
	return err
}

// MinLevel returns the sink threshold.
func (c *Console) MinLevel() level.Level { return c.min }

// Sync flushes the writer when it supports syncing (files do; pipes and
// buffers do not).
func (c *Console) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.w.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}

// Close is a no-op; the console sink does not own its writer.
func (c *Console) Close() error { return nil }
