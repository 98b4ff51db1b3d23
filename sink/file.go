package sink

import (
	"fmt"
	"os"

	"github.com/north-cloud/richlog/encoding"
	"github.com/north-cloud/richlog/level"
)

const logFileMode = 0o644

// File appends encoded entries to a log file.
type File struct {
	f *os.File
	*Console
}

// NewFile opens (or creates) the file in append mode. A nil encoder
// defaults to the plain, color-free line layout: files should never
// contain escape sequences.
func NewFile(path string, enc encoding.Encoder, min level.Level) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("log file path is required")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFileMode)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	if enc == nil {
		cfg := encoding.DefaultANSIConfig()
		cfg.Color = encoding.ColorNever
		cfg.Icon = encoding.IconOff
		enc = encoding.NewANSIEncoder(cfg)
	}
	return &File{f: f, Console: NewConsole(f, enc, min)}, nil
}

// Close syncs and closes the underlying file.
func (f *File) Close() error {
	if err := f.f.Sync(); err != nil {
		f.f.Close()
		return fmt.Errorf("sync log file: %w", err)
	}
	return f.f.Close()
}
