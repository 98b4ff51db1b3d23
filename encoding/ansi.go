package encoding

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/north-cloud/richlog/level"
)

const ansiReset = "\x1b[0m"

// Truecolor sequences per level, backgrounds included.
var ansiColors = map[level.Level]string{
	level.Debug:     "\x1b[38;2;255;170;0m",
	level.Info:      "\x1b[38;2;0;255;255m",
	level.Notice:    "\x1b[30;48;2;0;255;255m",
	level.Warning:   "\x1b[30;48;2;255;255;0m",
	level.Error:     "\x1b[97;41m",
	level.Critical:  "\x1b[37;44m",
	level.Fatal:     "\x1b[97;48;2;85;0;0m",
	level.Alert:     "\x1b[97;48;2;0;85;0m",
	level.Emergency: "\x1b[97;48;2;170;0;255m",
}

// Foreground-only variants for terminals where background fills are
// unwanted. Debug and info have no background in the first table and are
// unchanged.
var ansiColorsNoBackground = map[level.Level]string{
	level.Debug:     "\x1b[38;2;255;170;0m",
	level.Info:      "\x1b[38;2;0;255;255m",
	level.Notice:    "\x1b[38;2;0;255;255m",
	level.Warning:   "\x1b[38;2;255;255;0m",
	level.Error:     "\x1b[31m",
	level.Critical:  "\x1b[38;2;85;0;0m",
	level.Fatal:     "\x1b[38;2;0;85;255m",
	level.Alert:     "\x1b[38;2;0;85;0m",
	level.Emergency: "\x1b[38;2;170;0;255m",
}

// ColorMode controls ANSI color emission.
type ColorMode int

const (
	// ColorAuto enables color when the output looks like a capable
	// terminal, honoring FORCE_COLOR and NO_COLOR.
	ColorAuto ColorMode = iota
	// ColorAlways emits color unconditionally.
	ColorAlways
	// ColorNever disables color.
	ColorNever
)

// IconPlacement controls where the level icon appears in the line.
type IconPlacement int

const (
	// IconBeforeMessage prefixes the icon to the message text.
	IconBeforeMessage IconPlacement = iota
	// IconFirst puts the icon at the very start of the line.
	IconFirst
	// IconOff disables icons.
	IconOff
)

// ANSIConfig configures the ANSI encoder. The zero value produces the
// full default layout with color auto-detection.
type ANSIConfig struct {
	Color          ColorMode
	ShowBackground bool
	Icon           IconPlacement
	ShowTime       bool
	ShowName       bool
	ShowPID        bool
	ShowLevel      bool
	ShowPath       bool
	TimeLayout     string
	// Highlighter, when set, colorizes messages on entries that carry a
	// lexer hint.
	Highlighter Highlighter
}

// DefaultANSIConfig returns the default console layout:
// time - name - pid - LEVEL - message (file:line), backgrounds on.
func DefaultANSIConfig() ANSIConfig {
	return ANSIConfig{
		ShowBackground: true,
		ShowTime:       true,
		ShowName:       true,
		ShowPID:        true,
		ShowLevel:      true,
		ShowPath:       true,
	}
}

// ANSIEncoder renders entries as colorized single-line text.
type ANSIEncoder struct {
	cfg      ANSIConfig
	colors   map[level.Level]string
	useColor bool
}

const defaultTimeLayout = "2006-01-02 15:04:05"

// NewANSIEncoder creates an encoder for the given configuration.
// Color support is resolved once at construction time.
func NewANSIEncoder(cfg ANSIConfig) *ANSIEncoder {
	colors := ansiColors
	if !cfg.ShowBackground {
		colors = ansiColorsNoBackground
	}
	if cfg.TimeLayout == "" {
		cfg.TimeLayout = defaultTimeLayout
	}
	return &ANSIEncoder{
		cfg:      cfg,
		colors:   colors,
		useColor: resolveColor(cfg.Color),
	}
}

// resolveColor decides whether color is emitted. FORCE_COLOR wins over
// NO_COLOR, which wins over terminal detection.
func resolveColor(mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	switch strings.ToLower(os.Getenv("FORCE_COLOR")) {
	case "1", "true":
		return true
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Encode renders the entry. The layout mirrors
// "time - name - pid - LEVEL - message (file:line)" with each part
// individually toggleable.
func (e *ANSIEncoder) Encode(entry *Entry) ([]byte, error) {
	var buf bytes.Buffer

	icon := entry.Level.Nearest().Icon()
	if e.cfg.Icon == IconFirst && icon != "" {
		buf.WriteString(icon)
		buf.WriteByte(' ')
	}

	if e.useColor {
		buf.WriteString(e.colors[entry.Level.Nearest()])
	}

	parts := make([]string, 0, 5)
	if e.cfg.ShowTime {
		parts = append(parts, entry.Time.Format(e.cfg.TimeLayout))
	}
	if e.cfg.ShowName && entry.LoggerName != "" {
		parts = append(parts, entry.LoggerName)
	}
	if e.cfg.ShowPID {
		parts = append(parts, fmt.Sprintf("%d", entry.PID))
	}
	if e.cfg.ShowLevel {
		parts = append(parts, entry.Level.String())
	}
	parts = append(parts, e.message(entry, icon))

	buf.WriteString(strings.Join(parts, " - "))

	if e.cfg.ShowPath && entry.Caller.File != "" {
		fmt.Fprintf(&buf, " (%s:%d)", entry.Caller.File, entry.Caller.Line)
	}

	if fields := entry.FieldsMap(); len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&buf, " %s=%v", k, fields[k])
		}
	}

	if e.useColor {
		buf.WriteString(ansiReset)
	}

	return buf.Bytes(), nil
}

// message returns the message body with optional icon prefix and syntax
// highlighting applied. Highlighting failures fall back to plain text.
func (e *ANSIEncoder) message(entry *Entry, icon string) string {
	msg := entry.Message
	if entry.Lexer != "" && e.cfg.Highlighter != nil && e.useColor {
		if highlighted, err := e.cfg.Highlighter.Highlight(msg, entry.Lexer); err == nil {
			msg = strings.TrimRight(highlighted, "\n")
		}
	}
	if e.cfg.Icon == IconBeforeMessage && icon != "" && !strings.HasPrefix(msg, icon) {
		msg = icon + " " + msg
	}
	return msg
}
