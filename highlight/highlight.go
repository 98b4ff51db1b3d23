// Package highlight colorizes code payloads inside log messages using
// chroma lexers and a terminal formatter.
package highlight

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultTheme is the default chroma style.
const DefaultTheme = "fruity"

// Highlighter renders source code with ANSI colors for a fixed theme.
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
}

// New creates a highlighter for the given theme. An empty or unknown
// theme falls back to the default.
func New(theme string) *Highlighter {
	if theme == "" {
		theme = DefaultTheme
	}
	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}
	return &Highlighter{
		style:     style,
		formatter: formatters.Get("terminal16m"),
	}
}

// Highlight colorizes code for the named lexer ("python", "sql", ...).
// Unknown lexers and tokenization failures return an error along with
// the original code, so callers can fall back to plain text.
func (h *Highlighter) Highlight(code, lexer string) (string, error) {
	l := lexers.Get(lexer)
	if l == nil {
		return code, fmt.Errorf("unknown lexer %q", lexer)
	}
	l = chroma.Coalesce(l)

	iterator, err := l.Tokenise(nil, code)
	if err != nil {
		return code, fmt.Errorf("tokenise: %w", err)
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return code, fmt.Errorf("format: %w", err)
	}
	return buf.String(), nil
}
