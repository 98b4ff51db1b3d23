package highlight_test

import (
	"strings"
	"testing"

	"github.com/north-cloud/richlog/highlight"
)

func TestHighlight_Python(t *testing.T) {
	t.Parallel()

	h := highlight.New(highlight.DefaultTheme)
	code := "def hello():\n    return 1"

	out, err := h.Highlight(code, "python")
	if err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	if !strings.Contains(out, "\x1b[") {
		t.Error("highlighted output contains no ANSI sequences")
	}
	if !strings.Contains(out, "hello") {
		t.Error("highlighted output lost the source text")
	}
}

func TestHighlight_UnknownLexer(t *testing.T) {
	t.Parallel()

	h := highlight.New("")
	code := "SELECT 1"

	out, err := h.Highlight(code, "no-such-language")
	if err == nil {
		t.Error("unknown lexer should return an error")
	}
	if out != code {
		t.Errorf("unknown lexer should return the original code, got %q", out)
	}
}

func TestNew_UnknownThemeFallsBack(t *testing.T) {
	t.Parallel()

	h := highlight.New("definitely-not-a-theme")
	if _, err := h.Highlight("x = 1", "python"); err != nil {
		t.Errorf("fallback theme should still highlight: %v", err)
	}
}
