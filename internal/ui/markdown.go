package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
)

// MarkdownRenderer provides cached glamour rendering for timeline bodies.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
	// style is a glamour standard style name; empty means auto-detect.
	style string
}

// Render renders markdown for terminal display, wrapped to width. Falls back
// to plain word wrapping when glamour fails.
func (mr *MarkdownRenderer) Render(markdown string, width int) string {
	width = max(width, 10)
	r := mr.getOrCreate(width)
	if r == nil {
		return wordWrap(markdown, width)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return wordWrap(markdown, width)
	}
	return strings.TrimSpace(out)
}

func (mr *MarkdownRenderer) getOrCreate(width int) *glamour.TermRenderer {
	if mr.renderer != nil && mr.width == width {
		return mr.renderer
	}
	styleOpt := glamour.WithAutoStyle()
	if mr.style != "" {
		styleOpt = glamour.WithStandardStyle(mr.style)
	}
	r, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil
	}
	mr.renderer = r
	mr.width = width
	return r
}

// wordWrap wraps text to fit within the given width.
func wordWrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Wrap(s, width, "")
}
