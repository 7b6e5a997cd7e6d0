// Package goldmark renders markdown replies for the two presentation
// surfaces: ANSI-styled text for the terminal, styled with lipgloss, and
// sanitised HTML for the web page.
package goldmark

import (
	"bytes"

	"github.com/fwojciec/scribe"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs, quotes and list items are word-wrapped to width. Code blocks
// are rendered at full width without reflow.
func Render(source string, width int, theme scribe.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}

var htmlMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// RenderHTML converts markdown source to HTML. Raw HTML in the source is
// omitted, so the result is safe to embed in a page.
func RenderHTML(source string) string {
	if source == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := htmlMarkdown.Convert([]byte(source), &buf); err != nil {
		// Conversion only fails on writer errors, which bytes.Buffer never
		// returns.
		return ""
	}
	return buf.String()
}
