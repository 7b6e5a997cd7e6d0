package goldmark

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/scribe"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var termMarkdown = goldmark.New(goldmark.WithExtensions(extension.Strikethrough))

// Leads of the single-line replies produced by tools and failed turns.
const (
	callLead     = "[CALL:"
	synonymsLead = "Synonyms for '"
)

var failureLeads = []string{"Error processing ", "Error generating response"}

// termRenderer renders a markdown AST as styled terminal text. Every block
// renders to a string without a trailing newline; siblings are separated by
// a blank line.
type termRenderer struct {
	bold      lipgloss.Style
	italic    lipgloss.Style
	strike    lipgloss.Style
	underline lipgloss.Style
	accent    lipgloss.Style
	muted     lipgloss.Style
	note      lipgloss.Style
	failure   lipgloss.Style
}

func newRenderer(theme scribe.Theme) *termRenderer {
	return &termRenderer{
		bold:      lipgloss.NewStyle().Bold(true),
		italic:    lipgloss.NewStyle().Italic(true),
		strike:    lipgloss.NewStyle().Strikethrough(true),
		underline: lipgloss.NewStyle().Underline(true),
		accent:    lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		note:      lipgloss.NewStyle().Foreground(ansiColor(theme.ToolNote)).Bold(true),
		failure:   lipgloss.NewStyle().Foreground(ansiColor(theme.Error)),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *termRenderer) render(source []byte, width int) string {
	doc := termMarkdown.Parser().Parse(text.NewReader(source))
	return strings.Join(r.blocks(doc, source, width), "\n\n")
}

func (r *termRenderer) blocks(parent ast.Node, source []byte, width int) []string {
	var out []string
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if s := r.block(c, source, width); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (r *termRenderer) block(node ast.Node, source []byte, width int) string {
	switch n := node.(type) {
	case *ast.Paragraph:
		return r.paragraph(n, source, width)
	case *ast.TextBlock:
		return wrap(r.inline(n, source), width)
	case *ast.Heading:
		return wrap(r.accent.Render(r.inline(n, source)), width)
	case *ast.FencedCodeBlock:
		code := r.code(n, source)
		if lang := string(n.Language(source)); lang != "" {
			return r.muted.Render(lang) + "\n" + code
		}
		return code
	case *ast.CodeBlock:
		return r.code(n, source)
	case *ast.Blockquote:
		return r.quote(n, source, width)
	case *ast.List:
		return strings.Join(r.list(n, source, width, 0), "\n")
	case *ast.ThematicBreak:
		return r.muted.Render(strings.Repeat("─", min(width, 40)))
	case *ast.HTMLBlock:
		return strings.TrimRight(rawLines(n, source), "\n")
	default:
		return strings.Join(r.blocks(n, source, width), "\n\n")
	}
}

// paragraph styles the fixed-form replies by their lead and falls back to
// inline markdown for everything else.
func (r *termRenderer) paragraph(n *ast.Paragraph, source []byte, width int) string {
	raw := strings.TrimSpace(rawLines(n, source))
	if strings.HasPrefix(raw, callLead) {
		return wrap(r.call(raw), width)
	}
	for _, lead := range failureLeads {
		if strings.HasPrefix(raw, lead) {
			return wrap(r.failure.Render(raw), width)
		}
	}
	if strings.HasPrefix(raw, synonymsLead) {
		if head, tail, ok := strings.Cut(raw, "':"); ok && !strings.Contains(head, "\n") {
			return wrap(r.note.Render(head+"':")+" "+strings.TrimSpace(tail), width)
		}
	}
	return wrap(r.inline(n, source), width)
}

// call renders a tool marker that reached the transcript unparsed.
func (r *termRenderer) call(raw string) string {
	name, rest, ok := strings.Cut(strings.TrimPrefix(raw, callLead), "]")
	if !ok {
		return r.muted.Render(raw)
	}
	label := r.note.Render("⚙ " + name)
	if rest = strings.TrimSpace(rest); rest != "" {
		return label + " " + r.muted.Render(rest)
	}
	return label
}

func (r *termRenderer) code(n ast.Node, source []byte) string {
	gutter := r.muted.Render("│") + " "
	segs := n.Lines()
	lines := make([]string, segs.Len())
	for i := range lines {
		seg := segs.At(i)
		lines[i] = gutter + strings.TrimRight(string(seg.Value(source)), "\n")
	}
	return strings.Join(lines, "\n")
}

func (r *termRenderer) quote(n *ast.Blockquote, source []byte, width int) string {
	bar := r.muted.Render("▎") + " "
	lines := strings.Split(strings.Join(r.blocks(n, source, max(width-2, 10)), "\n\n"), "\n")
	for i, line := range lines {
		lines[i] = bar + r.italic.Render(line)
	}
	return strings.Join(lines, "\n")
}

func (r *termRenderer) list(n *ast.List, source []byte, width, depth int) []string {
	var lines []string
	num := n.Start
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		bullet := "- "
		if n.IsOrdered() {
			bullet = strconv.Itoa(num) + ". "
			num++
		}
		lines = append(lines, r.listItem(item, source, width, depth, bullet)...)
	}
	return lines
}

func (r *termRenderer) listItem(item *ast.ListItem, source []byte, width, depth int, bullet string) []string {
	indent := strings.Repeat("  ", depth)
	var lines []string
	var content strings.Builder
	flush := func() {
		if content.Len() == 0 {
			return
		}
		lines = append(lines, hang(content.String(), indent+bullet, width)...)
		content.Reset()
		bullet = strings.Repeat(" ", len(bullet))
	}
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		switch in := c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			content.WriteString(r.inline(in, source))
		case *ast.List:
			flush()
			lines = append(lines, r.list(in, source, width, depth+1)...)
		default:
			content.WriteString(r.block(in, source, width))
		}
	}
	flush()
	return lines
}

func (r *termRenderer) inline(parent ast.Node, source []byte) string {
	var b strings.Builder
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		b.WriteString(r.span(c, source))
	}
	return b.String()
}

func (r *termRenderer) span(node ast.Node, source []byte) string {
	switch n := node.(type) {
	case *ast.Text:
		s := string(n.Segment.Value(source))
		switch {
		case n.HardLineBreak():
			s += "\n"
		case n.SoftLineBreak():
			s += " "
		}
		return s
	case *ast.String:
		return string(n.Value)
	case *ast.Emphasis:
		// ***x*** parses as nested emphasis, so only levels 1 and 2 occur.
		if n.Level == 1 {
			return r.italic.Render(r.inline(n, source))
		}
		return r.bold.Render(r.inline(n, source))
	case *east.Strikethrough:
		return r.strike.Render(r.inline(n, source))
	case *ast.CodeSpan:
		return r.bold.Render(r.inline(n, source))
	case *ast.Link:
		return r.reference(r.inline(n, source), string(n.Destination))
	case *ast.Image:
		return r.reference(r.inline(n, source), string(n.Destination))
	case *ast.AutoLink:
		return r.underline.Render(string(n.URL(source)))
	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(source))
		}
		return b.String()
	default:
		return r.inline(n, source)
	}
}

func (r *termRenderer) reference(label, dest string) string {
	return r.underline.Render(label) + " " + r.muted.Render("("+dest+")")
}

// wrap word-wraps s to width.
func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

// hang wraps content below prefix, indenting continuation lines to match.
func hang(content, prefix string, width int) []string {
	lines := strings.Split(wrap(content, max(width-len(prefix), 10)), "\n")
	pad := strings.Repeat(" ", len(prefix))
	for i := range lines {
		if i == 0 {
			lines[i] = prefix + lines[i]
		} else {
			lines[i] = pad + lines[i]
		}
	}
	return lines
}

func rawLines(n ast.Node, source []byte) string {
	var b strings.Builder
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}
