package bubbletea

import (
	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/goldmark"
)

var _ MessageBlock = (*AssistantTextBlock)(nil)

// AssistantTextBlock renders an assistant reply as markdown. Rendering is
// cached per width since the viewport re-renders every block on each update.
type AssistantTextBlock struct {
	text    string
	theme   scribe.Theme
	byWidth map[int]string
}

// NewAssistantTextBlock creates a block for a complete assistant reply.
func NewAssistantTextBlock(text string, theme scribe.Theme) *AssistantTextBlock {
	return &AssistantTextBlock{
		text:    text,
		theme:   theme,
		byWidth: make(map[int]string),
	}
}

func (b *AssistantTextBlock) View(width int) string {
	if cached, ok := b.byWidth[width]; ok {
		return cached
	}
	rendered := goldmark.Render(b.text, width, b.theme)
	b.byWidth[width] = rendered
	return rendered
}
