package bubbletea

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/scribe"
)

var _ MessageBlock = (*ToolNoteBlock)(nil)

// ToolNoteBlock labels the reply that follows it as tool output.
type ToolNoteBlock struct {
	tool   scribe.ToolName
	failed bool
	styles Styles
}

// NewToolNoteBlock creates a ToolNoteBlock.
func NewToolNoteBlock(tool scribe.ToolName, failed bool, styles Styles) *ToolNoteBlock {
	return &ToolNoteBlock{tool: tool, failed: failed, styles: styles}
}

func (b *ToolNoteBlock) View(width int) string {
	label := "⚙ " + b.tool.Task()
	style := b.styles.ToolNote
	if b.failed {
		label = "✗ " + b.tool.Task() + " failed"
		style = b.styles.Error
	}
	return lipgloss.NewStyle().Width(width).Render(style.Render(label))
}
