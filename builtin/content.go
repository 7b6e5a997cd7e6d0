package builtin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/scribe"
)

// ContentTool returns the tool definition for content creation.
func ContentTool() scribe.Tool {
	return scribe.Tool{
		Name:        scribe.ToolContent,
		Description: "Write new content (an article, story, post, poem, ...) from a prompt. Returns the generated content.",
		Parameters:  stringParam("prompt", "The content prompt"),
	}
}

// Writer generates content with an independent model call. The prompt is
// sent as a single user message with no system instruction and no tools.
type Writer struct {
	provider scribe.Provider
	model    string
}

// NewWriter creates a Writer. An empty model uses the provider default.
func NewWriter(provider scribe.Provider, model string) *Writer {
	return &Writer{provider: provider, model: model}
}

// Write returns the model's trimmed reply to prompt.
func (w *Writer) Write(ctx context.Context, prompt string) (string, error) {
	resp, err := w.provider.Generate(ctx, scribe.Request{
		Model:    w.model,
		Messages: []scribe.Message{scribe.UserMessage(prompt, time.Now())},
	})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("model returned no content: %w", scribe.ErrEmptyResponse)
	}
	return text, nil
}
