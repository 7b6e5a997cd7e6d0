package mock

import (
	"context"

	"github.com/fwojciec/scribe"
)

// Interface compliance checks.
var (
	_ scribe.ToolExecutor = (*ToolExecutor)(nil)
	_ scribe.Corrector    = (*Corrector)(nil)
	_ scribe.Thesaurus    = (*Thesaurus)(nil)
)

// ToolExecutor is a test double for scribe.ToolExecutor.
// Set ExecuteFn before calling Execute.
type ToolExecutor struct {
	ExecuteFn func(ctx context.Context, call scribe.ToolCall) (string, error)
}

// Execute delegates to ExecuteFn.
func (e *ToolExecutor) Execute(ctx context.Context, call scribe.ToolCall) (string, error) {
	return e.ExecuteFn(ctx, call)
}

// Corrector is a test double for scribe.Corrector.
type Corrector struct {
	CorrectFn func(ctx context.Context, text string) (string, error)
}

// Correct delegates to CorrectFn.
func (c *Corrector) Correct(ctx context.Context, text string) (string, error) {
	return c.CorrectFn(ctx, text)
}

// Thesaurus is a test double for scribe.Thesaurus.
type Thesaurus struct {
	SynonymsFn func(ctx context.Context, word string) ([]string, error)
}

// Synonyms delegates to SynonymsFn.
func (t *Thesaurus) Synonyms(ctx context.Context, word string) ([]string, error) {
	return t.SynonymsFn(ctx, word)
}
