package builtin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/scribe"
	"github.com/rs/zerolog"
)

// Compile-time interface check.
var _ scribe.ToolExecutor = (*Executor)(nil)

// Executor dispatches tool calls to the grammar, content and synonym
// adapters.
type Executor struct {
	corrector scribe.Corrector
	writer    *Writer
	thesaurus scribe.Thesaurus
	tools     map[scribe.ToolName]scribe.Tool
	log       zerolog.Logger
}

// ExecutorOption configures an [Executor].
type ExecutorOption func(*Executor)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) ExecutorOption {
	return func(e *Executor) { e.log = l }
}

// NewExecutor creates a new Executor.
func NewExecutor(corrector scribe.Corrector, writer *Writer, thesaurus scribe.Thesaurus, opts ...ExecutorOption) *Executor {
	e := &Executor{
		corrector: corrector,
		writer:    writer,
		thesaurus: thesaurus,
		tools:     make(map[scribe.ToolName]scribe.Tool),
		log:       zerolog.Nop(),
	}
	for _, t := range e.Tools() {
		e.tools[t.Name] = t
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Execute validates the call payload and runs the named tool. The returned
// text is the final reply shown to the user and is never empty.
func (e *Executor) Execute(ctx context.Context, call scribe.ToolCall) (string, error) {
	tool, ok := e.tools[call.Name]
	if !ok {
		return "", fmt.Errorf("%q: %w", call.Name, scribe.ErrToolNotFound)
	}
	if err := ValidatePayload(tool, call.Payload); err != nil {
		return "", err
	}
	arg, _ := call.Arg()

	start := time.Now()
	out, err := e.run(ctx, call.Name, arg)
	evt := e.log.Info()
	if err != nil {
		evt = e.log.Warn().Err(err)
	}
	evt.Str("tool", string(call.Name)).Dur("duration", time.Since(start)).Msg("tool executed")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("%s returned an empty result", call.Name)
	}
	return out, nil
}

func (e *Executor) run(ctx context.Context, name scribe.ToolName, arg string) (string, error) {
	switch name {
	case scribe.ToolGrammar:
		return e.corrector.Correct(ctx, arg)
	case scribe.ToolContent:
		return e.writer.Write(ctx, arg)
	case scribe.ToolSynonyms:
		syns, err := e.thesaurus.Synonyms(ctx, arg)
		if err != nil {
			return "", err
		}
		return FormatSynonyms(arg, syns), nil
	default:
		return "", fmt.Errorf("%q: %w", name, scribe.ErrToolNotFound)
	}
}

// Tools returns the tool definitions for all built-in tools, in marker
// order.
func (e *Executor) Tools() []scribe.Tool {
	return []scribe.Tool{
		GrammarTool(),
		ContentTool(),
		SynonymsTool(),
	}
}
