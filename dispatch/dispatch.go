// Package dispatch resolves a classified model reply into the text shown to
// the user, running at most one tool per reply.
package dispatch

import (
	"context"
	"fmt"

	"github.com/fwojciec/scribe"
	"github.com/rs/zerolog"
)

// Outcome is the resolved reply. Tool is empty for direct replies; Failed is
// set when Text is an error message rather than tool output.
type Outcome struct {
	Text   string
	Tool   scribe.ToolName
	Failed bool
}

// Dispatcher routes tool-call replies to a [scribe.ToolExecutor].
type Dispatcher struct {
	executor scribe.ToolExecutor
	log      zerolog.Logger
}

// New creates a Dispatcher.
func New(executor scribe.ToolExecutor, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{executor: executor, log: log}
}

// Resolve turns reply into final text. Direct replies pass through
// unchanged. Tool failures and invalid calls become an inline error message;
// Resolve itself never fails.
func (d *Dispatcher) Resolve(ctx context.Context, reply scribe.Reply) Outcome {
	switch r := reply.(type) {
	case scribe.DirectReply:
		return Outcome{Text: r.Text}
	case scribe.InvalidToolCall:
		d.log.Warn().Str("tool", string(r.Tool)).Err(r.Err).Msg("invalid tool call")
		return failure(r.Tool, r.Err)
	case scribe.ToolCallReply:
		return d.execute(ctx, r.Call)
	default:
		return Outcome{Text: fmt.Sprintf("Error processing request: unsupported reply %T", reply), Failed: true}
	}
}

func (d *Dispatcher) execute(ctx context.Context, call scribe.ToolCall) (out Outcome) {
	defer func() {
		if p := recover(); p != nil {
			d.log.Error().Str("tool", string(call.Name)).Interface("panic", p).Msg("tool panicked")
			out = failure(call.Name, fmt.Errorf("%v", p))
		}
	}()
	text, err := d.executor.Execute(ctx, call)
	if err != nil {
		return failure(call.Name, err)
	}
	return Outcome{Text: text, Tool: call.Name}
}

// ErrorText formats a tool failure the way it appears in the transcript.
func ErrorText(tool scribe.ToolName, err error) string {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return fmt.Sprintf("Error processing %s request: %s", tool.Task(), msg)
}

func failure(tool scribe.ToolName, err error) Outcome {
	return Outcome{Text: ErrorText(tool, err), Tool: tool, Failed: true}
}
