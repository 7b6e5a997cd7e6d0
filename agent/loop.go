// Package agent runs conversational turns: it records the user input, asks
// the model for a reply, resolves any tool call and records the result.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/dispatch"
	"github.com/fwojciec/scribe/marker"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single turn, model call and tool execution
// included.
const DefaultTimeout = 60 * time.Second

// Loop runs turns against a Provider, resolving replies with a Dispatcher.
type Loop struct {
	provider   scribe.Provider
	dispatcher *dispatch.Dispatcher
	tools      []scribe.Tool
	model      string
	maxTokens  int
	timeout    time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

// Option configures a [Loop].
type Option func(*Loop)

// WithTools sets the tool declarations sent with every request.
func WithTools(tools []scribe.Tool) Option {
	return func(l *Loop) { l.tools = tools }
}

// WithModel sets the model ID for provider requests.
// Empty string means the provider uses its default model.
func WithModel(model string) Option {
	return func(l *Loop) { l.model = model }
}

// WithMaxTokens caps the reply length. Zero uses the provider default.
func WithMaxTokens(n int) Option {
	return func(l *Loop) { l.maxTokens = n }
}

// WithTimeout bounds each turn. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(l *Loop) { l.timeout = d }
}

// WithClock sets the time source used to stamp messages.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) { l.now = now }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Loop) { l.log = log }
}

// New creates a new Loop.
func New(provider scribe.Provider, dispatcher *dispatch.Dispatcher, opts ...Option) *Loop {
	l := &Loop{
		provider:   provider,
		dispatcher: dispatcher,
		timeout:    DefaultTimeout,
		now:        time.Now,
		log:        zerolog.Nop(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Turn submits input to session and appends the resolved assistant reply.
// Blank input is rejected with [scribe.ErrValidation] and leaves the session
// untouched. Model and tool failures do not fail the turn: they are recorded
// in the transcript as error text and reported through Outcome.Failed.
func (l *Loop) Turn(ctx context.Context, session *scribe.Session, input string) (dispatch.Outcome, error) {
	if strings.TrimSpace(input) == "" {
		return dispatch.Outcome{}, fmt.Errorf("empty input: %w", scribe.ErrValidation)
	}
	start := l.now()
	session.Submit(input, start)

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	out := l.reply(ctx, session)
	session.Reply(out.Text, l.now())

	evt := l.log.Info()
	if out.Failed {
		evt = l.log.Warn()
	}
	evt.Str("session", session.ID).
		Str("tool", string(out.Tool)).
		Bool("failed", out.Failed).
		Dur("duration", time.Since(start)).
		Msg("turn complete")
	return out, nil
}

func (l *Loop) reply(ctx context.Context, session *scribe.Session) dispatch.Outcome {
	resp, err := l.provider.Generate(ctx, scribe.Request{
		Model:        l.model,
		SystemPrompt: scribe.SystemInstruction,
		Messages:     session.Messages,
		Tools:        l.tools,
		MaxTokens:    l.maxTokens,
	})
	if err != nil {
		l.log.Error().Err(err).Str("session", session.ID).Msg("generate failed")
		return generationError(err)
	}

	reply := resp.Reply
	if reply == nil {
		reply = marker.Parse(resp.Text)
	}
	out := l.dispatcher.Resolve(ctx, reply)
	if strings.TrimSpace(out.Text) == "" {
		return generationError(scribe.ErrEmptyResponse)
	}
	return out
}

func generationError(err error) dispatch.Outcome {
	return dispatch.Outcome{Text: "Error generating response: " + err.Error(), Failed: true}
}

// Replay re-submits the k-th replay history entry (0 = oldest) as a new
// turn. An index outside the history returns [scribe.ErrHistoryIndex].
func (l *Loop) Replay(ctx context.Context, session *scribe.Session, k int) (dispatch.Outcome, error) {
	input, err := session.HistoryEntry(k)
	if err != nil {
		return dispatch.Outcome{}, err
	}
	return l.Turn(ctx, session, input)
}
