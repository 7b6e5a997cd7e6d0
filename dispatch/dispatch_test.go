package dispatch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/dispatch"
	"github.com/fwojciec/scribe/marker"
	"github.com/fwojciec/scribe/mock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingExecutor(t *testing.T) *mock.ToolExecutor {
	t.Helper()
	return &mock.ToolExecutor{ExecuteFn: func(context.Context, scribe.ToolCall) (string, error) {
		t.Fatal("executor must not be called")
		return "", nil
	}}
}

func TestResolve_DirectReplyPassesThrough(t *testing.T) {
	t.Parallel()

	d := dispatch.New(failingExecutor(t), zerolog.Nop())
	for _, text := range []string{
		"Hello! How can I help?",
		"  leading space kept  ",
		"I can only help with grammar, content and synonyms.",
		"Use [CALL:correct_grammar] at the start.",
	} {
		got := d.Resolve(context.Background(), marker.Parse(text))
		assert.Equal(t, dispatch.Outcome{Text: text}, got)
	}
}

func TestResolve_ToolCall(t *testing.T) {
	t.Parallel()

	var gotCall scribe.ToolCall
	exec := &mock.ToolExecutor{ExecuteFn: func(_ context.Context, call scribe.ToolCall) (string, error) {
		gotCall = call
		return "Synonyms for 'happy': glad", nil
	}}
	d := dispatch.New(exec, zerolog.Nop())

	got := d.Resolve(context.Background(), marker.Parse(`[CALL:suggest_synonyms] {"word": "happy"}`))
	assert.Equal(t, dispatch.Outcome{Text: "Synonyms for 'happy': glad", Tool: scribe.ToolSynonyms}, got)
	assert.Equal(t, "happy", gotCall.Payload["word"])
}

func TestResolve_ToolError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tool scribe.ToolName
		want string
	}{
		{scribe.ToolGrammar, "Error processing grammar correction request: boom"},
		{scribe.ToolContent, "Error processing content creation request: boom"},
		{scribe.ToolSynonyms, "Error processing synonym suggestion request: boom"},
	}
	for _, tt := range tests {
		t.Run(string(tt.tool), func(t *testing.T) {
			t.Parallel()
			exec := &mock.ToolExecutor{ExecuteFn: func(context.Context, scribe.ToolCall) (string, error) {
				return "", errors.New("boom")
			}}
			d := dispatch.New(exec, zerolog.Nop())
			call := scribe.ToolCall{Name: tt.tool, Payload: map[string]string{tt.tool.Param(): "x"}}
			got := d.Resolve(context.Background(), scribe.ToolCallReply{Call: call})
			assert.Equal(t, dispatch.Outcome{Text: tt.want, Tool: tt.tool, Failed: true}, got)
		})
	}
}

func TestResolve_InvalidToolCall(t *testing.T) {
	t.Parallel()

	d := dispatch.New(failingExecutor(t), zerolog.Nop())

	tests := []struct {
		name   string
		reply  string
		prefix string
	}{
		{"malformed json", `[CALL:correct_grammar] {text: "oops"}`, "Error processing grammar correction request: "},
		{"missing key", `[CALL:create_content] {"topic": "cats"}`, "Error processing content creation request: "},
		{"non-string value", `[CALL:suggest_synonyms] {"word": 42}`, "Error processing synonym suggestion request: "},
		{"empty payload", `[CALL:suggest_synonyms]`, "Error processing synonym suggestion request: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Resolve(context.Background(), marker.Parse(tt.reply))
			assert.True(t, got.Failed)
			require.True(t, len(got.Text) > len(tt.prefix))
			assert.Equal(t, tt.prefix, got.Text[:len(tt.prefix)])
		})
	}
}

func TestResolve_ExecutorPanic(t *testing.T) {
	t.Parallel()

	exec := &mock.ToolExecutor{ExecuteFn: func(context.Context, scribe.ToolCall) (string, error) {
		panic("nil map")
	}}
	d := dispatch.New(exec, zerolog.Nop())
	call := scribe.ToolCall{Name: scribe.ToolGrammar, Payload: map[string]string{"text": "x"}}

	got := d.Resolve(context.Background(), scribe.ToolCallReply{Call: call})
	assert.Equal(t, "Error processing grammar correction request: nil map", got.Text)
	assert.True(t, got.Failed)
}

func TestErrorText(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Error processing synonym suggestion request: unknown error", dispatch.ErrorText(scribe.ToolSynonyms, nil))
}
