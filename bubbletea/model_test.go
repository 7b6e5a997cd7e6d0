package bubbletea_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/fwojciec/scribe"
	bt "github.com/fwojciec/scribe/bubbletea"
	"github.com/fwojciec/scribe/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	session := scribe.NewSession("s1", epoch)
	m := bt.New(newRunner(scribe.DirectReply{Text: "hi"}, nil), session, scribe.DefaultTheme())

	assert.False(t, m.Running())
	assert.NoError(t, m.Err())
	assert.Equal(t, "Initializing...", m.View())
}

func TestModel_Update(t *testing.T) {
	t.Parallel()

	t.Run("window size initializes viewport beside sidebar", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newRunner(scribe.DirectReply{Text: "hi"}, nil), scribe.NewSession("s1", epoch))

		// 100/4 = 25 sidebar columns plus a one-column border.
		assert.Equal(t, 74, m.Viewport.Width)
		assert.Equal(t, 20, m.Viewport.Height) // 24 - 1 - 1 - 2
		view := m.View()
		assert.Contains(t, view, "History")
		assert.Contains(t, view, "No history yet")
		assert.Contains(t, view, scribe.Greeting)
	})

	t.Run("narrow terminal hides sidebar", func(t *testing.T) {
		t.Parallel()

		m := initModelWithSize(t, newRunner(scribe.DirectReply{Text: "hi"}, nil), scribe.NewSession("s1", epoch), 40, 20)

		assert.Equal(t, 40, m.Viewport.Width)
		assert.NotContains(t, m.View(), "History")
	})

	t.Run("resize updates viewport dimensions", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newRunner(scribe.DirectReply{Text: "hi"}, nil), scribe.NewSession("s1", epoch))
		m = updateModel(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})

		// Sidebar caps at 32 columns.
		assert.Equal(t, 127, m.Viewport.Width)
		assert.Equal(t, 36, m.Viewport.Height)
	})

	t.Run("blank input does not start a turn", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newRunner(scribe.DirectReply{Text: "hi"}, nil), scribe.NewSession("s1", epoch))
		m = typeText(t, m, "   ")
		m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		assert.False(t, m.Running())
		assert.Nil(t, cmd)
	})

	t.Run("submit runs a turn and renders the reply", func(t *testing.T) {
		t.Parallel()

		session := scribe.NewSession("s1", epoch)
		m := initModel(t, newRunner(scribe.DirectReply{Text: "Sure, here is a draft."}, nil), session)
		m = typeText(t, m, "write a haiku")
		m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		assert.True(t, m.Running())
		assert.Empty(t, m.Input.Value())
		assert.Contains(t, m.View(), "Thinking...")

		done := awaitTurn(t, cmd)
		require.NoError(t, done.Err)
		m = updateModel(t, m, done)

		assert.False(t, m.Running())
		content := bt.RenderContent(m)
		assert.Contains(t, content, "write a haiku")
		assert.Contains(t, content, "Sure, here is a draft.")
		assert.Equal(t, []string{"write a haiku"}, session.History)
		assert.Contains(t, m.View(), "write a haiku")
	})

	t.Run("tool outcome is labelled", func(t *testing.T) {
		t.Parallel()

		exec := &mock.ToolExecutor{ExecuteFn: func(_ context.Context, call scribe.ToolCall) (string, error) {
			return "Synonyms for 'happy': glad", nil
		}}
		call := scribe.ToolCallReply{Call: scribe.ToolCall{
			Name:    scribe.ToolSynonyms,
			Payload: map[string]string{"word": "happy"},
		}}
		m := initModel(t, newRunner(call, exec), scribe.NewSession("s1", epoch))
		m = typeText(t, m, "synonyms for happy")
		m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		m = updateModel(t, m, awaitTurn(t, cmd))

		content := bt.RenderContent(m)
		assert.Contains(t, content, scribe.ToolSynonyms.Task())
		assert.Contains(t, content, "glad")
	})

	t.Run("runner error is surfaced", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newRunner(scribe.DirectReply{Text: "hi"}, nil), scribe.NewSession("s1", epoch))
		m = updateModel(t, m, bt.TurnDoneMsg{Err: scribe.ErrHistoryIndex})

		assert.ErrorIs(t, m.Err(), scribe.ErrHistoryIndex)
		assert.Contains(t, bt.RenderContent(m), "Error:")
	})

	t.Run("tab without history keeps focus on input", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newRunner(scribe.DirectReply{Text: "hi"}, nil), scribe.NewSession("s1", epoch))
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyTab})

		assert.False(t, bt.SidebarFocused(m))
		assert.True(t, m.Input.Focused())
	})

	t.Run("sidebar navigation clamps selection", func(t *testing.T) {
		t.Parallel()

		session := scribe.NewSession("s1", epoch)
		session.History = []string{"first", "second", "third"}
		m := initModel(t, newRunner(scribe.DirectReply{Text: "hi"}, nil), session)

		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyTab})
		require.True(t, bt.SidebarFocused(m))
		assert.False(t, m.Input.Focused())
		assert.Equal(t, 0, bt.Selected(m))

		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyUp})
		assert.Equal(t, 0, bt.Selected(m))
		for range 5 {
			m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyDown})
		}
		assert.Equal(t, 2, bt.Selected(m))

		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		assert.False(t, bt.SidebarFocused(m))
	})

	t.Run("enter in sidebar replays the selected entry", func(t *testing.T) {
		t.Parallel()

		session := scribe.NewSession("s1", epoch)
		session.History = []string{"oldest", "middle", "newest"}
		m := initModel(t, newRunner(scribe.DirectReply{Text: "again"}, nil), session)

		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyTab})
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyDown})
		m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		require.True(t, m.Running())
		assert.False(t, bt.SidebarFocused(m))

		m = updateModel(t, m, awaitTurn(t, cmd))

		assert.Equal(t, []string{"oldest", "middle", "newest", "middle"}, session.History)
		assert.Equal(t, scribe.UserMessage("middle", epoch), session.Messages[len(session.Messages)-2])
		assert.Contains(t, bt.RenderContent(m), "again")
	})

	t.Run("keys are ignored while running except ctrl+c", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newRunner(scribe.DirectReply{Text: "hi"}, nil), scribe.NewSession("s1", epoch))
		m = typeText(t, m, "go")
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		require.True(t, m.Running())

		m = typeText(t, m, "more")
		assert.Empty(t, m.Input.Value())

		m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
		assert.Nil(t, cmd, "ctrl+c cancels the turn instead of quitting")
		assert.True(t, m.Running())
	})

	t.Run("ctrl+c quits when idle", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newRunner(scribe.DirectReply{Text: "hi"}, nil), scribe.NewSession("s1", epoch))
		_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	})

	t.Run("long history entries are truncated in sidebar", func(t *testing.T) {
		t.Parallel()

		session := scribe.NewSession("s1", epoch)
		session.History = []string{"please rewrite this paragraph so that it sounds far more formal"}
		m := initModel(t, newRunner(scribe.DirectReply{Text: "hi"}, nil), session)

		view := m.View()
		assert.Contains(t, view, "please rewrite")
		assert.Contains(t, view, "…")
	})
}

func TestTeatest(t *testing.T) {
	t.Parallel()

	t.Run("type and submit shows reply", func(t *testing.T) {
		t.Parallel()

		session := scribe.NewSession("s1", epoch)
		m := bt.New(newRunner(scribe.DirectReply{Text: "Hello!"}, nil), session, scribe.DefaultTheme())
		tm := teatest.NewTestModel(t, m,
			teatest.WithInitialTermSize(100, 24),
		)

		tm.Type("hi")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("Hello!")) &&
				bytes.Contains(out, []byte("Enter to send"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
		final, ok := fm.(bt.Model)
		require.True(t, ok)
		assert.False(t, final.Running())
		assert.NoError(t, final.Err())
		// Greeting, user input and reply.
		assert.Len(t, session.Messages, 3)
		assert.Equal(t, []string{"hi"}, session.History)
	})
}
