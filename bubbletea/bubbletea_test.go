package bubbletea_test

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/agent"
	bt "github.com/fwojciec/scribe/bubbletea"
	"github.com/fwojciec/scribe/dispatch"
	"github.com/fwojciec/scribe/mock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

// newRunner returns a loop whose model always replies with reply.
func newRunner(reply scribe.Reply, exec scribe.ToolExecutor) *agent.Loop {
	if exec == nil {
		exec = &mock.ToolExecutor{ExecuteFn: func(context.Context, scribe.ToolCall) (string, error) {
			return "", nil
		}}
	}
	return agent.New(
		mock.Reply(reply, ""),
		dispatch.New(exec, zerolog.Nop()),
		agent.WithClock(func() time.Time { return epoch }),
	)
}

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, runner bt.Runner, session *scribe.Session) bt.Model {
	t.Helper()
	return initModelWithSize(t, runner, session, 100, 24)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, runner bt.Runner, session *scribe.Session, width, height int) bt.Model {
	t.Helper()
	m := bt.New(runner, session, scribe.DefaultTheme())
	return updateModel(t, m, tea.WindowSizeMsg{Width: width, Height: height})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	model, _ := update(t, m, msg)
	return model
}

func update(t *testing.T, m bt.Model, msg tea.Msg) (bt.Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model, cmd
}

// typeText sends each rune of s as a key press.
func typeText(t *testing.T, m bt.Model, s string) bt.Model {
	t.Helper()
	for _, r := range s {
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// awaitTurn runs the commands returned when a turn starts and returns the
// TurnDoneMsg they produce.
func awaitTurn(t *testing.T, cmd tea.Cmd) bt.TurnDoneMsg {
	t.Helper()
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok, "turn start should batch the turn with the spinner")
	for _, c := range batch {
		if c == nil {
			continue
		}
		if done, ok := c().(bt.TurnDoneMsg); ok {
			return done
		}
	}
	t.Fatal("no TurnDoneMsg produced")
	return bt.TurnDoneMsg{}
}
