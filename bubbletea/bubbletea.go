// Package bubbletea provides a Bubble Tea TUI for scribe.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/dispatch"
)

// Runner executes conversational turns. It is satisfied by *agent.Loop.
type Runner interface {
	Turn(ctx context.Context, session *scribe.Session, input string) (dispatch.Outcome, error)
	Replay(ctx context.Context, session *scribe.Session, k int) (dispatch.Outcome, error)
}

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. The program quits when ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// TurnDoneMsg carries the result of a turn started by the model.
type TurnDoneMsg struct {
	Outcome dispatch.Outcome
	Err     error
}
