package bubbletea

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/dispatch"
	"github.com/mattn/go-runewidth"
)

const (
	inputHeight     = 1
	statusHeight    = 1
	borderHeight    = 2
	minSidebarWidth = 16
	maxSidebarWidth = 32
	minWidthSidebar = 48
)

var _ tea.Model = Model{}

// Model is the root Bubble Tea model for the scribe TUI.
//
// The sidebar and transcript render from copies owned by the model. The
// session itself is only touched by the runner while a turn is in flight,
// and read back once the turn's result arrives.
type Model struct {
	Input    textinput.Model
	Viewport viewport.Model
	Spinner  spinner.Model

	runner  Runner
	session *scribe.Session
	theme   scribe.Theme
	styles  Styles

	blocks  []MessageBlock
	history []string

	sidebarFocus bool
	selected     int

	running bool
	cancel  context.CancelFunc
	err     error
	ready   bool
	width   int
	height  int
}

// New creates a Model that runs turns against session through runner.
func New(runner Runner, session *scribe.Session, theme scribe.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Type your message…"
	ti.Prompt = "> "
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	styles := NewStyles(theme)
	sp.Style = styles.Accent

	m := Model{
		Input:   ti,
		Spinner: sp,
		runner:  runner,
		session: session,
		theme:   theme,
		styles:  styles,
		history: slices.Clone(session.History),
	}
	m.blocks = m.sessionBlocks()
	return m
}

// Running reports whether a turn is in flight.
func (m Model) Running() bool {
	return m.running
}

// Err returns the error from the last turn, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TurnDoneMsg:
		return m.handleTurnDone(msg)
	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}
	return m.updateInput(msg)
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	main := m.Viewport.View() + "\n" + m.statusLine() + "\n" + m.Input.View()
	if m.sidebarWidth() == 0 {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), main)
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	vpHeight := max(msg.Height-inputHeight-statusHeight-borderHeight, 1)
	mainWidth := m.mainWidth()
	if !m.ready {
		m.Viewport = viewport.New(mainWidth, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = mainWidth
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = max(mainWidth-lipgloss.Width(m.Input.Prompt)-1, 1)
	m.refresh()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running && m.cancel != nil {
			m.cancel()
			return m, nil
		}
		return m, tea.Quit
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.Viewport, cmd = m.Viewport.Update(msg)
		return m, cmd
	}
	if m.running {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyTab:
		return m.toggleSidebar()
	case tea.KeyEsc:
		if m.sidebarFocus {
			m.sidebarFocus = false
			return m, m.Input.Focus()
		}
		return m, nil
	}
	if m.sidebarFocus {
		return m.handleSidebarKey(msg)
	}
	if msg.Type == tea.KeyEnter {
		return m.submitInput()
	}
	return m.updateInput(msg)
}

func (m Model) toggleSidebar() (tea.Model, tea.Cmd) {
	if m.sidebarFocus {
		m.sidebarFocus = false
		return m, m.Input.Focus()
	}
	if len(m.history) == 0 || m.sidebarWidth() == 0 {
		return m, nil
	}
	m.sidebarFocus = true
	m.selected = 0
	m.Input.Blur()
	return m, nil
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > 0 {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < len(m.history)-1 {
			m.selected++
		}
	case tea.KeyEnter:
		// Rows are listed most-recent-first.
		k := len(m.history) - 1 - m.selected
		m.sidebarFocus = false
		return m.replay(k)
	}
	return m, nil
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.Input.Value())
	if text == "" {
		return m, nil
	}
	m.Input.Reset()
	runner, session := m.runner, m.session
	return m.startTurn(text, func(ctx context.Context) (dispatch.Outcome, error) {
		return runner.Turn(ctx, session, text)
	})
}

func (m Model) replay(k int) (tea.Model, tea.Cmd) {
	if k < 0 || k >= len(m.history) {
		return m, m.Input.Focus()
	}
	runner, session := m.runner, m.session
	return m.startTurn(m.history[k], func(ctx context.Context) (dispatch.Outcome, error) {
		return runner.Replay(ctx, session, k)
	})
}

func (m Model) startTurn(input string, run func(context.Context) (dispatch.Outcome, error)) (tea.Model, tea.Cmd) {
	m.err = nil
	m.blocks = append(m.blocks, NewUserMessageBlock(input, m.styles))
	m.history = append(m.history, input)
	m.refresh()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true
	m.Input.Blur()
	return m, tea.Batch(runTurn(ctx, cancel, run), m.Spinner.Tick)
}

func runTurn(ctx context.Context, cancel context.CancelFunc, run func(context.Context) (dispatch.Outcome, error)) tea.Cmd {
	return func() tea.Msg {
		defer cancel()
		out, err := run(ctx)
		return TurnDoneMsg{Outcome: out, Err: err}
	}
}

func (m Model) handleTurnDone(msg TurnDoneMsg) (tea.Model, tea.Cmd) {
	m.running = false
	m.cancel = nil
	if msg.Err != nil {
		m.err = msg.Err
		m.blocks = append(m.blocks, NewErrorBlock("Error: "+msg.Err.Error(), m.styles))
	} else {
		m.blocks = append(m.blocks, m.outcomeBlocks(msg.Outcome)...)
	}
	m.history = slices.Clone(m.session.History)
	if m.selected >= len(m.history) {
		m.selected = 0
	}
	m.refresh()
	return m, m.Input.Focus()
}

func (m Model) outcomeBlocks(out dispatch.Outcome) []MessageBlock {
	var blocks []MessageBlock
	if out.Tool != "" {
		blocks = append(blocks, NewToolNoteBlock(out.Tool, out.Failed, m.styles))
	}
	if out.Failed {
		return append(blocks, NewErrorBlock(out.Text, m.styles))
	}
	return append(blocks, NewAssistantTextBlock(out.Text, m.theme))
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m Model) sessionBlocks() []MessageBlock {
	blocks := make([]MessageBlock, 0, len(m.session.Messages))
	for _, msg := range m.session.Messages {
		switch msg.Role {
		case scribe.RoleUser:
			blocks = append(blocks, NewUserMessageBlock(msg.Content, m.styles))
		case scribe.RoleAssistant:
			blocks = append(blocks, NewAssistantTextBlock(msg.Content, m.theme))
		}
	}
	return blocks
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
}

func (m Model) renderContent() string {
	width := m.Viewport.Width
	parts := make([]string, 0, len(m.blocks))
	for _, b := range m.blocks {
		parts = append(parts, b.View(width))
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) statusLine() string {
	switch {
	case m.running:
		return m.Spinner.View() + m.styles.Muted.Render(" Thinking... (Ctrl+C to cancel)")
	case m.sidebarFocus:
		return m.styles.Muted.Render("↑/↓ select, Enter to replay, Tab to return")
	default:
		return m.styles.Muted.Render("Enter to send, Tab for history, Ctrl+C to quit")
	}
}

func (m Model) sidebarWidth() int {
	if m.width < minWidthSidebar {
		return 0
	}
	return min(max(m.width/4, minSidebarWidth), maxSidebarWidth)
}

func (m Model) mainWidth() int {
	sw := m.sidebarWidth()
	if sw == 0 {
		return m.width
	}
	// Sidebar content plus its right border.
	return max(m.width-sw-1, 1)
}

func (m Model) sidebarView() string {
	width := m.sidebarWidth()
	height := m.Viewport.Height + inputHeight + statusHeight
	inner := max(width-1, 1)

	lines := []string{m.styles.Accent.Render("History")}
	items := (&scribe.Session{History: m.history}).RecentHistory()
	if len(items) == 0 {
		lines = append(lines, m.styles.Muted.Render("No history yet"))
	}
	rows := max(height-1, 0)
	offset := 0
	if m.selected >= rows {
		offset = m.selected - rows + 1
	}
	for i := offset; i < len(items) && i-offset < rows; i++ {
		text := runewidth.Truncate(oneLine(items[i].Text), inner-2, "…")
		if m.sidebarFocus && i == m.selected {
			lines = append(lines, m.styles.Selected.Render("▸ "+text))
			continue
		}
		lines = append(lines, "  "+text)
	}
	return m.styles.Sidebar.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
