// Package tui is a full-screen front end for a round, built on bubbletea. It
// drives the same game.Round as the line session.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/fairrps/internal/display"
	"github.com/lox/fairrps/internal/game"
	"github.com/lox/fairrps/internal/rules"
)

// Model is the bubbletea model for one round.
type Model struct {
	round    *game.Round
	renderer *display.Renderer
	logger   *log.Logger

	input    textinput.Model
	matrix   *rules.OutcomeMatrix
	notice   string
	result   *game.Result
	err      error
	quitting bool
}

// NewModel creates a model for round.
func NewModel(round *game.Round, renderer *display.Renderer, logger *log.Logger) *Model {
	ti := textinput.New()
	ti.Placeholder = "1, 2, ... / help / 0"
	ti.Focus()
	ti.CharLimit = 16
	ti.Width = 24
	ti.Prompt = "Enter your move: "
	ti.PromptStyle = renderer.Styles().Prompt

	return &Model{
		round:    round,
		renderer: renderer,
		logger:   logger.WithPrefix("tui"),
		input:    ti,
	}
}

// Init starts the cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses. Enter submits the input to the round.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.round.Abandon()
			m.quitting = true
			m.logger.Info("Round abandoned", "round", m.round.ID(), "reason", "interrupt")
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.submit(m.input.Value())
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit(value string) tea.Cmd {
	m.input.SetValue("")
	m.notice = ""

	ev, err := m.round.Handle(value)
	if err != nil {
		m.err = err
		return tea.Quit
	}

	switch ev.Kind {
	case game.EventInvalid:
		m.matrix = nil
		m.notice = display.InvalidChoice
	case game.EventHelp:
		matrix := ev.Matrix
		m.matrix = &matrix
	case game.EventExited:
		m.quitting = true
		m.logger.Info("Round abandoned", "round", m.round.ID(), "reason", "exit selected")
		return tea.Quit
	case game.EventResolved:
		result := ev.Result
		m.result = &result
		m.logger.Info("Round resolved", "round", m.round.ID(), "outcome", result.Outcome)
		return tea.Quit
	}
	return nil
}

// View renders the round.
func (m *Model) View() string {
	styles := m.renderer.Styles()

	var b strings.Builder
	b.WriteString(styles.Header.Render(" Provably fair " + fmt.Sprint(m.round.Moves().Len()) + "-way Rock Paper Scissors "))
	b.WriteString("\n\n")
	b.WriteString(m.renderer.Commitment(m.round.Tag()))

	if m.result != nil {
		b.WriteString("\n")
		b.WriteString(m.renderer.Result(*m.result))
		return b.String()
	}
	if m.quitting {
		return b.String()
	}

	b.WriteString(m.renderer.Menu(m.round.Moves()))
	if m.matrix != nil {
		b.WriteString("\n")
		b.WriteString(m.renderer.Table(*m.matrix))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(styles.Error.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(styles.Hint.Render("esc to quit without playing"))
	return b.String()
}

// Result returns the resolved round, if any.
func (m *Model) Result() (game.Result, bool) {
	if m.result == nil {
		return game.Result{}, false
	}
	return *m.result, true
}

// Err returns an error that stopped the model.
func (m *Model) Err() error { return m.err }
