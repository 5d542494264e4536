package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/fairrps/internal/display"
	"github.com/lox/fairrps/internal/game"
)

// Run plays round in a bubbletea program reading from in and drawing to out.
// Cancelling ctx abandons the round.
func Run(ctx context.Context, round *game.Round, renderer *display.Renderer, in io.Reader, out io.Writer, logger *log.Logger) error {
	model := NewModel(round, renderer, logger)
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			round.Abandon()
			return nil
		}
		return fmt.Errorf("run TUI: %w", err)
	}
	return model.Err()
}
