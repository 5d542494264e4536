// Package display formats the menu, outcome table and round result for the
// terminal.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"

	"github.com/lox/fairrps/internal/game"
	"github.com/lox/fairrps/internal/moves"
	"github.com/lox/fairrps/internal/rules"
)

// TableCorner labels the row and column axes of the outcome table.
const TableCorner = `v PC \ User >`

// InvalidChoice is shown when a menu input is not recognised.
const InvalidChoice = "Invalid choice, please try again."

// Renderer produces terminal text. It implements game.View.
type Renderer struct {
	lg     *lipgloss.Renderer
	styles Styles
}

var _ game.View = (*Renderer)(nil)

// NewRenderer creates a renderer for w. With color false every style renders
// as plain text.
func NewRenderer(w io.Writer, color bool) *Renderer {
	lg := lipgloss.NewRenderer(w)
	if !color {
		lg.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{lg: lg, styles: newStyles(lg)}
}

// Styles returns the renderer's styles.
func (r *Renderer) Styles() Styles { return r.styles }

// Commitment prints the published HMAC.
func (r *Renderer) Commitment(tag string) string {
	return "HMAC: " + r.styles.Tag.Render(tag) + "\n"
}

// Menu lists the moves with 1-based selectors, then exit and help.
func (r *Renderer) Menu(set moves.MoveSet) string {
	var b strings.Builder
	b.WriteString("\nAvailable moves:\n")
	for i, name := range set.Names() {
		fmt.Fprintf(&b, "%s - %s\n", r.styles.Selector.Render(fmt.Sprint(i+1)), name)
	}
	fmt.Fprintf(&b, "%s - Exit\n", r.styles.Selector.Render(game.ExitInput))
	fmt.Fprintf(&b, "%s - Help\n", r.styles.Selector.Render(game.HelpInput))
	return b.String()
}

// Prompt asks for the next selection.
func (r *Renderer) Prompt() string {
	return r.styles.Prompt.Render("Enter your move:") + " "
}

// Help renders the outcome table.
func (r *Renderer) Help(m rules.OutcomeMatrix) string {
	return r.Table(m) + "\n"
}

// Invalid reports an unrecognised selection.
func (r *Renderer) Invalid(string) string {
	return r.styles.Error.Render(InvalidChoice) + "\n"
}

// Result prints both moves, the revealed key, the outcome and where to
// check the HMAC.
func (r *Renderer) Result(res game.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your move: %s\n", res.Human)
	fmt.Fprintf(&b, "Computer move: %s\n", res.Computer)
	fmt.Fprintf(&b, "Key: %s\n", r.styles.Key.Render(res.Reveal.Key))
	fmt.Fprintf(&b, "Result: %s\n", r.Outcome(res.Outcome))
	fmt.Fprintf(&b, "Check here:\n%s\n", r.styles.Link.Render(res.VerifyURL))
	return b.String()
}

// Outcome styles a single outcome label.
func (r *Renderer) Outcome(o rules.Outcome) string {
	switch o {
	case rules.Win:
		return r.styles.Win.Render(o.String())
	case rules.Lose:
		return r.styles.Lose.Render(o.String())
	default:
		return r.styles.Draw.Render(o.String())
	}
}

// Table renders the outcome matrix. Rows are the computer's move and columns
// the user's; each cell reads from the row move's perspective.
func (r *Renderer) Table(m rules.OutcomeMatrix) string {
	headers := append([]string{TableCorner}, m.Moves...)

	rows := make([][]string, m.Size())
	for i := range rows {
		row := make([]string, 0, m.Size()+1)
		row = append(row, m.Moves[i])
		for j := 0; j < m.Size(); j++ {
			row = append(row, m.At(i, j).String())
		}
		rows[i] = row
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.styles.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || row < 0 || row >= m.Size() {
				return r.styles.Cell.Bold(true)
			}
			if col == 0 {
				return r.styles.Cell
			}
			switch m.At(row, col-1) {
			case rules.Win:
				return r.styles.Cell.Inherit(r.styles.Win)
			case rules.Lose:
				return r.styles.Cell.Inherit(r.styles.Lose)
			default:
				return r.styles.Cell.Inherit(r.styles.Draw)
			}
		})

	return t.String()
}
