package display

import "github.com/charmbracelet/lipgloss"

// Styles used by the renderer. They are bound to the renderer's colour
// profile, so an ASCII profile renders them as plain text.
type Styles struct {
	Header   lipgloss.Style
	Tag      lipgloss.Style
	Selector lipgloss.Style
	Prompt   lipgloss.Style
	Win      lipgloss.Style
	Lose     lipgloss.Style
	Draw     lipgloss.Style
	Key      lipgloss.Style
	Link     lipgloss.Style
	Error    lipgloss.Style
	Cell     lipgloss.Style
	Border   lipgloss.Style
	Hint     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Header: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true),
		Tag: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Selector: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Prompt: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Win: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Lose: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Draw: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Key: r.NewStyle().
			Foreground(lipgloss.Color("#74B9FF")),
		Link: r.NewStyle().
			Foreground(lipgloss.Color("#74B9FF")).
			Underline(true),
		Error: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Cell: r.NewStyle().
			Padding(0, 1),
		Border: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Hint: r.NewStyle().
			Faint(true),
	}
}
