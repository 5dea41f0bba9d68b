package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel is a yes/no prompt shown below a list of planned actions.
type ConfirmModel struct {
	prompt    string
	details   []string
	selected  bool
	confirmed bool
	cancelled bool
}

// NewConfirm creates a confirmation prompt. details are printed above the
// question, one per line.
func NewConfirm(prompt string, defaultYes bool, details ...string) ConfirmModel {
	return ConfirmModel{
		prompt:   prompt,
		details:  details,
		selected: defaultYes,
	}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "y", "Y":
		m.selected = true
		m.confirmed = true
		return m, tea.Quit
	case "n", "N":
		m.selected = false
		m.confirmed = true
		return m, tea.Quit
	case "enter":
		m.confirmed = true
		return m, tea.Quit
	case "left", "right", "tab", "h", "l":
		m.selected = !m.selected
	case "ctrl+c", "esc", "q":
		m.cancelled = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	if m.confirmed || m.cancelled {
		return ""
	}

	var b strings.Builder
	for _, line := range m.details {
		fmt.Fprintf(&b, "  %s\n", HelpStyle.Render(line))
	}
	if len(m.details) > 0 {
		b.WriteString("\n")
	}

	yes, no := UnselectedStyle, SelectedStyle
	if m.selected {
		yes, no = SelectedStyle, UnselectedStyle
	}
	fmt.Fprintf(&b, "%s %s  %s  %s\n\n%s",
		IconRocket,
		SubtitleStyle.Render(m.prompt),
		yes.Render("Yes"),
		no.Render("No"),
		HelpStyle.Render("←/→: toggle • enter: confirm • y/n: quick select • esc: cancel"),
	)
	return b.String()
}

// IsConfirmed returns whether the user answered yes.
func (m ConfirmModel) IsConfirmed() bool {
	return m.confirmed && m.selected
}

// IsCancelled returns whether the user left the prompt without answering.
func (m ConfirmModel) IsCancelled() bool {
	return m.cancelled
}
