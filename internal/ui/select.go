package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Choice is one entry of a SelectModel.
type Choice struct {
	Value       string
	Description string
}

// SelectModel picks one Choice from a list.
type SelectModel struct {
	prompt   string
	choices  []Choice
	cursor   int
	selected int
	done     bool
}

// NewSelect creates a selection prompt with the cursor on the first choice.
func NewSelect(prompt string, choices []Choice) SelectModel {
	return SelectModel{
		prompt:   prompt,
		choices:  choices,
		selected: -1,
	}
}

func (m SelectModel) Init() tea.Cmd {
	return nil
}

func (m SelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter":
		m.selected = m.cursor
		m.done = true
		return m, tea.Quit
	case "ctrl+c", "esc", "q":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SelectModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", IconPackage, SubtitleStyle.Render(m.prompt))

	width := 0
	for _, c := range m.choices {
		if len(c.Value) > width {
			width = len(c.Value)
		}
	}
	for i, c := range m.choices {
		cursor, style := " ", UnselectedStyle
		if i == m.cursor {
			cursor, style = ">", SelectedStyle
		}
		fmt.Fprintf(&b, "  %s %s %s\n", cursor, style.Render(fmt.Sprintf("%-*s", width, c.Value)), HelpStyle.Render(c.Description))
	}

	fmt.Fprintf(&b, "\n%s", HelpStyle.Render("↑/↓: navigate • enter: select • esc: cancel"))
	return b.String()
}

// Selected returns the chosen value, or "" when the prompt was cancelled.
func (m SelectModel) Selected() string {
	if m.selected >= 0 && m.selected < len(m.choices) {
		return m.choices[m.selected].Value
	}
	return ""
}
