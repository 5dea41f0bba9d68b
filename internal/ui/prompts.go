package ui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the user leaves a prompt.
var ErrCancelled = errors.New("cancelled")

// AskConfirm prompts for yes/no confirmation.
func AskConfirm(prompt string, defaultYes bool, details ...string) (bool, error) {
	finalModel, err := tea.NewProgram(NewConfirm(prompt, defaultYes, details...)).Run()
	if err != nil {
		return false, err
	}

	result := finalModel.(ConfirmModel)
	if result.IsCancelled() {
		return false, ErrCancelled
	}
	return result.IsConfirmed(), nil
}

// AskSelect prompts for a single choice and returns its value.
func AskSelect(prompt string, choices []Choice) (string, error) {
	finalModel, err := tea.NewProgram(NewSelect(prompt, choices)).Run()
	if err != nil {
		return "", err
	}

	value := finalModel.(SelectModel).Selected()
	if value == "" {
		return "", ErrCancelled
	}
	return value, nil
}
