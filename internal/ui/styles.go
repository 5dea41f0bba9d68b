// Package ui holds terminal styles and interactive prompts.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	colorAccent = lipgloss.Color("141")
	colorInfo   = lipgloss.Color("63")
	colorOK     = lipgloss.Color("42")
	colorFail   = lipgloss.Color("196")
	colorMuted  = lipgloss.Color("240")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(colorOK)

	SubtitleStyle   = lipgloss.NewStyle().Foreground(colorInfo)
	ErrorStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorFail)
	HelpStyle       = lipgloss.NewStyle().Foreground(colorMuted)
	SelectedStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).PaddingLeft(2)
	UnselectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).PaddingLeft(2)
)

// Icons prefixing command output.
const (
	IconBuild   = "🔨"
	IconLint    = "🔍"
	IconWatch   = "👀"
	IconPackage = "📦"
	IconRocket  = "🚀"

	iconSuccess = "✅"
	iconFailure = "❌"
)

// Success prints a success line.
func Success(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", iconSuccess, successStyle.Render(fmt.Sprintf(format, args...)))
}

// Failure prints an error line.
func Failure(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", iconFailure, ErrorStyle.Render(fmt.Sprintf(format, args...)))
}

// Title prints a section heading.
func Title(w io.Writer, icon, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", icon, titleStyle.Render(fmt.Sprintf(format, args...)))
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
