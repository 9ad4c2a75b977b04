package ui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Styles groups the lipgloss styles the console renders with.
type Styles struct {
	Banner  lipgloss.Style
	Message lipgloss.Style
	Error   lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Banner:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Message: lipgloss.NewStyle().PaddingLeft(1),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
	}
}

func gsafeHuhTheme() *huh.Theme {
	t := *huh.ThemeCharm()
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(lipgloss.Color("#7D56F4"))
	t.Focused.Next = t.Focused.FocusedButton
	return &t
}
