package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	bannerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	initInputStyle = lipgloss.NewStyle().PaddingLeft(2)
	initErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
)

type initStep int

const (
	initStepPhrase initStep = iota
	initStepBackup
	initStepPullMode
)

type initModel struct {
	input  textinput.Model
	step   initStep
	backup bool
	rebase bool
	err    string
	done   bool
}

func newInitModel() initModel {
	ti := textinput.New()
	current := defaultConfirmPhrase
	if cfg, err := LoadConfig(); err == nil && strings.TrimSpace(cfg.ConfirmPhrase) != "" {
		current = cfg.ConfirmPhrase
	}
	ti.Placeholder = defaultConfirmPhrase
	ti.SetValue(current)
	ti.CharLimit = 200
	ti.Width = 40
	ti.Focus()
	return initModel{input: ti}
}

func (m initModel) Init() tea.Cmd {
	return tea.Batch(tea.ExitAltScreen, tea.ClearScreen)
}

func (m initModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
		switch m.step {
		case initStepPhrase:
			if msg.String() == "enter" {
				m.step = initStepBackup
				return m, nil
			}
		case initStepBackup:
			switch msg.String() {
			case "y", "Y":
				m.backup = true
				m.step = initStepPullMode
			case "n", "N", "enter":
				m.backup = false
				m.step = initStepPullMode
			}
			return m, nil
		case initStepPullMode:
			switch msg.String() {
			case "r", "R":
				m.rebase = true
			case "f", "F", "enter":
				m.rebase = false
			default:
				return m, nil
			}
			return m, m.save()
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *initModel) save() tea.Cmd {
	phrase := m.input.Value()
	if phrase == "" {
		phrase = defaultConfirmPhrase
	}
	mode := pullModeFFOnly
	if m.rebase {
		mode = pullModeRebase
	}
	backup := m.backup
	cfg := Config{
		ConfirmPhrase:  phrase,
		OfferBackupTag: &backup,
		PullMode:       mode,
	}
	if err := SaveConfig(cfg); err != nil {
		m.err = err.Error()
		return nil
	}
	m.done = true
	return tea.Quit
}

func (m initModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(bannerStyle.Render("GSAFE"))
	b.WriteString("\n\n")
	switch m.step {
	case initStepPhrase:
		b.WriteString("Phrase required to confirm history-rewriting operations:\n")
		b.WriteString(initInputStyle.Render(m.input.View()))
		b.WriteString("\n")
		b.WriteString("Press enter to continue, esc to cancel.\n")
	case initStepBackup:
		b.WriteString("Offer a backup tag before destructive operations? [y/N]\n")
	case initStepPullMode:
		b.WriteString("When pull finds a diverged branch: [f]ail (default) or [r]ebase?\n")
	}
	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(initErrorStyle.Render(fmt.Sprintf("Error: %s", m.err)))
		b.WriteString("\n")
	}
	return b.String()
}
