// Package ui renders the interactive dialogs the guarded pipeline drives.
// The pipeline core never draws anything itself; it only consumes the
// Console's primitives and treats any backed-out dialog as a decline.
package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
)

type Console struct {
	styles Styles
}

func NewConsole() *Console {
	return &Console{styles: DefaultStyles()}
}

func (c *Console) Message(text string) {
	fmt.Fprintln(os.Stdout, c.styles.Message.Render(text))
}

// Confirm shows a Yes/No dialog with No selected. Backing out of the
// dialog (esc, ctrl+c) reports the same as answering No.
func (c *Console) Confirm(text string) bool {
	result := false
	confirm := huh.NewConfirm().
		Title(text).
		Affirmative("Yes").
		Negative("No").
		Value(&result)
	form := huh.NewForm(huh.NewGroup(confirm)).
		WithTheme(gsafeHuhTheme()).
		WithShowHelp(false)
	if err := form.Run(); err != nil {
		return false
	}
	return result
}

// PromptText shows a single text input pre-filled with def. ok is false
// when the operator backed out.
func (c *Console) PromptText(label string, def string) (string, bool) {
	value := def
	input := huh.NewInput().
		Title(label).
		Value(&value)
	form := huh.NewForm(huh.NewGroup(input)).
		WithTheme(gsafeHuhTheme()).
		WithShowHelp(false)
	if err := form.Run(); err != nil {
		return "", false
	}
	return value, true
}

// SelectOne shows a single-choice menu. ok is false when the operator
// backed out.
func (c *Console) SelectOne(title string, options []string) (string, bool) {
	if len(options) == 0 {
		return "", false
	}
	choice := options[0]
	sel := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&choice)
	form := huh.NewForm(huh.NewGroup(sel)).
		WithTheme(gsafeHuhTheme()).
		WithShowHelp(false)
	if err := form.Run(); err != nil {
		return "", false
	}
	return choice, true
}
