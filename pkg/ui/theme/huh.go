package theme

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// FormTheme returns the huh theme used by the customer forms.
func (t *Theme) FormTheme() *huh.Theme {
	return t.formTheme(t.LogoStyle.GetBackground())
}

// DangerFormTheme is [Theme.FormTheme] with the focused button drawn in the
// error colour, for confirming destructive changes.
func (t *Theme) DangerFormTheme() *huh.Theme {
	return t.formTheme(t.ErrorTextStyle.GetForeground())
}

func (t *Theme) formTheme(button lipgloss.TerminalColor) *huh.Theme {
	var (
		accent = t.SelectedStyle.GetForeground()
		subtle = t.SubtleStyle.GetForeground()
		text   = t.GenericTextStyle.GetForeground()
		bad    = t.ErrorTextStyle.GetForeground()
	)

	h := huh.ThemeBase()
	f := &h.Focused

	f.Base = f.Base.BorderForeground(accent)
	f.Card = f.Base
	f.Title = f.Title.Foreground(accent).Bold(true)
	f.NoteTitle = f.NoteTitle.Foreground(accent).Bold(true).MarginBottom(1)
	f.Description = f.Description.Foreground(subtle)
	f.ErrorIndicator = f.ErrorIndicator.Foreground(bad)
	f.ErrorMessage = f.ErrorMessage.Foreground(bad)
	f.SelectSelector = f.SelectSelector.Foreground(accent)
	f.NextIndicator = f.NextIndicator.Foreground(accent)
	f.PrevIndicator = f.PrevIndicator.Foreground(accent)
	f.Option = f.Option.Foreground(text)
	f.SelectedOption = f.SelectedOption.Foreground(accent)
	f.FocusedButton = f.FocusedButton.Foreground(t.LogoStyle.GetForeground()).Background(button)
	f.BlurredButton = f.BlurredButton.Foreground(t.LogoStyle.GetForeground()).Background(subtle)
	f.Next = f.FocusedButton
	f.TextInput.Cursor = f.TextInput.Cursor.Foreground(accent)
	f.TextInput.Placeholder = f.TextInput.Placeholder.Foreground(subtle)
	f.TextInput.Prompt = f.TextInput.Prompt.Foreground(accent)

	h.Blurred = h.Focused
	h.Blurred.Base = h.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	h.Blurred.Card = h.Blurred.Base
	h.Blurred.NextIndicator = lipgloss.NewStyle()
	h.Blurred.PrevIndicator = lipgloss.NewStyle()

	h.Group.Title = h.Focused.Title
	h.Group.Description = h.Focused.Description

	return h
}
