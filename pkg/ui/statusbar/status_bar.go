// Package statusbar renders the bottom bar and the help panel of the UI.
package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/macropower/leads/pkg/ui/theme"
	"github.com/macropower/leads/pkg/version"
)

const helpText = " ? help "

type Style int

const (
	StyleNormal Style = iota
	StyleSuccess
	StyleError
)

// Renderer renders a single-line status bar: logo, note, position, and
// a help hint.
type Renderer struct {
	theme   *theme.Theme
	message string
	width   int
	style   Style
}

type Opt func(*Renderer)

// WithMessage replaces the note with a temporary message.
func WithMessage(message string, style Style) Opt {
	return func(r *Renderer) {
		r.style = style
		r.message = message
	}
}

func New(t *theme.Theme, width int, opts ...Opt) *Renderer {
	r := &Renderer{theme: t, width: width, style: StyleNormal}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Render renders the status bar with note on the left and pos on the right.
func (r *Renderer) Render(note, pos string) string {
	logo := r.logo()
	help := r.help()
	posNote := r.pos(pos)
	msg := r.note(note, ansi.PrintableRuneWidth(logo)+ansi.PrintableRuneWidth(posNote)+ansi.PrintableRuneWidth(help))
	fill := r.fill(logo, msg, posNote, help)

	return logo + msg + fill + posNote + help
}

func (r *Renderer) styles() (lipgloss.Style, lipgloss.Style, lipgloss.Style) {
	switch r.style {
	case StyleError:
		return r.theme.StatusBarErrorStyle, r.theme.StatusBarErrorStyle, r.theme.StatusBarMessageHelpStyle
	case StyleSuccess:
		return r.theme.StatusBarMessageStyle, r.theme.StatusBarMessagePosStyle, r.theme.StatusBarMessageHelpStyle
	default:
		return r.theme.StatusBarStyle, r.theme.StatusBarPosStyle, r.theme.StatusBarHelpStyle
	}
}

func (r *Renderer) pos(pos string) string {
	if pos == "" {
		return ""
	}

	_, posStyle, _ := r.styles()

	return posStyle.Render(" " + pos + " ")
}

func (r *Renderer) help() string {
	_, _, helpStyle := r.styles()

	return helpStyle.Render(helpText)
}

func (r *Renderer) note(note string, used int) string {
	if r.message != "" {
		note = r.message
	}

	note = strings.TrimSpace(strings.ReplaceAll(note, "\n", " "))

	available := max(0, r.width-used)
	note = truncate.StringWithTail(" "+note+" ", uint(available), r.theme.Ellipsis) //nolint:gosec // Uses max.

	noteStyle, _, _ := r.styles()

	return noteStyle.Render(note)
}

func (r *Renderer) fill(components ...string) string {
	padding := r.width
	for _, c := range components {
		padding -= ansi.PrintableRuneWidth(c)
	}

	noteStyle, _, _ := r.styles()

	return noteStyle.Render(strings.Repeat(" ", max(0, padding)))
}

func (r *Renderer) logo() string {
	return r.theme.LogoStyle.Render(fmt.Sprintf(" leads %s ", version.GetVersion()))
}
