package detail

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/muesli/termenv"

	"github.com/macropower/leads/pkg/ui/theme"
)

// ChromaRenderer highlights YAML with the theme's chroma style.
type ChromaRenderer struct {
	theme               *theme.Theme
	lexer               chroma.Lexer
	formatter           chroma.Formatter
	lineNumbersDisabled bool
}

// NewChromaRenderer creates a new [ChromaRenderer]. The formatter follows
// the terminal's color profile.
func NewChromaRenderer(t *theme.Theme, lineNumbersDisabled bool) *ChromaRenderer {
	lexer := chroma.Coalesce(lexers.Get("YAML"))

	formatterName := "noop"
	switch termenv.ColorProfile() {
	case termenv.TrueColor:
		formatterName = "terminal16m"
	case termenv.ANSI256:
		formatterName = "terminal256"
	case termenv.ANSI:
		formatterName = "terminal8"
	}

	return &ChromaRenderer{
		theme:               t,
		lexer:               lexer,
		formatter:           formatters.Get(formatterName),
		lineNumbersDisabled: lineNumbersDisabled,
	}
}

// SetFormatter overrides the chroma formatter by name.
func (r *ChromaRenderer) SetFormatter(name string) {
	r.formatter = formatters.Get(name)
}

// Render highlights yaml and wraps it to width.
func (r *ChromaRenderer) Render(yaml string, width int) (string, error) {
	iterator, err := r.lexer.Tokenise(nil, yaml)
	if err != nil {
		return "", fmt.Errorf("lexer tokenize: %w", err)
	}

	buf := &bytes.Buffer{}

	err = r.formatter.Format(buf, r.theme.ChromaStyle, iterator)
	if err != nil {
		return "", fmt.Errorf("format: %w", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if r.lineNumbersDisabled {
			out = append(out, r.formatLine(line, width))
		} else {
			out = append(out, r.formatLineWithNumber(line, i+1, width))
		}
	}

	return strings.Join(out, "\n"), nil
}

func (r *ChromaRenderer) formatLine(line string, width int) string {
	return lipgloss.NewStyle().MaxWidth(width).Render(cellbuf.Wrap(line, width, " /-"))
}

func (r *ChromaRenderer) formatLineWithNumber(line string, n, width int) string {
	width = max(0, width-6)
	trunc := lipgloss.NewStyle().MaxWidth(width).Render

	wrapped := strings.Split(cellbuf.Wrap(line, width, " /-"), "\n")
	for i, ln := range wrapped {
		gutter := "   -  "
		if i == 0 {
			gutter = fmt.Sprintf("%4d  ", n)
		}

		wrapped[i] = r.theme.LineNumberStyle.Render(gutter) + trunc(ln)
	}

	return strings.Join(wrapped, "\n")
}
