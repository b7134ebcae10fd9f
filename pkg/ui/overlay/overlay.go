// Package overlay composites a floating box, such as an error or a form,
// on top of a rendered view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/muesli/reflow/truncate"

	"github.com/macropower/leads/pkg/ui/theme"
)

const (
	defaultMinWidth = 16

	// Lines kept free above and below the overlay.
	verticalMargin = 8

	wrapOnCharacters = " /-"
)

type Overlay struct {
	theme *theme.Theme

	width, height int

	// Minimum width of the overlay.
	minWidth int
}

type Opt func(*Overlay)

// WithMinWidth sets the minimum width of the overlay, in cells.
func WithMinWidth(minWidth int) Opt {
	return func(o *Overlay) {
		o.minWidth = minWidth
	}
}

func New(t *theme.Theme, opts ...Opt) *Overlay {
	o := &Overlay{
		theme:    t,
		minWidth: defaultMinWidth,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// SetSize sets the size of the view on which the overlay is placed.
func (o *Overlay) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// Place renders fg with style and centers it on top of bg. The overlay is
// widthFraction of the view wide. Content that does not fit vertically is
// cut off with a hint.
func (o *Overlay) Place(bg, fg string, widthFraction float64, style lipgloss.Style) string {
	overlayWidth := clamp(int(float64(o.width)*widthFraction), o.minWidth, o.width)
	contentWidth := max(1, overlayWidth-style.GetHorizontalFrameSize())

	fgLines, _ := getLines(cellbuf.Wrap(fg, contentWidth, wrapOnCharacters))

	maxHeight := o.height - verticalMargin
	switch {
	case maxHeight < 1:
		fgLines = nil
	case len(fgLines) > maxHeight:
		fgLines = fgLines[:maxHeight]
		hint := truncate.StringWithTail("output truncated", uint(contentWidth), o.theme.Ellipsis) //nolint:gosec // Uses max.
		fgLines = append(fgLines, "", o.theme.SubtleStyle.Render(hint))
	}

	fg = style.Width(overlayWidth).Render(strings.Join(fgLines, "\n"))

	fgLines, fgWidth := getLines(fg)
	bgLines, bgWidth := getLines(bg)

	x := clamp(bgWidth-fgWidth, 0, bgWidth) / 2
	y := clamp(len(bgLines)-len(fgLines), 0, len(bgLines)) / 2

	var b strings.Builder
	for i, bgLine := range bgLines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i < y || i >= y+len(fgLines) {
			b.WriteString(bgLine)

			continue
		}

		b.WriteString(placeLine(bgLine, fgLines[i-y], x))
	}

	return b.String()
}

// placeLine replaces the cells of bg starting at column x with fg.
func placeLine(bg, fg string, x int) string {
	var b strings.Builder

	left := ansi.Truncate(bg, x, "")
	b.WriteString(left)

	if pad := x - ansi.StringWidth(left); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}

	b.WriteString(fg)

	end := x + ansi.StringWidth(fg)
	if ansi.StringWidth(bg) > end {
		b.WriteString(ansi.TruncateLeft(bg, end, ""))
	}

	return b.String()
}

func clamp(v, lower, upper int) int {
	return min(max(v, lower), upper)
}

// getLines splits s into lines, additionally returning the width of the
// widest line.
func getLines(s string) ([]string, int) {
	lines := strings.Split(s, "\n")
	widest := 0
	for _, l := range lines {
		widest = max(widest, ansi.StringWidth(l))
	}

	return lines, widest
}
