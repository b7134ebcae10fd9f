package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/macropower/leads/pkg/pagination"
	"github.com/macropower/leads/pkg/present"
	"github.com/macropower/leads/pkg/ui/theme"
)

// PaginationRenderer renders the range summary and the page navigation bar.
type PaginationRenderer struct {
	theme *theme.Theme
	width int
}

// NewPaginationRenderer creates a new pagination renderer.
func NewPaginationRenderer(t *theme.Theme, width int) *PaginationRenderer {
	return &PaginationRenderer{theme: t, width: width}
}

// Summary describes the visible range, e.g. "Showing 11 to 20 of 57".
func (pr *PaginationRenderer) Summary(info pagination.Info) string {
	start, end := pagination.ItemRange(info)

	return fmt.Sprintf("Showing %s to %s of %s",
		present.FormatNumber(start), present.FormatNumber(end), present.FormatNumber(info.Total))
}

// Bar renders the page numbers with the current page highlighted. It is
// empty when there is a single page. The bar collapses to "page X of Y"
// when the full plan does not fit.
func (pr *PaginationRenderer) Bar(info pagination.Info) string {
	if !pagination.Visible(info.TotalPages) {
		return ""
	}

	prev, next := "‹", "›"

	prevStyle, nextStyle := pr.theme.PaginationStyle, pr.theme.PaginationStyle
	if !info.HasPrevious() {
		prevStyle = pr.theme.SubtleStyle.Faint(true)
	}
	if !info.HasNext() {
		nextStyle = pr.theme.SubtleStyle.Faint(true)
	}

	items := pagination.Plan(info.Page, info.TotalPages)

	parts := make([]string, 0, len(items)+2)
	parts = append(parts, prevStyle.Render(prev))

	for _, it := range items {
		switch {
		case it.Ellipsis:
			parts = append(parts, pr.theme.SubtleStyle.Render(it.String()))
		case it.Page == info.Page:
			parts = append(parts, pr.theme.SelectedStyle.Bold(true).Render("["+it.String()+"]"))
		default:
			parts = append(parts, pr.theme.PaginationStyle.Render(it.String()))
		}
	}

	parts = append(parts, nextStyle.Render(next))

	bar := strings.Join(parts, " ")
	if ansi.StringWidth(bar) > pr.width {
		bar = pr.theme.PaginationStyle.Render(fmt.Sprintf("page %d of %d", info.Page, info.TotalPages))
	}

	return bar
}

// Render joins the summary and the bar on one line, the bar aligned right.
func (pr *PaginationRenderer) Render(info pagination.Info) string {
	summary := pr.theme.SubtleStyle.Render(pr.Summary(info))
	bar := pr.Bar(info)

	gap := pr.width - ansi.StringWidth(summary) - ansi.StringWidth(bar)
	if gap < 1 {
		return lipgloss.JoinVertical(lipgloss.Left, summary, bar)
	}

	return summary + strings.Repeat(" ", gap) + bar
}
