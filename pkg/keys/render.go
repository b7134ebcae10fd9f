package keys

import (
	"strings"

	"github.com/muesli/reflow/ansi"
)

// Renderer lays out key bindings in columns.
type Renderer struct {
	columns [][]*Bind
}

// AddColumn appends a column of bindings. Empty columns are ignored.
func (r *Renderer) AddColumn(binds ...*Bind) {
	if len(binds) == 0 {
		return
	}

	r.columns = append(r.columns, binds)
}

// Render lays the columns out side by side within width.
func (r *Renderer) Render(width int) string {
	if len(r.columns) == 0 {
		return ""
	}

	colWidth := max(6, width/len(r.columns)-2)

	rows := make([][]string, len(r.columns))
	maxRows := 0

	for i, col := range r.columns {
		rows[i] = column(colWidth, col)
		maxRows = max(maxRows, len(rows[i]))
	}

	lines := make([]string, 0, maxRows)
	for row := range maxRows {
		var sb strings.Builder

		for col := range rows {
			cell := ""
			if row < len(rows[col]) {
				cell = rows[col][row]
			}

			sb.WriteString(" " + pad(cell, colWidth) + " ")
		}

		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}

	return strings.Join(lines, "\n")
}

func column(width int, binds []*Bind) []string {
	keyWidth := 0
	for _, b := range binds {
		keyWidth = max(keyWidth, ansi.PrintableRuneWidth(b.String()))
	}

	rows := make([]string, 0, len(binds))
	for _, b := range binds {
		if row := b.Row(keyWidth, width-keyWidth-2); row != "" {
			rows = append(rows, row)
		}
	}

	return rows
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-ansi.PrintableRuneWidth(s)))
}
