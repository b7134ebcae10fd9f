package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/pagination"
	"github.com/macropower/leads/pkg/present"
	"github.com/macropower/leads/pkg/ui/theme"
	"github.com/macropower/leads/pkg/yaml"
)

const (
	outputTable = "table"
	outputYAML  = "yaml"
	outputJSON  = "json"
)

var (
	outputFormats = []string{outputTable, outputYAML, outputJSON}

	errUnknownOutput = errors.New("unknown output format")
)

func addOutputFlag(cmd *cobra.Command, output *string) {
	cmd.Flags().StringVarP(output, "output", "o", outputTable,
		fmt.Sprintf("Output format, one of: %s", outputFormats))

	err := cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(outputFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func validateOutput(output string) error {
	if !slices.Contains(outputFormats, output) {
		return fmt.Errorf("%w %q, one of: %s", errUnknownOutput, output, outputFormats)
	}

	return nil
}

// writeOutput encodes v as YAML or JSON, or writes the result of render for
// the table format.
func writeOutput(w io.Writer, output string, v any, render func() string) error {
	var (
		b   []byte
		err error
	)

	switch output {
	case outputTable:
		_, err = fmt.Fprintln(w, render())
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		return nil
	case outputJSON:
		b, err = json.MarshalIndent(v, "", "  ")
		b = append(b, '\n')
	case outputYAML:
		b, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("%w %q", errUnknownOutput, output)
	}

	if err != nil {
		return fmt.Errorf("encode %s: %w", output, err)
	}

	_, err = w.Write(b)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

func newTable(t *theme.Theme, headers ...string) *table.Table {
	header := t.HeaderStyle.Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(t.SubtleStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}

			return cell
		})
}

func renderCustomers(t *theme.Theme, customers []customer.Customer, now time.Time) string {
	tbl := newTable(t, "ID", "NAME", "EMAIL", "LETTER", "LEVEL", "ADTS", "LAWSUITS", "CREATED")
	for i := range customers {
		c := &customers[i]

		created := ""
		if !c.CreatedAt.IsZero() {
			created = present.FormatRelative(c.CreatedAt, now)
		}

		tbl.Row(
			strconv.Itoa(c.ID),
			c.FullName,
			c.Email,
			c.Letter,
			c.Level,
			present.FormatPercent(c.ADTS),
			present.YesNoLabel(c.HasLawsuits).Label,
			created,
		)
	}

	return tbl.Render()
}

func renderPage(t *theme.Theme, p *customer.Page, now time.Time) string {
	info := p.Pagination
	if info.Total == 0 {
		return t.SubtleStyle.Render("No customers found.")
	}

	from, to := pagination.ItemRange(info)

	return lipgloss.JoinVertical(lipgloss.Left,
		renderCustomers(t, p.Customers, now),
		t.SubtleStyle.Render(fmt.Sprintf("Showing %d to %d of %s customers, page %d of %d",
			from, to, present.FormatNumber(info.Total), info.Page, info.TotalPages)),
	)
}

func renderCustomer(t *theme.Theme, c *customer.Customer) string {
	tbl := newTable(t, "FIELD", "VALUE")

	fields := c.Fields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(a, b string) int {
		return strings.Compare(fieldOrder(a), fieldOrder(b))
	})

	for _, k := range keys {
		tbl.Row(k, formatField(fields[k]))
	}

	return tbl.Render()
}

// fieldOrder sorts the identifier first and timestamps last.
func fieldOrder(k string) string {
	switch k {
	case "id":
		return "0"
	case "createdAt", "updatedAt":
		return "2" + k
	}

	return "1" + k
}

func formatField(v any) string {
	switch v := v.(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}

		return v.Format(time.RFC3339)
	case bool:
		return present.YesNoLabel(v).Label
	case float64:
		return present.FormatPercent(v)
	}

	return fmt.Sprint(v)
}

func renderStats(t *theme.Theme, st *customer.DashboardStats, failed []string) string {
	summary := newTable(t, "TOTAL", "NEW TODAY")
	summary.Row(present.FormatNumber(st.Total), present.FormatNumber(st.NewToday))

	daily := newTable(t, "DAY", "COUNT")
	for _, d := range st.Daily {
		daily.Row(d.Day, present.FormatNumber(d.Count))
	}

	tiers := newTable(t, "TIER", "COUNT")
	for _, l := range st.Letters {
		tiers.Row(present.LetterLabel(l.Letter), present.FormatNumber(l.Count))
	}

	for _, l := range st.Levels {
		tiers.Row(present.LevelLabel(l.Level), present.FormatNumber(l.Count))
	}

	parts := []string{
		summary.Render(),
		lipgloss.JoinHorizontal(lipgloss.Top, daily.Render(), " ", tiers.Render()),
	}
	if len(failed) > 0 {
		parts = append(parts, t.ErrorTextStyle.Render("unavailable: "+strings.Join(failed, ", ")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
