// Package dashboard renders the summary cards and charts shown above the
// customer table.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/present"
	"github.com/macropower/leads/pkg/stats"
	"github.com/macropower/leads/pkg/ui/common"
	"github.com/macropower/leads/pkg/ui/theme"
)

const (
	chartMinWidth = 28
	labelWidth    = 9
	countWidth    = 5
)

// ResultMsg carries freshly loaded statistics.
type ResultMsg struct {
	Result   *stats.Result
	LoadedAt time.Time
}

// Loader loads dashboard statistics.
type Loader interface {
	Load(ctx context.Context) *stats.Result
}

// Load returns a command loading statistics with l.
func Load(ctx context.Context, l Loader) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg{Result: l.Load(ctx), LoadedAt: time.Now()}
	}
}

type Model struct {
	cm       *common.CommonModel
	result   *stats.Result
	now      func() time.Time
	loadedAt time.Time
}

// Opt configures a [Model].
type Opt func(m *Model)

// WithClock sets the clock used for the "updated" note.
func WithClock(now func() time.Time) Opt {
	return func(m *Model) {
		m.now = now
	}
}

func NewModel(cm *common.CommonModel, opts ...Opt) Model {
	m := Model{cm: cm, now: time.Now}
	for _, opt := range opts {
		opt(&m)
	}

	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Loaded reports whether statistics have been received.
func (m Model) Loaded() bool {
	return m.result != nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cm.Width = msg.Width
		m.cm.Height = msg.Height

	case ResultMsg:
		m.result = msg.Result
		m.loadedAt = msg.LoadedAt
	}

	return m, nil
}

func (m Model) View() string {
	t := m.cm.Theme
	width := max(0, m.cm.Width)

	if m.result == nil {
		return t.SubtleStyle.Render("Loading statistics" + t.Ellipsis)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.cardsView(width), m.chartsView(width))
}

func (m Model) cardsView(width int) string {
	t := m.cm.Theme
	r := m.result
	s := r.Stats

	cards := []string{
		m.card("Total customers", present.FormatNumber(s.Total), r.Failed(stats.SectionTotal)),
		m.card("New today", present.FormatNumber(s.NewToday), r.Failed(stats.SectionDaily)),
		m.card("Busiest day", busiestDay(s.Daily), r.Failed(stats.SectionDaily)),
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if !m.loadedAt.IsZero() {
		note := t.SubtleStyle.Render("updated " + present.FormatRelative(m.loadedAt, m.now()))
		row = lipgloss.JoinHorizontal(lipgloss.Bottom, row, " ", note)
	}

	return lipgloss.NewStyle().MaxWidth(width).Render(row)
}

func (m Model) card(title, value string, failed bool) string {
	t := m.cm.Theme

	valueStyle := t.HeaderStyle
	if failed {
		valueStyle = t.Token(present.TokenWarning).Bold(true)
		value += " !"
	}

	return t.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		t.CardTitleStyle.Render(title),
		valueStyle.Render(value),
	))
}

func (m Model) chartsView(width int) string {
	s := m.result.Stats

	charts := []string{
		m.chart("New customers this week", dailyBars(s.Daily), m.result.Failed(stats.SectionDaily)),
		m.chart("Customers by letter", letterBars(s.Letters), m.result.Failed(stats.SectionLetters)),
		m.chart("Customers by level", levelBars(s.Levels), m.result.Failed(stats.SectionLevels)),
	}

	perRow := max(1, min(len(charts), width/chartMinWidth))
	chartWidth := max(chartMinWidth, width/perRow)

	rows := make([]string, 0, len(charts))
	for i := 0; i < len(charts); i += perRow {
		end := min(i+perRow, len(charts))

		line := make([]string, 0, end-i)
		for _, c := range charts[i:end] {
			line = append(line, lipgloss.NewStyle().Width(chartWidth).Render(c))
		}

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, line...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

type bar struct {
	label string
	token present.Token
	count int
}

func (m Model) chart(title string, bars []bar, failed bool) string {
	t := m.cm.Theme

	lines := []string{t.CardTitleStyle.Render(title)}

	if failed {
		lines = append(lines, t.Token(present.TokenWarning).Render("unavailable"))
	}

	values := make([]int, 0, len(bars))
	for _, b := range bars {
		values = append(values, b.count)
	}

	top := present.ChartMax(values)
	barWidth := max(1, chartMinWidth-labelWidth-countWidth-2)

	for _, b := range bars {
		n := max(0, min(barWidth, b.count*barWidth/top))

		label := fmt.Sprintf("%-*s", labelWidth, ansi.Truncate(b.label, labelWidth, ""))
		count := fmt.Sprintf("%*s", countWidth, present.FormatNumber(b.count))

		lines = append(lines, t.SubtleStyle.Render(label)+" "+
			t.Token(b.token).Render(strings.Repeat(theme.BarBlock, n))+
			strings.Repeat(" ", barWidth-n)+" "+count)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func dailyBars(daily []customer.DailyCount) []bar {
	out := make([]bar, 0, len(daily))
	for i, d := range daily {
		tok := present.TokenInfo
		if i == len(daily)-1 {
			tok = present.TokenSuccess
		}

		out = append(out, bar{label: dayLabel(daily, i), count: d.Count, token: tok})
	}

	return out
}

func letterBars(letters []customer.LetterCount) []bar {
	out := make([]bar, 0, len(letters))
	for _, l := range letters {
		out = append(out, bar{
			label: present.LetterLabel(l.Letter),
			count: l.Count,
			token: present.ClassifyLetter(l.Letter).Token,
		})
	}

	return out
}

func levelBars(levels []customer.LevelCount) []bar {
	out := make([]bar, 0, len(levels))
	for _, l := range levels {
		out = append(out, bar{label: present.LevelLabel(l.Level), count: l.Count, token: present.TokenAccent})
	}

	return out
}

// dayLabel names entry i of the daily series. A full week uses the fixed
// weekday labels.
func dayLabel(daily []customer.DailyCount, i int) string {
	if len(daily) == len(present.DayLabels) {
		return present.DayLabels[i]
	}

	return daily[i].Day
}

func busiestDay(daily []customer.DailyCount) string {
	best := -1
	for i, d := range daily {
		if best < 0 || d.Count > daily[best].Count {
			best = i
		}
	}

	if best < 0 {
		return "-"
	}

	return dayLabel(daily, best)
}
