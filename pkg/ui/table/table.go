// Package table renders one page of customers with navigation, quick-find,
// and CEL filtering of the loaded rows.
package table

import (
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/fetcher"
	"github.com/macropower/leads/pkg/keys"
	"github.com/macropower/leads/pkg/present"
	"github.com/macropower/leads/pkg/rule"
	"github.com/macropower/leads/pkg/ui/common"
	"github.com/macropower/leads/pkg/ui/statusbar"
)

// Top border, header, header border, and bottom border.
const tableChromeHeight = 4

// PageSizes are cycled through by the page size binding.
var PageSizes = []int{10, 20, 50, 100}

type (
	// PageMsg requests page n.
	PageMsg struct{ Page int }
	// PageSizeMsg requests a new page size.
	PageSizeMsg struct{ Limit int }
	// SearchMsg requests a server side search. An empty query clears it.
	SearchMsg struct{ Query string }
)

// InputMode is the current editing state of the input line.
type InputMode int

const (
	InputNone   InputMode = iota
	InputSearch           // Typing a quick-find query.
	InputWhere            // Typing a CEL filter.
)

type Config struct {
	CommonModel *common.CommonModel
	KeyBinds    *KeyBinds
	Highlights  rule.Rules
	Compact     bool
}

type Model struct {
	cm           *common.CommonModel
	kb           *KeyBinds
	where        *rule.Filter
	helpRenderer *statusbar.HelpRenderer
	whereErr     error
	input        textinput.Model
	query        string
	highlights   rule.Rules
	rows         []customer.Customer
	snapshot     fetcher.Snapshot
	cursor       int
	mode         InputMode
	compact      bool
	ShowHelp     bool
}

func NewModel(c Config) Model {
	ti := textinput.New()
	ti.PromptStyle = c.CommonModel.Theme.FilterStyle.MarginRight(1)
	ti.Cursor.Style = c.CommonModel.Theme.CursorStyle.MarginRight(1)

	ckb := c.CommonModel.KeyBinds
	kb := c.KeyBinds

	kbr := &keys.Renderer{}
	kbr.AddColumn(kb.Up, kb.Down, kb.Next, kb.Prev, kb.First, kb.Last)
	kbr.AddColumn(kb.Open, kb.Create, kb.Edit, kb.Delete, kb.PageSize)
	kbr.AddColumn(kb.Search, kb.Where, ckb.Refresh, ckb.Dashboard, ckb.Back, ckb.Help, ckb.Quit)

	return Model{
		cm:           c.CommonModel,
		kb:           kb,
		input:        ti,
		highlights:   c.Highlights,
		helpRenderer: statusbar.NewHelpRenderer(c.CommonModel.Theme, kbr),
		compact:      c.Compact,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// SetSnapshot replaces the loaded page. The cursor is kept on reloads of
// the same page.
func (m Model) SetSnapshot(s fetcher.Snapshot) Model {
	if s.Pagination.Page != m.snapshot.Pagination.Page || s.Pagination.Limit != m.snapshot.Pagination.Limit {
		m.cursor = 0
	}

	m.snapshot = s

	return m.refilter()
}

func (m Model) Snapshot() fetcher.Snapshot {
	return m.snapshot
}

// Selected returns the customer under the cursor.
func (m Model) Selected() (customer.Customer, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return customer.Customer{}, false
	}

	return m.rows[m.cursor], true
}

// Rows returns the customers currently shown, after quick-find and filters.
func (m Model) Rows() []customer.Customer {
	return m.rows
}

// Mode returns the current input mode.
func (m Model) Mode() InputMode {
	return m.mode
}

// Where returns the applied CEL filter, if any.
func (m Model) Where() string {
	if m.where == nil {
		return ""
	}

	return m.where.String()
}

// SetWhere applies a CEL filter to the loaded rows. An empty expression
// clears it.
func (m Model) SetWhere(expression string) (Model, error) {
	if expression == "" {
		m.where = nil
		m.whereErr = nil

		return m.refilter(), nil
	}

	f, err := rule.NewFilter(expression)
	if err != nil {
		return m, err
	}

	m.where = f

	return m.refilter(), m.whereErr
}

func (m Model) refilter() Model {
	rows := QuickFind(m.query, m.snapshot.Customers)

	m.whereErr = nil
	if m.where != nil {
		filtered, err := m.where.Apply(rows)
		if err != nil {
			m.whereErr = err
		} else {
			rows = filtered
		}
	}

	m.rows = rows
	m.cursor = min(m.cursor, max(0, len(rows)-1))

	return m
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cm.Width = msg.Width
		m.cm.Height = msg.Height

	case fetcher.EventEnd:
		m = m.SetSnapshot(msg.Snapshot)

	case tea.KeyMsg:
		if m.mode != InputNone {
			return m.handleInput(msg)
		}

		return m.handleBrowsing(msg)
	}

	return m, nil
}

func (m Model) handleBrowsing(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()
	info := m.snapshot.Pagination
	kb := m.kb

	switch {
	case kb.Up.Match(key):
		m.cursor = max(0, m.cursor-1)

	case kb.Down.Match(key):
		m.cursor = min(max(0, len(m.rows)-1), m.cursor+1)

	case kb.Next.Match(key):
		if info.HasNext() {
			return m, pageCmd(info.Page + 1)
		}

	case kb.Prev.Match(key):
		if info.HasPrevious() {
			return m, pageCmd(info.Page - 1)
		}

	case kb.First.Match(key):
		if info.Page != 1 {
			return m, pageCmd(1)
		}

	case kb.Last.Match(key):
		if info.TotalPages > 0 && info.Page != info.TotalPages {
			return m, pageCmd(info.TotalPages)
		}

	case kb.PageSize.Match(key):
		limit := nextPageSize(info.Limit)

		return m, func() tea.Msg { return PageSizeMsg{Limit: limit} }

	case kb.Search.Match(key):
		return m.startInput(InputSearch, "Find:", m.query)

	case kb.Where.Match(key):
		return m.startInput(InputWhere, "Where:", m.Where())

	case kb.Create.Match(key):
		return m, func() tea.Msg { return common.CreateMsg{} }

	case kb.Open.Match(key), kb.Edit.Match(key), kb.Delete.Match(key):
		c, ok := m.Selected()
		if !ok {
			return m, nil
		}

		switch {
		case kb.Open.Match(key):
			return m, func() tea.Msg { return common.OpenMsg{Customer: c} }
		case kb.Edit.Match(key):
			return m, func() tea.Msg { return common.EditMsg{Customer: c} }
		default:
			return m, func() tea.Msg { return common.DeleteMsg{Customer: c} }
		}

	case m.cm.KeyBinds.Back.Match(key):
		if m.query != "" || m.where != nil {
			m.query = ""
			m.where = nil

			return m.refilter(), nil
		}

	case m.cm.KeyBinds.Help.Match(key):
		m.ShowHelp = !m.ShowHelp
	}

	return m, nil
}

func (m Model) startInput(mode InputMode, prompt, value string) (Model, tea.Cmd) {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()

	return m, m.input.Focus()
}

func (m Model) handleInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.mode == InputSearch {
			m.query = ""
		}

		m.mode = InputNone
		m.input.Blur()

		return m.refilter(), nil

	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode

		m.mode = InputNone
		m.input.Blur()

		if mode == InputWhere {
			var err error

			m, err = m.SetWhere(value)
			if err != nil {
				return m, m.cm.SendStatusMessage(err.Error(), statusbar.StyleError)
			}

			return m, nil
		}

		// The server search replaces the quick-find preview.
		m.query = ""
		m = m.refilter()

		return m, func() tea.Msg { return SearchMsg{Query: value} }
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	if m.mode == InputSearch {
		m.query = m.input.Value()
		m = m.refilter()
	}

	return m, cmd
}

func pageCmd(n int) tea.Cmd {
	return func() tea.Msg {
		return PageMsg{Page: n}
	}
}

func nextPageSize(current int) int {
	i := slices.Index(PageSizes, current)
	if i < 0 {
		for j, s := range PageSizes {
			if s > current {
				return PageSizes[j]
			}
		}

		return PageSizes[0]
	}

	return PageSizes[(i+1)%len(PageSizes)]
}

func (m Model) View() string {
	t := m.cm.Theme
	width := max(0, m.cm.Width)

	top := m.inputView()

	var bottom string
	if m.ShowHelp {
		bottom = m.helpRenderer.Render(width)
	} else {
		bottom = NewPaginationRenderer(t, width).Render(m.snapshot.Pagination)
	}

	height := max(0, m.cm.Height-lipgloss.Height(top)-lipgloss.Height(bottom))

	return lipgloss.JoinVertical(lipgloss.Left, top, m.bodyView(width, height), bottom)
}

func (m Model) inputView() string {
	t := m.cm.Theme

	if m.mode != InputNone {
		return m.input.View()
	}

	var parts []string
	if s := m.snapshot.Filters.Search; s != "" {
		parts = append(parts, t.FilterStyle.Render("search: ")+s)
	}
	if m.query != "" {
		parts = append(parts, t.FilterStyle.Render("find: ")+m.query)
	}
	if m.where != nil {
		parts = append(parts, t.FilterStyle.Render("where: ")+m.where.String())
	}
	if m.whereErr != nil {
		parts = append(parts, t.ErrorTextStyle.Render("filter failed"))
	}

	if len(parts) == 0 {
		return t.HeaderStyle.Render("Customers")
	}

	return t.HeaderStyle.Render("Customers") + "  " + strings.Join(parts, "  ")
}

func (m Model) bodyView(width, height int) string {
	t := m.cm.Theme
	s := m.snapshot

	if len(m.rows) == 0 {
		var msg string

		switch {
		case s.Status == fetcher.StatusError:
			msg = t.ErrorTextStyle.Render(s.ErrorMessage)
		case s.Status == fetcher.StatusLoading || s.Status == fetcher.StatusIdle:
			msg = t.SubtleStyle.Render("Loading customers" + t.Ellipsis)
		default:
			msg = t.SubtleStyle.Render("No customers found.")
		}

		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
	}

	visible := max(1, height-tableChromeHeight)
	offset := max(0, m.cursor-visible+1)

	headers, rows := m.cells()

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(t.SubtleStyle).
		BorderColumn(false).
		Headers(headers...).
		Rows(rows...).
		Wrap(false).
		Width(width).
		Height(max(height, tableChromeHeight+1)).
		Offset(offset).
		StyleFunc(m.styleFunc())

	return tbl.Render()
}

type column struct {
	value   func(c *customer.Customer) string
	tier    func(c *customer.Customer) present.Tier
	header  string
	compact bool
}

var columns = []column{
	{header: "ID", compact: true, value: func(c *customer.Customer) string { return strconv.Itoa(c.ID) }},
	{header: "Name", compact: true, value: func(c *customer.Customer) string { return c.FullName }},
	{header: "Email", compact: true, value: func(c *customer.Customer) string { return c.Email }},
	{header: "WhatsApp", value: func(c *customer.Customer) string { return c.WhatsApp }},
	{
		header: "Letter", compact: true,
		value: func(c *customer.Customer) string { return c.Letter },
		tier:  func(c *customer.Customer) present.Tier { return present.ClassifyLetter(c.Letter) },
	},
	{header: "Level", compact: true, value: func(c *customer.Customer) string { return c.Level }},
	{
		header: "ADTS",
		value:  func(c *customer.Customer) string { return present.FormatPercent(c.ADTS) },
		tier:   func(c *customer.Customer) present.Tier { return present.ClassifyADTS(c.ADTS) },
	},
	{header: "Year", value: func(c *customer.Customer) string { return strconv.Itoa(c.YearJoined) }},
	{
		header: "Lawsuits",
		value:  func(c *customer.Customer) string { return present.HasLabel(c.HasLawsuits).Label },
		tier:   func(c *customer.Customer) present.Tier { return present.HasLabel(c.HasLawsuits) },
	},
	{
		header: "Newsletter",
		value:  func(c *customer.Customer) string { return present.YesNoLabel(c.Newsletter).Label },
		tier:   func(c *customer.Customer) present.Tier { return present.YesNoLabel(c.Newsletter) },
	},
}

const nameColumn = 1

func (m Model) columns() []column {
	if !m.compact {
		return columns
	}

	out := make([]column, 0, len(columns))
	for _, c := range columns {
		if c.compact {
			out = append(out, c)
		}
	}

	return out
}

func (m Model) cells() ([]string, [][]string) {
	cols := m.columns()

	headers := make([]string, 0, len(cols))
	for _, c := range cols {
		headers = append(headers, c.header)
	}

	rows := make([][]string, 0, len(m.rows))
	for i := range m.rows {
		c := &m.rows[i]

		row := make([]string, 0, len(cols))
		for j, col := range cols {
			v := col.value(c)
			if j == nameColumn && m.query != "" {
				base := m.rowStyle(i)
				v = styleFilteredText(v, m.query, base, base.Underline(true))
			}

			row = append(row, v)
		}

		rows = append(rows, row)
	}

	return headers, rows
}

// rowStyle is the style of the identifying cells of row i: the cursor
// style, a highlight rule style, or the default.
func (m Model) rowStyle(i int) lipgloss.Style {
	t := m.cm.Theme

	style := t.GenericTextStyle
	if r := m.highlights.For(&m.rows[i]); r != nil {
		style = t.Token(r.Style)
	}

	if i == m.cursor {
		style = style.Inherit(t.CursorStyle)
	}

	return style
}

func (m Model) styleFunc() table.StyleFunc {
	t := m.cm.Theme
	cols := m.columns()
	cell := lipgloss.NewStyle().Padding(0, 1)

	return func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return t.HeaderStyle.Padding(0, 1)
		}

		if row < 0 || row >= len(m.rows) || col >= len(cols) {
			return cell
		}

		if col == nameColumn && m.query != "" {
			// Already styled per rune.
			return cell
		}

		style := m.rowStyle(row)
		if tier := cols[col].tier; tier != nil {
			style = t.Token(tier(&m.rows[row]).Token)
			if row == m.cursor {
				style = style.Inherit(t.CursorStyle)
			}
		}

		return style.Padding(0, 1)
	}
}
