package table_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/fetcher"
	"github.com/macropower/leads/pkg/pagination"
	"github.com/macropower/leads/pkg/present"
	"github.com/macropower/leads/pkg/rule"
	"github.com/macropower/leads/pkg/ui/common"
	"github.com/macropower/leads/pkg/ui/table"
	"github.com/macropower/leads/pkg/ui/theme"
	"github.com/macropower/leads/pkg/uitest"
)

var testCustomers = []customer.Customer{
	{ID: 1, FullName: "João Silva", Email: "joao@example.com", Letter: "A", Level: "I", ADTS: 31.5, YearJoined: 2019},
	{ID: 2, FullName: "Ana Souza", Email: "ana@example.com", Letter: "D", Level: "III", ADTS: 12, HasLawsuits: true},
	{ID: 3, FullName: "Carlos Lima", Email: "carlos@example.com", Letter: "J", Level: "VI", ADTS: 4, Newsletter: true},
}

func newModel(t *testing.T, info pagination.Info, opts ...func(*table.Config)) table.Model {
	t.Helper()

	ckb := &common.KeyBinds{}
	ckb.EnsureDefaults()

	kb := &table.KeyBinds{}
	kb.EnsureDefaults()

	cfg := table.Config{
		CommonModel: &common.CommonModel{
			Theme:    theme.Default,
			KeyBinds: ckb,
			Width:    120,
			Height:   30,
		},
		KeyBinds: kb,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return table.NewModel(cfg).SetSnapshot(fetcher.Snapshot{
		Customers:  testCustomers,
		Pagination: info,
		Status:     fetcher.StatusReady,
	})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}

	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}

	return cmd()
}

func TestQuickFind(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		query string
		want  []int
	}{
		"empty query keeps order": {query: "", want: []int{1, 2, 3}},
		"diacritics are ignored":  {query: "joao", want: []int{1}},
		"matches email":           {query: "carlos@", want: []int{3}},
		"no match":                {query: "zzz", want: []int{}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := table.QuickFind(tc.query, testCustomers)

			ids := make([]int, 0, len(got))
			for _, c := range got {
				ids = append(ids, c.ID)
			}

			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	got, err := table.Normalize("Conceição Ávila")
	require.NoError(t, err)
	assert.Equal(t, "Conceicao Avila", got)
}

func TestKeyIntents(t *testing.T) {
	t.Parallel()

	middle := pagination.Info{Page: 2, Limit: 10, Total: 45, TotalPages: 5}

	tcs := map[string]struct {
		want tea.Msg
		info pagination.Info
		key  string
	}{
		"next page":         {info: middle, key: "right", want: table.PageMsg{Page: 3}},
		"previous page":     {info: middle, key: "h", want: table.PageMsg{Page: 1}},
		"first page":        {info: middle, key: "home", want: table.PageMsg{Page: 1}},
		"last page":         {info: middle, key: "G", want: table.PageMsg{Page: 5}},
		"no previous":       {info: pagination.Info{Page: 1, Limit: 10, Total: 3, TotalPages: 1}, key: "left"},
		"no next":           {info: pagination.Info{Page: 5, Limit: 10, Total: 45, TotalPages: 5}, key: "l"},
		"already on first":  {info: pagination.Info{Page: 1, Limit: 10, Total: 45, TotalPages: 5}, key: "g"},
		"page size cycles":  {info: middle, key: "s", want: table.PageSizeMsg{Limit: 20}},
		"page size wraps":   {info: pagination.Info{Page: 1, Limit: 100}, key: "s", want: table.PageSizeMsg{Limit: 10}},
		"page size rounds":  {info: pagination.Info{Page: 1, Limit: 15}, key: "s", want: table.PageSizeMsg{Limit: 20}},
		"create":            {info: middle, key: "n", want: common.CreateMsg{}},
		"open selected":     {info: middle, key: "enter", want: common.OpenMsg{Customer: testCustomers[0]}},
		"edit selected":     {info: middle, key: "e", want: common.EditMsg{Customer: testCustomers[0]}},
		"delete selected":   {info: middle, key: "d", want: common.DeleteMsg{Customer: testCustomers[0]}},
		"unbound key":       {info: middle, key: "x"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := newModel(t, tc.info)

			_, cmd := m.Update(key(tc.key))
			assert.Equal(t, tc.want, run(cmd))
		})
	}
}

func TestCursor(t *testing.T) {
	t.Parallel()

	m := newModel(t, pagination.Info{Page: 1, Limit: 10, Total: 3, TotalPages: 1})

	for range 5 {
		m, _ = m.Update(key("down"))
	}

	c, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, 3, c.ID)

	m, _ = m.Update(key("k"))
	c, _ = m.Selected()
	assert.Equal(t, 2, c.ID)

	// Reloading the same page keeps the cursor.
	m = m.SetSnapshot(m.Snapshot())
	c, _ = m.Selected()
	assert.Equal(t, 2, c.ID)

	// A different page resets it.
	s := m.Snapshot()
	s.Pagination.Page = 2
	m = m.SetSnapshot(s)
	c, _ = m.Selected()
	assert.Equal(t, 1, c.ID)
}

func TestSelectedEmpty(t *testing.T) {
	t.Parallel()

	m := newModel(t, pagination.Empty(10)).SetSnapshot(fetcher.Snapshot{Status: fetcher.StatusReady})

	_, ok := m.Selected()
	assert.False(t, ok)

	_, cmd := m.Update(key("enter"))
	assert.Nil(t, cmd)
}

func TestWhere(t *testing.T) {
	t.Parallel()

	m := newModel(t, pagination.Info{Page: 1, Limit: 10, Total: 3, TotalPages: 1})

	m, err := m.SetWhere(`customer.adtsAtual >= 10.0`)
	require.NoError(t, err)
	assert.Len(t, m.Rows(), 2)
	assert.Equal(t, `customer.adtsAtual >= 10.0`, m.Where())

	_, err = m.SetWhere(`customer.adtsAtual >=`)
	require.Error(t, err)

	m, err = m.SetWhere("")
	require.NoError(t, err)
	assert.Len(t, m.Rows(), 3)
	assert.Empty(t, m.Where())
}

func TestWhereInput(t *testing.T) {
	t.Parallel()

	m := newModel(t, pagination.Info{Page: 1, Limit: 10, Total: 3, TotalPages: 1})

	m, _ = m.Update(key(":"))
	assert.Equal(t, table.InputWhere, m.Mode())

	m, _ = m.Update(key(`customer.possuiProcessos`))
	m, _ = m.Update(key("enter"))
	assert.Equal(t, table.InputNone, m.Mode())
	require.Len(t, m.Rows(), 1)
	assert.Equal(t, 2, m.Rows()[0].ID)

	// Back clears filters.
	m, _ = m.Update(key("esc"))
	assert.Len(t, m.Rows(), 3)
}

func TestSearchInput(t *testing.T) {
	t.Parallel()

	m := newModel(t, pagination.Info{Page: 1, Limit: 10, Total: 3, TotalPages: 1})

	m, _ = m.Update(key("/"))
	assert.Equal(t, table.InputSearch, m.Mode())

	m, _ = m.Update(key("ana"))
	require.Len(t, m.Rows(), 1)
	assert.Equal(t, 2, m.Rows()[0].ID)

	m, cmd := m.Update(key("enter"))
	assert.Equal(t, table.SearchMsg{Query: "ana"}, run(cmd))
	assert.Len(t, m.Rows(), 3)

	m, _ = m.Update(key("/"))
	m, _ = m.Update(key("car"))
	m, _ = m.Update(key("esc"))
	assert.Equal(t, table.InputNone, m.Mode())
	assert.Len(t, m.Rows(), 3)
}

func TestView(t *testing.T) {
	t.Parallel()

	highlights := rule.Rules{rule.MustNew("top", `customer.adtsAtual >= 30.0`, present.TokenSuccess)}

	tcs := map[string]struct {
		snapshot fetcher.Snapshot
		compact  bool
		want     []string
		notWant  []string
	}{
		"page of customers": {
			snapshot: fetcher.Snapshot{
				Customers:  testCustomers,
				Pagination: pagination.Info{Page: 2, Limit: 3, Total: 15, TotalPages: 5},
				Status:     fetcher.StatusReady,
			},
			want: []string{"Customers", "João Silva", "31.5%", "Has", "Yes", "Showing 4 to 6 of 15", "[2]"},
		},
		"compact hides columns": {
			snapshot: fetcher.Snapshot{
				Customers:  testCustomers,
				Pagination: pagination.Info{Page: 1, Limit: 10, Total: 3, TotalPages: 1},
				Status:     fetcher.StatusReady,
			},
			compact: true,
			want:    []string{"Ana Souza", "Showing 1 to 3 of 3"},
			notWant: []string{"ADTS", "Newsletter", "[1]"},
		},
		"error": {
			snapshot: fetcher.Snapshot{
				ErrorMessage: "failed to load customers",
				Pagination:   pagination.Empty(10),
				Status:       fetcher.StatusError,
			},
			want: []string{"failed to load customers", "Showing 0 to 0 of 0"},
		},
		"empty": {
			snapshot: fetcher.Snapshot{Pagination: pagination.Empty(10), Status: fetcher.StatusReady},
			want:     []string{"No customers found."},
		},
		"loading": {
			snapshot: fetcher.Snapshot{Pagination: pagination.Empty(10), Status: fetcher.StatusLoading},
			want:     []string{"Loading customers"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := newModel(t, tc.snapshot.Pagination, func(c *table.Config) {
				c.Compact = tc.compact
				c.Highlights = highlights
			}).SetSnapshot(tc.snapshot)

			got := ansi.Strip(m.View())
			for _, w := range tc.want {
				assert.Contains(t, got, w)
			}
			for _, w := range tc.notWant {
				assert.NotContains(t, got, w)
			}

			for _, line := range strings.Split(got, "\n") {
				assert.LessOrEqual(t, ansi.StringWidth(line), 120, line)
			}
		})
	}
}

func TestPaginationRenderer(t *testing.T) {
	t.Parallel()

	pr := table.NewPaginationRenderer(theme.Default, 80)

	assert.Equal(t, "Showing 11 to 20 of 57", pr.Summary(pagination.Info{Page: 2, Limit: 10, Total: 57, TotalPages: 6}))
	assert.Empty(t, pr.Bar(pagination.Info{Page: 1, Limit: 10, Total: 3, TotalPages: 1}))

	bar := ansi.Strip(pr.Bar(pagination.Info{Page: 10, Limit: 10, Total: 200, TotalPages: 20}))
	assert.Equal(t, "‹ 1 … 9 [10] 11 … 20 ›", bar)

	narrow := table.NewPaginationRenderer(theme.Default, 10)
	assert.Equal(t, "page 10 of 20", ansi.Strip(narrow.Bar(pagination.Info{Page: 10, Limit: 10, Total: 200, TotalPages: 20})))
}

func TestProgram(t *testing.T) {
	t.Parallel()

	uitest.SetupColorProfile()

	m := newModel(t, pagination.Info{Page: 1, Limit: 10, Total: 3, TotalPages: 1})
	tm := uitest.NewTestModel(t, m, uitest.Standard)

	uitest.WaitFor(t, tm.Output(), uitest.Contains("Carlos Lima"))

	tm.Send(key("/"))
	tm.Send(key("ana"))

	uitest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("find: ")) || bytes.Contains(b, []byte("Find:"))
	})

	require.NoError(t, tm.Quit())
}
