// Package ui provides the terminal interface of leads.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/leads/pkg/action"
	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/fetcher"
	"github.com/macropower/leads/pkg/present"
	"github.com/macropower/leads/pkg/rule"
	"github.com/macropower/leads/pkg/ui/common"
	"github.com/macropower/leads/pkg/ui/dashboard"
	"github.com/macropower/leads/pkg/ui/detail"
	"github.com/macropower/leads/pkg/ui/form"
	"github.com/macropower/leads/pkg/ui/overlay"
	"github.com/macropower/leads/pkg/ui/statusbar"
	"github.com/macropower/leads/pkg/ui/table"
	"github.com/macropower/leads/pkg/ui/theme"
)

const (
	statusBarHeight = 1

	// The dashboard is hidden when it would leave fewer rows to the table.
	minTableHeight = 10
)

// Fetcher drives the paged customer listing.
type Fetcher interface {
	Start(ctx context.Context) error
	GoToPage(ctx context.Context, n int) error
	Refetch(ctx context.Context) error
	SetFilters(ctx context.Context, filters customer.Filters) error
	SetLimit(ctx context.Context, limit int) error
	Snapshot() fetcher.Snapshot
	Cancel()
}

// Service changes customers.
type Service interface {
	CreateCustomer(ctx context.Context, req *customer.CreateRequest) (*customer.Customer, error)
	UpdateCustomer(ctx context.Context, id int, req *customer.UpdateRequest) (*customer.Customer, error)
	DeleteCustomer(ctx context.Context, id int) error
}

// Deps are the collaborators of the UI. Stats and Service are optional:
// without them the dashboard and the forms are unavailable.
type Deps struct {
	Fetcher    Fetcher
	Stats      dashboard.Loader
	Service    Service
	Highlights rule.Rules
	Actions    action.Actions
}

// NewProgram returns a new Tea program.
func NewProgram(ctx context.Context, cfg *Config, deps Deps) *tea.Program {
	slog.Debug("starting leads ui")

	return tea.NewProgram(NewModel(ctx, cfg, deps), tea.WithAltScreen(), tea.WithContext(ctx))
}

// State is the view shown by the UI.
type State int

const (
	stateShowTable State = iota
	stateShowDetail
	stateShowForm
)

func (s State) String() string {
	return map[State]string{
		stateShowTable:  "showing customers",
		stateShowDetail: "showing customer",
		stateShowForm:   "showing form",
	}[s]
}

type OverlayState int

const (
	overlayStateNone OverlayState = iota
	overlayStateError
	overlayStateLoading
	overlayStateResult
)

type (
	// MutationMsg reports the outcome of a create, update, or delete.
	MutationMsg struct {
		Err      error
		Customer *customer.Customer
		Mode     form.Mode
		ID       int
	}

	// ActionResultMsg reports the outcome of an action.
	ActionResultMsg struct {
		Err    error
		Result *action.Result
		Name   string
	}

	// ReloadMsg applies a reloaded configuration. Err is set when the
	// configuration could not be loaded, and the current one is kept.
	ReloadMsg struct {
		Err   error
		Theme string
	}
)

type model struct {
	ctx           context.Context //nolint:containedctx // Parent of every request issued by the UI.
	err           error
	deps          Deps
	cm            *common.CommonModel
	overlay       *overlay.Overlay
	kb            *KeyBinds
	result        string
	spinner       spinner.Model
	table         table.Model
	dashboard     dashboard.Model
	detail        detail.Model
	form          form.Model
	width         int
	height        int
	state         State
	formReturn    State
	overlayState  OverlayState
	showDashboard bool
	headerVisible bool
}

// NewModel returns the root model of the UI.
func NewModel(ctx context.Context, cfg *Config, deps Deps) tea.Model {
	cfg.EnsureDefaults()

	cm := &common.CommonModel{
		Theme:    theme.New(cfg.Theme),
		KeyBinds: cfg.KeyBinds.Common,
	}

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = cm.Theme.GenericTextStyle

	return &model{
		ctx:  ctx,
		deps: deps,
		cm:   cm,
		kb:   cfg.KeyBinds,
		table: table.NewModel(table.Config{
			CommonModel: cm,
			KeyBinds:    cfg.KeyBinds.Table,
			Highlights:  deps.Highlights,
			Compact:     cfg.Compact,
		}),
		dashboard: dashboard.NewModel(cm),
		detail: detail.NewModel(detail.Config{
			CommonModel: cm,
			KeyBinds:    cfg.KeyBinds.Detail,
		}),
		spinner:       sp,
		overlay:       overlay.New(cm.Theme),
		state:         stateShowTable,
		showDashboard: !cfg.HideDashboard && deps.Stats != nil,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.fetch("start", m.deps.Fetcher.Start), m.loadStats())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m, m.handleWindowResize(msg)

	case fetcher.EventStart:
		m.overlayState = overlayStateLoading
		cmds = append(cmds, m.spinner.Tick)

	case fetcher.EventEnd:
		if m.overlayState == overlayStateLoading {
			m.overlayState = overlayStateNone
		}

		if msg.Status == fetcher.StatusError {
			m.err = m.loadError(msg.Snapshot)
			m.overlayState = overlayStateError
		}

		var cmd tea.Cmd

		m.table, cmd = m.table.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)

	case fetcher.EventCancel:
		// A superseded load cancels while its replacement is still running.
		if m.overlayState == overlayStateLoading && m.deps.Fetcher.Snapshot().Status != fetcher.StatusLoading {
			m.overlayState = overlayStateNone
		}

		return m, nil

	case dashboard.ResultMsg:
		if err := msg.Result.Err(); err != nil {
			slog.Debug("statistics degraded", slog.Any("err", err))
		}

		m.dashboard, _ = m.dashboard.Update(msg)

		return m, m.relayout()

	case table.PageMsg:
		return m, m.fetch("page", func(ctx context.Context) error {
			return m.deps.Fetcher.GoToPage(ctx, msg.Page)
		})

	case table.PageSizeMsg:
		return m, tea.Batch(
			m.fetch("limit", func(ctx context.Context) error {
				return m.deps.Fetcher.SetLimit(ctx, msg.Limit)
			}),
			m.cm.SendStatusMessage(fmt.Sprintf("showing %d per page", msg.Limit), statusbar.StyleNormal),
		)

	case table.SearchMsg:
		filters := m.deps.Fetcher.Snapshot().Filters
		filters.Search = msg.Query

		return m, m.fetch("search", func(ctx context.Context) error {
			return m.deps.Fetcher.SetFilters(ctx, filters)
		})

	case common.OpenMsg:
		return m, m.openDetail(msg.Customer)

	case common.CreateMsg:
		return m, m.openForm(form.NewCreate(m.cm))

	case common.EditMsg:
		return m, m.openForm(form.NewEdit(m.cm, msg.Customer))

	case common.DeleteMsg:
		return m, m.openForm(form.NewDelete(m.cm, msg.Customer))

	case form.CancelMsg:
		m.closeForm()
		cmds = append(cmds, m.relayout())

		switch {
		case msg.Err != nil:
			cmds = append(cmds, m.cm.SendStatusMessage(msg.Err.Error(), statusbar.StyleError))
		case msg.Reason != "":
			cmds = append(cmds, m.cm.SendStatusMessage(msg.Reason, statusbar.StyleNormal))
		}

		return m, tea.Batch(cmds...)

	case form.SubmitMsg:
		m.closeForm()

		return m, tea.Batch(m.relayout(), m.mutate(msg))

	case MutationMsg:
		return m, m.handleMutation(msg)

	case ActionResultMsg:
		m.handleActionResult(msg)

		return m, nil

	case ReloadMsg:
		if msg.Err != nil {
			return m, m.cm.SendStatusMessage("reload config: "+msg.Err.Error(), statusbar.StyleError)
		}

		if msg.Theme != "" {
			// Every view holds the shared theme pointer.
			*m.cm.Theme = *theme.New(msg.Theme)
		}

		return m, tea.Batch(m.relayout(), m.cm.SendStatusMessage("configuration reloaded", statusbar.StyleSuccess))

	case common.StatusMessageTimeoutMsg:
		m.cm.ShowStatusMessage = false

	case common.ErrMsg:
		m.err = msg.Err
		m.overlayState = overlayStateError

	case spinner.TickMsg:
		if m.overlayState == overlayStateLoading {
			var cmd tea.Cmd

			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

		return m, tea.Batch(cmds...)
	}

	cmds = append(cmds, m.updateChildModels(msg))

	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	ckb := m.kb.Common

	// Always allow suspend to work regardless of current focus.
	if ckb.Suspend.Match(key) {
		return m, tea.Suspend
	}

	switch m.overlayState {
	case overlayStateError, overlayStateResult:
		// Any key closes the overlay. Refresh on a load error also retries.
		retry := m.overlayState == overlayStateError && ckb.Refresh.Match(key)
		m.overlayState = overlayStateNone

		if retry {
			return m, m.refresh()
		}

		return m, nil

	case overlayStateLoading:
		if ckb.Back.Match(key) {
			m.deps.Fetcher.Cancel()

			return m, m.cm.SendStatusMessage("load canceled", statusbar.StyleNormal)
		}

	case overlayStateNone:
	}

	if m.isTextInputFocused() {
		return m, m.updateChildModels(msg)
	}

	switch {
	case ckb.Quit.Match(key):
		return m, tea.Quit

	case ckb.Back.Match(key) && m.state == stateShowDetail:
		m.detail = m.detail.Unload()
		m.state = stateShowTable

		return m, m.relayout()

	case ckb.Refresh.Match(key):
		return m, m.refresh()

	case ckb.Dashboard.Match(key) && m.state == stateShowTable:
		if m.deps.Stats == nil {
			return m, m.cm.SendStatusMessage("statistics are not available", statusbar.StyleNormal)
		}

		m.showDashboard = !m.showDashboard

		cmds := []tea.Cmd{m.relayout()}
		if m.showDashboard && !m.dashboard.Loaded() {
			cmds = append(cmds, m.loadStats())
		}

		return m, tea.Batch(cmds...)
	}

	if a := m.deps.Actions.ForKey(key); a != nil {
		c, ok := m.selected()
		if !ok {
			return m, m.cm.SendStatusMessage("no customer selected", statusbar.StyleNormal)
		}

		return m, m.runAction(a, c)
	}

	return m, m.updateChildModels(msg)
}

func (m *model) isTextInputFocused() bool {
	switch m.state {
	case stateShowForm:
		return true
	case stateShowTable:
		return m.table.Mode() != table.InputNone
	case stateShowDetail:
	}

	return false
}

func (m *model) selected() (customer.Customer, bool) {
	if m.state == stateShowDetail {
		return m.detail.Customer()
	}

	return m.table.Selected()
}

func (m *model) openDetail(c customer.Customer) tea.Cmd {
	d, err := m.detail.SetCustomer(c)
	if err != nil {
		return func() tea.Msg { return common.ErrMsg{Err: err} }
	}

	m.detail = d
	m.state = stateShowDetail

	return m.relayout()
}

func (m *model) openForm(f form.Model) tea.Cmd {
	if m.deps.Service == nil {
		return m.cm.SendStatusMessage("changes are not available", statusbar.StyleError)
	}

	m.form = f
	if m.state != stateShowForm {
		m.formReturn = m.state
	}

	m.state = stateShowForm

	return tea.Batch(m.relayout(), m.form.Init())
}

func (m *model) closeForm() {
	if m.state == stateShowForm {
		m.state = m.formReturn
	}
}

// fetch runs a fetcher operation in the background. Its outcome arrives as
// fetcher events.
func (m *model) fetch(op string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx

	return func() tea.Msg {
		err := fn(ctx)
		if err != nil && !errors.Is(err, fetcher.ErrSuperseded) {
			slog.DebugContext(ctx, "fetch customers",
				slog.String("op", op),
				slog.Any("err", err),
			)
		}

		return nil
	}
}

func (m *model) loadStats() tea.Cmd {
	if m.deps.Stats == nil {
		return nil
	}

	return dashboard.Load(m.ctx, m.deps.Stats)
}

func (m *model) refresh() tea.Cmd {
	cmds := []tea.Cmd{m.fetch("refetch", m.deps.Fetcher.Refetch)}
	if m.showDashboard {
		cmds = append(cmds, m.loadStats())
	}

	return tea.Batch(cmds...)
}

func (m *model) mutate(msg form.SubmitMsg) tea.Cmd {
	ctx := m.ctx
	svc := m.deps.Service

	return func() tea.Msg {
		switch {
		case msg.Create != nil:
			c, err := svc.CreateCustomer(ctx, msg.Create)
			return MutationMsg{Mode: form.ModeCreate, Customer: c, Err: err}

		case msg.Update != nil:
			c, err := svc.UpdateCustomer(ctx, msg.ID, msg.Update)
			return MutationMsg{Mode: form.ModeEdit, ID: msg.ID, Customer: c, Err: err}

		case msg.Delete:
			err := svc.DeleteCustomer(ctx, msg.ID)
			return MutationMsg{Mode: form.ModeDelete, ID: msg.ID, Err: err}
		}

		return nil
	}
}

func (m *model) handleMutation(msg MutationMsg) tea.Cmd {
	if msg.Err != nil {
		slog.Error("change customer",
			slog.String("mode", msg.Mode.String()),
			slog.Int("id", msg.ID),
			slog.Any("err", msg.Err),
		)

		return m.cm.SendStatusMessage(fmt.Sprintf("%s failed: %v", msg.Mode, msg.Err), statusbar.StyleError)
	}

	name := fmt.Sprintf("customer #%d", msg.ID)
	if msg.Customer != nil {
		name = msg.Customer.FullName
	}

	shown, showing := m.detail.Customer()
	showing = showing && m.state == stateShowDetail && shown.ID == msg.ID

	cmds := []tea.Cmd{m.fetch("refetch", m.deps.Fetcher.Refetch), m.loadStats()}

	var note string

	switch msg.Mode {
	case form.ModeCreate:
		note = "created " + name

	case form.ModeEdit:
		note = "updated " + name

		if showing && msg.Customer != nil {
			cmds = append(cmds, m.openDetail(*msg.Customer))
		}

	case form.ModeDelete:
		note = "deleted " + name

		if showing {
			m.detail = m.detail.Unload()
			m.state = stateShowTable
			cmds = append(cmds, m.relayout())
		}
	}

	cmds = append(cmds, m.cm.SendStatusMessage(note, statusbar.StyleSuccess))

	return tea.Batch(cmds...)
}

func (m *model) runAction(a *action.Action, c customer.Customer) tea.Cmd {
	ctx := m.ctx

	return tea.Batch(
		m.cm.SendStatusMessage(fmt.Sprintf("running %s for %s", a.Name, c.FullName), statusbar.StyleNormal),
		func() tea.Msg {
			res, err := a.Run(ctx, os.Environ(), &c)
			return ActionResultMsg{Name: a.Name, Result: res, Err: err}
		},
	)
}

func (m *model) handleActionResult(msg ActionResultMsg) {
	var stdout, stderr string
	if msg.Result != nil {
		stdout = strings.TrimSpace(msg.Result.Stdout)
		stderr = strings.TrimSpace(msg.Result.Stderr)
	}

	if msg.Err != nil {
		m.err = msg.Err
		if stderr != "" {
			m.err = fmt.Errorf("%w\n\n%s", m.err, stderr)
		}

		m.overlayState = overlayStateError

		return
	}

	if stdout == "" {
		m.cm.ShowStatusMessage = false

		return
	}

	m.result = stdout
	m.overlayState = overlayStateResult
}

func (m *model) loadError(s fetcher.Snapshot) error {
	msg := s.ErrorMessage
	if msg == "" {
		msg = fetcher.DefaultErrorMessage
	}

	hint := fmt.Sprintf("Press %s to retry.", m.kb.Common.Refresh.String())

	return errors.New(msg + "\n\n" + hint) //nolint:err113 // Rendered, never matched.
}

// updateChildModels sends msg to the model of the current view.
func (m *model) updateChildModels(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch m.state {
	case stateShowTable:
		m.table, cmd = m.table.Update(msg)
	case stateShowDetail:
		m.detail, cmd = m.detail.Update(msg)
	case stateShowForm:
		m.form, cmd = m.form.Update(msg)
	}

	return cmd
}

func (m *model) handleWindowResize(msg tea.WindowSizeMsg) tea.Cmd {
	m.width = msg.Width
	m.height = msg.Height
	m.cm.Width = msg.Width
	m.overlay.SetSize(msg.Width, msg.Height)

	return m.relayout()
}

// relayout sizes the current view to the space left by the status bar and
// the dashboard.
func (m *model) relayout() tea.Cmd {
	height := max(0, m.height-statusBarHeight)

	m.headerVisible = false
	if m.state == stateShowTable && m.showDashboard {
		header := lipgloss.Height(m.dashboard.View())
		if height-header >= minTableHeight {
			m.headerVisible = true
			height -= header
		}
	}

	return m.updateChildModels(tea.WindowSizeMsg{Width: m.width, Height: height})
}

func (m *model) View() string {
	var (
		s                   string
		overlaySizeFraction float64

		errorOverlayStyle = m.cm.Theme.ErrorOverlayStyle.
					Align(lipgloss.Left).
					Padding(1)

		loadingOverlayStyle = m.cm.Theme.GenericOverlayStyle.
					Align(lipgloss.Center).
					Padding(1)

		resultOverlayStyle = m.cm.Theme.GenericOverlayStyle.
					Align(lipgloss.Left).
					Padding(1)
	)

	body := m.bodyView()

	bodyHeight := max(0, m.height-statusBarHeight)
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	s = lipgloss.JoinVertical(lipgloss.Left, body, m.statusBarView())

	switch m.overlayState {
	case overlayStateError:
		overlaySizeFraction = 2.0 / 3.0
		s = m.overlay.Place(s, m.errorView(), overlaySizeFraction, errorOverlayStyle)

	case overlayStateLoading:
		overlaySizeFraction = 1.0 / 4.0
		s = m.overlay.Place(s, m.loadingView(), overlaySizeFraction, loadingOverlayStyle)

	case overlayStateResult:
		overlaySizeFraction = 2.0 / 3.0
		s = m.overlay.Place(s, m.resultView(), overlaySizeFraction, resultOverlayStyle)

	case overlayStateNone:
	}

	return strings.TrimRight(s, " \n")
}

func (m *model) bodyView() string {
	switch m.state {
	case stateShowDetail:
		return m.detail.View()
	case stateShowForm:
		return m.form.View()
	case stateShowTable:
	}

	if m.headerVisible {
		return lipgloss.JoinVertical(lipgloss.Left, m.dashboard.View(), m.table.View())
	}

	return m.table.View()
}

func (m *model) statusBarView() string {
	var note, pos string

	switch m.state {
	case stateShowTable:
		info := m.table.Snapshot().Pagination
		note = present.FormatNumber(info.Total) + " customers"
		if info.TotalPages > 0 {
			pos = fmt.Sprintf("%d/%d", info.Page, info.TotalPages)
		}

	case stateShowDetail:
		c, _ := m.detail.Customer()
		note = c.FullName
		pos = fmt.Sprintf("%3.f%%", m.detail.ScrollPercent()*100)

	case stateShowForm:
		note = m.form.Mode().String() + " customer"
	}

	return m.cm.StatusBar().Render(note, pos)
}

func (m *model) resultView() string {
	return lipgloss.JoinVertical(lipgloss.Top,
		m.cm.Theme.ResultTitleStyle.Padding(0, 1).Render("OUTPUT"),
		lipgloss.NewStyle().Padding(1, 0).Render(m.result),
	)
}

func (m *model) errorView() string {
	errMsg := "<nil>"
	if m.err != nil {
		errMsg = m.err.Error()
	}

	return lipgloss.JoinVertical(lipgloss.Top,
		m.cm.Theme.ErrorTitleStyle.Padding(0, 1).Render("ERROR"),
		lipgloss.NewStyle().Padding(1, 0).Render(errMsg),
	)
}

func (m *model) loadingView() string {
	return m.spinner.View() + " Loading" + m.cm.Theme.Ellipsis
}
