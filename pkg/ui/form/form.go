package form

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/ui/common"
)

// Mode is the kind of change a [Model] collects.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
	ModeDelete
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	case ModeDelete:
		return "delete"
	}

	return fmt.Sprintf("mode(%d)", int(m))
}

type (
	// SubmitMsg carries a confirmed change. Exactly one of Create, Update,
	// or Delete is set.
	SubmitMsg struct {
		Create *customer.CreateRequest
		Update *customer.UpdateRequest
		ID     int
		Delete bool
	}

	// CancelMsg is sent when the form is closed without a change. Err is
	// set when the entered values were rejected.
	CancelMsg struct {
		Err    error
		Reason string
	}
)

const maxWidth = 80

type stage int

const (
	stageFields stage = iota
	stageConfirm
)

type Model struct {
	cm       *common.CommonModel
	form     *huh.Form
	fields   *Fields
	update   *customer.UpdateRequest
	original customer.Customer
	diff     string
	mode     Mode
	confirm  *bool
	stage    stage
}

// NewCreate returns a form collecting a new customer.
func NewCreate(cm *common.CommonModel) Model {
	f := &Fields{}

	return Model{
		cm:      cm,
		mode:    ModeCreate,
		fields:  f,
		confirm: new(bool),
		form:    sized(NewCustomerForm(cm.Theme, "New customer", f), cm.Width),
	}
}

// NewEdit returns a form editing c. Changes are confirmed against a diff
// before they are submitted.
func NewEdit(cm *common.CommonModel, c customer.Customer) Model {
	f := FieldsFrom(&c)

	return Model{
		cm:       cm,
		mode:     ModeEdit,
		fields:   f,
		original: c,
		confirm:  new(bool),
		form:     sized(NewCustomerForm(cm.Theme, "Edit "+c.FullName, f), cm.Width),
	}
}

// NewDelete returns a confirmation for deleting c.
func NewDelete(cm *common.CommonModel, c customer.Customer) Model {
	confirm := new(bool)

	return Model{
		cm:       cm,
		mode:     ModeDelete,
		original: c,
		stage:    stageConfirm,
		confirm:  confirm,
		form:     sized(NewDeleteForm(cm.Theme, &c, confirm), cm.Width),
	}
}

func (m Model) Mode() Mode {
	return m.mode
}

func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.cm.Width = msg.Width
		m.cm.Height = msg.Height
		m.form = sized(m.form, msg.Width)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && m.cm.KeyBinds != nil && m.cm.KeyBinds.Back.Match(msg.String()) {
		return m, cancel(nil, "cancelled")
	}

	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		return m, cancel(nil, "cancelled")
	case huh.StateCompleted:
		return m.complete()
	case huh.StateNormal:
	}

	return m, cmd
}

func (m Model) complete() (Model, tea.Cmd) {
	switch m.mode {
	case ModeCreate:
		req, err := m.fields.CreateRequest()
		if err != nil {
			return m, cancel(err, "")
		}

		return m, submit(SubmitMsg{Create: req})

	case ModeDelete:
		if !*m.confirm {
			return m, cancel(nil, "not deleted")
		}

		return m, submit(SubmitMsg{ID: m.original.ID, Delete: true})

	case ModeEdit:
		if m.stage == stageConfirm {
			if !*m.confirm {
				return m, cancel(nil, "changes discarded")
			}

			return m, submit(SubmitMsg{ID: m.original.ID, Update: m.update})
		}

		u, next, err := m.fields.UpdateRequest(m.original)
		if err != nil {
			return m, cancel(err, "")
		}

		if u.Empty() {
			return m, cancel(nil, "no changes")
		}

		diff, err := Diff(m.original, next)
		if err != nil {
			return m, cancel(err, "")
		}

		m.update = u
		m.diff = diff
		m.stage = stageConfirm
		*m.confirm = true
		m.form = sized(NewConfirmForm(m.cm.Theme, "Save changes to "+m.original.FullName+"?", "", m.confirm), m.cm.Width)

		return m, m.form.Init()
	}

	return m, nil
}

// Diff returns the pending change of an edit awaiting confirmation.
func (m Model) Diff() string {
	return m.diff
}

func (m Model) View() string {
	t := m.cm.Theme
	width := max(0, m.cm.Width)

	parts := []string{m.form.View()}
	if m.stage == stageConfirm && m.diff != "" {
		parts = append([]string{StyleDiff(t, m.diff), ""}, parts...)
	}

	return lipgloss.NewStyle().MaxWidth(width).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func sized(f *huh.Form, width int) *huh.Form {
	if width <= 0 {
		return f
	}

	return f.WithWidth(min(width, maxWidth))
}

func submit(msg SubmitMsg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

func cancel(err error, reason string) tea.Cmd {
	return func() tea.Msg {
		return CancelMsg{Err: err, Reason: reason}
	}
}
