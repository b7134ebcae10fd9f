// Package common holds the state shared by every view of the UI.
package common

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/ui/statusbar"
	"github.com/macropower/leads/pkg/ui/theme"
)

// StatusMessageTimeout is how long status messages stay visible.
const StatusMessageTimeout = time.Second * 3

type CommonModel struct {
	KeyBinds           *KeyBinds
	Theme              *theme.Theme
	StatusMessageTimer *time.Timer
	StatusMessage      StatusMessage
	Width              int
	Height             int
	ShowStatusMessage  bool
}

type (
	StatusMessage struct {
		Message string
		Style   statusbar.Style
	}
	StatusMessageTimeoutMsg struct{}
)

// StatusBar returns a renderer for the status bar, showing the current
// status message if there is one.
func (m *CommonModel) StatusBar() *statusbar.Renderer {
	if m.ShowStatusMessage && m.StatusMessage.Message != "" {
		return statusbar.New(m.Theme, m.Width,
			statusbar.WithMessage(m.StatusMessage.Message, m.StatusMessage.Style))
	}

	return statusbar.New(m.Theme, m.Width)
}

// SendStatusMessage shows msg in the status bar until it times out.
func (m *CommonModel) SendStatusMessage(msg string, style statusbar.Style) tea.Cmd {
	m.ShowStatusMessage = true
	m.StatusMessage = StatusMessage{
		Message: msg,
		Style:   style,
	}
	if m.StatusMessageTimer != nil {
		m.StatusMessageTimer.Stop()
	}

	m.StatusMessageTimer = time.NewTimer(StatusMessageTimeout)

	return WaitForStatusMessageTimeout(m.StatusMessageTimer)
}

// ClearStatusMessage hides the current status message.
func (m *CommonModel) ClearStatusMessage() {
	m.ShowStatusMessage = false
	if m.StatusMessageTimer != nil {
		m.StatusMessageTimer.Stop()
	}
}

// Customer intents, raised by any view and handled by the root model.
type (
	// OpenMsg requests the detail view of a customer.
	OpenMsg struct{ Customer customer.Customer }
	// CreateMsg requests the create form.
	CreateMsg struct{}
	// EditMsg requests the edit form of a customer.
	EditMsg struct{ Customer customer.Customer }
	// DeleteMsg requests deletion of a customer.
	DeleteMsg struct{ Customer customer.Customer }
)

type ErrMsg struct{ Err error } //nolint:errname // Tea message.

func (e ErrMsg) Error() string { return e.Err.Error() }

func WaitForStatusMessageTimeout(t *time.Timer) tea.Cmd {
	return func() tea.Msg {
		<-t.C

		return StatusMessageTimeoutMsg{}
	}
}
