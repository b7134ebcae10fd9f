// Package detail shows a single customer as highlighted YAML.
package detail

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/keys"
	"github.com/macropower/leads/pkg/present"
	"github.com/macropower/leads/pkg/ui/common"
	"github.com/macropower/leads/pkg/ui/statusbar"
	"github.com/macropower/leads/pkg/yaml"
)

type Config struct {
	CommonModel         *common.CommonModel
	KeyBinds            *KeyBinds
	Now                 func() time.Time
	LineNumbersDisabled bool
}

type Model struct {
	cm           *common.CommonModel
	kb           *KeyBinds
	renderer     *ChromaRenderer
	helpRenderer *statusbar.HelpRenderer
	now          func() time.Time
	body         string
	viewport     viewport.Model
	customer     customer.Customer
	loaded       bool
	ShowHelp     bool
}

func NewModel(c Config) Model {
	ckb := c.CommonModel.KeyBinds
	kb := c.KeyBinds

	kbr := &keys.Renderer{}
	kbr.AddColumn(kb.Up, kb.Down, kb.Copy)
	kbr.AddColumn(kb.Edit, kb.Delete, ckb.Refresh)
	kbr.AddColumn(ckb.Back, ckb.Help, ckb.Quit)

	now := c.Now
	if now == nil {
		now = time.Now
	}

	vp := viewport.New(0, 0)
	vp.KeyMap = viewport.KeyMap{}

	return Model{
		cm:           c.CommonModel,
		kb:           kb,
		renderer:     NewChromaRenderer(c.CommonModel.Theme, c.LineNumbersDisabled),
		helpRenderer: statusbar.NewHelpRenderer(c.CommonModel.Theme, kbr),
		now:          now,
		viewport:     vp,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Customer returns the customer being shown.
func (m Model) Customer() (customer.Customer, bool) {
	return m.customer, m.loaded
}

// Body returns the YAML form of the customer.
func (m Model) Body() string {
	return m.body
}

// SetCustomer shows c, keeping the scroll position when c is the customer
// already shown.
func (m Model) SetCustomer(c customer.Customer) (Model, error) {
	if !m.loaded || m.customer.ID != c.ID {
		m.viewport.GotoTop()
	}

	body, err := yaml.Marshal(c)
	if err != nil {
		return m, fmt.Errorf("encode customer %d: %w", c.ID, err)
	}

	m.customer = c
	m.body = string(body)
	m.loaded = true

	return m.render(), nil
}

// Unload clears the view.
func (m Model) Unload() Model {
	m.loaded = false
	m.customer = customer.Customer{}
	m.body = ""
	m.ShowHelp = false
	m.viewport.SetContent("")
	m.viewport.GotoTop()

	return m
}

func (m Model) render() Model {
	width := max(0, m.cm.Width)

	m.viewport.Width = width
	m.viewport.Height = max(0, m.cm.Height-lipgloss.Height(m.headerView())-m.helpHeight())

	content, err := m.renderer.Render(m.body, width)
	if err != nil {
		slog.Debug("error rendering customer", slog.Any("err", err))

		content = m.body
	}

	m.viewport.SetContent(content)
	if m.viewport.PastBottom() {
		m.viewport.GotoBottom()
	}

	return m
}

func (m Model) helpHeight() int {
	if !m.ShowHelp {
		return 0
	}

	return m.helpRenderer.Height(m.cm.Width)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cm.Width = msg.Width
		m.cm.Height = msg.Height

		return m.render(), nil

	case tea.KeyMsg:
		if !m.loaded {
			return m, nil
		}

		key := msg.String()
		c := m.customer

		switch {
		case m.kb.Up.Match(key):
			m.viewport.ScrollUp(1)

		case m.kb.Down.Match(key):
			m.viewport.ScrollDown(1)

		case m.kb.Copy.Match(key):
			termenv.Copy(m.body)
			_ = clipboard.WriteAll(m.body) //nolint:errcheck // OSC 52 is the fallback.

			return m, m.cm.SendStatusMessage("copied "+c.FullName, statusbar.StyleSuccess)

		case m.kb.Edit.Match(key):
			return m, func() tea.Msg { return common.EditMsg{Customer: c} }

		case m.kb.Delete.Match(key):
			return m, func() tea.Msg { return common.DeleteMsg{Customer: c} }

		case m.cm.KeyBinds.Help.Match(key):
			m.ShowHelp = !m.ShowHelp

			return m.render(), nil
		}
	}

	return m, nil
}

func (m Model) View() string {
	if !m.loaded {
		return ""
	}

	parts := []string{m.headerView(), m.viewport.View()}
	if m.ShowHelp {
		parts = append(parts, m.helpRenderer.Render(m.cm.Width))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// ScrollPercent is the scroll position of the YAML body.
func (m Model) ScrollPercent() float64 {
	return m.viewport.ScrollPercent()
}

func (m Model) headerView() string {
	t := m.cm.Theme
	c := m.customer
	now := m.now()

	badge := func(label string, tier present.Tier) string {
		return t.SubtleStyle.Render(label+" ") + t.Token(tier.Token).Render(tier.Label)
	}

	adts := present.ClassifyADTS(c.ADTS)
	letter := present.ClassifyLetter(c.Letter)

	title := t.HeaderStyle.Render(c.FullName) + t.SubtleStyle.Render(" #"+strconv.Itoa(c.ID))

	badges := strings.Join([]string{
		t.SubtleStyle.Render("ADTS ") + t.Token(adts.Token).Render(present.FormatPercent(c.ADTS)+" "+adts.Label),
		t.SubtleStyle.Render("Letter ") + t.Token(letter.Token).Render(c.Letter+" ("+letter.Label+")"),
		t.SubtleStyle.Render("Level ") + c.Level,
		badge("Lawsuits", present.HasLabel(c.HasLawsuits)),
		badge("Conditions", present.YesNoLabel(c.Conditions)),
		badge("Newsletter", present.YesNoLabel(c.Newsletter)),
	}, t.SubtleStyle.Render("  ·  "))

	times := t.SubtleStyle.Render(fmt.Sprintf("created %s, updated %s",
		present.FormatRelative(c.CreatedAt, now), present.FormatRelative(c.UpdatedAt, now)))

	return lipgloss.NewStyle().
		MaxWidth(max(0, m.cm.Width)).
		PaddingBottom(1).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, badges, times))
}
