package uitest

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultWait bounds how long [WaitFor] waits unless a duration is given.
const DefaultWait = 3 * time.Second

// Terminal sizes used across the UI tests.
const (
	CompactWidth   = 80
	CompactHeight  = 24
	StandardWidth  = 120
	StandardHeight = 40
)

// Size is a terminal size.
type Size struct {
	Width  int
	Height int
}

var (
	// Compact is a classic 80x24 terminal, small enough to hide the dashboard.
	Compact = Size{CompactWidth, CompactHeight}
	// Standard fits the dashboard header above a full page of ten customers.
	Standard = Size{StandardWidth, StandardHeight}
)

// SetupColorProfile pins lipgloss to TrueColor so styled output is stable.
func SetupColorProfile() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

// BubbleModel is a Bubble Tea model whose Update returns its concrete type.
type BubbleModel[T any] interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (T, tea.Cmd) //nolint:ireturn // Must satisfy [tea.Model].
	View() string
}

type modelAdapter[T BubbleModel[T]] struct {
	model T
}

func (a modelAdapter[T]) Init() tea.Cmd {
	return a.model.Init()
}

//nolint:ireturn // Must satisfy [tea.Model].
func (a modelAdapter[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.model.Update(msg)
	return modelAdapter[T]{model: m}, cmd
}

func (a modelAdapter[T]) View() string {
	return a.model.View()
}

// NewTestModel starts m in a teatest program of the given size.
func NewTestModel[T BubbleModel[T]](tb testing.TB, m T, size Size) *teatest.TestModel {
	tb.Helper()

	return teatest.NewTestModel(
		tb, modelAdapter[T]{model: m},
		teatest.WithInitialTermSize(size.Width, size.Height),
	)
}

// WaitFor waits until condition holds for the output read from r. It waits
// for [DefaultWait] unless opts set another duration.
func WaitFor(tb testing.TB, r io.Reader, condition func([]byte) bool, opts ...teatest.WaitForOption) {
	tb.Helper()

	opts = append([]teatest.WaitForOption{teatest.WithDuration(DefaultWait)}, opts...)
	teatest.WaitFor(tb, r, condition, opts...)
}

// Contains returns a condition matching output that contains every string
// in s.
func Contains(s ...string) func([]byte) bool {
	return func(b []byte) bool {
		for _, v := range s {
			if !bytes.Contains(b, []byte(v)) {
				return false
			}
		}

		return true
	}
}
