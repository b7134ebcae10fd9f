package statusbar_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/macropower/leads/pkg/keys"
	"github.com/macropower/leads/pkg/ui/statusbar"
	"github.com/macropower/leads/pkg/ui/theme"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		opts  []statusbar.Opt
		note  string
		pos   string
		want  []string
		width int
	}{
		"note and position": {
			width: 100,
			note:  "Showing 1 to 10 of 42",
			pos:   "page 1/5",
			want:  []string{"leads", "Showing 1 to 10 of 42", "page 1/5", "? help"},
		},
		"message replaces note": {
			width: 100,
			note:  "Showing 1 to 10 of 42",
			opts:  []statusbar.Opt{statusbar.WithMessage("customer deleted", statusbar.StyleSuccess)},
			want:  []string{"customer deleted"},
		},
		"error message": {
			width: 100,
			opts:  []statusbar.Opt{statusbar.WithMessage("delete failed", statusbar.StyleError)},
			want:  []string{"delete failed"},
		},
		"newlines are flattened": {
			width: 100,
			note:  "a\nb",
			want:  []string{"a b"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := ansi.Strip(statusbar.New(theme.Default, tc.width, tc.opts...).Render(tc.note, tc.pos))

			assert.Equal(t, tc.width, ansi.StringWidth(got))
			assert.NotContains(t, got, "\n")
			for _, w := range tc.want {
				assert.Contains(t, got, w)
			}
		})
	}
}

func TestRenderTruncatesNote(t *testing.T) {
	t.Parallel()

	got := ansi.Strip(statusbar.New(theme.Default, 60).Render(strings.Repeat("x", 200), ""))

	assert.Contains(t, got, theme.Ellipsis)
	assert.LessOrEqual(t, ansi.StringWidth(got), 60)
}

func TestHelpRenderer(t *testing.T) {
	t.Parallel()

	quit := keys.NewBind("quit", keys.New("q"))
	help := keys.NewBind("help", keys.New("?"))

	var r keys.Renderer
	r.AddColumn(&quit, &help)

	h := statusbar.NewHelpRenderer(theme.Default, &r)
	got := ansi.Strip(h.Render(80))

	assert.Contains(t, got, "quit")
	assert.Contains(t, got, "help")
	assert.Equal(t, strings.Count(h.Render(80), "\n")+1, h.Height(80))
}
