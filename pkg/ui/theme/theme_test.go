package theme_test

import (
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/leads/pkg/present"
	"github.com/macropower/leads/pkg/ui/theme"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err     error
		entries chroma.StyleEntries
		name    string
	}{
		"valid entries": {
			name: "leads-test-theme",
			entries: chroma.StyleEntries{
				chroma.Background:      "#ffffff bg:#000000",
				chroma.Comment:         "italic #008000",
				chroma.NameTag:         "bold #800080",
				chroma.GenericInserted: "#00ff00",
				chroma.GenericDeleted:  "#ff0000",
			},
		},
		"minimal entries": {
			name: "leads-minimal-theme",
			entries: chroma.StyleEntries{
				chroma.Background: "#ffffff bg:#000000",
			},
		},
		"empty name": {
			name: "",
			entries: chroma.StyleEntries{
				chroma.Background: "#ffffff bg:#000000",
			},
			err: theme.ErrInvalidName,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := theme.Register(tc.name, tc.entries)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)

			th := theme.New(tc.name)
			require.NotNil(t, th.ChromaStyle)
			assert.Equal(t, tc.name, th.ChromaStyle.Name)
		})
	}
}

func TestNewFallsBackForUnknownStyle(t *testing.T) {
	t.Parallel()

	th := theme.New("no-such-style")
	require.NotNil(t, th.ChromaStyle)
}

func TestThemeTokens(t *testing.T) {
	t.Parallel()

	th := theme.New("github")

	for _, tok := range present.AllTokens {
		t.Run(string(tok), func(t *testing.T) {
			t.Parallel()

			s := th.Token(tok)
			assert.NotEqual(t, lipgloss.NoColor{}, s.GetForeground())
			assert.Contains(t, s.Render("x"), "x")
		})
	}

	assert.Equal(t, th.GenericTextStyle.GetForeground(), th.Token("unknown").GetForeground())
}

func TestThemeStylesRenderContent(t *testing.T) {
	t.Parallel()

	th := theme.New("github")

	styles := map[string]lipgloss.Style{
		"CardStyle":             th.CardStyle,
		"CursorStyle":           th.CursorStyle,
		"ErrorOverlayStyle":     th.ErrorOverlayStyle,
		"ErrorTitleStyle":       th.ErrorTitleStyle,
		"GenericOverlayStyle":   th.GenericOverlayStyle,
		"HeaderStyle":           th.HeaderStyle,
		"HelpStyle":             th.HelpStyle,
		"LogoStyle":             th.LogoStyle,
		"PaginationStyle":       th.PaginationStyle,
		"SelectedStyle":         th.SelectedStyle,
		"StatusBarStyle":        th.StatusBarStyle,
		"StatusBarErrorStyle":   th.StatusBarErrorStyle,
		"StatusBarMessageStyle": th.StatusBarMessageStyle,
		"InsertedStyle":         th.InsertedStyle,
		"DeletedStyle":          th.DeletedStyle,
	}

	for name, style := range styles {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Contains(t, style.Render("test content"), "test content")
		})
	}
}

func TestDifferentThemesProduceDifferentStyles(t *testing.T) {
	lipgloss.SetColorProfile(termenv.TrueColor)

	light := theme.New("light")
	dark := theme.New("dark")

	assert.NotEqual(t, light.ChromaStyle.Name, dark.ChromaStyle.Name)
	assert.NotEqual(t,
		light.Token(present.TokenDanger).Render("x"),
		dark.Token(present.TokenDanger).Render("x"),
	)
}

func TestFormThemes(t *testing.T) {
	t.Parallel()

	th := theme.New("dracula")

	normal := th.FormTheme()
	danger := th.DangerFormTheme()

	assert.Equal(t, th.SelectedStyle.GetForeground(), normal.Focused.Title.GetForeground())
	assert.Equal(t, th.LogoStyle.GetBackground(), normal.Focused.FocusedButton.GetBackground())
	assert.Equal(t, th.ErrorTextStyle.GetForeground(), danger.Focused.FocusedButton.GetBackground())
	assert.Equal(t, normal.Focused.Title.GetForeground(), normal.Group.Title.GetForeground())
}
