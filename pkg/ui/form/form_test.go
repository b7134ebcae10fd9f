package form_test

import (
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/ui/common"
	"github.com/macropower/leads/pkg/ui/form"
	"github.com/macropower/leads/pkg/ui/theme"
)

var testCustomer = customer.Customer{
	ID:         7,
	FullName:   "Maria Oliveira",
	Email:      "maria@example.com",
	WhatsApp:   "+55 11 99999-0000",
	Letter:     "B",
	Level:      "IV",
	ADTS:       22.5,
	YearJoined: 2018,
	Newsletter: true,
	CreatedAt:  time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC),
	UpdatedAt:  time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
}

func newCommon() *common.CommonModel {
	kb := &common.KeyBinds{}
	kb.EnsureDefaults()

	return &common.CommonModel{
		Theme:    theme.Default,
		KeyBinds: kb,
		Width:    100,
		Height:   30,
	}
}

func TestFieldsApply(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		edit    func(f *form.Fields)
		check   func(t *testing.T, c customer.Customer)
		wantErr string
	}{
		"unchanged": {
			edit: func(*form.Fields) {},
			check: func(t *testing.T, c customer.Customer) {
				t.Helper()
				assert.Equal(t, testCustomer, c)
			},
		},
		"trims and keeps identity": {
			edit: func(f *form.Fields) {
				f.FullName = "  Maria Souza  "
				f.HasLawsuits = true
			},
			check: func(t *testing.T, c customer.Customer) {
				t.Helper()
				assert.Equal(t, "Maria Souza", c.FullName)
				assert.True(t, c.HasLawsuits)
				assert.Equal(t, testCustomer.ID, c.ID)
				assert.Equal(t, testCustomer.CreatedAt, c.CreatedAt)
			},
		},
		"decimal comma and percent": {
			edit: func(f *form.Fields) { f.ADTS = "12,5 %" },
			check: func(t *testing.T, c customer.Customer) {
				t.Helper()
				assert.InDelta(t, 12.5, c.ADTS, 0.0001)
			},
		},
		"blank numbers": {
			edit: func(f *form.Fields) {
				f.ADTS = ""
				f.YearJoined = " "
			},
			check: func(t *testing.T, c customer.Customer) {
				t.Helper()
				assert.Zero(t, c.ADTS)
				assert.Zero(t, c.YearJoined)
			},
		},
		"adts not a number": {
			edit:    func(f *form.Fields) { f.ADTS = "abc" },
			wantErr: `adts: "abc" is not a number`,
		},
		"adts out of range": {
			edit:    func(f *form.Fields) { f.ADTS = "120" },
			wantErr: "adts: must be between 0 and 100",
		},
		"year not a number": {
			edit:    func(f *form.Fields) { f.YearJoined = "last year" },
			wantErr: `year: "last year" is not a number`,
		},
		"year out of range": {
			edit:    func(f *form.Fields) { f.YearJoined = "1900" },
			wantErr: "year: must be between 1950 and 2100",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := form.FieldsFrom(&testCustomer)
			tc.edit(f)

			got, err := f.Apply(testCustomer)
			if tc.wantErr != "" {
				require.EqualError(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			tc.check(t, got)
		})
	}
}

func TestFieldsCreateRequest(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		f := form.FieldsFrom(&testCustomer)

		req, err := f.CreateRequest()
		require.NoError(t, err)
		assert.Equal(t, testCustomer.CreateRequest(), req)
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()

		f := &form.Fields{Letter: "A", Level: "I"}

		_, err := f.CreateRequest()
		require.ErrorIs(t, err, customer.ErrInvalid)

		var ve *customer.ValidationError
		require.ErrorAs(t, err, &ve)

		fields := make([]string, 0, len(ve.Fields))
		for _, fe := range ve.Fields {
			fields = append(fields, fe.Field)
		}

		assert.ElementsMatch(t, []string{"nomeCompleto", "email"}, fields)
	})
}

func TestFieldsUpdateRequest(t *testing.T) {
	t.Parallel()

	t.Run("changed fields only", func(t *testing.T) {
		t.Parallel()

		f := form.FieldsFrom(&testCustomer)
		f.Level = "V"
		f.Newsletter = false

		u, next, err := f.UpdateRequest(testCustomer)
		require.NoError(t, err)

		require.NotNil(t, u.Level)
		assert.Equal(t, "V", *u.Level)
		require.NotNil(t, u.Newsletter)
		assert.False(t, *u.Newsletter)
		assert.Nil(t, u.FullName)
		assert.Nil(t, u.Email)
		assert.Nil(t, u.ADTS)

		assert.Equal(t, testCustomer.Apply(u), next)
	})

	t.Run("no changes", func(t *testing.T) {
		t.Parallel()

		u, _, err := form.FieldsFrom(&testCustomer).UpdateRequest(testCustomer)
		require.NoError(t, err)
		assert.True(t, u.Empty())
	})

	t.Run("invalid email", func(t *testing.T) {
		t.Parallel()

		f := form.FieldsFrom(&testCustomer)
		f.Email = "maria"

		_, _, err := f.UpdateRequest(testCustomer)
		require.ErrorIs(t, err, customer.ErrInvalid)
		assert.ErrorContains(t, err, "email: must be a valid email address")
	})
}

func TestDiff(t *testing.T) {
	t.Parallel()

	next := testCustomer
	next.FullName = "Maria Souza"

	diff, err := form.Diff(testCustomer, next)
	require.NoError(t, err)

	assert.Contains(t, diff, "--- customer/7")
	assert.Contains(t, diff, "-nomeCompleto: Maria Oliveira")
	assert.Contains(t, diff, "+nomeCompleto: Maria Souza")
	assert.NotContains(t, diff, "-email")

	styled := form.StyleDiff(theme.Default, diff)
	assert.Contains(t, ansi.Strip(styled), "+nomeCompleto: Maria Souza")

	same, err := form.Diff(testCustomer, testCustomer)
	require.NoError(t, err)
	assert.Empty(t, same)
}

func TestMode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "create", form.ModeCreate.String())
	assert.Equal(t, "edit", form.ModeEdit.String())
	assert.Equal(t, "delete", form.ModeDelete.String())
	assert.Equal(t, "mode(9)", form.Mode(9).String())
}

func TestModels(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		model    form.Model
		wantMode form.Mode
		want     []string
	}{
		"create": {
			model:    form.NewCreate(newCommon()),
			wantMode: form.ModeCreate,
			want:     []string{"New customer", "Name", "Email"},
		},
		"edit": {
			model:    form.NewEdit(newCommon(), testCustomer),
			wantMode: form.ModeEdit,
			want:     []string{"Edit Maria Oliveira", "Maria Oliveira"},
		},
		"delete": {
			model:    form.NewDelete(newCommon(), testCustomer),
			wantMode: form.ModeDelete,
			want:     []string{"Delete Maria Oliveira?", "Customer #7 (maria@example.com)"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := tc.model
			m.Init()

			assert.Equal(t, tc.wantMode, m.Mode())
			assert.Empty(t, m.Diff())

			got := ansi.Strip(m.View())
			for _, w := range tc.want {
				assert.Contains(t, got, w)
			}

			_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
			require.NotNil(t, cmd)
			assert.Equal(t, form.CancelMsg{Reason: "cancelled"}, cmd())
		})
	}
}
