package present_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/macropower/leads/pkg/present"
)

func TestClassifyADTS(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		want  string
		value float64
	}{
		"far above":      {value: 250, want: "Excellent"},
		"exactly 30":     {value: 30, want: "Excellent"},
		"just below 30":  {value: 29.99, want: "High"},
		"exactly 20":     {value: 20, want: "High"},
		"exactly 15":     {value: 15, want: "Medium"},
		"exactly 10":     {value: 10, want: "Low"},
		"just below 10":  {value: 9.9, want: "Minimal"},
		"zero":           {value: 0, want: "Minimal"},
		"negative":       {value: -40, want: "Minimal"},
		"not a number":   {value: math.NaN(), want: "Minimal"},
		"positive inf":   {value: math.Inf(1), want: "Excellent"},
		"negative inf":   {value: math.Inf(-1), want: "Minimal"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := present.ClassifyADTS(tc.value)
			assert.Equal(t, tc.want, got.Label)
			assert.NotEmpty(t, got.Token)
		})
	}
}

func TestClassifyADTSIsTotal(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for v := -100; v <= 200; v++ {
		tier := present.ClassifyADTS(float64(v))
		assert.Contains(t, present.AllTokens, tier.Token)

		seen[tier.Label] = true
	}

	assert.Len(t, seen, 5)
}

func TestClassifyLetter(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"A":  "A-C",
		"c":  "A-C",
		"D":  "D-F",
		"F":  "D-F",
		"G":  "G-I",
		" i": "G-I",
		"J":  "J",
		"K":  "Other",
		"":   "Other",
		"AB": "Other",
		"1":  "Other",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, want, present.ClassifyLetter(in).Label)
		})
	}

	assert.Equal(t, present.TokenMuted, present.ClassifyLetter("Z").Token)
}

func TestFlagLabels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, present.Tier{Label: "Has", Token: present.TokenSuccess}, present.HasLabel(true))
	assert.Equal(t, present.Tier{Label: "None", Token: present.TokenDanger}, present.HasLabel(false))
	assert.Equal(t, present.Tier{Label: "Yes", Token: present.TokenSuccess}, present.YesNoLabel(true))
	assert.Equal(t, present.Tier{Label: "No", Token: present.TokenDanger}, present.YesNoLabel(false))
}

func TestFormatCurrency(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "R$ 1.000.000", present.FormatCurrency(1000000))
	assert.Equal(t, "R$ 0", present.FormatCurrency(0))
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "142", present.FormatNumber(142))
	assert.Equal(t, "12.345", present.FormatNumber(12345))
}

func TestFormatPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "12.7%", present.FormatPercent(12.7))
	assert.Equal(t, "0.0%", present.FormatPercent(0))
	assert.Equal(t, "33.3%", present.FormatPercent(100.0/3))
}

func TestFormatRelative(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "never", present.FormatRelative(time.Time{}, now))
	assert.Equal(t, "3 days ago", present.FormatRelative(now.Add(-72*time.Hour), now))
	assert.Equal(t, "2 hours from now", present.FormatRelative(now.Add(2*time.Hour), now))
}

func TestChartMax(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 35, present.ChartMax(nil))
	assert.Equal(t, 17, present.ChartMax([]int{3, 12, 7}))
}

func TestLabels(t *testing.T) {
	t.Parallel()

	assert.Len(t, present.DayLabels, 7)
	assert.Equal(t, "Tier B", present.LetterLabel("B"))
	assert.Equal(t, "Level IV", present.LevelLabel("IV"))
}

func TestTierIndex(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, present.LetterIndex("a"))
	assert.Equal(t, 9, present.LetterIndex("J"))
	assert.Equal(t, 10, present.LetterIndex("Z"))
	assert.Equal(t, 3, present.LevelIndex("IV"))
	assert.Equal(t, 6, present.LevelIndex("VII"))
}
