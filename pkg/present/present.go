// Package present maps customer data to display labels, style tokens, and
// formatted values. Every function is total: inputs outside the known
// ranges map to a fallback rather than failing.
package present

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/macropower/leads/pkg/customer"
)

// Token names a display style. Renderers map tokens to concrete styles.
type Token string

const (
	TokenSuccess Token = "success"
	TokenInfo    Token = "info"
	TokenAccent  Token = "accent"
	TokenWarning Token = "warning"
	TokenDanger  Token = "danger"
	TokenMuted   Token = "muted"
)

// AllTokens lists every token, in severity order.
var AllTokens = []Token{TokenSuccess, TokenInfo, TokenAccent, TokenWarning, TokenDanger, TokenMuted}

// Tier is a coarse classification used purely for display.
type Tier struct {
	Label string
	Token Token
}

type threshold struct {
	tier Tier
	min  float64
}

var (
	adtsTiers = []threshold{
		{min: 30, tier: Tier{Label: "Excellent", Token: TokenSuccess}},
		{min: 20, tier: Tier{Label: "High", Token: TokenInfo}},
		{min: 15, tier: Tier{Label: "Medium", Token: TokenAccent}},
		{min: 10, tier: Tier{Label: "Low", Token: TokenWarning}},
	}
	adtsFallback = Tier{Label: "Minimal", Token: TokenMuted}

	letterGroups = []struct {
		letters string
		tier    Tier
	}{
		{letters: "ABC", tier: Tier{Label: "A-C", Token: TokenSuccess}},
		{letters: "DEF", tier: Tier{Label: "D-F", Token: TokenInfo}},
		{letters: "GHI", tier: Tier{Label: "G-I", Token: TokenWarning}},
		{letters: "J", tier: Tier{Label: "J", Token: TokenDanger}},
	}
	letterFallback = Tier{Label: "Other", Token: TokenMuted}

	// The backend reports figures for a Brazilian office.
	printer = message.NewPrinter(language.BrazilianPortuguese)
)

// ClassifyADTS buckets a percentage into one of five ordered tiers:
// at least 30, 20, 15, 10, or anything lower (including NaN).
func ClassifyADTS(v float64) Tier {
	for _, t := range adtsTiers {
		if v >= t.min {
			return t.tier
		}
	}

	return adtsFallback
}

// ClassifyLetter groups a letter tier as A-C, D-F, G-I, J, or other.
func ClassifyLetter(s string) Tier {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 {
		return letterFallback
	}

	for _, g := range letterGroups {
		if strings.Contains(g.letters, s) {
			return g.tier
		}
	}

	return letterFallback
}

// HasLabel labels a has/has-not flag.
func HasLabel(b bool) Tier {
	if b {
		return Tier{Label: "Has", Token: TokenSuccess}
	}

	return Tier{Label: "None", Token: TokenDanger}
}

// YesNoLabel labels a yes/no flag.
func YesNoLabel(b bool) Tier {
	if b {
		return Tier{Label: "Yes", Token: TokenSuccess}
	}

	return Tier{Label: "No", Token: TokenDanger}
}

// FormatCurrency formats v in Brazilian reais, e.g. "R$ 1.000.000".
func FormatCurrency(v float64) string {
	return printer.Sprintf("R$ %v", number.Decimal(v, number.MaxFractionDigits(2)))
}

// FormatNumber formats n with locale thousands separators.
func FormatNumber(n int) string {
	return printer.Sprintf("%v", number.Decimal(n))
}

// FormatPercent formats v with one decimal place, e.g. "12.7%".
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// FormatRelative describes t relative to now, e.g. "3 days ago".
// The zero time is rendered as "never".
func FormatRelative(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}

	return humanize.RelTime(t, now, "ago", "from now")
}

// DayLabels are the axis labels of the seven-day series, Sunday first.
var DayLabels = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// LetterLabel labels a letter tier in charts.
func LetterLabel(letter string) string {
	return "Tier " + letter
}

// LevelLabel labels a level tier in charts.
func LevelLabel(level string) string {
	return "Level " + level
}

// LetterIndex returns the chart position of a letter tier. Unknown tiers
// sort after every known one.
func LetterIndex(letter string) int {
	return index(customer.Letters, strings.ToUpper(strings.TrimSpace(letter)))
}

// LevelIndex returns the chart position of a level tier. Unknown tiers sort
// after every known one.
func LevelIndex(level string) int {
	return index(customer.Levels, strings.ToUpper(strings.TrimSpace(level)))
}

func index(known []string, v string) int {
	i := slices.Index(known, v)
	if i < 0 {
		return len(known)
	}

	return i
}

// ChartMax returns the upper bound of a chart axis: five above the largest
// value, or above 30 for an empty series.
func ChartMax(values []int) int {
	if len(values) == 0 {
		return 35
	}

	return slices.Max(values) + 5
}
