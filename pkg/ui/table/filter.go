package table

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/macropower/leads/pkg/customer"
)

// Normalize text to aid in the filtering process. In particular, we remove
// diacritics, "ã" becomes "a". Mn is the unicode key for nonspacing marks.
func Normalize(in string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, in)
	if err != nil {
		return "", fmt.Errorf("error normalizing: %w", err)
	}

	return out, nil
}

func filterValue(c *customer.Customer) string {
	v := strings.Join([]string{c.FullName, c.Email, c.WhatsApp}, " ")

	n, err := Normalize(v)
	if err != nil {
		slog.Error("error normalizing", slog.String("value", v), slog.Any("err", err))

		return v
	}

	return n
}

// QuickFind returns the customers fuzzily matching query, best match first.
// An empty query returns every customer in order.
func QuickFind(query string, customers []customer.Customer) []customer.Customer {
	if query == "" {
		return customers
	}

	targets := make([]string, 0, len(customers))
	for i := range customers {
		targets = append(targets, filterValue(&customers[i]))
	}

	ranks := fuzzy.Find(query, targets)
	sort.Stable(ranks)

	out := make([]customer.Customer, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, customers[r.Index])
	}

	return out
}

// styleFilteredText renders haystack with the runes matched by needles in
// matchedStyle.
func styleFilteredText(haystack, needles string, defaultStyle, matchedStyle lipgloss.Style) string {
	normalizedHay, err := Normalize(haystack)
	if err != nil {
		slog.Error("error normalizing", slog.String("haystack", haystack), slog.Any("err", err))
	}

	matches := fuzzy.Find(needles, []string{normalizedHay})
	if len(matches) == 0 {
		return defaultStyle.Render(haystack)
	}

	matched := make(map[int]bool, len(matches[0].MatchedIndexes))
	for _, i := range matches[0].MatchedIndexes {
		matched[i] = true
	}

	b := strings.Builder{}
	for i, r := range []rune(haystack) {
		if matched[i] {
			b.WriteString(matchedStyle.Render(string(r)))
		} else {
			b.WriteString(defaultStyle.Render(string(r)))
		}
	}

	return b.String()
}
