package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"

	"github.com/macropower/leads/pkg/api"
	"github.com/macropower/leads/pkg/customer"
)

// ErrorHandler renders command errors for fang. Validation errors list each
// rejected field on its own line.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	body := lipgloss.NewStyle().MarginLeft(2)

	msg := err.Error()

	var ve *customer.ValidationError
	if errors.As(err, &ve) && len(ve.Fields) > 0 {
		lines := []string{customer.ErrInvalid.Error() + ":"}
		for _, fe := range ve.Fields {
			lines = append(lines, "• "+fe.String())
		}

		msg = strings.Join(lines, "\n")
	}

	mustN(fmt.Fprintln(w, styles.ErrorHeader.String()))
	mustN(fmt.Fprintln(w, body.Render(msg)))

	mustN(fmt.Fprintln(w))

	switch {
	case isUsageError(err):
		mustN(fmt.Fprintln(w, hint(styles, "--help", "for usage.")))
		mustN(fmt.Fprintln(w))
	case errors.Is(err, api.ErrNetwork):
		mustN(fmt.Fprintln(w, hint(styles, "--api-url", "to point at a reachable backend.")))
		mustN(fmt.Fprintln(w))
	}
}

func hint(styles fang.Styles, flag, text string) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		styles.ErrorText.UnsetWidth().Render("Try"),
		styles.Program.Flag.Render(flag),
		styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render(text),
	)
}

// XXX: this is a hack to detect usage errors.
// See: https://github.com/spf13/cobra/pull/2266
func isUsageError(err error) bool {
	s := err.Error()
	for _, prefix := range []string{
		"flag needs an argument:",
		"unknown flag:",
		"unknown shorthand flag:",
		"unknown command",
		"invalid argument",
		"accepts ",
		"requires ",
	} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustN(_ int, err error) {
	must(err)
}
