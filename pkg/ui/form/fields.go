// Package form builds the customer create, edit, and delete forms.
package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/huh"

	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/ui/theme"
	"github.com/macropower/leads/pkg/yaml"
)

// Fields holds the editable values of a customer as bound by the form.
type Fields struct {
	FullName    string
	Email       string
	WhatsApp    string
	Letter      string
	Level       string
	ADTS        string
	YearJoined  string
	HasLawsuits bool
	Conditions  bool
	Newsletter  bool
}

// FieldsFrom returns the [Fields] of c.
func FieldsFrom(c *customer.Customer) *Fields {
	f := &Fields{
		FullName:    c.FullName,
		Email:       c.Email,
		WhatsApp:    c.WhatsApp,
		Letter:      c.Letter,
		Level:       c.Level,
		ADTS:        strconv.FormatFloat(c.ADTS, 'f', -1, 64),
		HasLawsuits: c.HasLawsuits,
		Conditions:  c.Conditions,
		Newsletter:  c.Newsletter,
	}
	if c.YearJoined != 0 {
		f.YearJoined = strconv.Itoa(c.YearJoined)
	}

	return f
}

// Apply returns base with the values of f. The identifier and timestamps of
// base are kept.
func (f *Fields) Apply(base customer.Customer) (customer.Customer, error) {
	adts, err := parseADTS(f.ADTS)
	if err != nil {
		return base, err
	}

	year, err := parseYear(f.YearJoined)
	if err != nil {
		return base, err
	}

	base.FullName = strings.TrimSpace(f.FullName)
	base.Email = strings.TrimSpace(f.Email)
	base.WhatsApp = strings.TrimSpace(f.WhatsApp)
	base.Letter = f.Letter
	base.Level = f.Level
	base.ADTS = adts
	base.YearJoined = year
	base.HasLawsuits = f.HasLawsuits
	base.Conditions = f.Conditions
	base.Newsletter = f.Newsletter

	return base, nil
}

// CreateRequest returns a validated [customer.CreateRequest] from f.
func (f *Fields) CreateRequest() (*customer.CreateRequest, error) {
	c, err := f.Apply(customer.Customer{})
	if err != nil {
		return nil, err
	}

	req := c.CreateRequest()

	err = customer.Validate(req)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already describes the fields.
	}

	return req, nil
}

// UpdateRequest returns a validated [customer.UpdateRequest] holding the
// fields of f that differ from prev, together with the updated customer.
func (f *Fields) UpdateRequest(prev customer.Customer) (*customer.UpdateRequest, customer.Customer, error) {
	next, err := f.Apply(prev)
	if err != nil {
		return nil, prev, err
	}

	u := customer.Diff(&prev, &next)

	err = customer.Validate(u)
	if err != nil {
		return nil, prev, err //nolint:wrapcheck // Already describes the fields.
	}

	return u, next, nil
}

func parseADTS(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, nil
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("adts: %q is not a number", s)
	}

	if v < 0 || v > 100 {
		return 0, errors.New("adts: must be between 0 and 100")
	}

	return v, nil
}

func parseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("year: %q is not a number", s)
	}

	if v < 1950 || v > 2100 {
		return 0, errors.New("year: must be between 1950 and 2100")
	}

	return v, nil
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("name is required")
	}

	return nil
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("email is required")
	}

	if !strings.Contains(s, "@") {
		return errors.New("email must contain @")
	}

	return nil
}

// NewCustomerForm returns a form editing f in place.
func NewCustomerForm(t *theme.Theme, title string, f *Fields) *huh.Form {
	if f.Letter == "" {
		f.Letter = customer.Letters[0]
	}
	if f.Level == "" {
		f.Level = customer.Levels[0]
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(title),
			huh.NewInput().
				Key("nomeCompleto").
				Title("Name").
				Value(&f.FullName).
				Validate(validateName),
			huh.NewInput().
				Key("email").
				Title("Email").
				Placeholder("name@example.com").
				Value(&f.Email).
				Validate(validateEmail),
			huh.NewInput().
				Key("whatsapp").
				Title("WhatsApp").
				Placeholder("+55 11 99999-0000").
				Value(&f.WhatsApp),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("letraAtual").
				Title("Letter").
				Options(huh.NewOptions(customer.Letters...)...).
				Value(&f.Letter),
			huh.NewSelect[string]().
				Key("nivel").
				Title("Level").
				Options(huh.NewOptions(customer.Levels...)...).
				Value(&f.Level),
			huh.NewInput().
				Key("adtsAtual").
				Title("ADTS (%)").
				Value(&f.ADTS).
				Validate(func(s string) error {
					_, err := parseADTS(s)
					return err
				}),
			huh.NewInput().
				Key("anoIngresso").
				Title("Year joined").
				Value(&f.YearJoined).
				Validate(func(s string) error {
					_, err := parseYear(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewConfirm().Key("possuiProcessos").Title("Has lawsuits?").Value(&f.HasLawsuits),
			huh.NewConfirm().Key("conditions").Title("Accepted conditions?").Value(&f.Conditions),
			huh.NewConfirm().Key("newsletter").Title("Newsletter?").Value(&f.Newsletter),
		),
	).
		WithShowHelp(true).
		WithTheme(t.FormTheme())
}

// NewConfirmForm returns a yes/no form with an optional description.
func NewConfirmForm(t *theme.Theme, title, description string, confirm *bool) *huh.Form {
	return confirmForm(t.FormTheme(), title, description, confirm)
}

// NewDeleteForm asks to confirm the permanent removal of c.
func NewDeleteForm(t *theme.Theme, c *customer.Customer, confirm *bool) *huh.Form {
	return confirmForm(t.DangerFormTheme(),
		fmt.Sprintf("Delete %s?", c.FullName),
		fmt.Sprintf("Customer #%d (%s) will be removed permanently.", c.ID, c.Email),
		confirm)
}

func confirmForm(ht *huh.Theme, title, description string, confirm *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(confirm),
		),
	).
		WithShowHelp(false).
		WithTheme(ht)
}

// Diff returns a unified diff of the YAML forms of prev and next. It is
// empty when they are equal.
func Diff(prev, next customer.Customer) (string, error) {
	a, err := yaml.Marshal(prev)
	if err != nil {
		return "", fmt.Errorf("encode customer: %w", err)
	}

	b, err := yaml.Marshal(next)
	if err != nil {
		return "", fmt.Errorf("encode customer: %w", err)
	}

	label := fmt.Sprintf("customer/%d", prev.ID)

	return udiff.Unified(label, label, string(a), string(b)), nil
}

// StyleDiff colors the added and removed lines of a unified diff.
func StyleDiff(t *theme.Theme, diff string) string {
	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = t.SubtleStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = t.InsertedStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = t.DeletedStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = t.LineNumberStyle.Render(line)
		}
	}

	return strings.Join(lines, "\n")
}
