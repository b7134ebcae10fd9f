package rule

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/cel-go/cel"
	"github.com/invopop/jsonschema"

	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/expr"
	"github.com/macropower/leads/pkg/present"
)

// Rule highlights the customers matched by a CEL expression.
//
// The expression has access to the `customer` variable, keyed by the
// record's JSON field names, and must return a boolean value:
//   - customer.adtsAtual >= 30.0 - high performers
//   - customer.possuiProcessos && customer.nivel in ["I", "II"] - junior with lawsuits
//   - daysSince(customer.createdAt) < 7 - created this week
//   - letterGroup(customer.letraAtual) == "J" - lowest letter tier
//
// A rule that fails to evaluate for a customer does not match it.
type Rule struct {
	matchProgram cel.Program

	// Name describes the rule in the legend.
	Name string `json:"name" jsonschema:"title=Name"`
	// Match is a CEL expression selecting customers.
	Match string `json:"match" jsonschema:"title=Match Expression"`
	// Style is the display token applied to matched rows.
	Style present.Token `json:"style" jsonschema:"title=Style"`
}

// New creates a new rule with the given name, match expression, and style.
func New(name, match string, style present.Token) (*Rule, error) {
	r := &Rule{
		Name:  name,
		Match: match,
		Style: style,
	}
	if err := r.CompileMatch(); err != nil {
		return nil, fmt.Errorf("rule %q: %w", name, err)
	}

	return r, nil
}

// MustNew creates a new rule and panics if there's an error.
func MustNew(name, match string, style present.Token) *Rule {
	r, err := New(name, match, style)
	if err != nil {
		panic(err)
	}

	return r
}

// CompileMatch compiles the rule's match expression into a CEL program.
func (r *Rule) CompileMatch() error {
	if r.matchProgram != nil {
		return nil
	}

	if !slices.Contains(present.AllTokens, r.Style) {
		return fmt.Errorf("unknown style %q", r.Style)
	}

	program, err := expr.Default.Compile(r.Match)
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	r.matchProgram = program

	return nil
}

// Matches reports whether the rule applies to c.
func (r *Rule) Matches(c *customer.Customer) bool {
	if r.matchProgram == nil {
		panic(errors.New("rule missing a compiled match expression"))
	}

	ok, err := expr.Match(r.matchProgram, c)
	if err != nil {
		slog.Debug("rule evaluation failed",
			slog.String("rule", r.Name),
			slog.Int("customer", c.ID),
			slog.Any("err", err),
		)

		return false
	}

	return ok
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s (%s): %s", r.Name, r.Style, r.Match)
}

// JSONSchemaExtend restricts the style to the known tokens.
func (Rule) JSONSchemaExtend(jss *jsonschema.Schema) {
	style, ok := jss.Properties.Get("style")
	if !ok {
		panic("style property not found in schema")
	}

	for _, tk := range present.AllTokens {
		style.Enum = append(style.Enum, string(tk))
	}

	_, _ = jss.Properties.Set("style", style)
}

// Rules is an ordered list of rules. The first matching rule wins.
type Rules []*Rule

// Compile compiles every rule.
func (rs Rules) Compile() error {
	var errs []error

	for i, r := range rs {
		if err := r.CompileMatch(); err != nil {
			errs = append(errs, fmt.Errorf("highlights[%d] %q: %w", i, r.Name, err))
		}
	}

	return errors.Join(errs...)
}

// For returns the first rule matching c, or nil.
func (rs Rules) For(c *customer.Customer) *Rule {
	for _, r := range rs {
		if r.Matches(c) {
			return r
		}
	}

	return nil
}
