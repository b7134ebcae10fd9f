package rule

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/expr"
)

// Filter keeps the customers accepted by a CEL expression.
type Filter struct {
	program    cel.Program
	expression string
}

// NewFilter compiles expression into a [Filter].
func NewFilter(expression string) (*Filter, error) {
	program, err := expr.Default.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", expression, err)
	}

	return &Filter{program: program, expression: expression}, nil
}

// Apply returns the customers the filter accepts, in order. Unlike
// [Rule.Matches], evaluation errors are returned.
func (f *Filter) Apply(customers []customer.Customer) ([]customer.Customer, error) {
	out := make([]customer.Customer, 0, len(customers))

	for i := range customers {
		ok, err := expr.Match(f.program, &customers[i])
		if err != nil {
			return nil, fmt.Errorf("filter %q on customer %d: %w", f.expression, customers[i].ID, err)
		}

		if ok {
			out = append(out, customers[i])
		}
	}

	return out, nil
}

func (f *Filter) String() string {
	return f.expression
}
