package expr

import (
	"time"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"

	"github.com/macropower/leads/pkg/present"
)

// Now is used by daysSince. Tests may replace it.
var Now = time.Now

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Math(),
		ext.Strings(),
		ext.Lists(),

		// `adtsTier` returns the display tier of an ADTS percentage.
		// Example: adtsTier(customer.adtsAtual) in ["Excellent", "High"].
		cel.Function("adtsTier",
			cel.Overload("adts_tier_double", []*cel.Type{cel.DoubleType}, cel.StringType,
				cel.UnaryBinding(func(v ref.Val) ref.Val {
					f, ok := v.(types.Double)
					if !ok {
						return types.NewErr("adtsTier: invalid double value")
					}

					return types.String(present.ClassifyADTS(float64(f)).Label)
				}),
			),
		),

		// `letterGroup` returns the group label of a letter tier.
		// Example: letterGroup(customer.letraAtual) == "A-C".
		cel.Function("letterGroup",
			cel.Overload("letter_group_string", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(v ref.Val) ref.Val {
					s, ok := v.(types.String)
					if !ok {
						return types.NewErr("letterGroup: invalid string value")
					}

					return types.String(present.ClassifyLetter(string(s)).Label)
				}),
			),
		),

		// `daysSince` returns the number of whole days since a timestamp.
		// Example: daysSince(customer.createdAt) < 7.
		cel.Function("daysSince",
			cel.Overload("days_since_timestamp", []*cel.Type{cel.TimestampType}, cel.IntType,
				cel.UnaryBinding(func(v ref.Val) ref.Val {
					ts, ok := v.(types.Timestamp)
					if !ok {
						return types.NewErr("daysSince: invalid timestamp value")
					}

					return types.Int(Now().Sub(ts.Time) / (24 * time.Hour))
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}
