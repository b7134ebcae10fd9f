package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/stats"
)

// statsOutput is the encoded form of a stats result.
type statsOutput struct {
	customer.DashboardStats `json:",inline" yaml:",inline"`

	Errors map[stats.Section]string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func NewStatsCmd(root *RootArgs) *cobra.Command {
	var (
		output string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics",
		Long: `Show the total number of customers, new customers today, the daily counts
of the current week, and the distribution across letter and level tiers.

Sections that fail to load show the configured fallback values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := validateOutput(output)
			if err != nil {
				return err
			}

			a, err := root.newApp()
			if err != nil {
				return err
			}

			r := a.statsLoader().Load(cmd.Context())

			out := statsOutput{DashboardStats: r.Stats}

			failed := make([]string, 0, len(r.Errors))
			for _, s := range []stats.Section{stats.SectionTotal, stats.SectionDaily, stats.SectionLetters, stats.SectionLevels} {
				if !r.Failed(s) {
					continue
				}

				if out.Errors == nil {
					out.Errors = map[stats.Section]string{}
				}

				out.Errors[s] = r.Errors[s].Error()
				failed = append(failed, string(s))
			}

			err = writeOutput(cmd.OutOrStdout(), output, out, func() string {
				return renderStats(a.theme, &out.DashboardStats, failed)
			})
			if err != nil {
				return err
			}

			if strict && len(failed) > 0 {
				return fmt.Errorf("load stats: %w", r.Err())
			}

			return nil
		},
	}

	addOutputFlag(cmd, &output)
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any section could not be loaded")

	return cmd
}
