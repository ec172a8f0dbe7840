package cli

import (
	"fmt"

	"github.com/alexanderramin/tock/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	var rng rangeFlags
	var by string
	var active bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize recorded time per timer or per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if by != "timer" && by != "day" {
				return fmt.Errorf("--by must be \"timer\" or \"day\", got %q", by)
			}
			from, to, err := rng.resolve(app, 0)
			if err != nil {
				return err
			}

			sum, err := app.Reports.Summary(cmd.Context(), from, to, active)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.RenderRangeHeader(sum.From, sum.To, app.loc()))
			if by == "day" {
				fmt.Fprint(out, formatter.RenderDayTotals(sum.Days, sum.Grouping.Timers, app.loc()))
				return nil
			}
			fmt.Fprint(out, formatter.RenderTimerTotals(sum.Timers, sum.Total))
			return nil
		},
	}

	rng.register(cmd, "Start of the range (default today)")
	cmd.Flags().StringVar(&by, "by", "timer", "Group by \"timer\" or \"day\"")
	cmd.Flags().BoolVar(&active, "active", true, "Include sessions still running")
	return cmd
}
