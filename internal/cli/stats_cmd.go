package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/st8/internal/cli/formatter"
	"github.com/alexanderramin/st8/internal/stats"
)

func newStatsCmd(app *App) *cobra.Command {
	var month monthValue
	var group string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Presence statistics for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			y, m := month.orNow(app.now())
			ms, err := app.Stats.Month(cmd.Context(), y, m, group)
			if err != nil {
				return err
			}
			outln(cmd, formatter.FormatMonthStats(ms))
			return nil
		},
	}

	cmd.Flags().VarP(&month, "month", "m", "Month (default: current month)")
	cmd.PersistentFlags().StringVarP(&group, "group", "g", "", "Only this group")
	cmd.AddCommand(newStatsPeriodsCmd(app, &group))

	return cmd
}

func newStatsPeriodsCmd(app *App, group *string) *cobra.Command {
	var from, to dateValue
	var by string

	cmd := &cobra.Command{
		Use:   "periods",
		Short: "Mean daily presence per week, month or year over a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := stats.ParsePeriod(by)
			if err != nil {
				return err
			}
			rates, err := app.Stats.Periods(cmd.Context(), from.t, to.t, *group, period)
			if err != nil {
				return err
			}
			outln(cmd, formatter.FormatPeriodRates(period, rates))
			return nil
		},
	}

	cmd.Flags().Var(&from, "from", "First day")
	cmd.Flags().Var(&to, "to", "Last day")
	cmd.Flags().StringVar(&by, "by", string(stats.PeriodWeek), "Aggregation: week, month or year")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
