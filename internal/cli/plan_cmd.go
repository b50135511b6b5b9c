package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/st8/internal/calendar"
	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/planning"
	"github.com/alexanderramin/st8/internal/roster"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Write attendance codes into the planning",
	}

	cmd.AddCommand(
		newPlanSetCmd(app),
		newPlanClearCmd(app),
		newPlanPresentCmd(app),
		newPlanHolidaysCmd(app),
		newPlanCodesCmd(),
	)

	return cmd
}

// rangeFlags select agent-days: one or more agents over an inclusive date
// range.
type rangeFlags struct {
	agents []string
	from   dateValue
	to     dateValue
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.agents, "agent", "a", nil, "Agent matricules (repeatable or comma-separated)")
	cmd.Flags().Var(&f.from, "from", "First day")
	cmd.Flags().Var(&f.to, "to", "Last day (default: --from)")
	_ = cmd.MarkFlagRequired("agent")
	_ = cmd.MarkFlagRequired("from")
}

func (f *rangeFlags) cells() ([]planning.CellRef, error) {
	to := f.to.t
	if !f.to.isSet() {
		to = f.from.t
	}
	if to.Before(f.from.t) {
		return nil, fmt.Errorf("--to %s is before --from %s: %w", calendar.ISO(to), calendar.ISO(f.from.t), domain.ErrInvalidDate)
	}
	var out []planning.CellRef
	for _, id := range splitCSV(f.agents) {
		for d := f.from.t; !d.After(to); d = d.AddDate(0, 0, 1) {
			out = append(out, planning.CellRef{AgentID: id, Date: calendar.ISO(d)})
		}
	}
	return out, nil
}

func newPlanSetCmd(app *App) *cobra.Command {
	var f rangeFlags

	cmd := &cobra.Command{
		Use:   "set CODE",
		Short: "Set a code on a range of days (weekends accept only standby codes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.TrimSpace(args[0])
			if _, ok := domain.LookupStatus(code); !ok {
				return fmt.Errorf("unknown code %q; see 'st8 plan codes'", code)
			}
			return applyRange(cmd, app, &f, code)
		},
	}
	f.register(cmd)
	return cmd
}

func newPlanClearCmd(app *App) *cobra.Command {
	var f rangeFlags

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the codes of a range of days",
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyRange(cmd, app, &f, "")
		},
	}
	f.register(cmd)
	return cmd
}

func applyRange(cmd *cobra.Command, app *App, f *rangeFlags, code string) error {
	ctx := cmd.Context()
	cells, err := f.cells()
	if err != nil {
		return err
	}
	for _, id := range splitCSV(f.agents) {
		if _, _, err := app.Roster.Get(ctx, id); err != nil {
			return err
		}
	}
	res, err := app.Planning.Apply(ctx, cells, code)
	if err != nil {
		return err
	}
	outln(cmd, resultLine(res))
	return nil
}

func newPlanPresentCmd(app *App) *cobra.Command {
	var month monthValue
	var q queryFlags

	cmd := &cobra.Command{
		Use:   "present",
		Short: "Mark every working day present for the visible agents (holidays JF, weekends cleared)",
		RunE: func(cmd *cobra.Command, args []string) error {
			y, m := month.orNow(app.now())
			res, err := app.Planning.SetAllPresent(cmd.Context(), y, m, q.query(roster.ScopePlanning))
			if err != nil {
				return err
			}
			outf(cmd, "%s: %s\n", calendar.FormatMonth(y, m), resultLine(res))
			return nil
		},
	}
	cmd.Flags().VarP(&month, "month", "m", "Month (default: current month)")
	q.register(cmd)
	return cmd
}

func newPlanHolidaysCmd(app *App) *cobra.Command {
	var month monthValue
	var q queryFlags

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Write JF on the month's public holidays and clear its weekends",
		RunE: func(cmd *cobra.Command, args []string) error {
			y, m := month.orNow(app.now())
			res, err := app.Planning.ApplyHolidays(cmd.Context(), y, m, q.query(roster.ScopePlanning))
			if err != nil {
				return err
			}
			outf(cmd, "%s: %s\n", calendar.FormatMonth(y, m), resultLine(res))
			return nil
		},
	}
	cmd.Flags().VarP(&month, "month", "m", "Month (default: current month)")
	q.register(cmd)
	return cmd
}

func newPlanCodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "codes",
		Short: "List the attendance codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range domain.Statuses() {
				weekend := ""
				if domain.AllowedOnWeekend(string(s.Code)) {
					weekend = "  (weekends)"
				}
				outf(cmd, "%-6s %s%s\n", s.Code, s.Label, weekend)
			}
			return nil
		},
	}
}

func resultLine(res planning.Result) string {
	line := fmt.Sprintf("%d cells changed", res.Changed)
	if res.Skipped > 0 {
		line += fmt.Sprintf(", %d weekend cells skipped", res.Skipped)
	}
	return line
}
