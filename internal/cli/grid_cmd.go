package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/st8/internal/cli/formatter"
	"github.com/alexanderramin/st8/internal/grid"
	"github.com/alexanderramin/st8/internal/roster"
)

func newGridCmd(app *App) *cobra.Command {
	var month monthValue
	var fortnight dateValue
	var q queryFlags
	var legend bool

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print the planning grid of a month or a fortnight",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := q.query(roster.ScopePlanning)

			var g *grid.Grid
			var err error
			if fortnight.isSet() {
				g, err = app.Planning.Fortnight(ctx, fortnight.t, query)
			} else {
				y, m := month.orNow(app.now())
				g, err = app.Planning.Month(ctx, y, m, query)
			}
			if err != nil {
				return err
			}

			outln(cmd, formatter.Header(g.Title))
			outln(cmd, formatter.RenderGrid(g, formatter.GridOptions{}).Text)
			if legend {
				outln(cmd, "")
				outln(cmd, formatter.FormatLegend())
			}
			return nil
		},
	}

	cmd.Flags().VarP(&month, "month", "m", "Month (default: current month)")
	cmd.Flags().Var(&fortnight, "fortnight", "Show the two weeks starting on the Monday of this day")
	cmd.Flags().BoolVar(&legend, "legend", false, "Print the code legend")
	cmd.MarkFlagsMutuallyExclusive("month", "fortnight")
	q.register(cmd)

	return cmd
}
