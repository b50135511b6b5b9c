package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/st8/internal/importer"
	"github.com/alexanderramin/st8/internal/roster"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the planning, the roster or a month sheet",
	}

	cmd.AddCommand(
		newExportPlanningCmd(app),
		newExportRosterCmd(app),
		newExportXLSXCmd(app),
	)

	return cmd
}

func newExportPlanningCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "planning",
		Short: "Write the full planning document as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeExport(cmd, output, func(w io.Writer) error {
				return app.Planning.ExportPlanning(cmd.Context(), w)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", importer.PlanningFileName, "Output file, - for stdout")
	return cmd
}

func newExportRosterCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Write the roster and group settings as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeExport(cmd, output, func(w io.Writer) error {
				return app.Roster.ExportRoster(cmd.Context(), w)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", importer.RosterFileName, "Output file, - for stdout")
	return cmd
}

func newExportXLSXCmd(app *App) *cobra.Command {
	var output string
	var month monthValue
	var q queryFlags

	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Write one month of the planning as a colored spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			y, m := month.orNow(app.now())
			if output == "" {
				output = fmt.Sprintf("planning_%04d-%02d.xlsx", y, m)
			}
			return writeExport(cmd, output, func(w io.Writer) error {
				return app.Planning.ExportMonthXLSX(cmd.Context(), w, y, m, q.query(roster.ScopePlanning))
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout (default planning_YYYY-MM.xlsx)")
	cmd.Flags().VarP(&month, "month", "m", "Month (default: current month)")
	q.register(cmd)
	return cmd
}

// writeExport renders into a pipe and replaces path atomically, so a failed
// export never leaves a truncated file behind.
func writeExport(cmd *cobra.Command, path string, render func(io.Writer) error) error {
	if path == "-" {
		return render(cmd.OutOrStdout())
	}

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(render(pw))
	}()
	if err := atomic.WriteFile(path, pr); err != nil {
		_ = pr.CloseWithError(err)
		return fmt.Errorf("write %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	outf(cmd, "Wrote %s (%d bytes)\n", path, info.Size())
	return nil
}
